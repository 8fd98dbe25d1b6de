// Package notify hands reset e-mails to an out-of-process mailer.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/Skotchmaster/sickfits/internal/events"
	"github.com/Skotchmaster/sickfits/pkg/logging"
)

// Reset is a rendered password-reset message.
type Reset struct {
	From    string `json:"from"`
	Email   string `json:"to"`
	Token   string `json:"-"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type Notifier interface {
	SendReset(ctx context.Context, msg Reset) error
}

const resetBody = `<div class="email" style="border: 1px solid black; padding: 20px; font-family: sans-serif; line-height: 2; font-size: 20px;">
  <h2>Hello there!</h2>
  <p>Your password reset token is here.</p>
  <p><a href="{{.Link}}">Click here to reset</a></p>
</div>`

var resetTmpl = template.Must(template.New("reset").Parse(resetBody))

// Template renders reset messages that link back to the storefront.
type Template struct {
	FrontendURL string
	From        string
}

func (t Template) Compose(email, token string) (Reset, error) {
	link := strings.TrimRight(t.FrontendURL, "/") + "/reset?resetToken=" + url.QueryEscape(token)

	var buf bytes.Buffer
	if err := resetTmpl.Execute(&buf, struct{ Link string }{Link: link}); err != nil {
		return Reset{}, fmt.Errorf("render reset mail: %w", err)
	}

	return Reset{
		From:    t.From,
		Email:   email,
		Token:   token,
		Subject: "Your Password Reset Token",
		HTML:    buf.String(),
	}, nil
}

// Outbox queues messages on the mail topic for a mailer to deliver.
type Outbox struct {
	Pub events.Publisher
}

func (o Outbox) SendReset(ctx context.Context, msg Reset) error {
	if err := o.Pub.Publish(ctx, events.TopicMail, msg.Email, msg); err != nil {
		return fmt.Errorf("queue reset mail: %w", err)
	}
	return nil
}

// Log only records that a message would have been sent.
type Log struct{}

func (Log) SendReset(ctx context.Context, msg Reset) error {
	logging.FromContext(ctx).Info("reset_mail_queued", "to", msg.Email, "subject", msg.Subject)
	return nil
}
