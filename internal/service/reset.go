package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/sickfits/internal/domain"
	"github.com/Skotchmaster/sickfits/internal/notify"
	"github.com/Skotchmaster/sickfits/internal/repo"
	"github.com/Skotchmaster/sickfits/pkg/hash"
	"github.com/Skotchmaster/sickfits/pkg/logging"
	"github.com/Skotchmaster/sickfits/pkg/tokens"
)

const (
	resetTokenBytes    = 20
	resetTokenAttempts = 3

	DefaultResetTTL   = time.Hour
	DefaultResetGrace = time.Hour
)

type ResetService struct {
	Repo     *repo.GormRepo
	Hasher   *hash.Hasher
	Tokens   *tokens.Issuer
	Notifier notify.Notifier
	Template notify.Template

	// Now, TTL and Grace default to time.Now, DefaultResetTTL and
	// DefaultResetGrace. A token is accepted while its expiry is no earlier
	// than now minus Grace.
	Now   func() time.Time
	TTL   time.Duration
	Grace time.Duration
}

func (s *ResetService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *ResetService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultResetTTL
}

func (s *ResetService) grace() time.Duration {
	if s.Grace > 0 {
		return s.Grace
	}
	return DefaultResetGrace
}

func newResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// RequestReset stores a fresh token for the account and hands it to the
// notifier. Delivery failures are logged and never change the result.
func (s *ResetService) RequestReset(ctx context.Context, email string) error {
	l := logging.FromContext(ctx).With("svc", "reset.request")

	user, err := s.Repo.UserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		l.Warn("reset_request_failed", "error", err)
		return err
	}

	expiry := s.now().Add(s.ttl())
	var token string
	for attempt := 1; ; attempt++ {
		if token, err = newResetToken(); err != nil {
			return fmt.Errorf("%w: reset token: %v", domain.ErrInfrastructure, err)
		}
		err = s.Repo.SetResetToken(ctx, user.ID, token, expiry)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicate) || attempt == resetTokenAttempts {
			return err
		}
	}
	l.Info("reset_requested", "user_id", user.ID, "expires_at", expiry)

	msg, err := s.Template.Compose(user.Email, token)
	if err == nil {
		err = s.Notifier.SendReset(ctx, msg)
	}
	if err != nil {
		l.Error("reset_mail_failed", "user_id", user.ID, "error", err)
	}
	return nil
}

func (s *ResetService) ResetPassword(ctx context.Context, resetToken, password, confirm string) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "reset.password")

	if password != confirm {
		return nil, domain.ErrMismatch
	}
	if resetToken == "" {
		return nil, domain.ErrInvalidOrExpiredToken
	}

	digest, err := hashPassword(s.Hasher, password)
	if err != nil {
		return nil, err
	}

	user, err := s.Repo.ConsumeResetToken(ctx, resetToken, s.now().Add(-s.grace()), digest)
	if err != nil {
		l.Warn("reset_password_failed", "error", err)
		return nil, err
	}

	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: issue session: %v", domain.ErrInfrastructure, err)
	}

	l.Info("password_reset", "user_id", user.ID)
	return &Session{User: user, Token: token}, nil
}
