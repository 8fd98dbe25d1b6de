// Package events publishes domain events after successful mutations.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TopicUsers = "user_events"
	TopicItems = "item_events"
	TopicCart  = "cart_events"
	TopicMail  = "mail_outbox"
)

const (
	UserSignedUp       = "user_signed_up"
	PermissionsUpdated = "permissions_updated"
	PasswordReset      = "password_reset"
	ItemCreated        = "item_created"
	ItemUpdated        = "item_updated"
	ItemDeleted        = "item_deleted"
	CartItemAdded      = "cart_item_added"
)

const publishTimeout = 5 * time.Second

type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"userId"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data,omitempty"`
}

func New(eventType, userID string, data any) Event {
	return Event{Type: eventType, UserID: userID, OccurredAt: time.Now().UTC(), Data: data}
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
	Close() error
}

// KafkaPublisher writes JSON messages to any topic through one shared writer.
type KafkaPublisher struct {
	w *kafka.Writer
}

func NewKafkaPublisher(brokers []string) *KafkaPublisher {
	return &KafkaPublisher{w: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           publishTimeout,
	}}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	msg := kafka.Message{Topic: topic, Key: []byte(key), Value: data}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write to %s failed: %w", topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// Nop drops every message. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, any) error { return nil }
func (Nop) Close() error                                       { return nil }
