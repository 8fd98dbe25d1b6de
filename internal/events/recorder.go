package events

import (
	"context"
	"sync"
)

// Message is one publish call captured by a Recorder.
type Message struct {
	Topic   string
	Key     string
	Payload any
}

// Recorder keeps published messages in memory. It backs tests and local runs
// that want to inspect what would have been sent.
type Recorder struct {
	mu   sync.Mutex
	msgs []Message
	Err  error
}

func (r *Recorder) Publish(_ context.Context, topic, key string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.msgs = append(r.msgs, Message{Topic: topic, Key: key, Payload: payload})
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.msgs...)
}

// Types lists the Type of every recorded Event on topic, in publish order.
func (r *Recorder) Types(topic string) []string {
	var out []string
	for _, m := range r.Messages() {
		if m.Topic != topic {
			continue
		}
		if ev, ok := m.Payload.(Event); ok {
			out = append(out, ev.Type)
		}
	}
	return out
}
