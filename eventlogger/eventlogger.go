// Package eventlogger records what happened to each ledger as an async
// audit trail, without ever blocking message handling.
package eventlogger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID        uuid.UUID         `json:"id,omitempty"`
	Type      string            `json:"event_type,omitempty"`
	Data      any               `json:"event_data,omitempty"`
	Metadata  map[string]string `json:"event_metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type EventOption func(*Event)

func WithType(eventType string) EventOption {
	return func(e *Event) {
		e.Type = eventType
	}
}

func WithData(data any) EventOption {
	return func(e *Event) {
		e.Data = data
	}
}

// WithSender tags the event with the sender it originated from.
func WithSender(sender string) EventOption {
	return func(e *Event) {
		e.Metadata["sender"] = sender
	}
}

// WithLedger tags the event with the ledger key it touched.
func WithLedger(key string) EventOption {
	return func(e *Event) {
		e.Metadata["ledger"] = key
	}
}

func NewEvent(opts ...EventOption) Event {
	e := Event{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Metadata:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Sink is where the worker drains events to.
type Sink interface {
	Save(ctx context.Context, e Event) error
}
