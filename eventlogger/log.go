package eventlogger

import (
	"context"
	"log/slog"
)

type logSink struct{}

// NewLogSink writes events to the structured log. Used when the bot runs
// without a database.
func NewLogSink() *logSink {
	return &logSink{}
}

func (s *logSink) Save(_ context.Context, e Event) error {
	slog.Info("event",
		"event_id", e.ID,
		"event_type", e.Type,
		"event_data", e.Data,
		"event_metadata", e.Metadata,
	)
	return nil
}
