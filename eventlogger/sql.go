package eventlogger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

const eventsDDL = `
CREATE TABLE IF NOT EXISTS events (
    id             UUID PRIMARY KEY,
    event_type     TEXT NOT NULL,
    event_data     JSONB,
    event_metadata JSONB,
    created_at     TIMESTAMPTZ NOT NULL
)`

type sqlSink struct {
	db *sql.DB
}

// NewSqlSink stores events in an events table, creating it if needed.
func NewSqlSink(db *sql.DB) (*sqlSink, error) {
	if _, err := db.Exec(eventsDDL); err != nil {
		return nil, fmt.Errorf("creating events table: %w", err)
	}
	return &sqlSink{db: db}, nil
}

func (s *sqlSink) Save(ctx context.Context, e Event) error {
	jsonData, err := json.Marshal(e.Data)
	if err != nil {
		return err
	}
	jsonMetadata, err := json.Marshal(e.Metadata)
	if err != nil {
		return err
	}
	statement := `INSERT INTO events (id, event_type, event_data, event_metadata, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err = s.db.ExecContext(ctx, statement, e.ID, e.Type, jsonData, jsonMetadata, e.CreatedAt)
	if err != nil {
		return err
	}

	return nil
}
