package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"
)

//go:embed schema.sql
var schemaSQL string

// Postgres stores documents in a single key/jsonb table.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps an open database handle, verifies connectivity and
// applies the schema.
func NewPostgres(db *sql.DB) (*Postgres, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := `SELECT doc FROM documents WHERE key = $1`

	var doc []byte
	err := p.db.QueryRowContext(ctx, query, key).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying document: %w", err)
	}
	return doc, true, nil
}

func (p *Postgres) Put(ctx context.Context, key string, doc []byte) error {
	query := `
        INSERT INTO documents (key, doc, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (key) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()
    `
	if _, err := p.db.ExecContext(ctx, query, key, doc); err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}
	return nil
}

func (p *Postgres) Exists(ctx context.Context, key string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM documents WHERE key = $1)`

	var exists bool
	if err := p.db.QueryRowContext(ctx, query, key).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking document: %w", err)
	}
	return exists, nil
}

// Ping reports current connectivity; the fallback wrapper probes with it.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
