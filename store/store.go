// Package store persists ledgers and sessions as flat JSON documents under
// string keys. The durable backend is Postgres; an in-process cache takes
// over transparently whenever the database is unreachable.
package store

import "context"

// Store is the get/put/exists contract every backend satisfies. Get reports
// absence through the boolean, not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, doc []byte) error
	Exists(ctx context.Context, key string) (bool, error)
}

// LedgerKey is the document key of a group ledger.
func LedgerKey(code string) string { return "ledger:" + code }

// PersonalLedgerKey is the document key of a sender's personal ledger.
func PersonalLedgerKey(sender string) string { return "ledger:personal:" + sender }

// SessionKey is the document key of a sender's session record.
func SessionKey(sender string) string { return "session:" + sender }
