package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tamarw/takziv-bot/ledger"
)

// GetLedger loads and normalizes a ledger document. Absent keys return
// (nil, nil).
func GetLedger(ctx context.Context, s Store, key string) (*ledger.Ledger, error) {
	doc, ok, err := s.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("loading ledger %q: %w", key, err)
	}
	if !ok {
		return nil, nil
	}
	var l ledger.Ledger
	if err := json.Unmarshal(doc, &l); err != nil {
		return nil, fmt.Errorf("decoding ledger %q: %w", key, err)
	}
	l.Normalize()
	return &l, nil
}

func PutLedger(ctx context.Context, s Store, key string, l *ledger.Ledger) error {
	doc, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encoding ledger %q: %w", key, err)
	}
	if err := s.Put(ctx, key, doc); err != nil {
		return fmt.Errorf("storing ledger %q: %w", key, err)
	}
	return nil
}

// GetSession loads a sender's session record. Absent keys return (nil, nil).
func GetSession(ctx context.Context, s Store, sender ledger.SenderID) (*ledger.Session, error) {
	doc, ok, err := s.Get(ctx, SessionKey(string(sender)))
	if err != nil {
		return nil, fmt.Errorf("loading session for %s: %w", sender, err)
	}
	if !ok {
		return nil, nil
	}
	var sess ledger.Session
	if err := json.Unmarshal(doc, &sess); err != nil {
		return nil, fmt.Errorf("decoding session for %s: %w", sender, err)
	}
	return &sess, nil
}

func PutSession(ctx context.Context, s Store, sender ledger.SenderID, sess *ledger.Session) error {
	doc, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session for %s: %w", sender, err)
	}
	if err := s.Put(ctx, SessionKey(string(sender)), doc); err != nil {
		return fmt.Errorf("storing session for %s: %w", sender, err)
	}
	return nil
}
