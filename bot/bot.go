// Package bot classifies inbound messages into intents and applies them to
// the sender's active ledger.
package bot

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tamarw/takziv-bot/eventlogger"
	"github.com/tamarw/takziv-bot/ledger"
	"github.com/tamarw/takziv-bot/store"
)

// Prober is re-checked at the start of each request so a degraded store can
// upgrade back to durable mode.
type Prober interface {
	Probe(ctx context.Context)
}

// Bot wires the intent dispatcher to the ledger store and the event log.
type Bot struct {
	store        store.Store
	probe        Prober
	events       *eventlogger.Worker
	strictBudget bool

	locks   keyedMutex
	intents []matcher
}

// Option configures a Bot.
type Option func(*Bot)

// WithProber installs the store connectivity probe.
func WithProber(p Prober) Option {
	return func(b *Bot) { b.probe = p }
}

// WithStrictBudget makes overspending a rejected error instead of a flagged
// warning.
func WithStrictBudget() Option {
	return func(b *Bot) { b.strictBudget = true }
}

func New(s store.Store, events *eventlogger.Worker, opts ...Option) *Bot {
	b := &Bot{
		store:  s,
		events: events,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.intents = b.buildIntents()
	return b
}

// request carries one inbound message through dispatch. norm is the
// lowercased text the matchers run against; text keeps the sender's casing
// for free-text fields.
type request struct {
	sender ledger.SenderID
	text   string
	norm   string
}

// HandleMessage classifies text and returns the reply. It never panics
// through to the transport: any handler failure becomes a generic glitch
// reply.
func (b *Bot) HandleMessage(ctx context.Context, sender ledger.SenderID, text string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("handler panic", "panic", r, "sender", sender)
			reply = replyGlitch
		}
	}()

	if b.probe != nil {
		b.probe.Probe(ctx)
	}

	r := &request{
		sender: sender,
		text:   strings.TrimSpace(text),
		norm:   strings.ToLower(strings.TrimSpace(text)),
	}
	for _, m := range b.intents {
		if m.match(r) {
			b.logEvent("message."+m.name, r.sender, "", nil)
			return m.handle(ctx, r)
		}
	}
	// Unreachable: the last matcher accepts everything.
	return replyHelp
}

// withLedger runs fn on the sender's active ledger under its lock and
// persists the ledger when fn reports a mutation. The active ledger is
// created lazily on first contact.
func (b *Bot) withLedger(ctx context.Context, sender ledger.SenderID, fn func(l *ledger.Ledger) (string, bool)) (string, error) {
	key, err := b.activeLedgerKey(ctx, sender)
	if err != nil {
		return "", err
	}

	unlock := b.locks.lock(key)
	defer unlock()

	l, err := store.GetLedger(ctx, b.store, key)
	if err != nil {
		return "", err
	}
	if l == nil {
		l = ledger.New(groupCode(key), sender)
	}

	reply, mutated := fn(l)
	if mutated {
		if err := store.PutLedger(ctx, b.store, key, l); err != nil {
			return "", err
		}
	}
	return reply, nil
}

// runLedger is withLedger with errors folded into the glitch reply.
func (b *Bot) runLedger(ctx context.Context, r *request, fn func(l *ledger.Ledger) (string, bool)) string {
	reply, err := b.withLedger(ctx, r.sender, fn)
	if err != nil {
		slog.Error("ledger operation failed", "sender", r.sender, "error", err)
		return replyGlitch
	}
	return reply
}

// activeLedgerKey resolves which ledger the sender operates on; senders
// without a session record are on their personal ledger.
func (b *Bot) activeLedgerKey(ctx context.Context, sender ledger.SenderID) (string, error) {
	sess, err := store.GetSession(ctx, b.store, sender)
	if err != nil {
		return "", err
	}
	if sess == nil || sess.ActiveLedger == "" {
		return store.PersonalLedgerKey(string(sender)), nil
	}
	return sess.ActiveLedger, nil
}

func (b *Bot) setActiveLedger(ctx context.Context, sender ledger.SenderID, key string) error {
	return store.PutSession(ctx, b.store, sender, &ledger.Session{ActiveLedger: key})
}

// groupCode recovers the invite code from a group ledger key, and "" for
// personal keys.
func groupCode(key string) string {
	if strings.HasPrefix(key, "ledger:personal:") {
		return ""
	}
	return strings.TrimPrefix(key, "ledger:")
}

const (
	inviteCodeLength  = 6
	inviteCodeCharset = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
)

var errNoFreeInviteCode = errors.New("could not generate a free invite code")

// newInviteCode draws random codes until one is unused, giving up after a
// few attempts rather than silently reusing a taken code.
func (b *Bot) newInviteCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		buf := make([]byte, inviteCodeLength)
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generating invite code: %w", err)
		}
		for i, c := range buf {
			buf[i] = inviteCodeCharset[int(c)%len(inviteCodeCharset)]
		}
		code := string(buf)

		taken, err := b.store.Exists(ctx, store.LedgerKey(code))
		if err != nil {
			return "", fmt.Errorf("checking invite code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", errNoFreeInviteCode
}

// logEvent queues an audit event; it never blocks message handling.
func (b *Bot) logEvent(eventType string, sender ledger.SenderID, ledgerKey string, data map[string]string) {
	if b.events == nil {
		return
	}
	opts := []eventlogger.EventOption{
		eventlogger.WithType(eventType),
		eventlogger.WithSender(string(sender)),
	}
	if ledgerKey != "" {
		opts = append(opts, eventlogger.WithLedger(ledgerKey))
	}
	if data != nil {
		opts = append(opts, eventlogger.WithData(data))
	}
	b.events.Log(eventlogger.NewEvent(opts...))
}
