package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tamarw/takziv-bot/ledger"
	"github.com/tamarw/takziv-bot/store"
)

func (b *Bot) handleOpenGroup(ctx context.Context, r *request) string {
	code, err := b.newInviteCode(ctx)
	if err != nil {
		slog.Error("opening group failed", "sender", r.sender, "error", err)
		return replyGlitch
	}

	key := store.LedgerKey(code)
	unlock := b.locks.lock(key)
	defer unlock()

	l := ledger.New(code, r.sender)
	if label := stripPrefix(r, openGroupPrefixes...); label != "" {
		l.Destination = label
	}
	if err := store.PutLedger(ctx, b.store, key, l); err != nil {
		slog.Error("opening group failed", "sender", r.sender, "error", err)
		return replyGlitch
	}
	if err := b.setActiveLedger(ctx, r.sender, key); err != nil {
		slog.Error("opening group failed", "sender", r.sender, "error", err)
		return replyGlitch
	}

	b.logEvent("group.opened", r.sender, code, nil)
	return fmt.Sprintf("👥 Group opened! Invite code: %s\nFriends join with \"join %s\".", code, code)
}

func (b *Bot) handleJoinGroup(ctx context.Context, r *request) string {
	return b.attachToGroup(ctx, r, stripPrefix(r, joinPrefixes...), "🎉 You're in! %d member(s) sharing this ledger.")
}

func (b *Bot) handleSwitchGroup(ctx context.Context, r *request) string {
	return b.attachToGroup(ctx, r, stripPrefix(r, switchPrefixes...), "🔀 Switched. %d member(s) on this ledger.")
}

// attachToGroup points the sender's session at an existing group ledger and
// registers membership.
func (b *Bot) attachToGroup(ctx context.Context, r *request, rawCode, replyFormat string) string {
	code := sanitizeInviteCode(rawCode)
	if code == "" {
		return "Which group? Try: join ABC123"
	}

	key := store.LedgerKey(code)
	unlock := b.locks.lock(key)
	defer unlock()

	l, err := store.GetLedger(ctx, b.store, key)
	if err != nil {
		slog.Error("joining group failed", "sender", r.sender, "error", err)
		return replyGlitch
	}
	if l == nil {
		return fmt.Sprintf("🤷 No group with code %s. Check the code and try again.", code)
	}

	l.Join(r.sender)
	if err := store.PutLedger(ctx, b.store, key, l); err != nil {
		slog.Error("joining group failed", "sender", r.sender, "error", err)
		return replyGlitch
	}
	if err := b.setActiveLedger(ctx, r.sender, key); err != nil {
		slog.Error("joining group failed", "sender", r.sender, "error", err)
		return replyGlitch
	}

	b.logEvent("group.joined", r.sender, code, nil)
	return fmt.Sprintf(replyFormat, len(l.Members))
}

// handleLeaveGroup always succeeds: the sender lands back on their personal
// ledger, created on the spot if it never existed.
func (b *Bot) handleLeaveGroup(ctx context.Context, r *request) string {
	activeKey, err := b.activeLedgerKey(ctx, r.sender)
	if err != nil {
		slog.Error("leaving group failed", "sender", r.sender, "error", err)
		return replyGlitch
	}

	personalKey := store.PersonalLedgerKey(string(r.sender))
	if activeKey != personalKey {
		unlock := b.locks.lock(activeKey)
		l, err := store.GetLedger(ctx, b.store, activeKey)
		if err == nil && l != nil {
			l.Leave(r.sender)
			if err := store.PutLedger(ctx, b.store, activeKey, l); err != nil {
				slog.Warn("could not record group departure", "sender", r.sender, "error", err)
			}
		}
		unlock()
		b.logEvent("group.left", r.sender, groupCode(activeKey), nil)
	}

	unlock := b.locks.lock(personalKey)
	defer unlock()
	l, err := store.GetLedger(ctx, b.store, personalKey)
	if err != nil {
		slog.Error("leaving group failed", "sender", r.sender, "error", err)
		return replyGlitch
	}
	if l == nil {
		if err := store.PutLedger(ctx, b.store, personalKey, ledger.New("", r.sender)); err != nil {
			slog.Error("leaving group failed", "sender", r.sender, "error", err)
			return replyGlitch
		}
	}
	if err := b.setActiveLedger(ctx, r.sender, personalKey); err != nil {
		slog.Error("leaving group failed", "sender", r.sender, "error", err)
		return replyGlitch
	}
	return "👋 Back on your personal ledger."
}

func (b *Bot) handleMembers(ctx context.Context, r *request) string {
	return b.runLedger(ctx, r, func(l *ledger.Ledger) (string, bool) {
		return l.FormatMembers(), false
	})
}

// sanitizeInviteCode uppercases and drops everything that is not a letter
// or digit, tolerating "join group: abc-123" style messages.
func sanitizeInviteCode(s string) string {
	var b strings.Builder
	for _, c := range strings.ToUpper(s) {
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			b.WriteRune(c)
		}
	}
	return b.String()
}
