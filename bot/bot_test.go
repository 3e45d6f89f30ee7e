package bot

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/tamarw/takziv-bot/ledger"
	"github.com/tamarw/takziv-bot/store"
)

func newTestBot(opts ...Option) *Bot {
	return New(store.NewMemory(), nil, opts...)
}

func send(t *testing.T, b *Bot, sender ledger.SenderID, text string) string {
	t.Helper()
	return b.HandleMessage(context.Background(), sender, text)
}

func mustContain(t *testing.T, reply string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(reply, want) {
			t.Errorf("reply missing %q:\n%s", want, reply)
		}
	}
}

func TestHelpFallback(t *testing.T) {
	b := newTestBot()
	for _, text := range []string{"hello there", "what can you do", ""} {
		if got := send(t, b, "alice", text); got != replyHelp {
			t.Errorf("HandleMessage(%q) = %q, want the help reply", text, got)
		}
	}
}

func TestBudgetAndExpenseFlow(t *testing.T) {
	b := newTestBot()

	mustContain(t, send(t, b, "alice", "budget 3000"), "💰 Budget set: 3000₪")
	mustContain(t, send(t, b, "alice", "50 coffee"),
		"✅ Added: 50₪ - coffee (food)", "Remaining: 2950₪")
	mustContain(t, send(t, b, "alice", "summary"),
		"💰 Budget: 3000₪", "1. 50₪ - coffee (food)", "Remaining: 2950₪")
}

func TestExpenseRequiresBudget(t *testing.T) {
	b := newTestBot()
	mustContain(t, send(t, b, "alice", "50 coffee"), "Set a budget first")
}

func TestHebrewFlow(t *testing.T) {
	b := newTestBot()
	mustContain(t, send(t, b, "alice", "תקציב 3000"), "💰 Budget set: 3000₪")
	mustContain(t, send(t, b, "alice", "הוצאה 50 פיצה"),
		"✅ Added: 50₪ - פיצה (food)", "Remaining: 2950₪")
	mustContain(t, send(t, b, "alice", "סיכום"), "Remaining: 2950₪")
}

// A message like "delete 50" carries a digit; the delete intent must still
// win over the expense catch-all.
func TestDeleteBeatsExpenseCatchAll(t *testing.T) {
	b := newTestBot()
	send(t, b, "alice", "budget 1000")
	send(t, b, "alice", "50 coffee")

	mustContain(t, send(t, b, "alice", "delete 50"), "🗑️ Deleted", "Remaining: 1000₪")
	mustContain(t, send(t, b, "alice", "summary"), "No expenses yet.")
}

func TestDeleteByIndexAndSubstring(t *testing.T) {
	b := newTestBot()
	send(t, b, "alice", "budget 1000")
	send(t, b, "alice", "50 coffee")
	send(t, b, "alice", "80 taxi")

	// "2" matches no amount, so it reads as a display index.
	mustContain(t, send(t, b, "alice", "delete 2"), "🗑️ Deleted: 80₪ - taxi")
	mustContain(t, send(t, b, "alice", "delete coffee"), "🗑️ Deleted: 50₪ - coffee")
	mustContain(t, send(t, b, "alice", "delete coffee"), "Nothing matched")
}

func TestDeleteMissOffersHints(t *testing.T) {
	b := newTestBot()
	send(t, b, "alice", "budget 1000")
	send(t, b, "alice", "50 coffee")
	send(t, b, "alice", "80 taxi")

	mustContain(t, send(t, b, "alice", "delete yacht"),
		"🤔 Couldn't find that expense", "taxi", "coffee")
}

func TestDeleteLast(t *testing.T) {
	b := newTestBot()
	send(t, b, "alice", "budget 1000")
	send(t, b, "alice", "50 coffee")

	mustContain(t, send(t, b, "alice", "delete last"), "🗑️ Deleted: 50₪ - coffee")
	mustContain(t, send(t, b, "alice", "undo"), "Nothing to delete")
}

func TestUpdate(t *testing.T) {
	b := newTestBot()
	send(t, b, "alice", "budget 1000")
	send(t, b, "alice", "50 coffee")

	mustContain(t, send(t, b, "alice", "update 50 to 45"),
		"✏️ Updated coffee: now 45₪", "Remaining: 955₪")
	mustContain(t, send(t, b, "alice", "update 7"), "✏️ Try: update 50 to 45")
}

func TestConvertBeatsExpenseCatchAll(t *testing.T) {
	b := newTestBot()
	mustContain(t, send(t, b, "alice", "how much is 100 dollars in shekels"),
		"🔁 $100 is about 370₪")

	// Read-only: the query must not record an expense.
	mustContain(t, send(t, b, "alice", "summary"), "No expenses yet.")
}

func TestOverspendFlaggedNotRejected(t *testing.T) {
	b := newTestBot()
	send(t, b, "alice", "budget 100")

	mustContain(t, send(t, b, "alice", "150 hotel"),
		"✅ Added: 150₪ - hotel (lodging)", "⚠️ You are over budget!")
	mustContain(t, send(t, b, "alice", "summary"), "Remaining: -50₪ ⚠️ over budget!")
}

func TestStrictBudgetRejectsOverspend(t *testing.T) {
	b := newTestBot(WithStrictBudget())
	send(t, b, "alice", "budget 100")

	mustContain(t, send(t, b, "alice", "150 hotel"), "⛔ That would blow the budget", "100₪")
	mustContain(t, send(t, b, "alice", "summary"), "No expenses yet.")
}

func TestReset(t *testing.T) {
	b := newTestBot()
	send(t, b, "alice", "budget 1000")
	send(t, b, "alice", "50 coffee")

	mustContain(t, send(t, b, "alice", "reset"), "🔄 Fresh start!")
	mustContain(t, send(t, b, "alice", "summary"), "Budget: 0₪", "No expenses yet.")
}

func TestDisplayCurrency(t *testing.T) {
	b := newTestBot()
	send(t, b, "alice", "budget 3700")

	mustContain(t, send(t, b, "alice", "show in usd"), "Amounts now shown in $")
	mustContain(t, send(t, b, "alice", "summary"), "Budget: $1000")
	mustContain(t, send(t, b, "alice", "show in pesos"), "Supported currencies")
}

func TestRates(t *testing.T) {
	b := newTestBot()
	mustContain(t, send(t, b, "alice", "rate usd 3.65 eur 3.95"),
		"💱 Rates updated:", "USD=3.65", "EUR=3.95")
	mustContain(t, send(t, b, "alice", "rate please"), "💱 No rates found")
}

func TestDestination(t *testing.T) {
	b := newTestBot()
	mustContain(t, send(t, b, "alice", "trip to Greece"), "🧳 Destination set: Greece")
	mustContain(t, send(t, b, "alice", "summary"), "🧳 Greece")
}

var inviteCodePattern = regexp.MustCompile(`Invite code: ([A-Z0-9]{6})`)

func openGroup(t *testing.T, b *Bot, sender ledger.SenderID) string {
	t.Helper()
	reply := send(t, b, sender, "open group")
	m := inviteCodePattern.FindStringSubmatch(reply)
	if m == nil {
		t.Fatalf("no invite code in reply: %q", reply)
	}
	return m[1]
}

func TestGroupFlow(t *testing.T) {
	b := newTestBot()
	code := openGroup(t, b, "alice")

	mustContain(t, send(t, b, "bob", "join "+code), "🎉 You're in! 2 member(s)")

	send(t, b, "alice", "budget 1000")
	send(t, b, "alice", "100 hotel")
	send(t, b, "bob", "50 taxi")

	// Both members see the shared state, with attribution.
	summary := send(t, b, "bob", "summary")
	mustContain(t, summary,
		"100₪ - hotel (lodging) [alice]",
		"50₪ - taxi (transport) [bob]",
		"Remaining: 850₪",
		"👥 Group "+code+", 2 member(s)")

	mustContain(t, send(t, b, "alice", "members"), "1. alice", "2. bob")

	// Leaving lands bob on his own untouched ledger.
	mustContain(t, send(t, b, "bob", "leave"), "👋 Back on your personal ledger.")
	mustContain(t, send(t, b, "bob", "summary"), "Budget: 0₪", "No expenses yet.")

	// The group and alice are unaffected.
	mustContain(t, send(t, b, "alice", "summary"), "Remaining: 850₪")
}

func TestGroupIsolation(t *testing.T) {
	b := newTestBot()
	send(t, b, "alice", "budget 1000")
	send(t, b, "alice", "50 coffee")
	send(t, b, "bob", "budget 2000")
	send(t, b, "bob", "30 beer")

	mustContain(t, send(t, b, "alice", "summary"), "Remaining: 950₪")
	mustContain(t, send(t, b, "bob", "summary"), "Remaining: 1970₪")
}

func TestJoinUnknownGroup(t *testing.T) {
	b := newTestBot()
	mustContain(t, send(t, b, "alice", "join ZZZZZZ"), "🤷 No group with code ZZZZZZ")
	mustContain(t, send(t, b, "alice", "join !!!"), "Which group?")
}

func TestSwitchGroup(t *testing.T) {
	b := newTestBot()
	code := openGroup(t, b, "alice")
	send(t, b, "alice", "budget 500")

	send(t, b, "bob", "budget 111")
	mustContain(t, send(t, b, "bob", "switch group "+code), "🔀 Switched")
	mustContain(t, send(t, b, "bob", "summary"), "Budget: 500₪")

	send(t, b, "bob", "leave")
	mustContain(t, send(t, b, "bob", "summary"), "Budget: 111₪")
}

func TestOpenGroupWithLabel(t *testing.T) {
	b := newTestBot()
	send(t, b, "alice", "open group Greece 2026")
	mustContain(t, send(t, b, "alice", "summary"), "🧳 Greece 2026")
}

func TestSanitizeInviteCode(t *testing.T) {
	tests := []struct{ in, want string }{
		{"abc123", "ABC123"},
		{"group: abc-123", "GROUPABC123"},
		{"  XyZ 9 ", "XYZ9"},
		{"!!!", ""},
	}
	for _, tc := range tests {
		if got := sanitizeInviteCode(tc.in); got != tc.want {
			t.Errorf("sanitizeInviteCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInviteCodeShape(t *testing.T) {
	b := newTestBot()
	code, err := b.newInviteCode(context.Background())
	if err != nil {
		t.Fatalf("newInviteCode: %v", err)
	}
	if len(code) != inviteCodeLength {
		t.Errorf("code %q has length %d, want %d", code, len(code), inviteCodeLength)
	}
	for _, c := range code {
		if !strings.ContainsRune(inviteCodeCharset, c) {
			t.Errorf("code %q contains %q, outside the charset", code, c)
		}
	}
}

func TestGroupCode(t *testing.T) {
	if got := groupCode(store.LedgerKey("ABC123")); got != "ABC123" {
		t.Errorf("groupCode = %q, want ABC123", got)
	}
	if got := groupCode(store.PersonalLedgerKey("alice")); got != "" {
		t.Errorf("groupCode on a personal key = %q, want empty", got)
	}
}
