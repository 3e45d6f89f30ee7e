// Package ledger holds the budget state of one conversation or group and
// the operations the bot applies to it.
package ledger

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/tamarw/takziv-bot/currency"
)

// SenderID identifies one conversation participant (a phone number on the
// WhatsApp transport).
type SenderID string

// Expense is one recorded spend, normalized to the ledger's base currency.
type Expense struct {
	AmountBase  int64     `json:"amount_base"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	AddedBy     SenderID  `json:"added_by"`
	AddedAt     time.Time `json:"added_at"`
}

// Ledger is the full budget state of one conversation or group. Amounts are
// stored in base units; DisplayCurrency only affects rendering.
type Ledger struct {
	Code            string         `json:"code,omitempty"`
	BudgetBase      int64          `json:"budget_base"`
	RemainingBase   int64          `json:"remaining_base"`
	Destination     string         `json:"destination,omitempty"`
	Expenses        []Expense      `json:"expenses"`
	Rates           currency.Rates `json:"rates"`
	DisplayCurrency currency.Code  `json:"display_currency"`
	Members         []SenderID     `json:"members"`
	CreatedAt       time.Time      `json:"created_at"`
}

// Session records which ledger a sender currently operates on.
type Session struct {
	ActiveLedger string `json:"active_ledger"`
}

var (
	ErrInvalidAmount       = errors.New("no valid amount in message")
	ErrEmptyDestination    = errors.New("destination can't be empty")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrNoRatePairs         = errors.New("no rate pairs in message")
	ErrNoBudget            = errors.New("no budget set")
	ErrNoExpenses          = errors.New("no expenses recorded")
	ErrIndexOutOfRange     = errors.New("expense index out of range")

	// ErrOverBudget is only returned in strict-budget mode; the default
	// behavior records the overspend and flags it in the reply.
	ErrOverBudget = errors.New("expense exceeds remaining budget")
)

// NotFoundError reports a failed expense lookup together with up to five
// existing descriptions to steer the sender.
type NotFoundError struct {
	Hints []string
}

func (e *NotFoundError) Error() string { return "expense not found" }

// New creates an empty ledger. code is the invite code for group ledgers and
// empty for personal ones; member, when set, becomes the first member.
func New(code string, member SenderID) *Ledger {
	l := &Ledger{
		Code:      code,
		CreatedAt: time.Now().UTC(),
	}
	l.Normalize()
	if member != "" {
		l.Join(member)
	}
	return l
}

// Normalize fills defaults for fields missing from older persisted records.
// Records carry no schema version; loads must tolerate anything a previous
// build wrote.
func (l *Ledger) Normalize() {
	if l.Rates == nil {
		l.Rates = currency.DefaultRates()
	}
	if l.DisplayCurrency == "" {
		l.DisplayCurrency = currency.Base
	}
	if l.Expenses == nil {
		l.Expenses = []Expense{}
	}
	if l.Members == nil {
		l.Members = []SenderID{}
	}
}

// Join adds sender to the member list, de-duplicated, preserving join order.
func (l *Ledger) Join(sender SenderID) {
	for _, m := range l.Members {
		if m == sender {
			return
		}
	}
	l.Members = append(l.Members, sender)
}

// Leave removes sender from the member list. The ledger itself stays.
func (l *Ledger) Leave(sender SenderID) {
	for i, m := range l.Members {
		if m == sender {
			l.Members = append(l.Members[:i], l.Members[i+1:]...)
			return
		}
	}
}

// IsGroup reports whether this ledger is shared via an invite code.
func (l *Ledger) IsGroup() bool { return l.Code != "" }

// normalizeText lowercases, keeps letters and digits of any script, and
// collapses whitespace. Used for substring matching against descriptions.
func normalizeText(s string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case !lastSpace:
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}
