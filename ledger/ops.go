package ledger

import (
	"strings"
	"time"

	"github.com/tamarw/takziv-bot/currency"
)

// placeholderDescription stands in when an expense message carries nothing
// but an amount.
const placeholderDescription = "misc"

// SetBudget fixes the total budget, converted into base units at the current
// rates, clears all expenses and switches the display currency to the one
// the budget was declared in.
func (l *Ledger) SetBudget(amount int64, code currency.Code) {
	l.BudgetBase = currency.ToBase(amount, code, l.Rates)
	l.RemainingBase = l.BudgetBase
	l.Expenses = []Expense{}
	l.DisplayCurrency = code
}

// SetDestination stores the free-text trip label.
func (l *Ledger) SetDestination(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyDestination
	}
	l.Destination = text
	return nil
}

// SetDisplayCurrency switches the rendering currency.
func (l *Ledger) SetDisplayCurrency(code currency.Code) error {
	if !currency.Supported(code) {
		return ErrUnsupportedCurrency
	}
	l.DisplayCurrency = code
	return nil
}

// RatePair is one (currency, rate) assignment.
type RatePair struct {
	Code currency.Code
	Rate float64
}

// SetRates applies the given pairs. A message with no parseable pair at all
// fails; individual unrecognized tokens were already skipped by the parser.
func (l *Ledger) SetRates(pairs []RatePair) error {
	if len(pairs) == 0 {
		return ErrNoRatePairs
	}
	for _, p := range pairs {
		l.Rates[p.Code] = p.Rate
	}
	return nil
}

// AddResult reports a recorded expense and whether it overdrew the budget.
type AddResult struct {
	Expense   Expense
	Overspent bool
}

// AddExpense records a spend. The amount is normalized into base units at
// the current rates. Overspending is recorded and flagged; with strict set
// it is rejected instead (the behavior of earlier bot revisions).
func (l *Ledger) AddExpense(amount int64, code currency.Code, description string, by SenderID, strict bool) (AddResult, error) {
	if l.BudgetBase == 0 {
		return AddResult{}, ErrNoBudget
	}
	amountBase := currency.ToBase(amount, code, l.Rates)
	if strict && amountBase > l.RemainingBase {
		return AddResult{}, ErrOverBudget
	}
	description = strings.TrimSpace(description)
	if description == "" {
		description = placeholderDescription
	}
	exp := Expense{
		AmountBase:  amountBase,
		Description: description,
		Category:    GuessCategory(description),
		AddedBy:     by,
		AddedAt:     time.Now().UTC(),
	}
	l.Expenses = append(l.Expenses, exp)
	l.RemainingBase -= amountBase
	return AddResult{Expense: exp, Overspent: l.RemainingBase < 0}, nil
}

// DeleteLastExpense removes the most recent expense and credits the balance.
func (l *Ledger) DeleteLastExpense() (Expense, error) {
	if len(l.Expenses) == 0 {
		return Expense{}, ErrNoExpenses
	}
	return l.removeAt(len(l.Expenses) - 1), nil
}

// DeleteExpenseByAmount removes the most recent expense whose base amount
// equals the converted target. An expense added in another currency matches
// when the normalized amounts coincide.
func (l *Ledger) DeleteExpenseByAmount(amount int64, code currency.Code) (Expense, error) {
	target := currency.ToBase(amount, code, l.Rates)
	for i := len(l.Expenses) - 1; i >= 0; i-- {
		if l.Expenses[i].AmountBase == target {
			return l.removeAt(i), nil
		}
	}
	return Expense{}, l.notFound()
}

// DeleteExpenseByIndex removes the expense at the given 1-based display
// index.
func (l *Ledger) DeleteExpenseByIndex(i int) (Expense, error) {
	if i < 1 || i > len(l.Expenses) {
		return Expense{}, ErrIndexOutOfRange
	}
	return l.removeAt(i - 1), nil
}

// DeleteExpenseBySubstring removes the most recent expense whose normalized
// description contains the normalized query.
func (l *Ledger) DeleteExpenseBySubstring(query string) (Expense, error) {
	q := normalizeText(query)
	if q != "" {
		for i := len(l.Expenses) - 1; i >= 0; i-- {
			if strings.Contains(normalizeText(l.Expenses[i].Description), q) {
				return l.removeAt(i), nil
			}
		}
	}
	return Expense{}, l.notFound()
}

// UpdateResult reports an amount correction, in base units.
type UpdateResult struct {
	Expense Expense
	OldBase int64
	NewBase int64
}

// UpdateExpense replaces the amount of the most recent expense matching
// oldAmount, keeping description, category and attribution, and adjusts the
// balance by the delta.
func (l *Ledger) UpdateExpense(oldAmount, newAmount int64, code currency.Code) (UpdateResult, error) {
	oldBase := currency.ToBase(oldAmount, code, l.Rates)
	newBase := currency.ToBase(newAmount, code, l.Rates)
	for i := len(l.Expenses) - 1; i >= 0; i-- {
		if l.Expenses[i].AmountBase == oldBase {
			l.Expenses[i].AmountBase = newBase
			l.RemainingBase += oldBase - newBase
			return UpdateResult{Expense: l.Expenses[i], OldBase: oldBase, NewBase: newBase}, nil
		}
	}
	return UpdateResult{}, l.notFound()
}

// Reset zeroes the ledger back to its initial state. Identity and membership
// survive; the ledger is never deleted.
func (l *Ledger) Reset() {
	l.BudgetBase = 0
	l.RemainingBase = 0
	l.Destination = ""
	l.Expenses = []Expense{}
	l.Rates = currency.DefaultRates()
	l.DisplayCurrency = currency.Base
}

func (l *Ledger) removeAt(i int) Expense {
	exp := l.Expenses[i]
	l.Expenses = append(l.Expenses[:i], l.Expenses[i+1:]...)
	l.RemainingBase += exp.AmountBase
	return exp
}

// notFound builds the lookup error, hinting at up to five distinct existing
// descriptions, most recent first.
func (l *Ledger) notFound() *NotFoundError {
	seen := make(map[string]bool)
	var hints []string
	for i := len(l.Expenses) - 1; i >= 0 && len(hints) < 5; i-- {
		d := l.Expenses[i].Description
		if seen[d] {
			continue
		}
		seen[d] = true
		hints = append(hints, d)
	}
	return &NotFoundError{Hints: hints}
}
