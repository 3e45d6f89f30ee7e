package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tamarw/takziv-bot/currency"
)

// Display renders a base amount in the ledger's display currency.
func (l *Ledger) Display(amountBase int64) string {
	return currency.Format(
		currency.FromBase(amountBase, l.DisplayCurrency, l.Rates),
		l.DisplayCurrency,
	)
}

// CategoryTotal is one per-category subtotal in base units.
type CategoryTotal struct {
	Category  string
	TotalBase int64
}

// CategoryTotals returns subtotals sorted by amount descending; ties break
// by name to keep the rendering deterministic.
func (l *Ledger) CategoryTotals() []CategoryTotal {
	byName := make(map[string]int64)
	for _, e := range l.Expenses {
		byName[e.Category] += e.AmountBase
	}
	totals := make([]CategoryTotal, 0, len(byName))
	for name, total := range byName {
		totals = append(totals, CategoryTotal{Category: name, TotalBase: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].TotalBase != totals[j].TotalBase {
			return totals[i].TotalBase > totals[j].TotalBase
		}
		return totals[i].Category < totals[j].Category
	})
	return totals
}

// TotalSpentBase is the sum of all recorded expenses in base units.
func (l *Ledger) TotalSpentBase() int64 {
	var sum int64
	for _, e := range l.Expenses {
		sum += e.AmountBase
	}
	return sum
}

// FormatSummary renders the full ledger state: every expense with its
// 1-based index, category and (for groups) attribution, per-category
// subtotals, budget, remaining balance and destination. Never fails.
func (l *Ledger) FormatSummary() string {
	var b strings.Builder
	if l.Destination != "" {
		fmt.Fprintf(&b, "🧳 %s\n", l.Destination)
	}
	fmt.Fprintf(&b, "💰 Budget: %s\n", l.Display(l.BudgetBase))
	if len(l.Expenses) == 0 {
		b.WriteString("No expenses yet.\n")
	}
	for i, e := range l.Expenses {
		fmt.Fprintf(&b, "%d. %s - %s (%s)", i+1, l.Display(e.AmountBase), e.Description, e.Category)
		if l.IsGroup() && e.AddedBy != "" {
			fmt.Fprintf(&b, " [%s]", e.AddedBy)
		}
		b.WriteByte('\n')
	}
	if totals := l.CategoryTotals(); len(totals) > 0 {
		b.WriteString("📊 By category:\n")
		for _, ct := range totals {
			fmt.Fprintf(&b, "  %s: %s\n", ct.Category, l.Display(ct.TotalBase))
		}
		fmt.Fprintf(&b, "Total spent: %s\n", l.Display(l.TotalSpentBase()))
	}
	fmt.Fprintf(&b, "Remaining: %s", l.Display(l.RemainingBase))
	if l.RemainingBase < 0 {
		b.WriteString(" ⚠️ over budget!")
	}
	b.WriteByte('\n')
	if l.IsGroup() {
		fmt.Fprintf(&b, "👥 Group %s, %d member(s)\n", l.Code, len(l.Members))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatMembers renders the member list of a group ledger.
func (l *Ledger) FormatMembers() string {
	if !l.IsGroup() {
		return "You are on your personal ledger. Send \"open group\" to share one."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "👥 Group %s members:\n", l.Code)
	for i, m := range l.Members {
		fmt.Fprintf(&b, "%d. %s\n", i+1, m)
	}
	return strings.TrimRight(b.String(), "\n")
}
