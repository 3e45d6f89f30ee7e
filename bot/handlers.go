package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tamarw/takziv-bot/currency"
	"github.com/tamarw/takziv-bot/extract"
	"github.com/tamarw/takziv-bot/ledger"
)

const replyGlitch = "😵 Something glitched on my side. Try again in a moment."

const replyHelp = `🤖 I track your trip budget. Try:
• budget 3000 — set the budget
• 50 coffee — add an expense
• summary — see where you stand
• delete last / delete 50 / delete coffee
• update 50 to 45
• how much is 100$ in shekels
• trip to Greece / show in usd / rate usd 3.65
• open group / join ABC123 / leave / members
• reset — start over`

func (b *Bot) handleHelp(context.Context, *request) string {
	return replyHelp
}

func (b *Bot) handleReset(ctx context.Context, r *request) string {
	return b.runLedger(ctx, r, func(l *ledger.Ledger) (string, bool) {
		l.Reset()
		b.logEvent("ledger.reset", r.sender, l.Code, nil)
		return "🔄 Fresh start! Send \"budget 3000\" to begin.", true
	})
}

func (b *Bot) handleSummary(ctx context.Context, r *request) string {
	return b.runLedger(ctx, r, func(l *ledger.Ledger) (string, bool) {
		return l.FormatSummary(), false
	})
}

func (b *Bot) handleBudget(ctx context.Context, r *request) string {
	amount, code, err := extract.Amount(r.text, currency.Base)
	if err != nil {
		return "💰 Didn't catch an amount. Try: budget 3000"
	}
	return b.runLedger(ctx, r, func(l *ledger.Ledger) (string, bool) {
		l.SetBudget(amount, code)
		b.logEvent("budget.set", r.sender, l.Code, map[string]string{
			"amount":   strconv.FormatInt(amount, 10),
			"currency": string(code),
		})
		return fmt.Sprintf("💰 Budget set: %s. Let's go!", l.Display(l.BudgetBase)), true
	})
}

func (b *Bot) handleDestination(ctx context.Context, r *request) string {
	dest := stripPrefix(r, destPrefixes...)
	return b.runLedger(ctx, r, func(l *ledger.Ledger) (string, bool) {
		if err := l.SetDestination(dest); err != nil {
			return "🧳 Where to? Try: trip to Greece", false
		}
		b.logEvent("destination.set", r.sender, l.Code, map[string]string{"destination": dest})
		return fmt.Sprintf("🧳 Destination set: %s", l.Destination), true
	})
}

func (b *Bot) handleDisplayCurrency(ctx context.Context, r *request) string {
	rest := stripPrefix(r, currencyPrefixes...)
	code, ok := currency.FromText(strings.ToLower(rest))
	if !ok {
		return "Supported currencies: shekel (₪), dollar ($), euro (€)."
	}
	return b.runLedger(ctx, r, func(l *ledger.Ledger) (string, bool) {
		if err := l.SetDisplayCurrency(code); err != nil {
			return "Supported currencies: shekel (₪), dollar ($), euro (€).", false
		}
		b.logEvent("currency.set", r.sender, l.Code, map[string]string{"currency": string(code)})
		return fmt.Sprintf("Amounts now shown in %s.", currency.Symbol(code)), true
	})
}

func (b *Bot) handleRates(ctx context.Context, r *request) string {
	pairs := extract.RatePairs(r.norm)
	return b.runLedger(ctx, r, func(l *ledger.Ledger) (string, bool) {
		applied := make([]ledger.RatePair, 0, len(pairs))
		for _, p := range pairs {
			applied = append(applied, ledger.RatePair{Code: p.Code, Rate: p.Rate})
		}
		if err := l.SetRates(applied); err != nil {
			return "💱 No rates found. Try: rate usd 3.65 eur 3.95", false
		}
		parts := make([]string, 0, len(applied))
		for _, p := range applied {
			parts = append(parts, fmt.Sprintf("%s=%.4g", p.Code, p.Rate))
		}
		b.logEvent("rates.set", r.sender, l.Code, map[string]string{"rates": strings.Join(parts, " ")})
		return "💱 Rates updated: " + strings.Join(parts, ", "), true
	})
}

func (b *Bot) handleConvert(ctx context.Context, r *request) string {
	amount, src, err := extract.Amount(r.text, currency.Base)
	if err != nil {
		return "🔁 Try: how much is 100$ in shekels"
	}
	return b.runLedger(ctx, r, func(l *ledger.Ledger) (string, bool) {
		target := extract.TargetCurrency(r.norm, l.DisplayCurrency)
		base := currency.ToBase(amount, src, l.Rates)
		out := currency.FromBase(base, target, l.Rates)
		return fmt.Sprintf("🔁 %s is about %s",
			currency.Format(amount, src), currency.Format(out, target)), false
	})
}

func (b *Bot) handleAddExpense(ctx context.Context, r *request) string {
	amount, code, err := extract.Amount(r.text, currency.Base)
	if err != nil {
		return replyHelp
	}
	desc := stripLeadWords(extract.StripAmount(r.text))
	return b.runLedger(ctx, r, func(l *ledger.Ledger) (string, bool) {
		res, err := l.AddExpense(amount, code, desc, r.sender, b.strictBudget)
		switch {
		case errors.Is(err, ledger.ErrNoBudget):
			return "💰 Set a budget first, e.g. \"budget 3000\".", false
		case errors.Is(err, ledger.ErrOverBudget):
			return fmt.Sprintf("⛔ That would blow the budget — only %s left.", l.Display(l.RemainingBase)), false
		case err != nil:
			return replyGlitch, false
		}
		b.logEvent("expense.added", r.sender, l.Code, map[string]string{
			"amount_base": strconv.FormatInt(res.Expense.AmountBase, 10),
			"category":    res.Expense.Category,
		})
		reply := fmt.Sprintf("✅ Added: %s - %s (%s)\n%s\nRemaining: %s",
			l.Display(res.Expense.AmountBase), res.Expense.Description, res.Expense.Category,
			ledger.FunReply(res.Expense.Category), l.Display(l.RemainingBase))
		if res.Overspent {
			reply += "\n⚠️ You are over budget!"
		}
		return reply, true
	})
}

func (b *Bot) handleDeleteLast(ctx context.Context, r *request) string {
	return b.runLedger(ctx, r, func(l *ledger.Ledger) (string, bool) {
		exp, err := l.DeleteLastExpense()
		if err != nil {
			return "Nothing to delete — no expenses recorded yet.", false
		}
		b.logEvent("expense.deleted", r.sender, l.Code, map[string]string{"description": exp.Description})
		return replyDeleted(l, exp), true
	})
}

// bareIndexPattern matches a lone display index like "2" or "#2".
var bareIndexPattern = regexp.MustCompile(`^#?(\d+)$`)

// handleDelete resolves the deletion target in a fixed order: by amount,
// then by display index for a bare number, then by description substring.
func (b *Bot) handleDelete(ctx context.Context, r *request) string {
	rest := stripPrefix(r, deletePrefixes...)
	return b.runLedger(ctx, r, func(l *ledger.Ledger) (string, bool) {
		if amount, code, err := extract.Amount(rest, currency.Base); err == nil {
			if exp, err := l.DeleteExpenseByAmount(amount, code); err == nil {
				b.logEvent("expense.deleted", r.sender, l.Code, map[string]string{"description": exp.Description})
				return replyDeleted(l, exp), true
			}
			if m := bareIndexPattern.FindStringSubmatch(rest); m != nil {
				if i, err := strconv.Atoi(m[1]); err == nil {
					if exp, err := l.DeleteExpenseByIndex(i); err == nil {
						b.logEvent("expense.deleted", r.sender, l.Code, map[string]string{"description": exp.Description})
						return replyDeleted(l, exp), true
					}
				}
			}
		}
		exp, err := l.DeleteExpenseBySubstring(rest)
		if err != nil {
			return replyNotFound(err), false
		}
		b.logEvent("expense.deleted", r.sender, l.Code, map[string]string{"description": exp.Description})
		return replyDeleted(l, exp), true
	})
}

func (b *Bot) handleUpdate(ctx context.Context, r *request) string {
	rest := stripPrefix(r, updatePrefixes...)
	amounts, code, err := extract.Amounts(rest, currency.Base)
	if err != nil || len(amounts) < 2 {
		return "✏️ Try: update 50 to 45"
	}
	return b.runLedger(ctx, r, func(l *ledger.Ledger) (string, bool) {
		res, err := l.UpdateExpense(amounts[0], amounts[1], code)
		if err != nil {
			return replyNotFound(err), false
		}
		b.logEvent("expense.updated", r.sender, l.Code, map[string]string{
			"description": res.Expense.Description,
			"new_base":    strconv.FormatInt(res.NewBase, 10),
		})
		return fmt.Sprintf("✏️ Updated %s: now %s\nRemaining: %s",
			res.Expense.Description, l.Display(res.NewBase), l.Display(l.RemainingBase)), true
	})
}

func replyDeleted(l *ledger.Ledger, exp ledger.Expense) string {
	return fmt.Sprintf("🗑️ Deleted: %s - %s\nRemaining: %s",
		l.Display(exp.AmountBase), exp.Description, l.Display(l.RemainingBase))
}

func replyNotFound(err error) string {
	var nf *ledger.NotFoundError
	if errors.As(err, &nf) && len(nf.Hints) > 0 {
		return "🤔 Couldn't find that expense. Recent ones: " + strings.Join(nf.Hints, ", ")
	}
	return "Nothing matched — no such expense on this ledger."
}

// leadWords are intent words senders put before an expense ("spent 50 on
// coffee", "הוצאה 50 אוכל"); they are not part of the description.
var leadWords = []string{"expense", "spent", "paid", "on", "הוצאה", "הוצאתי"}

func stripLeadWords(s string) string {
	fields := strings.Fields(s)
	for len(fields) > 0 {
		stripped := false
		for _, w := range leadWords {
			if strings.EqualFold(fields[0], w) {
				fields = fields[1:]
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}
	return strings.Join(fields, " ")
}
