package bot

import (
	"context"
	"strings"
	"unicode"
)

// matcher pairs an intent predicate with its handler. The dispatcher runs
// the slice front to back and the first match wins, so the order below is
// part of the behavior: specific prefixes must come before the digit
// catch-all, which would otherwise swallow almost anything.
type matcher struct {
	name   string
	match  func(r *request) bool
	handle func(ctx context.Context, r *request) string
}

// Intent keyword tables. Hebrew aliases mirror the commands of the original
// bot; matching happens on the lowercased message.
var (
	resetPhrases      = []string{"reset", "reset all", "start over", "אפס", "איפוס"}
	openGroupPrefixes = []string{"open group", "new group", "create group", "פתח קבוצה"}
	joinPrefixes      = []string{"join group ", "join ", "הצטרף "}
	switchPrefixes    = []string{"switch group ", "switch to group ", "עבור לקבוצה "}
	leavePhrases      = []string{"leave", "leave group", "עזוב קבוצה"}
	membersPhrases    = []string{"members", "list members", "who is in", "מי בקבוצה"}
	currencyPrefixes  = []string{"show in ", "display in ", "currency ", "מטבע "}
	ratePrefixes      = []string{"rates ", "rate ", "set rate ", "שער "}
	destPrefixes      = []string{"trip to ", "destination ", "going to ", "יעד "}
	budgetPrefixes    = []string{"budget", "set budget", "תקציב"}
	convertPhrases    = []string{"how much is", "כמה זה"}
	deleteLastPhrases = []string{"delete last", "undo", "מחק אחרון"}
	deletePrefixes    = []string{"delete ", "remove ", "מחק "}
	updatePrefixes    = []string{"update ", "change ", "עדכן "}
	summaryPhrases    = []string{"summary", "status", "סיכום", "מצב"}
)

func (b *Bot) buildIntents() []matcher {
	return []matcher{
		{"reset", exactAny(resetPhrases...), b.handleReset},
		{"group.open", prefixAny(openGroupPrefixes...), b.handleOpenGroup},
		{"group.join", prefixAny(joinPrefixes...), b.handleJoinGroup},
		{"group.switch", prefixAny(switchPrefixes...), b.handleSwitchGroup},
		{"group.leave", exactAny(leavePhrases...), b.handleLeaveGroup},
		{"group.members", exactAny(membersPhrases...), b.handleMembers},
		{"currency", prefixAny(currencyPrefixes...), b.handleDisplayCurrency},
		{"rates", prefixAny(ratePrefixes...), b.handleRates},
		{"destination", prefixAny(destPrefixes...), b.handleDestination},
		{"budget", prefixAny(budgetPrefixes...), b.handleBudget},
		{"convert", containsAny(convertPhrases...), b.handleConvert},
		{"delete.last", exactAny(deleteLastPhrases...), b.handleDeleteLast},
		{"delete", prefixAny(deletePrefixes...), b.handleDelete},
		{"update", prefixAny(updatePrefixes...), b.handleUpdate},
		{"summary", exactAny(summaryPhrases...), b.handleSummary},
		{"expense", hasDigit, b.handleAddExpense},
		{"help", func(*request) bool { return true }, b.handleHelp},
	}
}

func exactAny(phrases ...string) func(*request) bool {
	return func(r *request) bool {
		for _, p := range phrases {
			if r.norm == p {
				return true
			}
		}
		return false
	}
}

func prefixAny(prefixes ...string) func(*request) bool {
	return func(r *request) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(r.norm, p) {
				return true
			}
		}
		return false
	}
}

func containsAny(subs ...string) func(*request) bool {
	return func(r *request) bool {
		for _, s := range subs {
			if strings.Contains(r.norm, s) {
				return true
			}
		}
		return false
	}
}

func hasDigit(r *request) bool {
	return strings.IndexFunc(r.norm, unicode.IsDigit) >= 0
}

// stripPrefix returns the message after the first matching prefix, from the
// original-cased text, trimmed.
func stripPrefix(r *request, prefixes ...string) string {
	for _, p := range prefixes {
		if strings.HasPrefix(r.norm, p) {
			return strings.TrimSpace(r.text[len(p):])
		}
	}
	return strings.TrimSpace(r.text)
}
