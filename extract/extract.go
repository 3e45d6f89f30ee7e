// Package extract pulls amounts, currencies and rate pairs out of free-form
// messages.
package extract

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tamarw/takziv-bot/currency"
)

// ErrNoAmount is returned when the text carries no parseable number.
var ErrNoAmount = errors.New("no amount found")

// amountPattern grabs a maximal digit run, allowing embedded grouping and
// decimal separators ("1,234.56").
var amountPattern = regexp.MustCompile(`\d[\d,.]*`)

// Amount returns the first amount in text and the currency it was declared
// in. Commas are grouping separators and are stripped; the first dot starts
// the decimal part. Results round half away from zero (round half up for the
// non-negative amounts the bot accepts).
func Amount(text string, fallback currency.Code) (int64, currency.Code, error) {
	raw := amountPattern.FindString(text)
	n, err := parseNumber(raw)
	if err != nil {
		return 0, fallback, err
	}
	return n, SourceCurrency(text, fallback), nil
}

// Amounts returns every amount in text, in order of appearance, with the one
// currency mentioned in the message (or the fallback). Update requests carry
// two amounts in a single message.
func Amounts(text string, fallback currency.Code) ([]int64, currency.Code, error) {
	raws := amountPattern.FindAllString(text, -1)
	var out []int64
	for _, raw := range raws {
		n, err := parseNumber(raw)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fallback, ErrNoAmount
	}
	return out, SourceCurrency(text, fallback), nil
}

func parseNumber(raw string) (int64, error) {
	raw = strings.Trim(raw, ",.")
	if raw == "" {
		return 0, ErrNoAmount
	}
	raw = strings.ReplaceAll(raw, ",", "")
	// A second dot ends the number: "1.2.3" reads as 1.2.
	if i := strings.Index(raw, "."); i >= 0 {
		if j := strings.Index(raw[i+1:], "."); j >= 0 {
			raw = raw[:i+1+j]
		}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, ErrNoAmount
	}
	return d.Round(0).IntPart(), nil
}

// SourceCurrency resolves the currency an amount was written in: symbols
// first, then alias keywords, then the supplied default.
func SourceCurrency(text string, fallback currency.Code) currency.Code {
	if code, ok := currency.FromText(text); ok {
		return code
	}
	return fallback
}

// targetMarkers precede the requested currency in conversion queries.
// The single-letter Hebrew prefixes read as "to"/"in".
var targetMarkers = []string{"to ", "in ", "into ", "ל", "ב"}

// TargetCurrency resolves the requested output currency of a conversion
// query ("how much is 100$ in shekels"). Directional phrases win, the
// rightmost one when several appear; without any the fallback (the ledger's
// display currency) is used.
func TargetCurrency(text string, fallback currency.Code) currency.Code {
	lower := strings.ToLower(text)
	best := -1
	code := fallback
	for _, a := range currency.Aliases() {
		for _, marker := range targetMarkers {
			if idx := strings.LastIndex(lower, marker+a.Word); idx > best {
				best = idx
				code = a.Code
			}
		}
	}
	for _, s := range currency.Symbols() {
		for _, marker := range targetMarkers {
			if idx := strings.LastIndex(lower, marker+s.Marker); idx > best {
				best = idx
				code = s.Code
			}
		}
	}
	return code
}

// RatePair is one parsed (currency, rate) assignment.
type RatePair struct {
	Code currency.Code
	Rate float64
}

// RatePairs parses rate assignments like "usd 3.65 eur 3.95" out of a
// message. Tokens that are neither a known currency nor a number following
// one are skipped; they never fail the whole batch.
func RatePairs(text string) []RatePair {
	fields := strings.Fields(text)
	var pairs []RatePair
	for i := 0; i < len(fields); i++ {
		code, ok := currency.FromText(fields[i])
		if !ok {
			continue
		}
		for j := i + 1; j < len(fields); j++ {
			raw := strings.ReplaceAll(fields[j], ",", "")
			rate, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				// The next token may itself be a currency word.
				if _, isCode := currency.FromText(fields[j]); isCode {
					break
				}
				continue
			}
			if rate > 0 {
				pairs = append(pairs, RatePair{Code: code, Rate: rate})
			}
			i = j
			break
		}
	}
	return pairs
}

// StripAmount removes the first amount token and all currency markers from
// text, leaving the free-text part of an expense message ("50₪ pizza at the
// beach" becomes "pizza at the beach").
func StripAmount(text string) string {
	out := text
	if loc := amountPattern.FindStringIndex(out); loc != nil {
		out = out[:loc[0]] + " " + out[loc[1]:]
	}
	for _, s := range currency.Symbols() {
		out = strings.ReplaceAll(out, s.Marker, " ")
	}
	fields := strings.Fields(out)
	kept := fields[:0]
	for _, f := range fields {
		if isCurrencyWord(f) {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// isCurrencyWord matches a whole token against the alias table, tolerating
// English and Hebrew plurals.
func isCurrencyWord(tok string) bool {
	tok = strings.ToLower(strings.Trim(tok, ".,!?"))
	for _, a := range currency.Aliases() {
		if tok == a.Word || tok == a.Word+"s" || tok == a.Word+"ים" {
			return true
		}
	}
	return false
}
