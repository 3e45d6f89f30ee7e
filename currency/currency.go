// Package currency defines the supported currency set and the conversion
// between a ledger's base currency and its display currency.
package currency

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Code identifies one of the supported currencies.
type Code string

const (
	ILS Code = "ILS"
	USD Code = "USD"
	EUR Code = "EUR"
)

// Base is the currency all ledger amounts are normalized to.
const Base = ILS

// Rates maps a currency to its conversion factor into base units:
// 1 unit of the currency equals Rate base units.
type Rates map[Code]float64

// DefaultRates returns the rates a fresh ledger starts with.
func DefaultRates() Rates {
	return Rates{ILS: 1.0, USD: 3.7, EUR: 4.0}
}

// Supported reports whether code belongs to the fixed supported set.
func Supported(code Code) bool {
	switch code {
	case ILS, USD, EUR:
		return true
	}
	return false
}

// SymbolMarker ties a textual currency marker to its code.
type SymbolMarker struct {
	Marker string
	Code   Code
}

// symbolOrder fixes the priority for overlapping symbol matches:
// EUR before USD before the base markers.
var symbolOrder = []SymbolMarker{
	{"€", EUR},
	{"$", USD},
	{"₪", ILS},
	{`ש"ח`, ILS},
}

// Alias ties a currency keyword to its code.
type Alias struct {
	Word string
	Code Code
}

// aliasOrder is scanned front to back; the first containment match wins.
var aliasOrder = []Alias{
	{"euro", EUR},
	{"eur", EUR},
	{"אירו", EUR},
	{"יורו", EUR},
	{"dollar", USD},
	{"usd", USD},
	{"דולר", USD},
	{"shekel", ILS},
	{"ils", ILS},
	{"nis", ILS},
	{"שקל", ILS},
}

// Symbols returns the symbol table in match-priority order.
func Symbols() []SymbolMarker {
	return symbolOrder
}

// Aliases returns the keyword table in match-priority order.
func Aliases() []Alias {
	return aliasOrder
}

// FromText finds a currency mentioned anywhere in text: symbols first, in
// priority order, then alias keywords. The boolean is false when nothing
// matched.
func FromText(text string) (Code, bool) {
	for _, s := range symbolOrder {
		if strings.Contains(text, s.Marker) {
			return s.Code, true
		}
	}
	lower := strings.ToLower(text)
	for _, a := range aliasOrder {
		if strings.Contains(lower, a.Word) {
			return a.Code, true
		}
	}
	return "", false
}

// rateFor returns the factor for code, falling back to 1.0 for unknown or
// unset codes. Permissive on purpose: an unrecognized code is treated as
// already being in base units.
func rateFor(code Code, rates Rates) float64 {
	if r, ok := rates[code]; ok && r > 0 {
		return r
	}
	return 1.0
}

// ToBase converts an amount in code into base units. Results round half away
// from zero; amounts the bot accepts are non-negative, so this equals round
// half up.
func ToBase(amount int64, code Code, rates Rates) int64 {
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromFloat(rateFor(code, rates))).
		Round(0).
		IntPart()
}

// FromBase converts a base amount into code units, rounding the same way as
// ToBase. A ToBase/FromBase round trip may drift by one unit; callers accept
// the drift.
func FromBase(amountBase int64, code Code, rates Rates) int64 {
	return decimal.NewFromInt(amountBase).
		Div(decimal.NewFromFloat(rateFor(code, rates))).
		Round(0).
		IntPart()
}

// Symbol returns the display marker for code.
func Symbol(code Code) string {
	switch code {
	case ILS:
		return "₪"
	case USD:
		return "$"
	case EUR:
		return "€"
	}
	return string(code)
}

// Format renders an integer amount for replies: "50₪", "$13", "€20".
func Format(amount int64, code Code) string {
	n := strconv.FormatInt(amount, 10)
	switch code {
	case USD, EUR:
		return Symbol(code) + n
	}
	return n + Symbol(code)
}
