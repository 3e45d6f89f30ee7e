package extract

import (
	"errors"
	"testing"

	"github.com/tamarw/takziv-bot/currency"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		fallback currency.Code
		want     int64
		wantCode currency.Code
		wantErr  bool
	}{
		{"plain number", "50 coffee", currency.ILS, 50, currency.ILS, false},
		{"grouping commas", "1,234 flight", currency.ILS, 1234, currency.ILS, false},
		{"decimal rounds up", "10.5 snacks", currency.ILS, 11, currency.ILS, false},
		{"decimal rounds down", "10.4 snacks", currency.ILS, 10, currency.ILS, false},
		{"grouping and decimal", "1,234.56 flight", currency.ILS, 1235, currency.ILS, false},
		{"second dot ends number", "1.2.3 versioned", currency.ILS, 1, currency.ILS, false},
		{"euro symbol", "€20 dinner", currency.ILS, 20, currency.EUR, false},
		{"dollar word", "13 dollars for the cab", currency.ILS, 13, currency.USD, false},
		{"fallback currency", "50 coffee", currency.USD, 50, currency.USD, false},
		{"no number", "just coffee", currency.ILS, 0, currency.ILS, true},
		{"bare separators", ".,. nothing", currency.ILS, 0, currency.ILS, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, code, err := Amount(tc.text, tc.fallback)
			if tc.wantErr {
				if !errors.Is(err, ErrNoAmount) {
					t.Fatalf("Amount(%q) err = %v, want ErrNoAmount", tc.text, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Amount(%q) unexpected error: %v", tc.text, err)
			}
			if got != tc.want || code != tc.wantCode {
				t.Errorf("Amount(%q) = (%d, %s), want (%d, %s)", tc.text, got, code, tc.want, tc.wantCode)
			}
		})
	}
}

func TestAmounts(t *testing.T) {
	got, code, err := Amounts("50 to 45", currency.ILS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != 50 || got[1] != 45 {
		t.Errorf("Amounts = %v, want [50 45]", got)
	}
	if code != currency.ILS {
		t.Errorf("code = %s, want ILS", code)
	}

	if _, _, err := Amounts("nothing here", currency.ILS); !errors.Is(err, ErrNoAmount) {
		t.Errorf("err = %v, want ErrNoAmount", err)
	}
}

func TestTargetCurrency(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		fallback currency.Code
		want     currency.Code
	}{
		{"in shekels", "how much is 100$ in shekels", currency.ILS, currency.ILS},
		{"in dollars", "how much is 100 in dollars", currency.ILS, currency.USD},
		{"to euro", "convert 50 to euro", currency.ILS, currency.EUR},
		{"rightmost marker wins", "how much is 20 euro in dollars", currency.ILS, currency.USD},
		{"hebrew marker", "כמה זה 100 דולר בשקלים", currency.USD, currency.ILS},
		{"no marker falls back", "how much is 100", currency.EUR, currency.EUR},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TargetCurrency(tc.text, tc.fallback); got != tc.want {
				t.Errorf("TargetCurrency(%q) = %s, want %s", tc.text, got, tc.want)
			}
		})
	}
}

func TestRatePairs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []RatePair
	}{
		{
			"two pairs",
			"rate usd 3.65 eur 3.95",
			[]RatePair{{currency.USD, 3.65}, {currency.EUR, 3.95}},
		},
		{
			"noise between pairs",
			"set usd at 3.7 please and eur around 4",
			[]RatePair{{currency.USD, 3.7}, {currency.EUR, 4}},
		},
		{
			"unrecognized code skipped",
			"rate xyz 9.9 usd 3.6",
			[]RatePair{{currency.USD, 3.6}},
		},
		{
			"negative rate dropped",
			"rate usd -3",
			nil,
		},
		{
			"no pairs",
			"rate please",
			nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := RatePairs(tc.text)
			if len(got) != len(tc.want) {
				t.Fatalf("RatePairs(%q) = %v, want %v", tc.text, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("pair %d = %+v, want %+v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestStripAmount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"symbol amount", "50₪ pizza at the beach", "pizza at the beach"},
		{"currency word", "13 dollars for the cab", "for the cab"},
		{"plural alias", "20 euros dinner", "dinner"},
		{"only first number removed", "50 table for 4", "table for 4"},
		{"word containing alias kept", "30 tennis balls", "tennis balls"},
		{"hebrew currency word", "50 שקל פלאפל", "פלאפל"},
		{"amount only", "50", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripAmount(tc.text); got != tc.want {
				t.Errorf("StripAmount(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}
