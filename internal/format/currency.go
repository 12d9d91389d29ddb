// Package format converts prices and dates between their stored and displayed forms.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseCurrency extracts an amount from user input such as "$1,250.00".
// Every character except digits, '.' and '-' is dropped before conversion.
// Empty or non-numeric input reports false rather than zero.
func ParseCurrency(s string) (decimal.Decimal, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	if cleaned == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ParseNullCurrency is ParseCurrency for optional fields.
func ParseNullCurrency(s string) decimal.NullDecimal {
	d, ok := ParseCurrency(s)
	return decimal.NullDecimal{Decimal: d, Valid: ok}
}

// FormatCurrency renders an amount as US dollars with two decimals and
// thousands separators, e.g. "$1,250.00" or "-$12.00".
func FormatCurrency(d decimal.Decimal) string {
	neg := d.IsNegative()
	fixed := d.Abs().StringFixed(2)

	whole, frac, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// FormatNullCurrency renders an optional amount; absent amounts render empty.
func FormatNullCurrency(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return FormatCurrency(d.Decimal)
}
