package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount reads an operator-typed money string.
//
// Accepts common formatted input like:
// - "1,234.50"
// - "$ 20"
// - "-7.00"
//
// Returns ok=false (and zero) for empty or unparsable input.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "USD", "")
	s = strings.TrimSpace(s)

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimSpace(strings.TrimPrefix(s, "-"))
	}
	if s == "" {
		return decimal.Zero, false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return decimal.Zero, false
		}
	}
	if neg {
		s = "-" + s
	}
	val, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return val, true
}

// LenientAmount is ParseAmount without the flag: anything unparsable counts as zero.
func LenientAmount(s string) decimal.Decimal {
	d, _ := ParseAmount(s)
	return d
}

// FormatAmount renders a value with two decimals for display and exports.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
