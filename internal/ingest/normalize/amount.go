// Package normalize converts loose statement strings into canonical values.
// All typed interpretation of cell text happens here; upstream stages carry
// cells as plain strings.
package normalize

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Amount is the result of parsing a raw monetary string.
type Amount struct {
	Value decimal.Decimal // signed value; zero when Ok is false
	// Explicit is true when the raw string itself carried a direction
	// convention: a leading minus, wrapping parentheses, or a DR/CR suffix.
	Explicit bool
	Ok       bool // false when nothing numeric could be recovered
}

// currencyMarkers are stripped before numeric parsing. Multi-rune symbols
// must come before their single-rune prefixes.
var currencyMarkers = []string{
	"R$", "US$", "USD", "EUR", "GBP", "BRL", "CHF",
	"$", "€", "£", "¥", "₹", "Fr.",
}

// ParseAmount parses a raw amount string. Currency symbols, thousands
// separators, and surrounding whitespace are stripped; parentheses or a
// leading minus negate; a trailing DR suffix negates and a trailing CR
// suffix keeps the value positive. european selects the 1.234,56 convention
// over 1,234.56. A value that cannot be parsed comes back as a zero Amount
// with Ok false, never an error.
func ParseAmount(raw string, european bool) Amount {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Amount{Value: decimal.Zero}
	}

	negative := false
	explicit := false

	upper := strings.ToUpper(s)
	switch {
	case strings.HasSuffix(upper, "DR"):
		negative = true
		explicit = true
		s = strings.TrimSpace(s[:len(s)-2])
	case strings.HasSuffix(upper, "CR"):
		explicit = true
		s = strings.TrimSpace(s[:len(s)-2])
	}

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		explicit = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	for _, marker := range currencyMarkers {
		s = strings.ReplaceAll(s, marker, "")
	}
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "-") {
		negative = true
		explicit = true
		s = strings.TrimPrefix(s, "-")
	}
	s = strings.TrimPrefix(s, "+")

	// Keep only digits and separators; drops stray unicode currency runes.
	s = strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == ',' || r == '.' {
			return r
		}
		return -1
	}, s)
	if s == "" {
		return Amount{Value: decimal.Zero}
	}

	if european {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	value, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{Value: decimal.Zero}
	}
	if negative {
		value = value.Neg()
	}
	return Amount{Value: value, Explicit: explicit, Ok: true}
}

// LooksNumeric reports whether raw would parse to a number under either
// regional convention. Used by column inference when classifying cells.
func LooksNumeric(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	digits := 0
	for _, r := range raw {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	return ParseAmount(raw, false).Ok || ParseAmount(raw, true).Ok
}

// DetectEuropean inspects sample amount strings and reports whether they use
// the European decimal-comma convention. The second return is false when the
// samples are ambiguous.
func DetectEuropean(samples []string) (european bool, ok bool) {
	europeanHints := 0
	usHints := 0

	for _, raw := range samples {
		cleaned := strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) || r == ',' || r == '.' {
				return r
			}
			return -1
		}, raw)
		if cleaned == "" {
			continue
		}

		hasComma := strings.Contains(cleaned, ",")
		hasDot := strings.Contains(cleaned, ".")

		switch {
		case hasComma && hasDot:
			if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
				europeanHints++
			} else {
				usHints++
			}
		case hasComma:
			if hasDecimalSuffix(cleaned, ',') {
				europeanHints++
			}
		case hasDot:
			if hasDecimalSuffix(cleaned, '.') {
				usHints++
			}
		}
	}

	if europeanHints == usHints {
		return false, false
	}
	return europeanHints > usHints, true
}

// hasDecimalSuffix reports whether the last sep is followed by 1-2 digits,
// the shape of a decimal separator rather than a thousands separator.
func hasDecimalSuffix(value string, sep rune) bool {
	idx := strings.LastIndex(value, string(sep))
	if idx == -1 || idx == len(value)-1 {
		return false
	}
	digits := 0
	for _, r := range value[idx+1:] {
		if !unicode.IsDigit(r) {
			return false
		}
		digits++
		if digits > 2 {
			return false
		}
	}
	return digits > 0
}
