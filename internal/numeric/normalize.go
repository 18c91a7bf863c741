// Package numeric parses the messy number strings that come out of receipt
// OCR: thousands separators, decimal commas, "x2" quantity markers, currency
// symbols. Parsing never fails hard; a value that cannot be read is reported
// as absent and callers substitute their own default.
package numeric

import (
	"strconv"
	"strings"
)

// Mode selects the parsing rules. Prices tolerate separators and stray
// currency characters; quantities are stricter and must be positive.
type Mode int

const (
	Price Mode = iota
	Quantity
)

// Normalize converts a value that may be an int, float, or string into a
// float64. The second return is false when the value is absent or unreadable.
// Numeric inputs pass through unchanged regardless of mode.
func Normalize(v any, mode Mode) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	case string:
		if mode == Quantity {
			return ParseQuantity(t)
		}
		return ParsePrice(t)
	default:
		return 0, false
	}
}

// ParsePrice reads a monetary amount from a string.
//
// Separator rules: with both a comma and a dot present, whichever comes last
// is the decimal separator and the other is stripped as a thousands separator
// ("1,234.56" and "1.234,56" both read as 1234.56); a lone comma is a decimal
// separator ("12,50" European style); multiple commas without a dot are
// thousands separators ("1,234,567"). Any remaining character that is not a
// digit or a dot is stripped before conversion.
func ParsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	commas := strings.Count(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case commas > 0 && hasDot:
		if strings.LastIndex(s, ".") > strings.LastIndex(s, ",") {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		}
	case commas == 1:
		s = strings.Replace(s, ",", ".", 1)
	case commas > 1:
		s = strings.ReplaceAll(s, ",", "")
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseQuantity reads an item count from a string. A single leading or
// trailing "x"/"X" multiplier marker is stripped ("x2", "2X"). The remainder
// must be a plain integer or decimal literal, with either separator accepted
// as the decimal point ("2,0" == 2.0). Non-positive results are absent.
func ParseQuantity(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if len(s) > 1 {
		if s[0] == 'x' || s[0] == 'X' {
			s = s[1:]
		} else if last := s[len(s)-1]; last == 'x' || last == 'X' {
			s = s[:len(s)-1]
		}
	}
	s = strings.TrimSpace(s)

	if !isQuantityLiteral(s) {
		return 0, false
	}
	s = strings.Replace(s, ",", ".", 1)
	if strings.HasSuffix(s, ".") {
		s += "0"
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return f, true
}

// isQuantityLiteral matches digits optionally followed by one separator and
// more digits: "2", "2.5", "2,", "10.".
func isQuantityLiteral(s string) bool {
	if s == "" {
		return false
	}
	seenSep := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case (r == '.' || r == ',') && !seenSep && i > 0:
			seenSep = true
		default:
			return false
		}
	}
	return true
}
