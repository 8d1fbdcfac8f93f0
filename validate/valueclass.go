package validate

import (
	"strings"
	"time"
)

// Value class predicates. Class names follow the schema's vocabulary.

func matchValueClass(class, value string) bool {
	switch class {
	case "numericClass":
		return isNumeric(value)
	case "dateTimeClass":
		return isDateTime(value)
	case "nameClass":
		return isName(value)
	case "textClass":
		return true // character rules are enforced at the string tier
	default:
		// Unknown classes never match; the value is reported rather than
		// silently accepted against a class this build does not know.
		return false
	}
}

// isNumeric accepts plain decimal and scientific notation: an optional sign,
// digits with at most one decimal point, and an optional exponent. Inf, NaN
// and hex floats are not valid annotation values.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[i] == '+' || s[i] == '-' {
		i++
	}
	digits, dot := 0, false
	for i < len(s) {
		c := s[i]
		if c >= '0' && c <= '9' {
			digits++
			i++
			continue
		}
		if c == '.' && !dot {
			dot = true
			i++
			continue
		}
		break
	}
	if digits == 0 {
		return false
	}
	if i == len(s) {
		return true
	}
	if s[i] != 'e' && s[i] != 'E' {
		return false
	}
	i++
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if i == len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func isDateTime(s string) bool {
	for _, layout := range dateTimeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// isName restricts to word characters plus hyphen and underscore.
func isName(s string) bool {
	if s == "" {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return false
		case r == '-' || r == '_':
			return false
		}
		return true
	}) < 0
}
