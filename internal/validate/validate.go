package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reDate  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T.*)?$`)
)

// ID validates a resource identifier (product/client/visit ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Name validates a displayable name with a sane max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 100 {
		return "", false
	}
	return s, true
}

// Amount parses a non-negative quantity; rejects NaN-ish input and caps at
// a value no salon will ever reach.
func Amount(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 || f > 1e6 {
		return 0, false
	}
	return f, true
}

// Date accepts YYYY-MM-DD, optionally with a time part.
func Date(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reDate.MatchString(s)
}

func Unit(s string) (string, bool) {
	switch s {
	case "ks", "g", "ml":
		return s, true
	}
	return "", false
}

func Category(s string) (string, bool) {
	switch s {
	case "color", "preliv", "oxidant", "bleach", "care", "styling", "supplies", "retail", "other":
		return s, true
	}
	return "", false
}

func BlockType(s string) (string, bool) {
	switch s {
	case "simple", "color", "retail":
		return s, true
	}
	return "", false
}

func Ratio(s string) (string, bool) {
	switch s {
	case "1:1", "1:1.5", "1:2":
		return s, true
	}
	return "", false
}

func Method(s string) (string, bool) {
	switch s {
	case "cash", "qr":
		return s, true
	}
	return "", false
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 50 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Password enforces the login policy for seeded staff accounts.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 20 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}
