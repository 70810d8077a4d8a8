package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	rePhone = regexp.MustCompile(`^\+?[0-9][0-9 -]{6,14}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reQ     = regexp.MustCompile(`^[A-Za-z0-9 _'\-]{1,50}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 60 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true // optional
	}
	return s, rePhone.MatchString(s)
}

// Name validates a displayable name (person, farm, product).
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 60 {
		return "", false
	}
	return s, true
}

// ID validates a simple resource identifier (product/cart/farmer ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Q validates a search query: trims, enforces allowed characters and max length.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s, reQ.MatchString(s)
}

// Qty parses an add-to-cart quantity. Non-positive input is rejected, not
// rounded up; the top end is clamped to a sane window.
func Qty(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	if n > 50 {
		return 50, true
	} // clamp to avoid abuse
	return n, true
}

// Rating parses a review rating and requires the 1..5 range.
func Rating(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 5 {
		return 0, false
	}
	return n, true
}

// Price parses a non-negative price.
func Price(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return f, true
}

// Comment trims and bounds free-text review comments.
func Comment(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 1000 {
		return "", false
	}
	return s, true
}

// Password enforces a simple complexity window for login/registration.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 64 {
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
