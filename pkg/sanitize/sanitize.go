// Package sanitize normalizes and validates free-form account fields the
// same way on every write path.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailRE      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRE   = regexp.MustCompile(`^[a-z0-9._-]{3,32}$`)
	phoneRE      = regexp.MustCompile(`^[0-9+\-()\s]{7,20}$`)
	whitespaceRE = regexp.MustCompile(`\s+`)
)

// Text collapses runs of whitespace, trims, and caps the byte length,
// cutting on a rune boundary so the result stays valid UTF-8.
func Text(value string, maxLen int) string {
	collapsed := whitespaceRE.ReplaceAllString(value, " ")
	trimmed := strings.TrimSpace(collapsed)
	if maxLen > 0 && len(trimmed) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(trimmed[cut]) {
			cut--
		}
		return strings.TrimRight(trimmed[:cut], " ")
	}
	return trimmed
}

// Email lowercases and trims an email address.
func Email(value string) string {
	return strings.ToLower(Text(value, 120))
}

// Username strips all whitespace and lowercases; uniqueness checks are
// case-insensitive so the stored form is already folded.
func Username(value string) string {
	folded := whitespaceRE.ReplaceAllString(value, "")
	return strings.ToLower(Text(folded, 40))
}

// Phone trims a phone number.
func Phone(value string) string {
	return Text(value, 30)
}

func ValidEmail(value string) bool {
	return emailRE.MatchString(Email(value))
}

func ValidUsername(value string) bool {
	return usernameRE.MatchString(Username(value))
}

func ValidPhone(value string) bool {
	return phoneRE.MatchString(Phone(value))
}

// StrongEnoughPassword applies the minimum-length policy.
func StrongEnoughPassword(value string, min int) bool {
	return len(strings.TrimSpace(value)) >= min
}
