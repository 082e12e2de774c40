// Package normalize provides canonical forms for user-entered identity
// fields so lookups and uniqueness checks behave consistently.
package normalize

import "strings"

// Email lowercases and trims an email address. Emails are stored and
// queried only in this form.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// AuthMethod lowercases and trims an auth method ("internal", "google").
func AuthMethod(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Phone strips spaces and common separators, keeping digits and a leading +.
func Phone(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
