// Package inputval validates user input at the API boundary.
//
// It offers two layers: standalone predicates (IsValidEmail, IsValidObjectID)
// for ad-hoc checks, and a small struct-tag validator (Validate) for request
// payloads, supporting `validate:"required,min=N,max=N,email"` with a
// human-readable `label` tag used in error messages.
package inputval

import "strings"

// IsValidEmail reports whether s is a plausible email address.
//
// Deliberately stricter than net/mail: display-name forms, leading/trailing
// dots, and consecutive dots are rejected, but single-label domains
// (user@localhost) are allowed for dev environments.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}

	at := strings.LastIndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	local, domain := s[:at], s[at+1:]

	if !validDotAtom(local) || !validDotAtom(domain) {
		return false
	}
	return true
}

// validDotAtom checks a dot-separated atom: no empty segments (so no
// leading/trailing/consecutive dots) and no whitespace or angle brackets.
func validDotAtom(s string) bool {
	if s == "" {
		return false
	}
	for _, seg := range strings.Split(s, ".") {
		if seg == "" {
			return false
		}
		for _, r := range seg {
			switch {
			case r == ' ' || r == '\t' || r == '<' || r == '>' || r == '@':
				return false
			}
		}
	}
	return true
}

// IsValidObjectID reports whether s is a 24-character hex Mongo ObjectID.
func IsValidObjectID(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 24 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// IsValidHTTPURL reports whether s is an absolute http(s) URL.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	rest := strings.TrimPrefix(strings.TrimPrefix(s, "https://"), "http://")
	if rest == "" || strings.ContainsAny(rest, " \t") {
		return false
	}
	return true
}
