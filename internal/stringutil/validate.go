// Package stringutil provides small string validation helpers shared by the
// tester's format checks.
package stringutil

import (
	"net/url"
	"regexp"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// IsValidEmail checks if s is a valid email address.
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// IsValidURI checks if s parses as an absolute URI.
func IsValidURI(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != ""
}
