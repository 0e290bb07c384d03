// Package email holds the address shape check shared by the API schema and
// the client bundle.
package email

import (
	"regexp"
	"strings"
)

// Pattern is the address shape: one '@', no whitespace, a '.' in the domain.
const Pattern = `^[^@\s]+@[^@\s]+\.[^@\s]+$`

var shape = regexp.MustCompile(Pattern)

// Valid reports whether s looks like local@domain.tld.
func Valid(s string) bool {
	return shape.MatchString(s)
}

// Normalize trims surrounding whitespace and lower-cases the address.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
