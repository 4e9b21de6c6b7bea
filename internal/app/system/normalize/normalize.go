// internal/app/system/normalize/normalize.go
package normalize

import (
	"strings"
	"unicode"
)

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and collapses internal runs of spaces.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NPI keeps only the digits of an NPI number.
func NPI(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// Phone trims a phone number. Formatting is left to the client.
func Phone(s string) string {
	return strings.TrimSpace(s)
}

// State trims a state name. Matching is case-insensitive downstream,
// so case is preserved for display.
func State(s string) string {
	return strings.TrimSpace(s)
}

// Role uppercases a role name to match the stored USER/ADMIN values.
func Role(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// QueryParam trims a query-string value, preserving case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
