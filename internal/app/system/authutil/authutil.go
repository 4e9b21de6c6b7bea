// Package authutil holds password hashing and credential shape checks used
// by sign-up, sign-in and password change.
package authutil

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted at sign-up or change.
const MinPasswordLength = 8

// Cost is the bcrypt cost. Tests lower it to bcrypt.MinCost.
var Cost = bcrypt.DefaultCost

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrInvalidEmail     = errors.New("invalid email address")
)

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether password matches hash. An empty hash
// (federated account) never matches.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword enforces the minimum length.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// ValidateEmail returns ErrInvalidEmail for an obviously malformed address.
func ValidateEmail(email string) error {
	if !isValidEmail(strings.TrimSpace(email)) {
		return ErrInvalidEmail
	}
	return nil
}

// isValidEmail is a shape check only: one @, a non-empty local part, and a
// dotted domain that neither starts nor ends with a dot.
func isValidEmail(email string) bool {
	if strings.Count(email, "@") != 1 {
		return false
	}
	at := strings.IndexByte(email, '@')
	local, domain := email[:at], email[at+1:]
	if local == "" || domain == "" {
		return false
	}
	if !strings.Contains(domain, ".") {
		return false
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	return !strings.ContainsAny(email, " \t\r\n")
}
