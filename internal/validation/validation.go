// Package validation checks the shape of registration and login payloads.
// Every function is pure and always returns a Result; errors accumulate per
// field instead of stopping at the first failure.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the minimum number of characters for a new password.
const MinPasswordLength = 8

// MaxPasswordBytes is the longest password bcrypt can hash without truncation.
const MaxPasswordBytes = 72

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// FieldError names a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the outcome of a validation pass. Valid is true exactly when
// Errors is empty.
type Result struct {
	Valid  bool
	Errors []FieldError
}

func newResult(errs []FieldError) Result {
	return Result{Valid: len(errs) == 0, Errors: errs}
}

// IsValidEmail reports whether email has a basic local@domain.tld shape.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidUsername reports whether username is 3-20 letters, digits or underscores.
func IsValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// IsValidPassword enforces the minimum length, counted in characters.
func IsValidPassword(password string) bool {
	return utf8.RuneCountInString(password) >= MinPasswordLength
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidateRegistration checks all three registration fields independently.
func ValidateRegistration(username, email, password string) Result {
	var errs []FieldError

	switch {
	case blank(username):
		errs = append(errs, FieldError{Field: "username", Message: "Username is required"})
	case !IsValidUsername(username):
		errs = append(errs, FieldError{Field: "username", Message: "Username must be 3-20 characters of letters, digits or underscores"})
	}

	errs = appendEmailErrors(errs, email)

	switch {
	case blank(password):
		errs = append(errs, FieldError{Field: "password", Message: "Password is required"})
	case !IsValidPassword(password):
		errs = append(errs, FieldError{Field: "password", Message: "Password must be at least 8 characters"})
	case len(password) > MaxPasswordBytes:
		errs = append(errs, FieldError{Field: "password", Message: "Password must be at most 72 bytes"})
	}

	return newResult(errs)
}

// ValidateLogin checks the email shape and that a password is present. The
// stored hash decides whether the password itself is right.
func ValidateLogin(email, password string) Result {
	var errs []FieldError

	errs = appendEmailErrors(errs, email)

	if blank(password) {
		errs = append(errs, FieldError{Field: "password", Message: "Password is required"})
	}

	return newResult(errs)
}

func appendEmailErrors(errs []FieldError, email string) []FieldError {
	switch {
	case blank(email):
		return append(errs, FieldError{Field: "email", Message: "Email is required"})
	case !IsValidEmail(email):
		return append(errs, FieldError{Field: "email", Message: "Please enter a valid email address"})
	}
	return errs
}

// Format joins field errors as "field: message" pairs, mostly for logs.
func Format(errs []FieldError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return strings.Join(parts, ", ")
}
