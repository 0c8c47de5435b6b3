package validator

import (
	"errors"
	"regexp"
	"strings"
)

// MinPasswordLength is the shortest password accepted at sign-up
const MinPasswordLength = 6

var (
	// ErrEmptyEmail indicates the email was not supplied
	ErrEmptyEmail = errors.New("Please enter your email address")

	// ErrEmptyPassword indicates the password was not supplied
	ErrEmptyPassword = errors.New("Please enter your password")

	// ErrShortPassword indicates the password is under MinPasswordLength
	ErrShortPassword = errors.New("Password must be at least 6 characters")

	// ErrInvalidEmail indicates the email is not well formed
	ErrInvalidEmail = errors.New("Please enter a valid email address.")
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// CredentialsValidator checks sign-in and sign-up input before any store access
type CredentialsValidator struct{}

// NewCredentialsValidator creates a new credentials validator instance
func NewCredentialsValidator() *CredentialsValidator {
	return &CredentialsValidator{}
}

// SanitizeEmail trims and lowercases an email address
func (v *CredentialsValidator) SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateLogin checks that both fields are present.
// Returns the sanitized email.
func (v *CredentialsValidator) ValidateLogin(email, password string) (string, error) {
	email = v.SanitizeEmail(email)
	if email == "" {
		return "", ErrEmptyEmail
	}
	if password == "" {
		return "", ErrEmptyPassword
	}
	return email, nil
}

// ValidateSignup checks the email and enforces the minimum password length.
// Returns the sanitized email.
func (v *CredentialsValidator) ValidateSignup(email, password string) (string, error) {
	email = v.SanitizeEmail(email)
	if email == "" {
		return "", ErrEmptyEmail
	}
	if len(password) < MinPasswordLength {
		return "", ErrShortPassword
	}
	if !emailRegex.MatchString(email) {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// DisplayName returns name, or the local part of email when name is blank
func (v *CredentialsValidator) DisplayName(name, email string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}
