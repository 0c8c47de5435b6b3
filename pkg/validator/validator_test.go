package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateLogin(t *testing.T) {
	v := NewCredentialsValidator()

	tests := []struct {
		name        string
		email       string
		password    string
		expected    string
		expectedErr error
	}{
		{"Valid", "Driver@Example.com ", "secret", "driver@example.com", nil},
		{"Empty email", "", "secret", "", ErrEmptyEmail},
		{"Whitespace email", "   ", "secret", "", ErrEmptyEmail},
		{"Empty password", "driver@example.com", "", "", ErrEmptyPassword},
		{"Short password allowed at login", "driver@example.com", "abc", "driver@example.com", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			email, err := v.ValidateLogin(tc.email, tc.password)
			assert.Equal(t, tc.expectedErr, err)
			assert.Equal(t, tc.expected, email)
		})
	}
}

func TestValidateSignup(t *testing.T) {
	v := NewCredentialsValidator()

	tests := []struct {
		name        string
		email       string
		password    string
		expectedErr error
	}{
		{"Valid", "driver@example.com", "secret", nil},
		{"Empty email", "", "secret", ErrEmptyEmail},
		{"Empty password", "driver@example.com", "", ErrShortPassword},
		{"Five characters", "driver@example.com", "abcde", ErrShortPassword},
		{"Six characters", "driver@example.com", "abcdef", nil},
		{"Malformed email", "driver.example.com", "secret", ErrInvalidEmail},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.ValidateSignup(tc.email, tc.password)
			assert.Equal(t, tc.expectedErr, err)
		})
	}
}

func TestDisplayName(t *testing.T) {
	v := NewCredentialsValidator()

	assert.Equal(t, "Sam", v.DisplayName(" Sam ", "sam@example.com"))
	assert.Equal(t, "sam.jones", v.DisplayName("", "sam.jones@example.com"))
}

func TestNormalizePlate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"   ", ""},
		{"abc 1234", "ABC 1234"},
		{"  kia   7788 ", "KIA 7788"},
		{"AB-12-CDE", "AB-12-CDE"},
		{"öw 123", "ÖW 123"},
		{"longplate12345", "LONGPLATE12345"},
		{strings.Repeat("x", 40), strings.Repeat("X", MaxPlateRunes)},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizePlate(tc.input))
		})
	}
}
