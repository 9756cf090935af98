package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
	"unicode"
)

// ClearMemory overwrites sensitive bytes with zeros.
func ClearMemory(data []byte) {
	for i := range data {
		data[i] = 0
	}
}

// GenerateRandomBytes returns size bytes from crypto/rand.
func GenerateRandomBytes(size int) ([]byte, error) {
	bytes := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, bytes); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return bytes, nil
}

type PasswordStrength int

const (
	PasswordWeak PasswordStrength = iota
	PasswordMedium
	PasswordStrong
)

func (s PasswordStrength) String() string {
	switch s {
	case PasswordStrong:
		return "strong"
	case PasswordMedium:
		return "medium"
	default:
		return "weak"
	}
}

// CheckPasswordStrength grades a master password.
// Medium needs 8+ characters with upper, lower and digit; strong also needs 12+ and a symbol.
func CheckPasswordStrength(password string) PasswordStrength {
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}

	n := len([]rune(password))
	if n < 8 || !(upper && lower && digit) {
		return PasswordWeak
	}
	if n >= 12 && special {
		return PasswordStrong
	}
	return PasswordMedium
}
