package auth

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt cost used for all password hashes
const hashCost = 10

const minPasswordLength = 8

// HashPassword produces a salted bcrypt hash of the clear-text password.
// The salt is random per call, so repeated hashes of the same input differ.
func HashPassword(clearText string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(clearText), hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether clearText matches the stored hash.
// A mismatch is a false, not an error.
func VerifyPassword(clearText, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(clearText)) == nil
}

// ValidatePassword checks clear-text password strength before hashing:
// at least 8 characters, one uppercase letter and one digit.
func ValidatePassword(clearText string) error {
	if len(clearText) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	var hasUpper, hasDigit bool
	for _, r := range clearText {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasDigit {
		return fmt.Errorf("password must contain at least one uppercase letter and one digit")
	}
	return nil
}
