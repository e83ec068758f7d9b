// Package secrets hashes account passwords and mints throwaway ones.
package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	dErrors "ubersystem/pkg/domain-errors"
)

const minPasswordLength = 8

// Generate returns a random URL-safe password for accounts created by
// tooling.
func Generate() (string, error) {
	buf := make([]byte, 18)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("could not generate password: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Hash bcrypt-hashes password.
func Hash(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", dErrors.Newf(dErrors.CodeValidation, "password must be at least %d characters", minPasswordLength)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeValidation, "password is too long")
		}
		return "", fmt.Errorf("could not hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports a mismatch as CodeUnauthorized.
func Verify(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
		}
		return fmt.Errorf("could not verify password: %w", err)
	}
	return nil
}
