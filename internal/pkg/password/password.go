package password

import (
	"errors"
	"fmt"

	"github.com/bomberman-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when no account exists so that unknown
// emails cost the same bcrypt work as wrong passwords.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("bomberman-placeholder"), bcrypt.DefaultCost)

// Hash returns a salted bcrypt hash of plain.
func Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("password longer than 72 bytes: %w", domain.ErrInvalidInput)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plain matches hash.
func Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Burn performs a comparison against a fixed hash and discards the result.
func Burn(plain string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}
