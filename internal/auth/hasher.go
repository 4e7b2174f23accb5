package auth

import (
	"errors"
	"fmt"

	"leaveflow/pkg/apperr"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch is returned by Verify when the password does not match the digest.
var ErrMismatch = bcrypt.ErrMismatchedHashAndPassword

// PasswordHasher hashes passwords for storage and verifies login attempts.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) error
}

// BcryptHasher implements PasswordHasher with bcrypt at the default cost (10).
// bcrypt salts per call and compares in constant time.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher() BcryptHasher {
	return BcryptHasher{cost: bcrypt.DefaultCost}
}

func (h BcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify returns nil on a match, ErrMismatch on a wrong password, and
// apperr.ErrHashFormat when the stored digest cannot be parsed.
func (h BcryptHasher) Verify(password, digest string) error {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return fmt.Errorf("%w: %v", apperr.ErrHashFormat, err)
}
