package utils

import (
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/OscarGAV/eventrely-backend/internal/errs"
)

// PasswordMinLen is the shortest accepted plaintext password, in characters.
const PasswordMinLen = 8

// BcryptHasher hashes passwords with a per-hash random salt.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher clamps cost into bcrypt's accepted range.
func NewBcryptHasher(cost int) BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{Cost: cost}
}

// Hash returns the bcrypt hash of plain.
func (h BcryptHasher) Hash(plain string) (string, error) {
	if utf8.RuneCountInString(plain) < PasswordMinLen {
		return "", errs.Validation("Password must be at least %d characters long", PasswordMinLen)
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		if err == bcrypt.ErrPasswordTooLong {
			return "", errs.Validation("Password is too long")
		}
		return "", err
	}
	return string(b), nil
}

// Verify safely compares bcrypt hash and plain password.
func (h BcryptHasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
