package model

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/OscarGAV/eventrely-backend/internal/errs"
)

// Username bounds.
const (
	UsernameMinLen = 3
	UsernameMaxLen = 50
)

// Column widths of the users table, in characters.
const (
	EmailMaxLen    = 255
	FullNameMaxLen = 200
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// PasswordHasher hashes and verifies plaintext passwords. Implementations
// reject plaintext shorter than the minimum length with a validation error.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// User is the identity aggregate. It never carries storage concerns; the
// repository maps it to and from the users table.
type User struct {
	ID           uint64
	Username     string
	Email        string
	PasswordHash string
	FullName     *string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser builds an active user with normalized credentials. The caller
// supplies an already computed hash.
func NewUser(username, email, passwordHash string, role Role, fullName *string, now time.Time) *User {
	now = now.UTC()
	return &User{
		Username:     NormalizeIdentifier(username),
		Email:        NormalizeIdentifier(email),
		PasswordHash: passwordHash,
		FullName:     fullName,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NormalizeIdentifier lowercases and trims a username or email.
func NormalizeIdentifier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidateUsername checks length and allowed characters of a normalized username.
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < UsernameMinLen || n > UsernameMaxLen {
		return errs.Validation("Username must be between %d and %d characters", UsernameMinLen, UsernameMaxLen)
	}
	if !usernamePattern.MatchString(username) {
		return errs.Validation("Username may only contain letters, digits, underscores and hyphens")
	}
	return nil
}

// ValidateEmail performs the minimal shape check used across the service.
func ValidateEmail(email string) error {
	if err := validateEmailLen(email); err != nil {
		return err
	}
	if !strings.Contains(email, "@") {
		return errs.Validation("Invalid email format")
	}
	return nil
}

func validateEmailLen(email string) error {
	if utf8.RuneCountInString(email) > EmailMaxLen {
		return errs.Validation("Email must be at most %d characters", EmailMaxLen)
	}
	return nil
}

// ValidateFullName accepts a nil name.
func ValidateFullName(fullName *string) error {
	if fullName != nil && utf8.RuneCountInString(*fullName) > FullNameMaxLen {
		return errs.Validation("Full name must be at most %d characters", FullNameMaxLen)
	}
	return nil
}

// ChangePassword replaces the hash once the current password is confirmed.
func (u *User) ChangePassword(h PasswordHasher, current, next string, now time.Time) error {
	if !h.Verify(current, u.PasswordHash) {
		return errs.Domain("Current password is incorrect")
	}
	hash, err := h.Hash(next)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.UpdatedAt = now.UTC()
	return nil
}

// UpdateProfile applies only the provided fields. Nothing changes when any
// field is rejected.
func (u *User) UpdateProfile(fullName, email *string, now time.Time) error {
	if err := ValidateFullName(fullName); err != nil {
		return err
	}
	if email != nil {
		e := NormalizeIdentifier(*email)
		if err := validateEmailLen(e); err != nil {
			return err
		}
		if !strings.Contains(e, "@") {
			return errs.Domain("Invalid email format")
		}
		u.Email = e
	}
	if fullName != nil {
		name := *fullName
		u.FullName = &name
	}
	u.UpdatedAt = now.UTC()
	return nil
}

// Deactivate fails on an already inactive account.
func (u *User) Deactivate(now time.Time) error {
	if !u.IsActive {
		return errs.Domain("User is already deactivated")
	}
	u.IsActive = false
	u.UpdatedAt = now.UTC()
	return nil
}

// Activate fails on an already active account.
func (u *User) Activate(now time.Time) error {
	if u.IsActive {
		return errs.Domain("User is already active")
	}
	u.IsActive = true
	u.UpdatedAt = now.UTC()
	return nil
}

func (u *User) CanAuthenticate() bool  { return u.IsActive }
func (u *User) IsAdmin() bool          { return u.Role == RoleAdmin }
func (u *User) IsGeneral() bool        { return u.Role == RoleGeneral }
func (u *User) CanViewAllEvents() bool { return u.IsAdmin() }
func (u *User) CanManageUsers() bool   { return u.IsAdmin() }
