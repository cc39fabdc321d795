package models

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength is the minimum plaintext password length accepted
	// at signup. Applies to the raw string, before hashing.
	MinPasswordLength = 6

	// PasswordHashCost is the bcrypt cost factor used for new passwords.
	PasswordHashCost = 10

	// maxPasswordBytes is the bcrypt input limit. Longer passwords are
	// accepted and keyed on their first 72 bytes rather than rejected.
	maxPasswordBytes = 72

	// AccessAuth is the access level of a login session token. It is the
	// only access level in use today.
	AccessAuth = "auth"
)

var (
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

// TokenEntry is one issued session token attached to a user. A user holds
// one entry per active login, in issuance order.
type TokenEntry struct {
	Access string `json:"access"`
	Token  string `json:"token"`
}

type User struct {
	ID           string       `json:"_id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Tokens       []TokenEntry `json:"-"`
}

// PublicUser is the statically declared projection of a User that is safe
// to leave the credential store boundary. The password hash and token list
// are never part of it.
type PublicUser struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email}
}

// SetPassword validates the plaintext password and replaces the stored
// hash with a fresh salted bcrypt digest. This is the only path that
// writes PasswordHash, so hashing happens exactly once per change and
// never on unrelated updates.
func (u *User) SetPassword(plaintext string) error {
	if len(plaintext) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword(passwordBytes(plaintext), PasswordHashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func (u *User) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), passwordBytes(plaintext)) == nil
}

// passwordBytes truncates the plaintext to the bcrypt input limit so both
// hashing and verification key on the same prefix. GenerateFromPassword
// rejects longer inputs outright, which would turn a valid signup into an
// internal error.
func passwordBytes(plaintext string) []byte {
	b := []byte(plaintext)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// ValidateEmail trims the candidate address and checks it against the
// RFC 5322 address grammar. It returns the trimmed address on success.
func ValidateEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		// A display name ("Bob <b@x.com>") parses, but only a bare
		// address is a valid account identifier.
		return "", ErrInvalidEmail
	}
	return email, nil
}
