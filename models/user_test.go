package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	valid := []string{
		"a@b.com",
		"metalhead@gmail.com",
		"  padded@example.org  ", // trimmed before validation
	}
	for _, email := range valid {
		trimmed, err := ValidateEmail(email)
		require.NoError(t, err, "email %q should be valid", email)
		assert.NotContains(t, trimmed, " ")
	}

	invalid := []string{
		"",
		"   ",
		"samir",
		"no-at-sign.com",
		"Bob <bob@example.com>", // display names are not account identifiers
	}
	for _, email := range invalid {
		_, err := ValidateEmail(email)
		assert.ErrorIs(t, err, ErrInvalidEmail, "email %q should be invalid", email)
	}
}

func TestSetPassword(t *testing.T) {
	t.Parallel()

	var user User
	err := user.SetPassword("short")
	require.ErrorIs(t, err, ErrPasswordTooShort)
	assert.Empty(t, user.PasswordHash)

	require.NoError(t, user.SetPassword("secret1"))
	assert.NotEqual(t, "secret1", user.PasswordHash, "plaintext must never be stored")
	assert.True(t, user.CheckPassword("secret1"))
	assert.False(t, user.CheckPassword("secret2"))
}

func TestSetPasswordAcceptsLongPassword(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 100)

	var user User
	require.NoError(t, user.SetPassword(long))
	assert.True(t, user.CheckPassword(long))
	assert.False(t, user.CheckPassword("wrong-password"))

	// Only the first 72 bytes are keyed, matching the hash library the
	// API launched with.
	assert.True(t, user.CheckPassword(long[:72]+"different-tail"))
}

func TestSetPasswordSaltsEachWrite(t *testing.T) {
	t.Parallel()

	var a, b User
	require.NoError(t, a.SetPassword("secret1"))
	require.NoError(t, b.SetPassword("secret1"))
	assert.NotEqual(t, a.PasswordHash, b.PasswordHash, "each write gets a fresh salt")
}

func TestUserSerializationStripsSecrets(t *testing.T) {
	t.Parallel()

	user := User{
		ID:           "u1",
		Email:        "a@b.com",
		PasswordHash: "$2a$10$whatever",
		Tokens:       []TokenEntry{{Access: AccessAuth, Token: "tok"}},
	}

	for _, payload := range []any{user, user.Public()} {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(encoded, &decoded))
		assert.Equal(t, "u1", decoded["_id"])
		assert.Equal(t, "a@b.com", decoded["email"])
		assert.Len(t, decoded, 2, "only _id and email may leave the boundary")
	}
}
