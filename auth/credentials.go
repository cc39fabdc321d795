package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lakefield/todoapi/datastore"
	"github.com/lakefield/todoapi/models"
)

// ErrInvalidCredentials is the single failure result of Verify. Unknown
// email and wrong password produce the same error so callers cannot
// enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid email or password")

// CredentialStore owns user creation and password verification.
type CredentialStore struct {
	users datastore.UserStore
}

func NewCredentialStore(users datastore.UserStore) *CredentialStore {
	return &CredentialStore{users: users}
}

// Create validates the email and password, hashes the password and stores
// the new user. It returns models.ErrInvalidEmail,
// models.ErrPasswordTooShort or datastore.ErrDuplicateEmail on rejection.
func (s *CredentialStore) Create(ctx context.Context, email, password string) (*models.User, error) {
	email, err := models.ValidateEmail(email)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:    uuid.NewString(),
		Email: email,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, datastore.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}
	return user, nil
}

// Verify looks the user up by email and checks the password against the
// stored hash.
func (s *CredentialStore) Verify(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
