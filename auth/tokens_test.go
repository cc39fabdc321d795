package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakefield/todoapi/datastore"
	"github.com/lakefield/todoapi/models"
)

func newTestUser(t *testing.T, store datastore.UserStore) *models.User {
	t.Helper()
	creds := NewCredentialStore(store)
	user, err := creds.Create(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)
	return user
}

func TestIssueAndResolve(t *testing.T) {
	t.Parallel()

	store := datastore.NewInMemoryUserStore()
	user := newTestUser(t, store)
	svc := NewTokenService(store, []byte("test-secret"))

	token, err := svc.Issue(context.Background(), user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	resolved, err := svc.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, user.Email, resolved.Email)
}

func TestIssueAppendsOneEntryPerLogin(t *testing.T) {
	t.Parallel()

	store := datastore.NewInMemoryUserStore()
	user := newTestUser(t, store)
	svc := NewTokenService(store, []byte("test-secret"))

	first, err := svc.Issue(context.Background(), user)
	require.NoError(t, err)
	second, err := svc.Issue(context.Background(), user)
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "each login must get its own token string")

	stored, err := store.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, stored.Tokens, 2, "prior sessions must be retained")
	assert.Equal(t, models.TokenEntry{Access: models.AccessAuth, Token: first}, stored.Tokens[0])
	assert.Equal(t, models.TokenEntry{Access: models.AccessAuth, Token: second}, stored.Tokens[1])

	// Both sessions resolve independently.
	for _, token := range []string{first, second} {
		resolved, err := svc.Resolve(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, resolved.ID)
	}
}

func TestResolveRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	store := datastore.NewInMemoryUserStore()
	user := newTestUser(t, store)

	token, err := NewTokenService(store, []byte("right-secret")).Issue(context.Background(), user)
	require.NoError(t, err)

	_, err = NewTokenService(store, []byte("wrong-secret")).Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResolveRejectsMalformedToken(t *testing.T) {
	t.Parallel()

	store := datastore.NewInMemoryUserStore()
	svc := NewTokenService(store, []byte("test-secret"))

	for _, token := range []string{"", "not.a.jwt", "garbage"} {
		_, err := svc.Resolve(context.Background(), token)
		assert.ErrorIs(t, err, ErrUnauthenticated, "token %q must be rejected", token)
	}
}

func TestResolveRejectsRevokedToken(t *testing.T) {
	t.Parallel()

	store := datastore.NewInMemoryUserStore()
	user := newTestUser(t, store)
	svc := NewTokenService(store, []byte("test-secret"))

	token, err := svc.Issue(context.Background(), user)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), user, token))

	// The signature is still valid, but the entry is gone from the list.
	_, err = svc.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRevokeLeavesOtherSessions(t *testing.T) {
	t.Parallel()

	store := datastore.NewInMemoryUserStore()
	user := newTestUser(t, store)
	svc := NewTokenService(store, []byte("test-secret"))

	first, err := svc.Issue(context.Background(), user)
	require.NoError(t, err)
	second, err := svc.Issue(context.Background(), user)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), user, first))

	_, err = svc.Resolve(context.Background(), first)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	resolved, err := svc.Resolve(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}
