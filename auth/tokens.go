// Package auth implements the credential and session-token core: password
// verification, signed token issuance, and token resolution back to a user.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lakefield/todoapi/datastore"
	"github.com/lakefield/todoapi/models"
)

// ErrUnauthenticated is the single failure result of Resolve. Expired,
// tampered, malformed and detached tokens are deliberately
// indistinguishable to callers.
var ErrUnauthenticated = errors.New("unauthenticated")

// Claims is the signed token payload: the user's identifier plus a fixed
// access-level claim.
type Claims struct {
	UserID string `json:"_id"`
	Access string `json:"access"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies session tokens with a process-wide
// symmetric key and keeps the issued tokens attached to their user.
type TokenService struct {
	users  datastore.UserStore
	secret []byte
}

func NewTokenService(users datastore.UserStore, secret []byte) *TokenService {
	return &TokenService{users: users, secret: secret}
}

// Issue signs a token for the user, appends it to the user's token list
// and persists that entry. Prior tokens are retained, so each login gets
// its own concurrent session. Tokens carry no expiry; they stay valid
// until removed from the list.
func (s *TokenService) Issue(ctx context.Context, user *models.User) (string, error) {
	claims := Claims{
		UserID: user.ID,
		Access: models.AccessAuth,
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti and iat make every issued token string unique, so
			// removing one session's token never matches another's.
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	entry := models.TokenEntry{Access: models.AccessAuth, Token: signed}
	if err := s.users.AddToken(ctx, user.ID, entry); err != nil {
		return "", fmt.Errorf("failed to persist token: %w", err)
	}
	user.Tokens = append(user.Tokens, entry)
	return signed, nil
}

// Resolve verifies the token signature and loads the matching user. A
// valid signature alone is not enough: the exact token string must still
// be attached to the user with access "auth", so tokens removed by logout
// stop resolving even though their signature stays valid.
func (s *TokenService) Resolve(ctx context.Context, tokenString string) (*models.User, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}
	if claims.UserID == "" || claims.Access != models.AccessAuth {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetUserByToken(ctx, claims.UserID, models.AccessAuth, tokenString)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// Revoke removes the token from the user's token list. Other sessions of
// the same user are untouched.
func (s *TokenService) Revoke(ctx context.Context, user *models.User, tokenString string) error {
	if err := s.users.RemoveToken(ctx, user.ID, tokenString); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}
