package routehandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/lakefield/todoapi/auth"
	"github.com/lakefield/todoapi/datastore"
	"github.com/lakefield/todoapi/models"
	"github.com/lakefield/todoapi/webutil"
)

type UserHandler struct {
	Creds  *auth.CredentialStore
	Tokens *auth.TokenService
}

func NewUserHandler(creds *auth.CredentialStore, tokens *auth.TokenService) *UserHandler {
	return &UserHandler{Creds: creds, Tokens: tokens}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func decodeCredentials(r *http.Request) (credentialsRequest, error) {
	var requestData credentialsRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&requestData); err != nil {
		return requestData, webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()
	return requestData, nil
}

// HandleCreateUser signs a user up and logs them in: the response body is
// the public user projection and the x-auth header carries the first
// session token.
func (h *UserHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) error {
	requestData, err := decodeCredentials(r)
	if err != nil {
		return err
	}

	user, err := h.Creds.Create(r.Context(), requestData.Email, requestData.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidEmail), errors.Is(err, models.ErrPasswordTooShort):
			return webutil.ErrBadRequest(err.Error())
		case errors.Is(err, datastore.ErrDuplicateEmail):
			return webutil.ErrBadRequest("Email already in use")
		default:
			return fmt.Errorf("failed to create user: %w", err)
		}
	}

	token, err := h.Tokens.Issue(r.Context(), user)
	if err != nil {
		return fmt.Errorf("failed to issue token for new user: %w", err)
	}

	w.Header().Set(webutil.HeaderXAuth, token)
	webutil.RespondWithJSON(w, http.StatusOK, user.Public())
	return nil
}

// HandleLogin verifies credentials and issues one more session token.
// Failures are uniform: the response never says whether the email or the
// password was wrong, and no x-auth header is set.
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) error {
	requestData, err := decodeCredentials(r)
	if err != nil {
		return err
	}

	user, err := h.Creds.Verify(r.Context(), requestData.Email, requestData.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return webutil.ErrBadRequest("Invalid email or password")
		}
		return fmt.Errorf("failed to verify credentials: %w", err)
	}

	token, err := h.Tokens.Issue(r.Context(), user)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	w.Header().Set(webutil.HeaderXAuth, token)
	webutil.RespondWithJSON(w, http.StatusOK, user.Public())
	return nil
}

// HandleGetMe returns the authenticated user's public projection.
func (h *UserHandler) HandleGetMe(w http.ResponseWriter, r *http.Request) error {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		return webutil.ErrUnauthorized("")
	}
	webutil.RespondWithJSON(w, http.StatusOK, user.Public())
	return nil
}

// HandleDeleteToken logs the current session out by removing exactly the
// presented token. Other sessions of the same user keep working.
func (h *UserHandler) HandleDeleteToken(w http.ResponseWriter, r *http.Request) error {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		return webutil.ErrUnauthorized("")
	}
	token, ok := auth.TokenFromContext(r.Context())
	if !ok {
		return webutil.ErrUnauthorized("")
	}

	if err := h.Tokens.Revoke(r.Context(), user, token); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	w.WriteHeader(http.StatusOK)
	return nil
}
