package routehandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lakefield/todoapi/auth"
	"github.com/lakefield/todoapi/datastore"
	"github.com/lakefield/todoapi/models"
	"github.com/lakefield/todoapi/webutil"
)

type TodoHandler struct {
	Repo datastore.TodoStore
}

func NewTodoHandler(repo datastore.TodoStore) *TodoHandler {
	return &TodoHandler{Repo: repo}
}

func (h *TodoHandler) HandleCreateTodo(w http.ResponseWriter, r *http.Request) error {
	var requestData struct {
		Text string `json:"text"`
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&requestData); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	text := strings.TrimSpace(requestData.Text)
	if text == "" {
		return webutil.ErrBadRequest("Text is required")
	}

	todo := models.Todo{
		ID:   uuid.NewString(),
		Text: text,
	}
	// Creator is recorded when the request happens to be authenticated.
	// The todo routes themselves do not require it yet.
	if user, ok := auth.UserFromContext(r.Context()); ok {
		todo.Creator = user.ID
	}

	if err := h.Repo.CreateTodo(r.Context(), &todo); err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, todo)
	return nil
}

func (h *TodoHandler) HandleGetTodos(w http.ResponseWriter, r *http.Request) error {
	todos, err := h.Repo.GetTodos(r.Context())
	if err != nil {
		return fmt.Errorf("failed to retrieve todos: %w", err)
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{"todos": todos})
	return nil
}

func (h *TodoHandler) HandleGetTodo(w http.ResponseWriter, r *http.Request) error {
	todoID := chi.URLParam(r, "id")

	todo, err := h.Repo.GetTodoByID(r.Context(), todoID)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrNotFound("Todo not found")
		}
		return fmt.Errorf("failed to retrieve todo %s: %w", todoID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{"todo": todo})
	return nil
}

func (h *TodoHandler) HandleUpdateTodo(w http.ResponseWriter, r *http.Request) error {
	todoID := chi.URLParam(r, "id")

	var patch models.TodoPatch
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&patch); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if patch.Text != nil {
		trimmed := strings.TrimSpace(*patch.Text)
		if trimmed == "" {
			return webutil.ErrBadRequest("Text must not be empty")
		}
		patch.Text = &trimmed
	}

	todo, err := h.Repo.UpdateTodo(r.Context(), todoID, patch)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrNotFound("Todo not found")
		}
		return fmt.Errorf("failed to update todo %s: %w", todoID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{"todo": todo})
	return nil
}

func (h *TodoHandler) HandleDeleteTodo(w http.ResponseWriter, r *http.Request) error {
	todoID := chi.URLParam(r, "id")

	todo, err := h.Repo.DeleteTodo(r.Context(), todoID)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			// Deleting an already-deleted or malformed ID is not-found,
			// never a silent success.
			return webutil.ErrNotFound("Todo not found")
		}
		return fmt.Errorf("failed to delete todo %s: %w", todoID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{"todo": todo})
	return nil
}
