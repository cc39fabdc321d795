package datastore

import (
	"context"
	"errors"

	"github.com/lakefield/todoapi/models"
)

var (
	// ErrNotFound covers both missing rows and syntactically invalid IDs;
	// callers must not be able to tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is the translated form of the store's email
	// uniqueness violation.
	ErrDuplicateEmail = errors.New("email already in use")
)

// UserStore persists users and their session token lists.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// GetUserByToken returns the user only if the user exists AND its
	// token list contains an entry matching both access and token.
	GetUserByToken(ctx context.Context, userID, access, token string) (*models.User, error)

	AddToken(ctx context.Context, userID string, entry models.TokenEntry) error
	RemoveToken(ctx context.Context, userID, token string) error
}

// TodoStore persists todos.
type TodoStore interface {
	CreateTodo(ctx context.Context, todo *models.Todo) error
	GetTodos(ctx context.Context) ([]models.Todo, error)
	GetTodoByID(ctx context.Context, todoID string) (*models.Todo, error)
	UpdateTodo(ctx context.Context, todoID string, patch models.TodoPatch) (*models.Todo, error)
	DeleteTodo(ctx context.Context, todoID string) (*models.Todo, error)
}
