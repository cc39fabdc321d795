package datastore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lakefield/todoapi/models"
)

// InMemoryUserStore is a UserStore backed by a map. It mirrors the
// Postgres repository's observable behavior, including the uniqueness
// failure on duplicate emails, and backs the tests.
type InMemoryUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User // keyed by user ID
	order []string
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[string]*models.User)}
}

func (s *InMemoryUserStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return ErrDuplicateEmail
		}
	}
	s.users[user.ID] = copyUser(user)
	s.order = append(s.order, user.ID)
	return nil
}

func (s *InMemoryUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.order {
		if s.users[id].Email == email {
			return copyUser(s.users[id]), nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryUserStore) GetUserByID(_ context.Context, userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(user), nil
}

func (s *InMemoryUserStore) GetUserByToken(_ context.Context, userID, access, token string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	for _, entry := range user.Tokens {
		if entry.Access == access && entry.Token == token {
			return copyUser(user), nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryUserStore) AddToken(_ context.Context, userID string, entry models.TokenEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	user.Tokens = append(user.Tokens, entry)
	return nil
}

func (s *InMemoryUserStore) RemoveToken(_ context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	kept := user.Tokens[:0]
	for _, entry := range user.Tokens {
		if entry.Token != token {
			kept = append(kept, entry)
		}
	}
	user.Tokens = kept
	return nil
}

// InMemoryTodoStore is a TodoStore backed by a map, preserving insertion
// order for listings.
type InMemoryTodoStore struct {
	mu    sync.Mutex
	todos map[string]*models.Todo
	order []string
}

func NewInMemoryTodoStore() *InMemoryTodoStore {
	return &InMemoryTodoStore{todos: make(map[string]*models.Todo)}
}

func (s *InMemoryTodoStore) CreateTodo(_ context.Context, todo *models.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.todos[todo.ID] = copyTodo(todo)
	s.order = append(s.order, todo.ID)
	return nil
}

func (s *InMemoryTodoStore) GetTodos(_ context.Context) ([]models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var todos []models.Todo
	for _, id := range s.order {
		todos = append(todos, *copyTodo(s.todos[id]))
	}
	return todos, nil
}

func (s *InMemoryTodoStore) GetTodoByID(_ context.Context, todoID string) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, err := s.lookup(todoID)
	if err != nil {
		return nil, err
	}
	return copyTodo(todo), nil
}

func (s *InMemoryTodoStore) UpdateTodo(_ context.Context, todoID string, patch models.TodoPatch) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, err := s.lookup(todoID)
	if err != nil {
		return nil, err
	}
	patch.Apply(todo, time.Now())
	return copyTodo(todo), nil
}

func (s *InMemoryTodoStore) DeleteTodo(_ context.Context, todoID string) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, err := s.lookup(todoID)
	if err != nil {
		return nil, err
	}
	delete(s.todos, todoID)
	for i, id := range s.order {
		if id == todoID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return todo, nil
}

// lookup treats malformed IDs identically to missing rows, matching the
// Postgres repositories.
func (s *InMemoryTodoStore) lookup(todoID string) (*models.Todo, error) {
	if _, err := uuid.Parse(todoID); err != nil {
		return nil, ErrNotFound
	}
	todo, ok := s.todos[todoID]
	if !ok {
		return nil, ErrNotFound
	}
	return todo, nil
}

func copyUser(user *models.User) *models.User {
	clone := *user
	clone.Tokens = append([]models.TokenEntry(nil), user.Tokens...)
	return &clone
}

func copyTodo(todo *models.Todo) *models.Todo {
	clone := *todo
	if todo.CompletedAt != nil {
		millis := *todo.CompletedAt
		clone.CompletedAt = &millis
	}
	return &clone
}
