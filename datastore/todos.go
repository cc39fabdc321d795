package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lakefield/todoapi/models"
)

type TodoRepository struct {
	db *sql.DB
}

func NewTodoRepository(db *sql.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) CreateTodo(ctx context.Context, todo *models.Todo) error {
	query := `
		INSERT INTO todos (id, text, completed, completed_at, creator)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		todo.ID, todo.Text, todo.Completed, todo.CompletedAt, nullableID(todo.Creator),
	)
	if err != nil {
		return fmt.Errorf("failed to insert todo: %w", err)
	}
	return nil
}

func (r *TodoRepository) GetTodos(ctx context.Context) ([]models.Todo, error) {
	query := `
		SELECT id, text, completed, completed_at, creator
		FROM todos
		ORDER BY seq
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	var todos []models.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *todo)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todo rows: %w", err)
	}
	return todos, nil
}

func (r *TodoRepository) GetTodoByID(ctx context.Context, todoID string) (*models.Todo, error) {
	if _, err := uuid.Parse(todoID); err != nil {
		return nil, ErrNotFound
	}
	query := `
		SELECT id, text, completed, completed_at, creator
		FROM todos
		WHERE id = $1
	`
	todo, err := scanTodo(r.db.QueryRowContext(ctx, query, todoID))
	if err != nil {
		return nil, err
	}
	return todo, nil
}

// UpdateTodo applies the patch inside a transaction so the completion
// timestamp is derived from the row being replaced, not a stale read.
func (r *TodoRepository) UpdateTodo(ctx context.Context, todoID string, patch models.TodoPatch) (*models.Todo, error) {
	if _, err := uuid.Parse(todoID); err != nil {
		return nil, ErrNotFound
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin todo update: %w", err)
	}
	defer tx.Rollback()

	selectQuery := `
		SELECT id, text, completed, completed_at, creator
		FROM todos
		WHERE id = $1
		FOR UPDATE
	`
	todo, err := scanTodo(tx.QueryRowContext(ctx, selectQuery, todoID))
	if err != nil {
		return nil, err
	}

	patch.Apply(todo, time.Now())

	updateQuery := `
		UPDATE todos
		SET text = $2, completed = $3, completed_at = $4
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, updateQuery, todo.ID, todo.Text, todo.Completed, todo.CompletedAt); err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit todo update: %w", err)
	}
	return todo, nil
}

func (r *TodoRepository) DeleteTodo(ctx context.Context, todoID string) (*models.Todo, error) {
	if _, err := uuid.Parse(todoID); err != nil {
		return nil, ErrNotFound
	}
	query := `
		DELETE FROM todos
		WHERE id = $1
		RETURNING id, text, completed, completed_at, creator
	`
	todo, err := scanTodo(r.db.QueryRowContext(ctx, query, todoID))
	if err != nil {
		return nil, err
	}
	return todo, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*models.Todo, error) {
	var todo models.Todo
	var creator sql.NullString
	err := row.Scan(&todo.ID, &todo.Text, &todo.Completed, &todo.CompletedAt, &creator)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan todo row: %w", err)
	}
	if creator.Valid {
		todo.Creator = creator.String
	}
	return &todo, nil
}

func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}
