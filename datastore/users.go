package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/lakefield/todoapi/models"
)

const pqUniqueViolation = "23505"

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Email, user.PasswordHash)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			// Two concurrent signups with the same email race on the
			// unique index; the loser lands here.
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash
		FROM users
		WHERE email = $1
	`
	return r.scanUserWithTokens(ctx, r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrNotFound
	}
	query := `
		SELECT id, email, password_hash
		FROM users
		WHERE id = $1
	`
	return r.scanUserWithTokens(ctx, r.db.QueryRowContext(ctx, query, userID))
}

func (r *UserRepository) GetUserByToken(ctx context.Context, userID, access, token string) (*models.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrNotFound
	}
	query := `
		SELECT u.id, u.email, u.password_hash
		FROM users u
		JOIN user_tokens t ON t.user_id = u.id
		WHERE u.id = $1 AND t.access = $2 AND t.token = $3
	`
	return r.scanUserWithTokens(ctx, r.db.QueryRowContext(ctx, query, userID, access, token))
}

func (r *UserRepository) AddToken(ctx context.Context, userID string, entry models.TokenEntry) error {
	query := `
		INSERT INTO user_tokens (user_id, access, token)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, userID, entry.Access, entry.Token); err != nil {
		return fmt.Errorf("failed to insert token: %w", err)
	}
	return nil
}

func (r *UserRepository) RemoveToken(ctx context.Context, userID, token string) error {
	query := `
		DELETE FROM user_tokens
		WHERE user_id = $1 AND token = $2
	`
	if _, err := r.db.ExecContext(ctx, query, userID, token); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

func (r *UserRepository) scanUserWithTokens(ctx context.Context, row *sql.Row) (*models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}

	tokens, err := r.getTokens(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Tokens = tokens
	return &user, nil
}

func (r *UserRepository) getTokens(ctx context.Context, userID string) ([]models.TokenEntry, error) {
	query := `
		SELECT access, token
		FROM user_tokens
		WHERE user_id = $1
		ORDER BY seq
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user tokens: %w", err)
	}
	defer rows.Close()

	var tokens []models.TokenEntry
	for rows.Next() {
		var entry models.TokenEntry
		if err := rows.Scan(&entry.Access, &entry.Token); err != nil {
			return nil, fmt.Errorf("failed to scan token row: %w", err)
		}
		tokens = append(tokens, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating token rows: %w", err)
	}
	return tokens, nil
}
