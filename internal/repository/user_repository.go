package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/persistence"
	"github.com/spec-kit/user-service/pkg/apperrors"
)

// UserRepository defines persistence access for users. Every failure is
// returned as an *apperrors.Error.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

type userRepository struct {
	db persistence.Connector
}

// NewUserRepository returns a Postgres-backed implementation. Each call
// acquires its own connection from db and releases it before returning.
func NewUserRepository(db persistence.Connector) UserRepository {
	return &userRepository{db: db}
}

const (
	insertUserQuery = `
        INSERT INTO users (id, name, created_at, updated_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id, name, created_at, updated_at`

	selectUserByIDQuery = `
        SELECT id, name, created_at, updated_at
        FROM users WHERE id = $1`
)

// Create inserts user and returns the row as stored, so timestamps reflect
// the store's precision rather than the input's.
func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, apperrors.NewValidation("invalid user", "user is required")
	}

	conn, release, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, apperrors.NewDatabase("failed to connect to database", err)
	}
	defer release()

	created, err := scanUser(conn.QueryRow(ctx, insertUserQuery,
		user.ID,
		user.Name,
		user.CreatedAt,
		user.UpdatedAt,
	))
	if err != nil {
		return nil, apperrors.NewDatabase(fmt.Sprintf("failed to create user %q", user.ID), err)
	}
	return created, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, apperrors.NewValidation("invalid user id", "id is required")
	}

	conn, release, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, apperrors.NewDatabase("failed to connect to database", err)
	}
	defer release()

	user, err := scanUser(conn.QueryRow(ctx, selectUserByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(id)
		}
		return nil, apperrors.NewDatabase(fmt.Sprintf("failed to find user %q", id), err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
