package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"contacts_api/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Authorization interface at compile time.
var _ Authorization = (*UserRepository)(nil)

const (
	insertUserSQL = `INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id`

	selectUserByEmailSQL = `SELECT id, username, email, password_hash FROM users WHERE email = $1`
	selectUserByIDSQL    = `SELECT id, username, email, password_hash FROM users WHERE id = $1`
)

// Create inserts a new user and returns its ID.
func (r *UserRepository) Create(ctx context.Context, username, email, passwordHash string) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx, insertUserSQL, username, email, passwordHash).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert user %q: %w", email, err)
	}
	return id, nil
}

// GetByEmail fetches a user by email. Returns (nil, nil) if not found.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, selectUserByEmailSQL, email).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", email, err)
	}
	return &u, nil
}

// GetByID fetches a user by primary key. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, selectUserByIDSQL, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user id=%d: %w", id, err)
	}
	return &u, nil
}
