package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"fotods/internal/models"
)

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sqlx.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, username, password, is_admin, created_at`

// FindByID retrieves a user by ID. Returns nil if not found.
func (s *UserStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := getOne[models.User](ctx, s.db, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// FindByUsername retrieves a user by username, normalizing it first.
// Returns nil if not found.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := getOne[models.User](ctx, s.db,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, models.NormalizeUsername(username))
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

// Create inserts a user with an already-hashed password.
func (s *UserStore) Create(ctx context.Context, username, passwordHash string, isAdmin bool) (*models.User, error) {
	u, err := getOne[models.User](ctx, s.db, `
		INSERT INTO users (username, password, is_admin)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		models.NormalizeUsername(username), passwordHash, isAdmin)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", duplicateErr(err))
	}
	return u, nil
}

// Count returns the total number of users.
func (s *UserStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
