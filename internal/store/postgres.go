// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

var (
	_ CategoryRepository    = (*CategoryStore)(nil)
	_ PhotoRepository       = (*PhotoStore)(nil)
	_ MessageRepository     = (*MessageStore)(nil)
	_ TestimonialRepository = (*TestimonialStore)(nil)
	_ UserRepository        = (*UserStore)(nil)
)

// NewRepositories wires every PostgreSQL store onto one connection pool.
func NewRepositories(db *sqlx.DB) Repositories {
	return Repositories{
		Categories:   NewCategoryStore(db),
		Photos:       NewPhotoStore(db),
		Messages:     NewMessageStore(db),
		Testimonials: NewTestimonialStore(db),
		Users:        NewUserStore(db),
	}
}

// duplicateErr converts a unique violation into a *DuplicateError naming
// the offending column, derived from the "<table>_<column>_key" constraint.
// Other errors are returned unchanged.
func duplicateErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	field := strings.TrimSuffix(pgErr.ConstraintName, "_key")
	if i := strings.Index(field, "_"); i >= 0 {
		field = field[i+1:]
	}
	return &DuplicateError{Field: field}
}

// namedGet runs a named statement returning one row and scans it into dest.
// It reports false when no row came back.
func namedGet(ctx context.Context, db *sqlx.DB, query string, arg, dest any) (bool, error) {
	stmt, err := db.PrepareNamedContext(ctx, query)
	if err != nil {
		return false, err
	}
	defer stmt.Close()

	if err := stmt.GetContext(ctx, dest, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// getOne wraps GetContext with the (nil, nil) not-found convention.
func getOne[T any](ctx context.Context, db *sqlx.DB, query string, args ...any) (*T, error) {
	var v T
	if err := db.GetContext(ctx, &v, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

// execAffected runs a statement and reports whether any row was touched.
func execAffected(ctx context.Context, db *sqlx.DB, query string, args ...any) (bool, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
