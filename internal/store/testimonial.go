// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"fotods/internal/models"
)

// TestimonialStore manages testimonials in the database.
type TestimonialStore struct {
	db *sqlx.DB
}

// NewTestimonialStore returns a new TestimonialStore.
func NewTestimonialStore(db *sqlx.DB) *TestimonialStore {
	return &TestimonialStore{db: db}
}

const testimonialColumns = `id, name, role, content, rating, is_active, created_at`

// List returns testimonials newest first, optionally only the active ones.
func (s *TestimonialStore) List(ctx context.Context, activeOnly bool) ([]models.Testimonial, error) {
	query := `SELECT ` + testimonialColumns + ` FROM testimonials`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	items := []models.Testimonial{}
	if err := s.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	return items, nil
}

func (s *TestimonialStore) FindByID(ctx context.Context, id int64) (*models.Testimonial, error) {
	t, err := getOne[models.Testimonial](ctx, s.db,
		`SELECT `+testimonialColumns+` FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("find testimonial by id: %w", err)
	}
	return t, nil
}

func (s *TestimonialStore) Create(ctx context.Context, t *models.Testimonial) error {
	_, err := namedGet(ctx, s.db, `
		INSERT INTO testimonials (name, role, content, rating, is_active)
		VALUES (:name, :role, :content, :rating, :is_active)
		RETURNING `+testimonialColumns, t, t)
	if err != nil {
		return fmt.Errorf("create testimonial: %w", err)
	}
	return nil
}

// Update overwrites a testimonial's mutable fields. Returns nil if not found.
func (s *TestimonialStore) Update(ctx context.Context, t *models.Testimonial) (*models.Testimonial, error) {
	var out models.Testimonial
	found, err := namedGet(ctx, s.db, `
		UPDATE testimonials
		SET name = :name, role = :role, content = :content,
		    rating = :rating, is_active = :is_active
		WHERE id = :id
		RETURNING `+testimonialColumns, t, &out)
	if err != nil {
		return nil, fmt.Errorf("update testimonial: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &out, nil
}

// SetActive publishes or hides a testimonial. Returns nil if not found.
func (s *TestimonialStore) SetActive(ctx context.Context, id int64, active bool) (*models.Testimonial, error) {
	t, err := getOne[models.Testimonial](ctx, s.db,
		`UPDATE testimonials SET is_active = $1 WHERE id = $2 RETURNING `+testimonialColumns, active, id)
	if err != nil {
		return nil, fmt.Errorf("set testimonial active: %w", err)
	}
	return t, nil
}

func (s *TestimonialStore) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := execAffected(ctx, s.db, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete testimonial: %w", err)
	}
	return ok, nil
}
