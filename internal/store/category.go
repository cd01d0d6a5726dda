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

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sqlx.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sqlx.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, parent_category, created_at`

// List returns all categories ordered by name.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	items := []models.Category{}
	err := s.db.SelectContext(ctx, &items,
		`SELECT `+categoryColumns+` FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return items, nil
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	c, err := getOne[models.Category](ctx, s.db,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by its exact slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	c, err := getOne[models.Category](ctx, s.db,
		`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// ListByParent returns the direct subcategories of the given parent slug.
func (s *CategoryStore) ListByParent(ctx context.Context, parentSlug string) ([]models.Category, error) {
	items := []models.Category{}
	err := s.db.SelectContext(ctx, &items,
		`SELECT `+categoryColumns+` FROM categories WHERE parent_category = $1 ORDER BY id`, parentSlug)
	if err != nil {
		return nil, fmt.Errorf("list categories by parent: %w", err)
	}
	return items, nil
}

// Create inserts a category and fills in its ID and created_at.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) error {
	_, err := namedGet(ctx, s.db, `
		INSERT INTO categories (name, slug, description, parent_category)
		VALUES (:name, :slug, :description, :parent_category)
		RETURNING `+categoryColumns, c, c)
	if err != nil {
		return fmt.Errorf("create category: %w", duplicateErr(err))
	}
	return nil
}

// Update overwrites a category's mutable fields. Returns nil if not found.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) (*models.Category, error) {
	var out models.Category
	found, err := namedGet(ctx, s.db, `
		UPDATE categories
		SET name = :name, slug = :slug, description = :description,
		    parent_category = :parent_category
		WHERE id = :id
		RETURNING `+categoryColumns, c, &out)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", duplicateErr(err))
	}
	if !found {
		return nil, nil
	}
	return &out, nil
}

// Delete removes a category. Photos in it keep existing with a NULL
// category_id.
func (s *CategoryStore) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := execAffected(ctx, s.db, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	return ok, nil
}
