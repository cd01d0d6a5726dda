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

// PhotoStore manages portfolio photos in the database.
type PhotoStore struct {
	db *sqlx.DB
}

// NewPhotoStore returns a new PhotoStore.
func NewPhotoStore(db *sqlx.DB) *PhotoStore {
	return &PhotoStore{db: db}
}

const photoColumns = `id, title, description, image_url, thumbnail_url, category_id,
	featured, location, display_order, created_at`

const photoOrder = ` ORDER BY display_order ASC, id ASC`

// List returns every photo in display order.
func (s *PhotoStore) List(ctx context.Context) ([]models.Photo, error) {
	items := []models.Photo{}
	if err := s.db.SelectContext(ctx, &items, `SELECT `+photoColumns+` FROM photos`+photoOrder); err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return items, nil
}

// ListFeatured returns the featured photos in display order.
func (s *PhotoStore) ListFeatured(ctx context.Context) ([]models.Photo, error) {
	items := []models.Photo{}
	err := s.db.SelectContext(ctx, &items,
		`SELECT `+photoColumns+` FROM photos WHERE featured = TRUE`+photoOrder)
	if err != nil {
		return nil, fmt.Errorf("list featured photos: %w", err)
	}
	return items, nil
}

// ListByCategoryIDs returns the photos in any of the given categories.
func (s *PhotoStore) ListByCategoryIDs(ctx context.Context, ids []int64) ([]models.Photo, error) {
	items := []models.Photo{}
	if len(ids) == 0 {
		return items, nil
	}

	query, args, err := sqlx.In(`SELECT `+photoColumns+` FROM photos WHERE category_id IN (?)`+photoOrder, ids)
	if err != nil {
		return nil, fmt.Errorf("build photos by category query: %w", err)
	}
	if err := s.db.SelectContext(ctx, &items, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list photos by category: %w", err)
	}
	return items, nil
}

// FindByID retrieves a photo by ID. Returns nil if not found.
func (s *PhotoStore) FindByID(ctx context.Context, id int64) (*models.Photo, error) {
	p, err := getOne[models.Photo](ctx, s.db, `SELECT `+photoColumns+` FROM photos WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("find photo by id: %w", err)
	}
	return p, nil
}

// MaxDisplayOrder returns the highest display_order, or 0 for an empty table.
func (s *PhotoStore) MaxDisplayOrder(ctx context.Context) (int, error) {
	var highest int
	if err := s.db.GetContext(ctx, &highest, `SELECT COALESCE(MAX(display_order), 0) FROM photos`); err != nil {
		return 0, fmt.Errorf("max photo display order: %w", err)
	}
	return highest, nil
}

// Create inserts a photo and fills in its ID and created_at.
func (s *PhotoStore) Create(ctx context.Context, p *models.Photo) error {
	_, err := namedGet(ctx, s.db, `
		INSERT INTO photos (title, description, image_url, thumbnail_url, category_id,
		                    featured, location, display_order)
		VALUES (:title, :description, :image_url, :thumbnail_url, :category_id,
		        :featured, :location, :display_order)
		RETURNING `+photoColumns, p, p)
	if err != nil {
		return fmt.Errorf("create photo: %w", err)
	}
	return nil
}

// Update overwrites a photo's mutable fields. Returns nil if not found.
func (s *PhotoStore) Update(ctx context.Context, p *models.Photo) (*models.Photo, error) {
	var out models.Photo
	found, err := namedGet(ctx, s.db, `
		UPDATE photos
		SET title = :title, description = :description, image_url = :image_url,
		    thumbnail_url = :thumbnail_url, category_id = :category_id,
		    featured = :featured, location = :location, display_order = :display_order
		WHERE id = :id
		RETURNING `+photoColumns, p, &out)
	if err != nil {
		return nil, fmt.Errorf("update photo: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &out, nil
}

// UpdateDisplayOrder sets one photo's display_order, optionally only when
// it belongs to categoryID.
func (s *PhotoStore) UpdateDisplayOrder(ctx context.Context, id int64, order int, categoryID *int64) error {
	var err error
	if categoryID != nil {
		_, err = s.db.ExecContext(ctx,
			`UPDATE photos SET display_order = $1 WHERE id = $2 AND category_id = $3`,
			order, id, *categoryID)
	} else {
		_, err = s.db.ExecContext(ctx,
			`UPDATE photos SET display_order = $1 WHERE id = $2`, order, id)
	}
	if err != nil {
		return fmt.Errorf("update photo %d display order: %w", id, err)
	}
	return nil
}

// Delete removes a photo and returns the deleted row. Returns nil if not found.
func (s *PhotoStore) Delete(ctx context.Context, id int64) (*models.Photo, error) {
	p, err := getOne[models.Photo](ctx, s.db, `DELETE FROM photos WHERE id = $1 RETURNING `+photoColumns, id)
	if err != nil {
		return nil, fmt.Errorf("delete photo: %w", err)
	}
	return p, nil
}
