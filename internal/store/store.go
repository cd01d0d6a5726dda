// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides data access for all portfolio entities. The
// repository interfaces in this file are implemented by the PostgreSQL
// stores in this package and by the in-memory backend in store/memory.
//
// Find* methods return (nil, nil) when the row does not exist.
package store

import (
	"context"
	"errors"

	"fotods/internal/models"
)

// ErrDuplicate marks a unique constraint violation.
var ErrDuplicate = errors.New("duplicate value")

// DuplicateError names the field whose unique constraint was violated.
// It matches ErrDuplicate with errors.Is.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return e.Field + " already exists"
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// PhotoOrder is one entry of a batch reorder request.
type PhotoOrder struct {
	ID           int64 `json:"id" validate:"required,gt=0"`
	DisplayOrder int   `json:"displayOrder"`
}

// CategoryRepository persists categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id int64) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	// ListByParent returns the categories whose parent_category equals
	// parentSlug exactly.
	ListByParent(ctx context.Context, parentSlug string) ([]models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	// Update writes every mutable column and returns the stored row, or
	// nil if the id does not exist.
	Update(ctx context.Context, c *models.Category) (*models.Category, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// PhotoRepository persists photos. Every list is ordered by display_order,
// then id.
type PhotoRepository interface {
	List(ctx context.Context) ([]models.Photo, error)
	ListFeatured(ctx context.Context) ([]models.Photo, error)
	ListByCategoryIDs(ctx context.Context, ids []int64) ([]models.Photo, error)
	FindByID(ctx context.Context, id int64) (*models.Photo, error)
	// MaxDisplayOrder returns the highest display_order over all photos,
	// or 0 when there are none.
	MaxDisplayOrder(ctx context.Context) (int, error)
	Create(ctx context.Context, p *models.Photo) error
	Update(ctx context.Context, p *models.Photo) (*models.Photo, error)
	// UpdateDisplayOrder sets display_order for one photo. With a non-nil
	// categoryID the update only applies when the photo is in that
	// category; a miss is not an error.
	UpdateDisplayOrder(ctx context.Context, id int64, order int, categoryID *int64) error
	// Delete removes the photo and returns the deleted row so callers can
	// clean up its objects, or nil if it did not exist.
	Delete(ctx context.Context, id int64) (*models.Photo, error)
}

// MessageRepository persists contact form submissions.
type MessageRepository interface {
	List(ctx context.Context) ([]models.ContactMessage, error)
	FindByID(ctx context.Context, id int64) (*models.ContactMessage, error)
	Create(ctx context.Context, m *models.ContactMessage) error
	SetRead(ctx context.Context, id int64, read bool) (*models.ContactMessage, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// TestimonialRepository persists client testimonials.
type TestimonialRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Testimonial, error)
	FindByID(ctx context.Context, id int64) (*models.Testimonial, error)
	Create(ctx context.Context, t *models.Testimonial) error
	Update(ctx context.Context, t *models.Testimonial) (*models.Testimonial, error)
	SetActive(ctx context.Context, id int64, active bool) (*models.Testimonial, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// UserRepository persists back-office accounts. Usernames are stored and
// looked up in their normalized form.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, username, passwordHash string, isAdmin bool) (*models.User, error)
	Count(ctx context.Context) (int, error)
}

// Repositories bundles one implementation of every repository.
type Repositories struct {
	Categories   CategoryRepository
	Photos       PhotoRepository
	Messages     MessageRepository
	Testimonials TestimonialRepository
	Users        UserRepository
}
