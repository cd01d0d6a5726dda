// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package memory

import (
	"context"

	"fotods/internal/models"
	"fotods/internal/store"
)

// CategoryRepo implements store.CategoryRepository.
type CategoryRepo struct{ db *DB }

// Categories returns the category repository.
func (db *DB) Categories() *CategoryRepo { return &CategoryRepo{db: db} }

func categoryLess(a, b models.Category) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID < b.ID
}

func (r *CategoryRepo) List(_ context.Context) ([]models.Category, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return sortedValues(r.db.categories, categoryLess), nil
}

func (r *CategoryRepo) FindByID(_ context.Context, id int64) (*models.Category, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	if c, ok := r.db.categories[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *CategoryRepo) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, c := range r.db.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CategoryRepo) ListByParent(_ context.Context, parentSlug string) ([]models.Category, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []models.Category{}
	for _, c := range sortedValues(r.db.categories, func(a, b models.Category) bool { return a.ID < b.ID }) {
		if c.ParentCategory != nil && *c.ParentCategory == parentSlug {
			out = append(out, c)
		}
	}
	return out, nil
}

// checkUnique enforces the name and slug constraints, ignoring selfID.
func (r *CategoryRepo) checkUnique(c *models.Category, selfID int64) error {
	for id, other := range r.db.categories {
		if id == selfID {
			continue
		}
		if other.Name == c.Name {
			return &store.DuplicateError{Field: "name"}
		}
		if other.Slug == c.Slug {
			return &store.DuplicateError{Field: "slug"}
		}
	}
	return nil
}

func (r *CategoryRepo) Create(_ context.Context, c *models.Category) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.checkUnique(c, 0); err != nil {
		return err
	}
	c.ID = r.db.nextID()
	c.CreatedAt = r.db.now()
	r.db.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) Update(_ context.Context, c *models.Category) (*models.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.categories[c.ID]
	if !ok {
		return nil, nil
	}
	if err := r.checkUnique(c, c.ID); err != nil {
		return nil, err
	}
	existing.Name = c.Name
	existing.Slug = c.Slug
	existing.Description = c.Description
	existing.ParentCategory = c.ParentCategory
	r.db.categories[c.ID] = existing
	return &existing, nil
}

// Delete removes the category and clears category_id on its photos, the
// same as the ON DELETE SET NULL foreign key.
func (r *CategoryRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.categories[id]; !ok {
		return false, nil
	}
	delete(r.db.categories, id)
	for pid, p := range r.db.photos {
		if p.InCategory(id) {
			p.CategoryID = nil
			r.db.photos[pid] = p
		}
	}
	return true, nil
}
