// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package memory

import (
	"context"

	"fotods/internal/models"
)

// PhotoRepo implements store.PhotoRepository.
type PhotoRepo struct{ db *DB }

// Photos returns the photo repository.
func (db *DB) Photos() *PhotoRepo { return &PhotoRepo{db: db} }

func photoLess(a, b models.Photo) bool {
	if a.DisplayOrder != b.DisplayOrder {
		return a.DisplayOrder < b.DisplayOrder
	}
	return a.ID < b.ID
}

// filter returns the photos matching keep, in display order.
// Callers must hold at least the read lock.
func (r *PhotoRepo) filter(keep func(models.Photo) bool) []models.Photo {
	out := []models.Photo{}
	for _, p := range sortedValues(r.db.photos, photoLess) {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (r *PhotoRepo) List(_ context.Context) ([]models.Photo, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.filter(func(models.Photo) bool { return true }), nil
}

func (r *PhotoRepo) ListFeatured(_ context.Context) ([]models.Photo, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.filter(func(p models.Photo) bool { return p.Featured }), nil
}

func (r *PhotoRepo) ListByCategoryIDs(_ context.Context, ids []int64) ([]models.Photo, error) {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.filter(func(p models.Photo) bool {
		if p.CategoryID == nil {
			return false
		}
		_, ok := set[*p.CategoryID]
		return ok
	}), nil
}

func (r *PhotoRepo) FindByID(_ context.Context, id int64) (*models.Photo, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	if p, ok := r.db.photos[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *PhotoRepo) MaxDisplayOrder(_ context.Context) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	highest := 0
	first := true
	for _, p := range r.db.photos {
		if first || p.DisplayOrder > highest {
			highest = p.DisplayOrder
			first = false
		}
	}
	return highest, nil
}

func (r *PhotoRepo) Create(_ context.Context, p *models.Photo) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p.ID = r.db.nextID()
	p.CreatedAt = r.db.now()
	r.db.photos[p.ID] = *p
	return nil
}

func (r *PhotoRepo) Update(_ context.Context, p *models.Photo) (*models.Photo, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.photos[p.ID]
	if !ok {
		return nil, nil
	}
	updated := *p
	updated.CreatedAt = existing.CreatedAt
	r.db.photos[p.ID] = updated
	return &updated, nil
}

func (r *PhotoRepo) UpdateDisplayOrder(_ context.Context, id int64, order int, categoryID *int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.photos[id]
	if !ok {
		return nil
	}
	if categoryID != nil && !p.InCategory(*categoryID) {
		return nil
	}
	p.DisplayOrder = order
	r.db.photos[id] = p
	return nil
}

func (r *PhotoRepo) Delete(_ context.Context, id int64) (*models.Photo, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.photos[id]
	if !ok {
		return nil, nil
	}
	delete(r.db.photos, id)
	return &p, nil
}
