// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package memory

import (
	"context"

	"fotods/internal/models"
)

// TestimonialRepo implements store.TestimonialRepository.
type TestimonialRepo struct{ db *DB }

// Testimonials returns the testimonial repository.
func (db *DB) Testimonials() *TestimonialRepo { return &TestimonialRepo{db: db} }

func (r *TestimonialRepo) List(_ context.Context, activeOnly bool) ([]models.Testimonial, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	all := sortedValues(r.db.testimonials, func(a, b models.Testimonial) bool {
		return newestFirst(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano(), a.ID, b.ID)
	})
	if !activeOnly {
		return all, nil
	}
	out := []models.Testimonial{}
	for _, t := range all {
		if t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *TestimonialRepo) FindByID(_ context.Context, id int64) (*models.Testimonial, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	if t, ok := r.db.testimonials[id]; ok {
		return &t, nil
	}
	return nil, nil
}

func (r *TestimonialRepo) Create(_ context.Context, t *models.Testimonial) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t.ID = r.db.nextID()
	t.CreatedAt = r.db.now()
	r.db.testimonials[t.ID] = *t
	return nil
}

func (r *TestimonialRepo) Update(_ context.Context, t *models.Testimonial) (*models.Testimonial, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.testimonials[t.ID]
	if !ok {
		return nil, nil
	}
	updated := *t
	updated.CreatedAt = existing.CreatedAt
	r.db.testimonials[t.ID] = updated
	return &updated, nil
}

func (r *TestimonialRepo) SetActive(_ context.Context, id int64, active bool) (*models.Testimonial, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.testimonials[id]
	if !ok {
		return nil, nil
	}
	t.IsActive = active
	r.db.testimonials[id] = t
	return &t, nil
}

func (r *TestimonialRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.testimonials[id]; !ok {
		return false, nil
	}
	delete(r.db.testimonials, id)
	return true, nil
}
