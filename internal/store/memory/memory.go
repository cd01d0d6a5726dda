// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package memory implements the store repositories over in-process maps.
// It backs development runs without PostgreSQL and the handler tests. All
// tables share one mutex so cross-table effects (a category delete
// clearing photo references) stay atomic.
package memory

import (
	"sort"
	"sync"
	"time"

	"fotods/internal/models"
	"fotods/internal/store"
)

// DB holds every table of the in-memory backend.
type DB struct {
	mu  sync.RWMutex
	now func() time.Time

	categories   map[int64]models.Category
	photos       map[int64]models.Photo
	messages     map[int64]models.ContactMessage
	testimonials map[int64]models.Testimonial
	users        map[int64]models.User

	lastID int64
}

// New returns an empty in-memory database.
func New() *DB {
	return &DB{
		now:          time.Now,
		categories:   make(map[int64]models.Category),
		photos:       make(map[int64]models.Photo),
		messages:     make(map[int64]models.ContactMessage),
		testimonials: make(map[int64]models.Testimonial),
		users:        make(map[int64]models.User),
	}
}

// Repositories returns every repository backed by this database.
func (db *DB) Repositories() store.Repositories {
	return store.Repositories{
		Categories:   db.Categories(),
		Photos:       db.Photos(),
		Messages:     db.Messages(),
		Testimonials: db.Testimonials(),
		Users:        db.Users(),
	}
}

// nextID hands out IDs from a single sequence shared by all tables.
// Callers must hold the write lock.
func (db *DB) nextID() int64 {
	db.lastID++
	return db.lastID
}

// sortedValues returns the map values ordered by less.
func sortedValues[T any](m map[int64]T, less func(a, b T) bool) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
