// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package memory

import (
	"context"

	"fotods/internal/models"
)

// MessageRepo implements store.MessageRepository.
type MessageRepo struct{ db *DB }

// Messages returns the contact message repository.
func (db *DB) Messages() *MessageRepo { return &MessageRepo{db: db} }

// newestFirst orders by created_at then id, both descending.
func newestFirst(aAt, bAt int64, aID, bID int64) bool {
	if aAt != bAt {
		return aAt > bAt
	}
	return aID > bID
}

func (r *MessageRepo) List(_ context.Context) ([]models.ContactMessage, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return sortedValues(r.db.messages, func(a, b models.ContactMessage) bool {
		return newestFirst(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano(), a.ID, b.ID)
	}), nil
}

func (r *MessageRepo) FindByID(_ context.Context, id int64) (*models.ContactMessage, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	if m, ok := r.db.messages[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (r *MessageRepo) Create(_ context.Context, m *models.ContactMessage) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m.ID = r.db.nextID()
	m.CreatedAt = r.db.now()
	m.Read = false
	r.db.messages[m.ID] = *m
	return nil
}

func (r *MessageRepo) SetRead(_ context.Context, id int64, read bool) (*models.ContactMessage, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m, ok := r.db.messages[id]
	if !ok {
		return nil, nil
	}
	m.Read = read
	r.db.messages[id] = m
	return &m, nil
}

func (r *MessageRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.messages[id]; !ok {
		return false, nil
	}
	delete(r.db.messages, id)
	return true, nil
}
