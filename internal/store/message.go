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

// MessageStore manages contact form submissions in the database.
type MessageStore struct {
	db *sqlx.DB
}

// NewMessageStore returns a new MessageStore.
func NewMessageStore(db *sqlx.DB) *MessageStore {
	return &MessageStore{db: db}
}

const messageColumns = `id, name, email, phone, service, message, read, created_at`

// List returns all messages, newest first.
func (s *MessageStore) List(ctx context.Context) ([]models.ContactMessage, error) {
	items := []models.ContactMessage{}
	err := s.db.SelectContext(ctx, &items,
		`SELECT `+messageColumns+` FROM contact_messages ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return items, nil
}

func (s *MessageStore) FindByID(ctx context.Context, id int64) (*models.ContactMessage, error) {
	m, err := getOne[models.ContactMessage](ctx, s.db,
		`SELECT `+messageColumns+` FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("find message by id: %w", err)
	}
	return m, nil
}

// Create stores a new unread message.
func (s *MessageStore) Create(ctx context.Context, m *models.ContactMessage) error {
	_, err := namedGet(ctx, s.db, `
		INSERT INTO contact_messages (name, email, phone, service, message)
		VALUES (:name, :email, :phone, :service, :message)
		RETURNING `+messageColumns, m, m)
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// SetRead flips the read flag. Returns nil if not found.
func (s *MessageStore) SetRead(ctx context.Context, id int64, read bool) (*models.ContactMessage, error) {
	m, err := getOne[models.ContactMessage](ctx, s.db,
		`UPDATE contact_messages SET read = $1 WHERE id = $2 RETURNING `+messageColumns, read, id)
	if err != nil {
		return nil, fmt.Errorf("set message read: %w", err)
	}
	return m, nil
}

func (s *MessageStore) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := execAffected(ctx, s.db, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete message: %w", err)
	}
	return ok, nil
}
