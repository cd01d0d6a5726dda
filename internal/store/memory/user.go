// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package memory

import (
	"context"

	"fotods/internal/models"
	"fotods/internal/store"
)

// UserRepo implements store.UserRepository.
type UserRepo struct{ db *DB }

// Users returns the user repository.
func (db *DB) Users() *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	if u, ok := r.db.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *UserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	username = models.NormalizeUsername(username)
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, u := range r.db.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Create(_ context.Context, username, passwordHash string, isAdmin bool) (*models.User, error) {
	username = models.NormalizeUsername(username)
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Username == username {
			return nil, &store.DuplicateError{Field: "username"}
		}
	}
	u := models.User{
		ID:           r.db.nextID(),
		Username:     username,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
		CreatedAt:    r.db.now(),
	}
	r.db.users[u.ID] = u
	return &u, nil
}

func (r *UserRepo) Count(_ context.Context) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return len(r.db.users), nil
}

// Delete removes a user. It exists for tests that check sessions of
// deleted accounts; the HTTP API has no user deletion.
func (r *UserRepo) Delete(id int64) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.users, id)
}
