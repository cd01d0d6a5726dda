// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth verifies back-office credentials. Only existing admin
// accounts can sign in; there is no self-registration.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"fotods/internal/models"
	"fotods/internal/store"
)

// ErrInvalidCredentials is returned for an unknown username, a wrong
// password and a non-admin account alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyHash is compared against when the username is unknown so that the
// response time does not reveal which usernames exist.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the user's stored hash.
func CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// Service authenticates users against the user repository.
type Service struct {
	users store.UserRepository
}

// NewService creates an auth service.
func NewService(users store.UserRepository) *Service {
	return &Service{users: users}
}

// Login returns the admin user matching the credentials. The username is
// normalized before lookup.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, models.NormalizeUsername(username))
	if err != nil {
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	if user == nil {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if !CheckPassword(user, password) || !user.IsAdmin {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
