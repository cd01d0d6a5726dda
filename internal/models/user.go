// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and are serialized by the JSON API.
package models

import (
	"strings"
	"time"
)

// User is a back-office account. Only admins may sign in.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password" json:"-"` // Never serialize the hash
	IsAdmin      bool      `db:"is_admin" json:"isAdmin"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// NormalizeUsername lower-cases and trims a username. Usernames are stored
// and looked up in this form.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
