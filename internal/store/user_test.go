// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestUserStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	username := uniq("store-user")
	t.Cleanup(func() { cleanUsers(t, db, username) })

	user, err := s.Create(ctx, strings.ToUpper(username), "$2a$10$hash", true)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.Username != username {
		t.Errorf("username stored as %q, want lower-cased %q", user.Username, username)
	}
	if !user.IsAdmin {
		t.Error("expected admin flag")
	}

	found, err := s.FindByUsername(ctx, "  "+strings.ToUpper(username)+" ")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if found == nil || found.ID != user.ID {
		t.Fatalf("FindByUsername returned %+v", found)
	}

	byID, err := s.FindByID(ctx, user.ID)
	if err != nil || byID == nil {
		t.Fatalf("FindByID: %v %v", byID, err)
	}

	none, err := s.FindByUsername(ctx, uniq("nobody"))
	if err != nil || none != nil {
		t.Errorf("expected (nil, nil) for unknown user, got %v, %v", none, err)
	}
}

func TestUserStoreDuplicateUsername(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	username := uniq("dup-user")
	t.Cleanup(func() { cleanUsers(t, db, username) })

	if _, err := s.Create(ctx, username, "h", false); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := s.Create(ctx, username, "h", false)
	var dup *DuplicateError
	if !errors.As(err, &dup) || dup.Field != "username" {
		t.Errorf("expected duplicate username error, got %v", err)
	}
}
