package database

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"fotods/internal/models"
)

// UserSeeder is the subset of the user repository the seeder needs.
type UserSeeder interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, username, passwordHash string, isAdmin bool) (*models.User, error)
}

// CategorySeeder is the subset of the category repository the seeder needs.
type CategorySeeder interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, c *models.Category) error
}

// SeedOptions controls what Seed creates.
type SeedOptions struct {
	AdminUsername string
	AdminPassword string
	// Categories creates the default main categories when none exist.
	Categories bool
}

// defaultCategories are the main portfolio sections created in development.
var defaultCategories = []models.Category{
	{Name: "Weddings", Slug: "weddings"},
	{Name: "Portraits", Slug: "portraits"},
	{Name: "Events", Slug: "events"},
	{Name: "Landscapes", Slug: "landscapes"},
}

// Seed populates an empty installation with its initial data. It creates
// the bootstrap admin when no users exist and, if requested, the default
// categories when the categories table is empty. Both steps are no-ops on
// a populated database, so Seed is safe to run on every start.
func Seed(ctx context.Context, users UserSeeder, categories CategorySeeder, opts SeedOptions) error {
	count, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed bcrypt: %w", err)
		}

		u, err := users.Create(ctx, models.NormalizeUsername(opts.AdminUsername), string(hash), true)
		if err != nil {
			return fmt.Errorf("seed insert admin: %w", err)
		}
		slog.Info("seeded admin user", "username", u.Username)
	} else {
		slog.Info("users present, skipping admin seed")
	}

	if !opts.Categories {
		return nil
	}

	existing, err := categories.List(ctx)
	if err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, c := range defaultCategories {
		c := c
		if err := categories.Create(ctx, &c); err != nil {
			return fmt.Errorf("seed insert category %s: %w", c.Slug, err)
		}
	}
	slog.Info("seeded default categories", "count", len(defaultCategories))

	return nil
}
