// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Category groups photos in the portfolio. Categories form a two-level
// tree: a subcategory names its parent by slug in ParentCategory, not by ID.
type Category struct {
	ID             int64     `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Slug           string    `db:"slug" json:"slug"`
	Description    *string   `db:"description" json:"description"`
	ParentCategory *string   `db:"parent_category" json:"parentCategory"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// IsSubcategory reports whether the category names a parent.
func (c *Category) IsSubcategory() bool {
	return c.ParentCategory != nil
}

// CategoryNode is a main category with its subcategories attached, used by
// the nested category listing.
type CategoryNode struct {
	Category
	Subcategories []Category `json:"subcategories"`
}
