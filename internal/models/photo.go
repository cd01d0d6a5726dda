// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Photo is a single portfolio image. The original and its thumbnail live in
// object storage; only their public URLs are kept here.
type Photo struct {
	ID           int64     `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Description  *string   `db:"description" json:"description"`
	ImageURL     string    `db:"image_url" json:"imageUrl"`
	ThumbnailURL string    `db:"thumbnail_url" json:"thumbnailUrl"`
	CategoryID   *int64    `db:"category_id" json:"categoryId"`
	Featured     bool      `db:"featured" json:"featured"`
	Location     *string   `db:"location" json:"location"`
	DisplayOrder int       `db:"display_order" json:"displayOrder"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// ObjectURLs returns the distinct storage URLs backing the photo: the image,
// plus the thumbnail when it is a separate object.
func (p *Photo) ObjectURLs() []string {
	urls := []string{p.ImageURL}
	if p.ThumbnailURL != "" && p.ThumbnailURL != p.ImageURL {
		urls = append(urls, p.ThumbnailURL)
	}
	return urls
}

// InCategory reports whether the photo is assigned to the given category.
func (p *Photo) InCategory(id int64) bool {
	return p.CategoryID != nil && *p.CategoryID == id
}
