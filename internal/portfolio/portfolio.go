// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package portfolio holds the gallery rules shared by the public API and
// the back office: resolving a category slug to itself plus its direct
// subcategories, listing photos in manual display order, and applying
// drag-and-drop reorders.
//
// Subcategories point at their parent by slug. The resolver performs a
// single scan for children, so a subcategory slug resolves to itself and
// parent cycles cannot make it loop.
package portfolio

import (
	"context"
	"fmt"
	"sort"

	"fotods/internal/models"
	"fotods/internal/store"
)

// Service implements the portfolio queries over injected repositories.
type Service struct {
	categories store.CategoryRepository
	photos     store.PhotoRepository
}

// NewService creates a portfolio service.
func NewService(categories store.CategoryRepository, photos store.PhotoRepository) *Service {
	return &Service{categories: categories, photos: photos}
}

// ResolveCategoryAndDescendants returns the sorted, de-duplicated IDs of the
// category with the given slug and of every category whose parent is that
// slug. Slug matching is case-sensitive. An unknown slug yields an empty set.
// A subcategory is never treated as a parent and resolves to itself alone.
func (s *Service) ResolveCategoryAndDescendants(ctx context.Context, slug string) ([]int64, error) {
	root, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("resolve category %q: %w", slug, err)
	}
	if root == nil {
		return []int64{}, nil
	}
	if root.IsSubcategory() {
		return []int64{root.ID}, nil
	}

	children, err := s.categories.ListByParent(ctx, root.Slug)
	if err != nil {
		return nil, fmt.Errorf("resolve subcategories of %q: %w", slug, err)
	}

	seen := map[int64]struct{}{root.ID: {}}
	ids := []int64{root.ID}
	for _, c := range children {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		ids = append(ids, c.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// ListPhotosForCategorySlug returns the photos of a category and its direct
// subcategories in display order.
func (s *Service) ListPhotosForCategorySlug(ctx context.Context, slug string) ([]models.Photo, error) {
	ids, err := s.ResolveCategoryAndDescendants(ctx, slug)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Photo{}, nil
	}
	return s.photos.ListByCategoryIDs(ctx, ids)
}

// ListPhotos returns every photo in display order.
func (s *Service) ListPhotos(ctx context.Context) ([]models.Photo, error) {
	return s.photos.List(ctx)
}

// ListFeaturedPhotos returns featured photos in display order.
func (s *Service) ListFeaturedPhotos(ctx context.Context) ([]models.Photo, error) {
	return s.photos.ListFeatured(ctx)
}

// NextDisplayOrder returns the order a new photo gets when none is
// supplied: one past the highest order across all photos.
func (s *Service) NextDisplayOrder(ctx context.Context) (int, error) {
	highest, err := s.photos.MaxDisplayOrder(ctx)
	if err != nil {
		return 0, err
	}
	return highest + 1, nil
}

// CreatePhoto stores p. A nil displayOrder places the photo last.
func (s *Service) CreatePhoto(ctx context.Context, p *models.Photo, displayOrder *int) error {
	if displayOrder != nil {
		p.DisplayOrder = *displayOrder
	} else {
		next, err := s.NextDisplayOrder(ctx)
		if err != nil {
			return fmt.Errorf("assign display order: %w", err)
		}
		p.DisplayOrder = next
	}
	return s.photos.Create(ctx, p)
}

// Reorder applies each order entry as its own update, in request order.
// With a categoryID, photos outside that category are left untouched. The
// first failing update stops the batch; earlier updates are kept.
func (s *Service) Reorder(ctx context.Context, orders []store.PhotoOrder, categoryID *int64) error {
	for _, o := range orders {
		if err := s.photos.UpdateDisplayOrder(ctx, o.ID, o.DisplayOrder, categoryID); err != nil {
			return fmt.Errorf("reorder photos: %w", err)
		}
	}
	return nil
}

// CategoryTree groups categories into main categories, each carrying its
// direct subcategories. Subcategories whose parent slug matches no main
// category are listed at the top level so nothing disappears from the
// admin view.
func (s *Service) CategoryTree(ctx context.Context) ([]models.CategoryNode, error) {
	all, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	return BuildTree(all), nil
}

// BuildTree nests a flat category list one level deep, keeping input order.
func BuildTree(all []models.Category) []models.CategoryNode {
	mains := make(map[string]int)
	var nodes []models.CategoryNode
	for _, c := range all {
		if !c.IsSubcategory() {
			mains[c.Slug] = len(nodes)
			nodes = append(nodes, models.CategoryNode{Category: c, Subcategories: []models.Category{}})
		}
	}
	for _, c := range all {
		if !c.IsSubcategory() {
			continue
		}
		if i, ok := mains[*c.ParentCategory]; ok {
			nodes[i].Subcategories = append(nodes[i].Subcategories, c)
			continue
		}
		nodes = append(nodes, models.CategoryNode{Category: c, Subcategories: []models.Category{}})
	}
	if nodes == nil {
		nodes = []models.CategoryNode{}
	}
	return nodes
}
