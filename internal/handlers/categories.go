package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fotods/internal/cache"
	"fotods/internal/models"
	"fotods/internal/portfolio"
	"fotods/internal/slug"
	"fotods/internal/store"
)

// Categories serves the category endpoints.
type Categories struct {
	categories store.CategoryRepository
	portfolio  *portfolio.Service
	cache      *cache.ResponseCache
}

// NewCategories creates the category handler group. rc may be nil.
func NewCategories(categories store.CategoryRepository, svc *portfolio.Service, rc *cache.ResponseCache) *Categories {
	return &Categories{categories: categories, portfolio: svc, cache: rc}
}

type categoryRequest struct {
	Name           string  `json:"name" validate:"required,max=100"`
	Slug           string  `json:"slug" validate:"required,max=100,slug"`
	Description    *string `json:"description" validate:"omitempty,max=1000"`
	ParentCategory *string `json:"parentCategory" validate:"omitempty,max=100"`
}

type categoryPatch struct {
	Name           optional[string] `json:"name"`
	Slug           optional[string] `json:"slug"`
	Description    optional[string] `json:"description"`
	ParentCategory optional[string] `json:"parentCategory"`
}

func (p categoryPatch) applyTo(req *categoryRequest) {
	p.Name.apply(&req.Name)
	p.Slug.apply(&req.Slug)
	p.Description.applyNullable(&req.Description)
	p.ParentCategory.applyNullable(&req.ParentCategory)
}

// normalize fills a missing slug from the name and maps blank optional
// strings to null.
func (req *categoryRequest) normalize() {
	if req.Slug == "" {
		req.Slug = slug.Generate(req.Name)
	}
	req.Description = blankToNil(req.Description)
	req.ParentCategory = blankToNil(req.ParentCategory)
}

func (req *categoryRequest) model() models.Category {
	return models.Category{
		Name:           req.Name,
		Slug:           req.Slug,
		Description:    req.Description,
		ParentCategory: req.ParentCategory,
	}
}

// List returns every category. With ?tree=true subcategories are nested
// under their main category.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	if tree, _ := strconv.ParseBool(r.URL.Query().Get("tree")); tree {
		nodes, err := h.portfolio.CategoryTree(r.Context())
		if err != nil {
			serverError(w, "category tree", err)
			return
		}
		writeJSON(w, http.StatusOK, nodes)
		return
	}

	list, err := h.categories.List(r.Context())
	if err != nil {
		serverError(w, "list categories", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Get returns one category by slug.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.categories.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		serverError(w, "get category", err)
		return
	}
	if c == nil {
		notFound(w, "Category")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Create adds a category. The slug is derived from the name when omitted.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.normalize()
	if !validRequest(w, &req) {
		return
	}

	c := req.model()
	if err := h.categories.Create(r.Context(), &c); err != nil {
		storeError(w, "create category", err)
		return
	}
	h.invalidate(r.Context())
	writeJSON(w, http.StatusCreated, c)
}

// Update applies a partial update to a category. Renaming a slug does not
// rewrite the parentCategory of its subcategories.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch categoryPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	existing, err := h.categories.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, "get category", err)
		return
	}
	if existing == nil {
		notFound(w, "Category")
		return
	}

	req := categoryRequest{
		Name:           existing.Name,
		Slug:           existing.Slug,
		Description:    existing.Description,
		ParentCategory: existing.ParentCategory,
	}
	patch.applyTo(&req)
	req.normalize()
	if !validRequest(w, &req) {
		return
	}

	c := req.model()
	c.ID = id
	updated, err := h.categories.Update(r.Context(), &c)
	if err != nil {
		storeError(w, "update category", err)
		return
	}
	if updated == nil {
		notFound(w, "Category")
		return
	}
	h.invalidate(r.Context())
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a category. Its photos become uncategorized.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleted, err := h.categories.Delete(r.Context(), id)
	if err != nil {
		serverError(w, "delete category", err)
		return
	}
	if !deleted {
		notFound(w, "Category")
		return
	}
	h.invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Categories) invalidate(ctx context.Context) {
	h.cache.InvalidateAll(ctx)
}
