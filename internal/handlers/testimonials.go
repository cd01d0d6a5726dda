package handlers

import (
	"net/http"
	"strings"

	"fotods/internal/cache"
	"fotods/internal/models"
	"fotods/internal/store"
)

// Testimonials serves the public testimonial wall and its moderation.
type Testimonials struct {
	testimonials store.TestimonialRepository
	cache        *cache.ResponseCache
}

// NewTestimonials creates the testimonial handler group. rc may be nil.
func NewTestimonials(testimonials store.TestimonialRepository, rc *cache.ResponseCache) *Testimonials {
	return &Testimonials{testimonials: testimonials, cache: rc}
}

type testimonialRequest struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Role     *string `json:"role" validate:"omitempty,max=100"`
	Content  string  `json:"content" validate:"required,max=2000"`
	Rating   int     `json:"rating" validate:"required,min=1,max=5"`
	IsActive bool    `json:"isActive"`
}

type testimonialPatch struct {
	Name     optional[string] `json:"name"`
	Role     optional[string] `json:"role"`
	Content  optional[string] `json:"content"`
	Rating   optional[int]    `json:"rating"`
	IsActive optional[bool]   `json:"isActive"`
}

func (req *testimonialRequest) model() models.Testimonial {
	return models.Testimonial{
		Name:     strings.TrimSpace(req.Name),
		Role:     blankToNil(req.Role),
		Content:  strings.TrimSpace(req.Content),
		Rating:   req.Rating,
		IsActive: req.IsActive,
	}
}

// ListActive returns the testimonials shown on the public site.
func (h *Testimonials) ListActive(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// ListAll returns every testimonial for moderation.
func (h *Testimonials) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *Testimonials) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	list, err := h.testimonials.List(r.Context(), activeOnly)
	if err != nil {
		serverError(w, "list testimonials", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Submit stores a public testimonial. It stays hidden until an admin
// activates it, whatever the client sent for isActive.
func (h *Testimonials) Submit(w http.ResponseWriter, r *http.Request) {
	var req testimonialRequest
	if !decodeJSON(w, r, &req) || !validRequest(w, &req) {
		return
	}
	req.IsActive = false

	t := req.model()
	if err := h.testimonials.Create(r.Context(), &t); err != nil {
		serverError(w, "create testimonial", err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// Create adds a testimonial from the admin panel.
func (h *Testimonials) Create(w http.ResponseWriter, r *http.Request) {
	var req testimonialRequest
	if !decodeJSON(w, r, &req) || !validRequest(w, &req) {
		return
	}

	t := req.model()
	if err := h.testimonials.Create(r.Context(), &t); err != nil {
		serverError(w, "create testimonial", err)
		return
	}
	h.cache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusCreated, t)
}

// Update applies a partial update.
func (h *Testimonials) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch testimonialPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	existing, err := h.testimonials.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, "get testimonial", err)
		return
	}
	if existing == nil {
		notFound(w, "Testimonial")
		return
	}

	req := testimonialRequest{
		Name:     existing.Name,
		Role:     existing.Role,
		Content:  existing.Content,
		Rating:   existing.Rating,
		IsActive: existing.IsActive,
	}
	patch.Name.apply(&req.Name)
	patch.Role.applyNullable(&req.Role)
	patch.Content.apply(&req.Content)
	patch.Rating.apply(&req.Rating)
	patch.IsActive.apply(&req.IsActive)
	if !validRequest(w, &req) {
		return
	}

	t := req.model()
	t.ID = id
	updated, err := h.testimonials.Update(r.Context(), &t)
	if err != nil {
		serverError(w, "update testimonial", err)
		return
	}
	if updated == nil {
		notFound(w, "Testimonial")
		return
	}
	h.cache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, updated)
}

// SetActive toggles visibility from an {"isActive": bool} body.
func (h *Testimonials) SetActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		IsActive *bool `json:"isActive" validate:"required"`
	}
	if !decodeJSON(w, r, &req) || !validRequest(w, &req) {
		return
	}

	t, err := h.testimonials.SetActive(r.Context(), id, *req.IsActive)
	if err != nil {
		serverError(w, "update testimonial", err)
		return
	}
	if t == nil {
		notFound(w, "Testimonial")
		return
	}
	h.cache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, t)
}

// Delete removes a testimonial.
func (h *Testimonials) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleted, err := h.testimonials.Delete(r.Context(), id)
	if err != nil {
		serverError(w, "delete testimonial", err)
		return
	}
	if !deleted {
		notFound(w, "Testimonial")
		return
	}
	h.cache.InvalidateAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
