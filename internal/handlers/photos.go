// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fotods/internal/cache"
	"fotods/internal/imaging"
	"fotods/internal/models"
	"fotods/internal/portfolio"
	"fotods/internal/storage"
	"fotods/internal/store"
)

const (
	// maxUploadSize is the maximum allowed photo upload size (50 MB).
	maxUploadSize = 50 << 20

	// multipartMemory is how much of a multipart body is kept in memory
	// before spilling to temp files.
	multipartMemory = 32 << 20
)

// Photos serves the photo endpoints, including uploads and reordering.
type Photos struct {
	photos     store.PhotoRepository
	categories store.CategoryRepository
	portfolio  *portfolio.Service
	bucket     storage.Bucket
	cache      *cache.ResponseCache
	now        func() time.Time
}

// NewPhotos creates the photo handler group. bucket may be nil, in which
// case multipart uploads are rejected and JSON bodies must carry URLs.
func NewPhotos(photos store.PhotoRepository, categories store.CategoryRepository, svc *portfolio.Service, bucket storage.Bucket, rc *cache.ResponseCache) *Photos {
	return &Photos{
		photos:     photos,
		categories: categories,
		portfolio:  svc,
		bucket:     bucket,
		cache:      rc,
		now:        time.Now,
	}
}

type photoRequest struct {
	Title        string  `json:"title" validate:"required,max=200"`
	Description  *string `json:"description" validate:"omitempty,max=2000"`
	ImageURL     string  `json:"imageUrl" validate:"required,url,max=2048"`
	ThumbnailURL string  `json:"thumbnailUrl" validate:"omitempty,url,max=2048"`
	CategoryID   *int64  `json:"categoryId" validate:"omitempty,gt=0"`
	Featured     bool    `json:"featured"`
	Location     *string `json:"location" validate:"omitempty,max=200"`
	DisplayOrder *int    `json:"displayOrder"`
}

type photoPatch struct {
	Title        optional[string] `json:"title"`
	Description  optional[string] `json:"description"`
	ImageURL     optional[string] `json:"imageUrl"`
	ThumbnailURL optional[string] `json:"thumbnailUrl"`
	CategoryID   optional[int64]  `json:"categoryId"`
	Featured     optional[bool]   `json:"featured"`
	Location     optional[string] `json:"location"`
	DisplayOrder optional[int]    `json:"displayOrder"`
}

func (p photoPatch) applyTo(req *photoRequest) {
	p.Title.apply(&req.Title)
	p.Description.applyNullable(&req.Description)
	p.ImageURL.apply(&req.ImageURL)
	p.ThumbnailURL.apply(&req.ThumbnailURL)
	p.CategoryID.applyNullable(&req.CategoryID)
	p.Featured.apply(&req.Featured)
	p.Location.applyNullable(&req.Location)
	if p.DisplayOrder.Set && p.DisplayOrder.Value != nil {
		req.DisplayOrder = p.DisplayOrder.Value
	}
}

func (req *photoRequest) normalize() {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = blankToNil(req.Description)
	req.Location = blankToNil(req.Location)
	if req.ThumbnailURL == "" {
		req.ThumbnailURL = req.ImageURL
	}
}

func (req *photoRequest) model() models.Photo {
	p := models.Photo{
		Title:        req.Title,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		ThumbnailURL: req.ThumbnailURL,
		CategoryID:   req.CategoryID,
		Featured:     req.Featured,
		Location:     req.Location,
	}
	if req.DisplayOrder != nil {
		p.DisplayOrder = *req.DisplayOrder
	}
	return p
}

type reorderRequest struct {
	PhotoOrders []store.PhotoOrder `json:"photoOrders" validate:"required,min=1,dive"`
	CategoryID  *int64             `json:"categoryId" validate:"omitempty,gt=0"`
}

// List returns all photos in display order.
func (h *Photos) List(w http.ResponseWriter, r *http.Request) {
	photos, err := h.portfolio.ListPhotos(r.Context())
	if err != nil {
		serverError(w, "list photos", err)
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

// Featured returns featured photos in display order.
func (h *Photos) Featured(w http.ResponseWriter, r *http.Request) {
	photos, err := h.portfolio.ListFeaturedPhotos(r.Context())
	if err != nil {
		serverError(w, "list featured photos", err)
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

// ByCategory returns the photos of a category and its direct
// subcategories. An unknown slug yields an empty list.
func (h *Photos) ByCategory(w http.ResponseWriter, r *http.Request) {
	photos, err := h.portfolio.ListPhotosForCategorySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		serverError(w, "list category photos", err)
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

// Get returns one photo.
func (h *Photos) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.photos.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, "get photo", err)
		return
	}
	if p == nil {
		notFound(w, "Photo")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Create adds a photo from a JSON body carrying image URLs, or from a
// multipart form with an "image" file that is uploaded to the bucket.
func (h *Photos) Create(w http.ResponseWriter, r *http.Request) {
	var req photoRequest
	var upload []byte

	if isMultipart(r) {
		patch, data, ok := h.readForm(w, r)
		if !ok {
			return
		}
		if data == nil {
			writeFieldError(w, "image", "image is required")
			return
		}
		patch.applyTo(&req)
		upload = data
	} else if !decodeJSON(w, r, &req) {
		return
	}

	req.normalize()
	if upload != nil {
		if !validRequest(w, &req, "ImageURL", "ThumbnailURL") {
			return
		}
	} else if !validRequest(w, &req) {
		return
	}
	if !h.categoryExists(r.Context(), w, req.CategoryID) {
		return
	}

	if upload != nil {
		imageURL, thumbURL, err := h.storeUpload(r.Context(), upload)
		if err != nil {
			serverError(w, "upload photo", err)
			return
		}
		req.ImageURL, req.ThumbnailURL = imageURL, thumbURL
	}

	p := req.model()
	if err := h.portfolio.CreatePhoto(r.Context(), &p, req.DisplayOrder); err != nil {
		if upload != nil {
			h.removeObjects(r.Context(), p.ObjectURLs()...)
		}
		serverError(w, "create photo", err)
		return
	}

	h.cache.InvalidateAll(r.Context())
	slog.Info("photo created", "id", p.ID, "uploaded", upload != nil)
	writeJSON(w, http.StatusCreated, p)
}

// Update applies a partial update. A multipart form with an "image" file
// replaces the stored image; objects no longer referenced are removed
// after the row is saved.
func (h *Photos) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var patch photoPatch
	var upload []byte
	if isMultipart(r) {
		if patch, upload, ok = h.readForm(w, r); !ok {
			return
		}
	} else if !decodeJSON(w, r, &patch) {
		return
	}

	existing, err := h.photos.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, "get photo", err)
		return
	}
	if existing == nil {
		notFound(w, "Photo")
		return
	}

	order := existing.DisplayOrder
	req := photoRequest{
		Title:        existing.Title,
		Description:  existing.Description,
		ImageURL:     existing.ImageURL,
		ThumbnailURL: existing.ThumbnailURL,
		CategoryID:   existing.CategoryID,
		Featured:     existing.Featured,
		Location:     existing.Location,
		DisplayOrder: &order,
	}
	patch.applyTo(&req)
	// A thumbnail that mirrored the old image follows the new one.
	if req.ImageURL != existing.ImageURL && !patch.ThumbnailURL.Set && existing.ThumbnailURL == existing.ImageURL {
		req.ThumbnailURL = req.ImageURL
	}
	req.normalize()
	if !validRequest(w, &req) {
		return
	}
	if !h.categoryExists(r.Context(), w, req.CategoryID) {
		return
	}

	if upload != nil {
		imageURL, thumbURL, err := h.storeUpload(r.Context(), upload)
		if err != nil {
			serverError(w, "upload photo", err)
			return
		}
		req.ImageURL, req.ThumbnailURL = imageURL, thumbURL
	}

	p := req.model()
	p.ID = id
	updated, err := h.photos.Update(r.Context(), &p)
	if err != nil || updated == nil {
		if upload != nil {
			h.removeObjects(r.Context(), p.ObjectURLs()...)
		}
		if err != nil {
			serverError(w, "update photo", err)
		} else {
			notFound(w, "Photo")
		}
		return
	}

	keep := updated.ObjectURLs()
	for _, u := range existing.ObjectURLs() {
		if !slices.Contains(keep, u) {
			h.removeObjects(r.Context(), u)
		}
	}

	h.cache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a photo row and then its image objects.
func (h *Photos) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.photos.Delete(r.Context(), id)
	if err != nil {
		serverError(w, "delete photo", err)
		return
	}
	if p == nil {
		notFound(w, "Photo")
		return
	}

	h.removeObjects(r.Context(), p.ObjectURLs()...)
	h.cache.InvalidateAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Reorder applies a batch of display order changes, optionally limited to
// one category.
func (h *Photos) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validRequest(w, &req) {
		return
	}

	if err := h.portfolio.Reorder(r.Context(), req.PhotoOrders, req.CategoryID); err != nil {
		serverError(w, "reorder photos", err)
		return
	}
	h.cache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"message": "Photo order updated"})
}

func (h *Photos) categoryExists(ctx context.Context, w http.ResponseWriter, id *int64) bool {
	if id == nil {
		return true
	}
	c, err := h.categories.FindByID(ctx, *id)
	if err != nil {
		serverError(w, "get category", err)
		return false
	}
	if c == nil {
		writeFieldError(w, "categoryId", "categoryId does not exist")
		return false
	}
	return true
}

// readForm parses a multipart photo form. It returns the metadata fields
// that were present and the raw "image" file, or nil if none was sent.
func (h *Photos) readForm(w http.ResponseWriter, r *http.Request) (photoPatch, []byte, bool) {
	var patch photoPatch
	if h.bucket == nil {
		writeError(w, http.StatusServiceUnavailable, "Photo storage is not configured")
		return patch, nil, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large (max 50 MB)")
		} else {
			writeError(w, http.StatusBadRequest, "Malformed multipart form")
		}
		return patch, nil, false
	}

	if fe := patch.fromForm(r.MultipartForm.Value); fe != nil {
		writeFieldError(w, fe.Field, fe.Message)
		return patch, nil, false
	}

	file, _, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return patch, nil, true
	}
	if err != nil {
		writeFieldError(w, "image", "image could not be read")
		return patch, nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeFieldError(w, "image", "image could not be read")
		return patch, nil, false
	}
	if _, ok := imaging.DetectType(data); !ok {
		writeFieldError(w, "image", "image must be a JPEG, PNG, GIF or WebP file")
		return patch, nil, false
	}
	return patch, data, true
}

// fromForm fills the patch from multipart text fields. Only fields that
// appear in the form are marked as set; an empty nullable field is null.
func (p *photoPatch) fromForm(values map[string][]string) *fieldError {
	get := func(key string) (string, bool) {
		v, ok := values[key]
		if !ok || len(v) == 0 {
			return "", false
		}
		return v[0], true
	}
	str := func(key string, dst *optional[string], nullable bool) {
		if v, ok := get(key); ok {
			dst.Set = true
			if v != "" || !nullable {
				dst.Value = &v
			}
		}
	}

	str("title", &p.Title, false)
	str("description", &p.Description, true)
	str("location", &p.Location, true)

	if v, ok := get("categoryId"); ok {
		p.CategoryID.Set = true
		if v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return &fieldError{Field: "categoryId", Message: "categoryId must be an integer"}
			}
			p.CategoryID.Value = &id
		}
	}
	if v, ok := get("featured"); ok {
		featured := v == "on"
		if !featured && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return &fieldError{Field: "featured", Message: "featured must be true or false"}
			}
			featured = b
		}
		p.Featured.Set, p.Featured.Value = true, &featured
	}
	if v, ok := get("displayOrder"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &fieldError{Field: "displayOrder", Message: "displayOrder must be an integer"}
		}
		p.DisplayOrder.Set, p.DisplayOrder.Value = true, &n
	}
	return nil
}

// storeUpload puts the image and, for images wider than the thumbnail
// width, a JPEG thumbnail into the bucket under photos/YYYY/MM/<uuid>.
// Small images use the original as their thumbnail.
func (h *Photos) storeUpload(ctx context.Context, data []byte) (imageURL, thumbURL string, err error) {
	contentType, _ := imaging.DetectType(data)
	now := h.now().UTC()
	base := fmt.Sprintf("photos/%04d/%02d/%s", now.Year(), int(now.Month()), uuid.NewString())

	imageURL, err = h.bucket.Put(ctx, base+imaging.Extension(contentType), contentType, data)
	if err != nil {
		return "", "", fmt.Errorf("store image: %w", err)
	}

	thumb, err := imaging.Thumbnail(data, imaging.ThumbMaxWidth)
	if err != nil {
		slog.Warn("thumbnail generation failed", "error", err)
		return imageURL, imageURL, nil
	}
	if thumb == nil {
		return imageURL, imageURL, nil
	}

	thumbURL, err = h.bucket.Put(ctx, base+"_thumb.jpg", "image/jpeg", thumb)
	if err != nil {
		h.removeObjects(ctx, imageURL)
		return "", "", fmt.Errorf("store thumbnail: %w", err)
	}
	return imageURL, thumbURL, nil
}

// removeObjects deletes objects from the bucket, logging failures.
func (h *Photos) removeObjects(ctx context.Context, urls ...string) {
	if h.bucket == nil {
		return
	}
	for _, u := range urls {
		if err := h.bucket.Remove(ctx, u); err != nil {
			slog.Warn("object cleanup failed", "url", u, "error", err)
		}
	}
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}
