// Package handlers contains the JSON REST handlers for the portfolio API.
// Handlers are grouped by resource (categories, photos, contact,
// testimonials, auth) and receive their dependencies through the handler
// struct.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"fotods/internal/store"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

// errorBody is the JSON error envelope. Field names the offending JSON
// field for validation errors.
type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func writeFieldError(w http.ResponseWriter, field, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg, Field: field})
}

// serverError logs err with its operation and writes a generic 500.
func serverError(w http.ResponseWriter, op string, err error) {
	slog.Error(op+" failed", "error", err)
	writeError(w, http.StatusInternalServerError, "Internal Server Error")
}

// storeError maps repository write errors: unique violations become a 400
// naming the field, everything else a 500.
func storeError(w http.ResponseWriter, op string, err error) {
	var dup *store.DuplicateError
	if errors.As(err, &dup) {
		writeFieldError(w, dup.Field, dup.Error())
		return
	}
	serverError(w, op, err)
}

func notFound(w http.ResponseWriter, what string) {
	writeError(w, http.StatusNotFound, what+" not found")
}

// pathID parses the {id} URL parameter. On failure it writes a 400 and
// returns false.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeFieldError(w, "id", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// decodeJSON reads a single JSON value from the request body into dst.
// On failure it writes a 400 and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &typeErr) && typeErr.Field != "":
			writeFieldError(w, typeErr.Field, "invalid value for "+typeErr.Field)
		case errors.As(err, &maxErr):
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, "Request body is empty")
		default:
			writeError(w, http.StatusBadRequest, "Malformed JSON")
		}
		return false
	}
	return true
}

// optional is a JSON field that remembers whether it was present, so
// partial updates can tell "absent" from "null". Value is nil for null.
type optional[T any] struct {
	Set   bool
	Value *T
}

func (o *optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// apply copies a present, non-null value into dst.
func (o optional[T]) apply(dst *T) {
	if o.Set && o.Value != nil {
		*dst = *o.Value
	}
}

// applyNullable copies a present value into dst, including null.
func (o optional[T]) applyNullable(dst **T) {
	if o.Set {
		*dst = o.Value
	}
}

// blankToNil maps a pointer to an all-space string to nil.
func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
