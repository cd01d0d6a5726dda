package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"fotods/internal/models"
	"fotods/internal/store"
)

// Contact serves the contact form endpoint and the admin inbox.
type Contact struct {
	messages store.MessageRepository
}

// NewContact creates the contact handler group.
func NewContact(messages store.MessageRepository) *Contact {
	return &Contact{messages: messages}
}

type contactRequest struct {
	Name    string  `json:"name" validate:"required,max=100"`
	Email   string  `json:"email" validate:"required,email,max=254"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Service *string `json:"service" validate:"omitempty,max=100"`
	Message string  `json:"message" validate:"required,max=5000"`
}

// Submit stores a message from the public contact form. Messages always
// start unread.
func (h *Contact) Submit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if !validRequest(w, &req) {
		return
	}

	m := models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   blankToNil(req.Phone),
		Service: blankToNil(req.Service),
		Message: req.Message,
	}
	if err := h.messages.Create(r.Context(), &m); err != nil {
		serverError(w, "create contact message", err)
		return
	}
	slog.Info("contact message received", "id", m.ID)
	writeJSON(w, http.StatusCreated, m)
}

// List returns all messages, newest first.
func (h *Contact) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.messages.List(r.Context())
	if err != nil {
		serverError(w, "list contact messages", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Get returns one message.
func (h *Contact) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	m, err := h.messages.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, "get contact message", err)
		return
	}
	if m == nil {
		notFound(w, "Message")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// MarkRead sets the read flag from a {"read": bool} body.
func (h *Contact) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Read *bool `json:"read" validate:"required"`
	}
	if !decodeJSON(w, r, &req) || !validRequest(w, &req) {
		return
	}

	m, err := h.messages.SetRead(r.Context(), id, *req.Read)
	if err != nil {
		serverError(w, "update contact message", err)
		return
	}
	if m == nil {
		notFound(w, "Message")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// Delete removes a message.
func (h *Contact) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleted, err := h.messages.Delete(r.Context(), id)
	if err != nil {
		serverError(w, "delete contact message", err)
		return
	}
	if !deleted {
		notFound(w, "Message")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
