package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"fotods/internal/auth"
	"fotods/internal/middleware"
	"fotods/internal/session"
)

// Auth groups the login, logout and current-user endpoints.
type Auth struct {
	sessions *session.Store
	auth     *auth.Service
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, svc *auth.Service) *Auth {
	return &Auth{sessions: sessions, auth: svc}
}

type loginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

// Login checks the credentials of an admin account and starts a session.
// Unknown users, wrong passwords and non-admin accounts get the same 401.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) || !validRequest(w, &req) {
		return
	}

	user, err := a.auth.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		serverError(w, "login", err)
		return
	}

	// Drop any session the client already had before issuing a new one.
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("previous session cleanup failed", "error", err)
	}
	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: time.Now(),
	})
	if err != nil {
		serverError(w, "session create", err)
		return
	}

	slog.Info("admin signed in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, user)
}

// Logout destroys the session. It succeeds for anonymous callers too.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		serverError(w, "session destroy", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// CurrentUser returns the signed-in user, or 401.
func (a *Auth) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
