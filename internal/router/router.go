// Package router sets up all HTTP routes and middleware chains for the
// portfolio API. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"fotods/internal/cache"
	"fotods/internal/handlers"
	"fotods/internal/middleware"
	"fotods/internal/session"
)

// Deps carries everything the router wires together. Cache, the rate
// limiters and HealthChecks may be nil.
type Deps struct {
	Sessions      *session.Store
	Users         middleware.UserFinder
	Cache         *cache.ResponseCache
	SecureCookies bool
	AllowOrigins  []string

	Categories   *handlers.Categories
	Photos       *handlers.Photos
	Contact      *handlers.Contact
	Testimonials *handlers.Testimonials
	Auth         *handlers.Auth

	// LoginLimiter throttles POST /api/login; SubmitLimiter throttles the
	// public contact and testimonial forms.
	LoginLimiter  *middleware.RateLimiter
	SubmitLimiter *middleware.RateLimiter

	// HealthChecks are pinged by /health, keyed by dependency name.
	HealthChecks map[string]func(context.Context) error
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.CSRFHeaderName},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.IssueCSRF(d.SecureCookies))
	r.Use(middleware.LoadSession(d.Sessions, d.Users))

	// Health check, no auth, no CSRF.
	r.Get("/health", healthHandler(d.HealthChecks))

	r.Route("/api", func(r chi.Router) {
		// Auth
		r.With(limit(d.LoginLimiter)).Post("/login", d.Auth.Login)
		r.Post("/logout", d.Auth.Logout)
		r.Get("/user", d.Auth.CurrentUser)

		// Public reads, cached in Valkey when available.
		r.Group(func(r chi.Router) {
			r.Use(d.Cache.Middleware)
			r.Get("/categories", d.Categories.List)
			r.Get("/categories/{slug}", d.Categories.Get)
			r.Get("/photos", d.Photos.List)
			r.Get("/photos/featured", d.Photos.Featured)
			r.Get("/photos/category/{slug}", d.Photos.ByCategory)
			r.Get("/photos/{id}", d.Photos.Get)
			r.Get("/testimonials", d.Testimonials.ListActive)
		})

		// Public forms
		r.Group(func(r chi.Router) {
			r.Use(limit(d.SubmitLimiter))
			r.Post("/contact", d.Contact.Submit)
			r.Post("/testimonials/submit", d.Testimonials.Submit)
		})

		// Admin area: session, admin flag and CSRF token required.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireAdmin)
			r.Use(middleware.CSRF)

			r.Post("/categories", d.Categories.Create)
			r.Put("/categories/{id}", d.Categories.Update)
			r.Delete("/categories/{id}", d.Categories.Delete)

			r.Post("/photos", d.Photos.Create)
			r.Post("/photos/reorder", d.Photos.Reorder)
			r.Put("/photos/{id}", d.Photos.Update)
			r.Delete("/photos/{id}", d.Photos.Delete)

			r.Get("/contact", d.Contact.List)
			r.Get("/contact/{id}", d.Contact.Get)
			r.Patch("/contact/{id}", d.Contact.MarkRead)
			r.Delete("/contact/{id}", d.Contact.Delete)

			r.Route("/admin/testimonials", func(r chi.Router) {
				r.Get("/", d.Testimonials.ListAll)
				r.Post("/", d.Testimonials.Create)
				r.Put("/{id}", d.Testimonials.Update)
				r.Patch("/{id}", d.Testimonials.SetActive)
				r.Delete("/{id}", d.Testimonials.Delete)
			})
		})
	})

	return r
}

// limit returns the limiter's middleware, or a pass-through for nil.
func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}

// healthHandler reports {"status":"ok"} when every check passes and 503
// with the failing dependency names otherwise.
func healthHandler(checks map[string]func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				slog.Warn("health check failed", "dependency", name, "error", err)
				status = http.StatusServiceUnavailable
				body["status"] = "unavailable"
				body[name] = "down"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}
