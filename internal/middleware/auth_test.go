package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fotods/internal/models"
	"fotods/internal/session"
)

// stubUsers is an in-memory UserFinder.
type stubUsers struct {
	users map[int64]*models.User
	err   error
}

func (s stubUsers) FindByID(_ context.Context, id int64) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.users[id], nil
}

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

// loggedInRequest creates a session in store and returns a request that
// carries its cookie.
func loggedInRequest(t *testing.T, store *session.Store, userID int64) *http.Request {
	t.Helper()
	w := httptest.NewRecorder()
	if _, err := store.Create(context.Background(), w, &session.Data{UserID: userID, Username: "admin"}); err != nil {
		t.Fatalf("session create: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func ctxWithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, UserKey, u)
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["error"]
}

func TestLoadSession(t *testing.T) {
	admin := &models.User{ID: 1, Username: "admin", IsAdmin: true}
	users := stubUsers{users: map[int64]*models.User{1: admin}}
	store := session.NewStore(session.NewMemoryBackend(), 0, false)

	tests := []struct {
		name     string
		users    UserFinder
		req      func(t *testing.T) *http.Request
		wantUser bool
	}{
		{
			name:     "valid session loads user",
			users:    users,
			req:      func(t *testing.T) *http.Request { return loggedInRequest(t, store, 1) },
			wantUser: true,
		},
		{
			name:  "no cookie is anonymous",
			users: users,
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/user", nil)
			},
		},
		{
			name:  "unknown session id is anonymous",
			users: users,
			req: func(t *testing.T) *http.Request {
				r := httptest.NewRequest(http.MethodGet, "/api/user", nil)
				r.AddCookie(&http.Cookie{Name: session.CookieName, Value: "bogus"})
				return r
			},
		},
		{
			name:  "deleted user is anonymous",
			users: users,
			req:   func(t *testing.T) *http.Request { return loggedInRequest(t, store, 99) },
		},
		{
			name:  "lookup error is anonymous",
			users: stubUsers{err: errors.New("db down")},
			req:   func(t *testing.T) *http.Request { return loggedInRequest(t, store, 1) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser *models.User
			var gotSession *session.Data
			handler := LoadSession(store, tt.users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = UserFromCtx(r.Context())
				gotSession = SessionFromCtx(r.Context())
			}))

			handler.ServeHTTP(httptest.NewRecorder(), tt.req(t))

			if tt.wantUser {
				if gotUser == nil || gotUser.ID != 1 {
					t.Fatalf("expected user 1 in context, got %+v", gotUser)
				}
				if gotSession == nil || gotSession.UserID != 1 {
					t.Errorf("expected session in context, got %+v", gotSession)
				}
			} else if gotUser != nil || gotSession != nil {
				t.Errorf("expected anonymous request, got user=%+v session=%+v", gotUser, gotSession)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	t.Run("rejects anonymous with 401", func(t *testing.T) {
		next, called := okHandler()
		rr := httptest.NewRecorder()
		RequireAuth(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/contact", nil))

		if *called {
			t.Error("next handler should not run")
		}
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rr.Code)
		}
		if msg := decodeError(t, rr); msg != "Unauthorized" {
			t.Errorf("error: got %q", msg)
		}
	})

	t.Run("passes signed-in user", func(t *testing.T) {
		next, called := okHandler()
		req := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
		req = req.WithContext(ctxWithUser(req.Context(), &models.User{ID: 2}))
		rr := httptest.NewRecorder()
		RequireAuth(next).ServeHTTP(rr, req)

		if !*called || rr.Code != http.StatusOK {
			t.Errorf("expected pass-through, got status %d", rr.Code)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		user       *models.User
		wantStatus int
	}{
		{name: "admin passes", user: &models.User{ID: 1, IsAdmin: true}, wantStatus: http.StatusOK},
		{name: "non-admin forbidden", user: &models.User{ID: 2, IsAdmin: false}, wantStatus: http.StatusForbidden},
		{name: "anonymous forbidden", user: nil, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, called := okHandler()
			req := httptest.NewRequest(http.MethodDelete, "/api/photos/1", nil)
			if tt.user != nil {
				req = req.WithContext(ctxWithUser(req.Context(), tt.user))
			}
			rr := httptest.NewRecorder()
			RequireAdmin(next).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
			if *called != (tt.wantStatus == http.StatusOK) {
				t.Errorf("next called = %v", *called)
			}
		})
	}
}
