package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client connected to the test Valkey, or
// nil if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests to isolate from dev data.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "session:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// forEachBackend runs fn against the memory backend and, when reachable,
// against Valkey.
func forEachBackend(t *testing.T, fn func(t *testing.T, b Backend)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemoryBackend()) })
	t.Run("valkey", func(t *testing.T) {
		client := testValkeyClient(t)
		if client == nil {
			t.Skip("skipping integration test: Valkey not reachable")
		}
		fn(t, NewRedisBackend(client))
	})
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatal("expected session cookie to be set")
	return nil
}

func TestSessionCreateAndGet(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b Backend) {
		store := NewStore(b, 0, false)
		w := httptest.NewRecorder()
		ctx := context.Background()

		sessionID, err := store.Create(ctx, w, &Data{UserID: 42, Username: "admin"})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if len(sessionID) != 2*idLength {
			t.Errorf("session id length = %d, want %d", len(sessionID), 2*idLength)
		}

		cookie := sessionCookie(t, w)
		if !cookie.HttpOnly {
			t.Error("expected HttpOnly cookie")
		}
		if cookie.Secure {
			t.Error("expected Secure=false for non-secure store")
		}
		if cookie.MaxAge != int(DefaultTTL.Seconds()) {
			t.Errorf("MaxAge = %d, want %d", cookie.MaxAge, int(DefaultTTL.Seconds()))
		}

		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(cookie)

		retrieved, err := store.Get(ctx, req)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if retrieved == nil {
			t.Fatal("expected session data, got nil")
		}
		if retrieved.UserID != 42 || retrieved.Username != "admin" {
			t.Errorf("retrieved %+v", retrieved)
		}
	})
}

func TestSessionGetNoCookie(t *testing.T) {
	store := NewStore(NewMemoryBackend(), 0, false)

	req := httptest.NewRequest("GET", "/", nil)
	data, err := store.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("Get (no cookie): %v", err)
	}
	if data != nil {
		t.Error("expected nil for request without session cookie")
	}
}

func TestSessionGetUnknownID(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b Backend) {
		store := NewStore(b, 0, false)

		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "nonexistent-session-id"})

		data, err := store.Get(context.Background(), req)
		if err != nil {
			t.Fatalf("Get (unknown): %v", err)
		}
		if data != nil {
			t.Error("expected nil for nonexistent session")
		}
	})
}

func TestSessionDestroy(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b Backend) {
		store := NewStore(b, 0, false)
		w := httptest.NewRecorder()
		ctx := context.Background()

		if _, err := store.Create(ctx, w, &Data{UserID: 7, Username: "gone"}); err != nil {
			t.Fatalf("Create: %v", err)
		}
		cookie := sessionCookie(t, w)

		w2 := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/", nil)
		req.AddCookie(cookie)

		if err := store.Destroy(ctx, w2, req); err != nil {
			t.Fatalf("Destroy: %v", err)
		}

		for _, c := range w2.Result().Cookies() {
			if c.Name == CookieName && c.MaxAge != -1 {
				t.Error("expected MaxAge=-1 on destroyed cookie")
			}
		}

		retrieved, _ := store.Get(ctx, req)
		if retrieved != nil {
			t.Error("expected nil after destroy")
		}
	})
}

func TestSessionDestroyNoCookie(t *testing.T) {
	store := NewStore(NewMemoryBackend(), 0, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/", nil)

	if err := store.Destroy(context.Background(), w, req); err != nil {
		t.Errorf("Destroy (no cookie): %v", err)
	}
}

func TestSessionSecureCookie(t *testing.T) {
	store := NewStore(NewMemoryBackend(), time.Hour, true)

	w := httptest.NewRecorder()
	if _, err := store.Create(context.Background(), w, &Data{UserID: 1, Username: "admin"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	cookie := sessionCookie(t, w)
	if !cookie.Secure {
		t.Error("expected Secure=true for secure store")
	}
	if cookie.MaxAge != 3600 {
		t.Errorf("MaxAge = %d, want 3600", cookie.MaxAge)
	}
}

func TestMemoryBackendExpiry(t *testing.T) {
	b := NewMemoryBackend()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	ctx := context.Background()

	if err := b.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := b.Get(ctx, "k"); !ok {
		t.Fatal("expected key before expiry")
	}

	now = now.Add(time.Minute)
	if _, ok, _ := b.Get(ctx, "k"); ok {
		t.Error("expected key to expire at its TTL")
	}
}
