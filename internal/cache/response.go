// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// response.go provides a Valkey-backed cache of public JSON responses.
// Public listings are read far more often than the back office changes
// them, so successful GET responses are stored in Valkey and every admin
// mutation clears the whole cache. Keys carry a generation number that
// InvalidateAll bumps, so a response computed before a mutation can never
// be stored where later requests look.
package cache

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// responseKeyPrefix is the Valkey key prefix for cached responses.
	responseKeyPrefix = "api:"

	// generationKey holds the current cache generation. It sits outside
	// responseKeyPrefix so InvalidateAll's scan never deletes it.
	generationKey = "api-generation"

	// DefaultResponseTTL is how long a response stays cached.
	DefaultResponseTTL = 5 * time.Minute
)

// ResponseCache caches API responses in Valkey. A nil *ResponseCache is a
// valid, disabled cache.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a response cache backed by the given Valkey client.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultResponseTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Get retrieves a cached body from the current generation. Errors are
// logged and reported as a miss.
func (rc *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if rc == nil {
		return nil, false
	}
	gen, ok := rc.generation(ctx)
	if !ok {
		return nil, false
	}
	return rc.get(ctx, gen, key)
}

// Set stores a body in the current generation with the configured TTL.
func (rc *ResponseCache) Set(ctx context.Context, key string, body []byte) {
	if rc == nil {
		return
	}
	if gen, ok := rc.generation(ctx); ok {
		rc.set(ctx, gen, key, body)
	}
}

// generation reads the current generation; a missing key is generation 0.
func (rc *ResponseCache) generation(ctx context.Context) (int64, bool) {
	gen, err := rc.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		slog.Warn("response cache generation error", "error", err)
		return 0, false
	}
	return gen, true
}

func responseKey(gen int64, key string) string {
	return responseKeyPrefix + strconv.FormatInt(gen, 10) + ":" + key
}

func (rc *ResponseCache) get(ctx context.Context, gen int64, key string) ([]byte, bool) {
	val, err := rc.client.Get(ctx, responseKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("response cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("response cache hit", "key", key, "generation", gen)
	return val, true
}

func (rc *ResponseCache) set(ctx context.Context, gen int64, key string, body []byte) {
	if err := rc.client.Set(ctx, responseKey(gen, key), body, rc.ttl).Err(); err != nil {
		slog.Warn("response cache set error", "key", key, "error", err)
	}
}

// InvalidateAll starts a new generation and then removes every cached
// response by scanning for the prefix. Failures are logged; a stale entry
// expires with its TTL anyway.
func (rc *ResponseCache) InvalidateAll(ctx context.Context) {
	if rc == nil {
		return
	}
	if err := rc.client.Incr(ctx, generationKey).Err(); err != nil {
		slog.Warn("response cache generation bump error", "error", err)
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := rc.client.Scan(ctx, cursor, responseKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("response cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("response cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("response cache cleared", "deleted", deleted)
	}
}

// Middleware serves GET requests from the cache, keyed by path and query,
// and stores successful JSON responses on a miss. The body is stored under
// the generation read before the handler ran. The X-Cache header reports
// HIT or MISS.
func (rc *ResponseCache) Middleware(next http.Handler) http.Handler {
	if rc == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		gen, ok := rc.generation(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		key := r.URL.RequestURI()
		if body, ok := rc.get(r.Context(), gen, key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(http.StatusOK)
			w.Write(body)
			return
		}

		w.Header().Set("X-Cache", "MISS")
		rec := &recorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if rec.status == http.StatusOK {
			rc.set(r.Context(), gen, key, rec.body.Bytes())
		}
	})
}

// recorder tees the response body so it can be cached after the handler
// has written it.
type recorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *recorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
