package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

// Supabase stores photos in a public Supabase Storage bucket.
type Supabase struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

// NewSupabase creates a Supabase Storage client authenticated with the
// service role key. Returns (nil, nil) when the project URL or key is empty.
func NewSupabase(projectURL, serviceKey, bucket string) (*Supabase, error) {
	if projectURL == "" || serviceKey == "" {
		return nil, nil
	}
	if bucket == "" {
		return nil, fmt.Errorf("supabase bucket name is empty")
	}
	baseURL := strings.TrimRight(projectURL, "/")
	return &Supabase{
		client:  storage.NewClient(baseURL+"/storage/v1", serviceKey, nil),
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// Put uploads an object, overwriting any existing one, and returns its
// public URL. storage-go has no context support so ctx is unused.
func (s *Supabase) Put(_ context.Context, key, contentType string, data []byte) (string, error) {
	upsert := true
	_, err := s.client.UploadFile(s.bucket, key, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("supabase upload %s/%s: %w", s.bucket, key, err)
	}
	return s.FileURL(key), nil
}

// Remove deletes the object behind a public URL. Foreign URLs are ignored.
func (s *Supabase) Remove(_ context.Context, fileURL string) error {
	key, err := s.KeyFromURL(fileURL)
	if err != nil {
		return nil
	}
	if _, err := s.client.RemoveFile(s.bucket, []string{key}); err != nil {
		return fmt.Errorf("supabase delete %s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// FileURL returns the public object URL for a key.
func (s *Supabase) FileURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, key)
}

// KeyFromURL extracts the object path from a public object URL.
func (s *Supabase) KeyFromURL(rawURL string) (string, error) {
	if key, ok := trimPrefix(rawURL, s.FileURL("")); ok {
		return key, nil
	}
	return "", ErrForeignURL
}
