// Package storage uploads and removes photo objects in an S3-compatible
// bucket or a Supabase Storage bucket. Both drivers satisfy Bucket.
package storage

import (
	"context"
	"errors"
	"strings"
)

// ErrForeignURL is returned by KeyFromURL when a URL does not point into the
// configured bucket.
var ErrForeignURL = errors.New("url does not belong to this bucket")

// Bucket is the object store the photo handlers write to. Put returns the
// public URL of the stored object; Remove takes that URL back.
type Bucket interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Remove(ctx context.Context, fileURL string) error
}

// trimPrefix returns rawURL with one of the given prefixes removed.
func trimPrefix(rawURL string, prefixes ...string) (string, bool) {
	for _, p := range prefixes {
		if p == "" {
			continue
		}
		p = strings.TrimRight(p, "/") + "/"
		if strings.HasPrefix(rawURL, p) && len(rawURL) > len(p) {
			return rawURL[len(p):], true
		}
	}
	return "", false
}
