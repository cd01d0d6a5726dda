// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestThumbnail_Downscales(t *testing.T) {
	thumb, err := Thumbnail(encodePNG(t, 1200, 800), ThumbMaxWidth)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	if thumb == nil {
		t.Fatal("expected a thumbnail for a wide image")
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("thumbnail is not a JPEG: %v", err)
	}
	if cfg.Width != ThumbMaxWidth || cfg.Height != 400 {
		t.Errorf("thumbnail size = %dx%d, want %dx400", cfg.Width, cfg.Height, ThumbMaxWidth)
	}
}

func TestThumbnail_SmallImageSkipped(t *testing.T) {
	thumb, err := Thumbnail(encodePNG(t, 300, 200), ThumbMaxWidth)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	if thumb != nil {
		t.Errorf("expected nil thumbnail for a small image, got %d bytes", len(thumb))
	}
}

func TestThumbnail_Garbage(t *testing.T) {
	if _, err := Thumbnail([]byte("definitely not an image"), ThumbMaxWidth); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		wantCT string
		wantOK bool
		ext    string
	}{
		{"png", encodePNG(t, 2, 2), "image/png", true, ".png"},
		{"gif", []byte("GIF89a\x01\x00\x01\x00"), "image/gif", true, ".gif"},
		{"text", []byte("hello"), "text/plain; charset=utf-8", false, ""},
		{"pdf", []byte("%PDF-1.4"), "application/pdf", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, ok := DetectType(tt.data)
			if ct != tt.wantCT || ok != tt.wantOK {
				t.Errorf("DetectType = (%q, %v), want (%q, %v)", ct, ok, tt.wantCT, tt.wantOK)
			}
			if got := Extension(ct); got != tt.ext {
				t.Errorf("Extension(%q) = %q, want %q", ct, got, tt.ext)
			}
		})
	}
}
