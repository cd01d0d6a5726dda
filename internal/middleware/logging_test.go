package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// captureLogs redirects the default slog logger for the duration of a test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		path      string
		status    int
		wantLevel string
	}{
		{name: "ok", method: http.MethodGet, path: "/api/photos", status: http.StatusOK, wantLevel: "level=INFO"},
		{name: "not found", method: http.MethodGet, path: "/api/photos/99", status: http.StatusNotFound, wantLevel: "level=INFO"},
		{name: "created", method: http.MethodPost, path: "/api/contact", status: http.StatusCreated, wantLevel: "level=INFO"},
		{name: "server error", method: http.MethodDelete, path: "/api/photos/1", status: http.StatusInternalServerError, wantLevel: "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLogs(t)
			handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Errorf("status: got %d, want %d", rr.Code, tt.status)
			}
			out := logs.String()
			for _, want := range []string{tt.wantLevel, "method=" + tt.method, "path=" + tt.path} {
				if !strings.Contains(out, want) {
					t.Errorf("log line missing %q: %s", want, out)
				}
			}
		})
	}
}

func TestLoggerImplicitStatus(t *testing.T) {
	logs := captureLogs(t)
	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Body.String() != "hello" {
		t.Errorf("body: got %q, want %q", rr.Body.String(), "hello")
	}
	if !strings.Contains(logs.String(), "status=200") {
		t.Errorf("expected status=200 in log, got %s", logs.String())
	}
}

// TestResponseWriter checks the status capture used by Logger.
func TestResponseWriter(t *testing.T) {
	t.Run("first WriteHeader wins", func(t *testing.T) {
		rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}

		rw.WriteHeader(http.StatusNotFound)
		rw.WriteHeader(http.StatusInternalServerError)

		if rw.statusCode != http.StatusNotFound {
			t.Errorf("statusCode: got %d, want 404", rw.statusCode)
		}
	})

	t.Run("Write does not override explicit WriteHeader", func(t *testing.T) {
		rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}

		rw.WriteHeader(http.StatusCreated)
		rw.Write([]byte("created"))

		if rw.statusCode != http.StatusCreated {
			t.Errorf("statusCode: got %d, want 201", rw.statusCode)
		}
		if !rw.written {
			t.Error("written should be true")
		}
	})
}
