// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIssueCSRF(t *testing.T) {
	t.Run("sets cookie when missing", func(t *testing.T) {
		next, called := okHandler()
		rr := httptest.NewRecorder()
		IssueCSRF(true)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/user", nil))

		if !*called {
			t.Fatal("next handler should run")
		}
		var cookie *http.Cookie
		for _, c := range rr.Result().Cookies() {
			if c.Name == CSRFCookieName {
				cookie = c
			}
		}
		if cookie == nil {
			t.Fatal("expected CSRF cookie")
		}
		if len(cookie.Value) != 2*csrfTokenLength {
			t.Errorf("token length: got %d", len(cookie.Value))
		}
		if cookie.HttpOnly {
			t.Error("CSRF cookie must be readable by scripts")
		}
		if !cookie.Secure {
			t.Error("expected Secure cookie")
		}
	})

	t.Run("keeps existing cookie", func(t *testing.T) {
		next, _ := okHandler()
		req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
		req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "existing"})
		rr := httptest.NewRecorder()
		IssueCSRF(false)(next).ServeHTTP(rr, req)

		if len(rr.Result().Cookies()) != 0 {
			t.Error("should not reissue a cookie that is already present")
		}
	})
}

func TestCSRF(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		cookie     string
		header     string
		wantStatus int
	}{
		{name: "GET passes without token", method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "HEAD passes without token", method: http.MethodHead, wantStatus: http.StatusOK},
		{name: "OPTIONS passes without token", method: http.MethodOptions, wantStatus: http.StatusOK},
		{name: "POST without anything", method: http.MethodPost, wantStatus: http.StatusForbidden},
		{name: "POST with cookie only", method: http.MethodPost, cookie: "tok", wantStatus: http.StatusForbidden},
		{name: "POST with header only", method: http.MethodPost, header: "tok", wantStatus: http.StatusForbidden},
		{name: "POST with mismatch", method: http.MethodPost, cookie: "tok", header: "other", wantStatus: http.StatusForbidden},
		{name: "POST with match", method: http.MethodPost, cookie: "tok", header: "tok", wantStatus: http.StatusOK},
		{name: "PUT with match", method: http.MethodPut, cookie: "tok", header: "tok", wantStatus: http.StatusOK},
		{name: "PATCH without token", method: http.MethodPatch, wantStatus: http.StatusForbidden},
		{name: "DELETE with match", method: http.MethodDelete, cookie: "tok", header: "tok", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _ := okHandler()
			req := httptest.NewRequest(tt.method, "/api/photos", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(CSRFHeaderName, tt.header)
			}
			rr := httptest.NewRecorder()
			CSRF(next).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}
