// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// simpleOKHandler returns an http.Handler that writes 200 OK.
var simpleOKHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

// executeRequest creates a test request and executes it against the handler.
func executeRequest(handler http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	if err := json.Unmarshal(w.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("failed to decode error body %q: %v", w.Body.String(), err)
	}
	return apiErr
}

func TestWriteAPIError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteAPIError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed", map[string]string{"name": "is required"})

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	apiErr := decodeAPIError(t, w)
	if apiErr.Error.Code != "validation_error" {
		t.Errorf("code = %q, want validation_error", apiErr.Error.Code)
	}
	if apiErr.Error.Details["name"] != "is required" {
		t.Errorf("details = %v", apiErr.Error.Details)
	}
}

func TestLimiterCache(t *testing.T) {
	lc := newLimiterCache[string](1, 1)

	a := lc.get("a")
	if lc.get("a") != a {
		t.Error("expected the same limiter for the same key")
	}
	if lc.get("b") == a {
		t.Error("expected a different limiter for another key")
	}

	if lc.clearIfExceeds(5) {
		t.Error("cache with 2 entries should not be cleared at limit 5")
	}
	if !lc.clearIfExceeds(1) {
		t.Error("cache with 2 entries should be cleared at limit 1")
	}
	if lc.get("a") == a {
		t.Error("expected a fresh limiter after clearing")
	}
}

func TestGlobalRateLimiter(t *testing.T) {
	rl := NewGlobalRateLimiter("api", 0.001, 2)
	handler := rl.Middleware()(simpleOKHandler)

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req.RemoteAddr = ip + ":12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, code)
		}
	}
	if code := send("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("third request: status = %d, want 429", code)
	}
	if code := send("10.0.0.2"); code != http.StatusOK {
		t.Errorf("other IP: status = %d, want 200", code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{name: "remote addr with port", remoteAddr: "192.0.2.1:5000", want: "192.0.2.1"},
		{name: "remote addr without port", remoteAddr: "192.0.2.1", want: "192.0.2.1"},
		{name: "ipv6 remote addr", remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "x-real-ip wins", headers: map[string]string{"X-Real-IP": "203.0.113.7", "X-Forwarded-For": "198.51.100.1"}, remoteAddr: "192.0.2.1:1", want: "203.0.113.7"},
		{name: "first forwarded hop", headers: map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"}, remoteAddr: "192.0.2.1:1", want: "198.51.100.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
