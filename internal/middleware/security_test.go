// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strings"
	"testing"
)

func TestSecurityHeaders_Production(t *testing.T) {
	handler := SecurityHeaders(DefaultSecurityHeadersConfig(false))(simpleOKHandler)
	w := executeRequest(handler, http.MethodGet, "/api/v1/products")

	want := map[string]string{
		"X-Frame-Options":           "DENY",
		"X-Content-Type-Options":    "nosniff",
		"Referrer-Policy":           "no-referrer",
		"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
	}
	for header, value := range want {
		if got := w.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}

	csp := w.Header().Get("Content-Security-Policy")
	if !strings.HasPrefix(csp, "default-src 'none'") {
		t.Errorf("CSP = %q, want default-src 'none' first", csp)
	}
	if !strings.Contains(csp, "frame-ancestors 'none'") {
		t.Errorf("CSP = %q, missing frame-ancestors", csp)
	}
}

func TestSecurityHeaders_DevelopmentSkipsHSTS(t *testing.T) {
	handler := SecurityHeaders(DefaultSecurityHeadersConfig(true))(simpleOKHandler)
	w := executeRequest(handler, http.MethodGet, "/")

	if got := w.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS = %q, want empty in development", got)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
}

func TestSecurityHeaders_ExcludePaths(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	cfg.ExcludePaths = []string{"/uploads/"}
	handler := SecurityHeaders(cfg)(simpleOKHandler)

	w := executeRequest(handler, http.MethodGet, "/uploads/images/2026/01/a.jpg")
	if got := w.Header().Get("Content-Security-Policy"); got != "" {
		t.Errorf("CSP = %q, want none on excluded path", got)
	}

	w = executeRequest(handler, http.MethodGet, "/api/v1/home")
	if got := w.Header().Get("Content-Security-Policy"); got == "" {
		t.Error("expected CSP on non-excluded path")
	}
}

func TestSecurityHeaders_ZeroConfig(t *testing.T) {
	handler := SecurityHeaders(SecurityHeadersConfig{})(simpleOKHandler)
	w := executeRequest(handler, http.MethodGet, "/")

	for _, header := range []string{"Content-Security-Policy", "Strict-Transport-Security", "X-Frame-Options", "Referrer-Policy"} {
		if got := w.Header().Get(header); got != "" {
			t.Errorf("%s = %q, want empty", header, got)
		}
	}
}
