// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/auth/register",
		`{"username": "newbie", "email": "Newbie@Example.com", "password": "longpassword"}`, "")
	requireStatus(t, w, http.StatusCreated)

	user := decodeData[object](t, w)
	assert.Equal(t, "newbie", user["username"])
	assert.Equal(t, false, user["is_admin"])
	assert.NotContains(t, user, "password_hash")
	assert.NotContains(t, user, "password")

	t.Run("taken username", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/auth/register",
			`{"username": "boss", "email": "other@example.com", "password": "longpassword"}`, "")
		requireStatus(t, w, http.StatusConflict)

		apiErr := decodeError(t, w)
		assert.Equal(t, "conflict", apiErr.Error.Code)
		assert.Equal(t, "Username already registered", apiErr.Error.Message)
		assert.Equal(t, "already registered", apiErr.Error.Details["username"])
	})

	t.Run("taken email", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/auth/register",
			`{"username": "another", "email": "shopper@example.com", "password": "longpassword"}`, "")
		requireStatus(t, w, http.StatusConflict)
		assert.Contains(t, decodeError(t, w).Error.Details, "email")
	})

	t.Run("invalid", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/auth/register",
			`{"username": "x", "email": "not-an-email", "password": "short"}`, "")
		requireStatus(t, w, http.StatusUnprocessableEntity)

		details := decodeError(t, w).Error.Details
		assert.Contains(t, details, "username")
		assert.Contains(t, details, "email")
		assert.Contains(t, details, "password")
	})

	t.Run("admin flag ignored", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/auth/register",
			`{"username": "sneaky", "email": "sneaky@example.com", "password": "longpassword", "is_admin": true}`, "")
		requireStatus(t, w, http.StatusCreated)
		assert.Equal(t, false, decodeData[object](t, w)["is_admin"])
	})
}

func TestLogin(t *testing.T) {
	e := newTestEnv(t)

	form := url.Values{"username": {"boss"}, "password": {"password123"}}.Encode()

	tests := []struct {
		name        string
		path        string
		body        string
		contentType string
		want        int
	}{
		{"json", "/auth/login", `{"username": "boss", "password": "password123"}`, "application/json", http.StatusOK},
		{"form", "/auth/login", form, "application/x-www-form-urlencoded", http.StatusOK},
		{"query", "/auth/login?" + form, "", "", http.StatusOK},
		{"wrong password", "/auth/login", `{"username": "boss", "password": "nope-nope"}`, "application/json", http.StatusUnauthorized},
		{"missing fields", "/auth/login", `{"username": " "}`, "application/json", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			e.router.ServeHTTP(w, req)
			requireStatus(t, w, tt.want)

			if tt.want != http.StatusOK {
				return
			}
			tok := decodeData[TokenResponse](t, w)
			assert.Equal(t, "bearer", tok.TokenType)
			assert.NotEmpty(t, tok.AccessToken)
			assert.False(t, tok.ExpiresAt.IsZero())

			me := e.do(t, http.MethodGet, "/auth/me", "", tok.AccessToken)
			requireStatus(t, me, http.StatusOK)
			assert.Equal(t, "boss", decodeData[UserResponse](t, me).Username)
		})
	}
}

func TestLogin_WrongPasswordMessage(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/auth/login", `{"username": "ghost", "password": "password123"}`, "")
	requireStatus(t, w, http.StatusUnauthorized)
	assert.Equal(t, "Incorrect username or password", decodeError(t, w).Error.Message)
}

func TestLogin_Lockout(t *testing.T) {
	e := newTestEnv(t)

	// Straight to the handler so the per-IP limiter stays out of the way.
	login := func(password string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"username": "shopper", "password": "`+password+`"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		e.handler.Login(w, req)
		return w
	}

	for i := 0; i < 5; i++ {
		requireStatus(t, login("wrong-password"), http.StatusUnauthorized)
	}

	w := login("password123")
	requireStatus(t, w, http.StatusTooManyRequests)
	assert.Equal(t, "account_locked", decodeError(t, w).Error.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// Other accounts are unaffected.
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username": "boss", "password": "password123"}`))
	req.Header.Set("Content-Type", "application/json")
	ok := httptest.NewRecorder()
	e.handler.Login(ok, req)
	requireStatus(t, ok, http.StatusOK)
}

func TestLogin_IPRateLimit(t *testing.T) {
	e := newTestEnv(t)

	var last *httptest.ResponseRecorder
	for i := 0; i < 6; i++ {
		last = e.do(t, http.MethodPost, "/auth/login", `{"username": "ghost", "password": "whatever1"}`, "")
	}
	requireStatus(t, last, http.StatusTooManyRequests)
	assert.Equal(t, "rate_limit_exceeded", decodeError(t, last).Error.Code)
}

func TestMe(t *testing.T) {
	e := newTestEnv(t)

	requireStatus(t, e.get(t, "/auth/me"), http.StatusUnauthorized)

	w := e.do(t, http.MethodGet, "/auth/me", "", e.userToken)
	requireStatus(t, w, http.StatusOK)
	user := decodeData[UserResponse](t, w)
	assert.Equal(t, "shopper", user.Username)
	assert.Equal(t, "shopper@example.com", user.Email)
	assert.False(t, user.IsAdmin)

	w = e.do(t, http.MethodGet, "/auth/me", "", e.adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeData[UserResponse](t, w).IsAdmin)
}

func TestLogin_BodyTooLarge(t *testing.T) {
	e := newTestEnv(t)

	tests := []struct {
		name        string
		body        string
		contentType string
	}{
		{"json", `{"username": "boss", "password": "` + strings.Repeat("x", maxJSONBody) + `"}`, "application/json"},
		{"form", "username=boss&password=" + strings.Repeat("x", maxJSONBody), "application/x-www-form-urlencoded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()
			e.handler.Login(w, req)

			requireStatus(t, w, http.StatusRequestEntityTooLarge)
			assert.Equal(t, "payload_too_large", decodeError(t, w).Error.Code)
		})
	}
}
