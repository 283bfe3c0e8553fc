// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/petshop-go/internal/middleware"
	"github.com/olegiv/petshop-go/internal/service"
	"github.com/olegiv/petshop-go/internal/storage"
	"github.com/olegiv/petshop-go/internal/testutil"
)

type testEnv struct {
	db         *sql.DB
	handler    *Handler
	router     http.Handler
	uploadDir  string
	adminToken string
	userToken  string
}

// newTestEnv wires the API against a migrated temp database with one admin
// ("boss") and one regular user ("shopper"), both with password "password123".
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.TestDB(t)
	uploadDir := t.TempDir()
	uploader, err := storage.NewLocalUploader(uploadDir, "http://localhost/uploads")
	require.NoError(t, err)

	protection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	t.Cleanup(protection.Stop)

	h := NewHandler(Options{
		Catalog:    service.NewCatalogService(db),
		Users:      service.NewUserService(db),
		Tokens:     testutil.Tokens(),
		Protection: protection,
		Uploader:   uploader,
	})

	admin := testutil.CreateUser(t, db, "boss", "password123", true)
	user := testutil.CreateUser(t, db, "shopper", "password123", false)

	return &testEnv{
		db:         db,
		handler:    h,
		router:     h.Routes(nil),
		uploadDir:  uploadDir,
		adminToken: testutil.BearerToken(t, admin),
		userToken:  testutil.BearerToken(t, user),
	}
}

// do sends a request through the router. A non-empty body is sent as JSON.
func (e *testEnv) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) admin(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, method, path, body, e.adminToken)
}

func (e *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, http.MethodGet, path, "", "")
}

type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta *Meta           `json:"meta"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return env
}

// decodeData unmarshals the data member of a success response.
func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &v), "body: %s", w.Body.String())
	return v
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) middleware.APIError {
	t.Helper()
	var apiErr middleware.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr), "body: %s", w.Body.String())
	return apiErr
}

// requireStatus fails the test with the response body when the status differs.
func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "body: %s", w.Body.String())
}

// object is a decoded JSON object.
type object = map[string]any

func idOf(t *testing.T, v object) int64 {
	t.Helper()
	id, ok := v["id"].(float64)
	require.True(t, ok, "id missing in %v", v)
	return int64(id)
}

// createID posts body to an admin collection and returns the new id.
func (e *testEnv) createID(t *testing.T, path, body string) int64 {
	t.Helper()
	w := e.admin(t, http.MethodPost, path, body)
	requireStatus(t, w, http.StatusCreated)
	return idOf(t, decodeData[object](t, w))
}
