// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST API handlers of the pet shop.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/petshop-go/internal/auth"
	"github.com/olegiv/petshop-go/internal/i18n"
	"github.com/olegiv/petshop-go/internal/imaging"
	"github.com/olegiv/petshop-go/internal/middleware"
	"github.com/olegiv/petshop-go/internal/service"
	"github.com/olegiv/petshop-go/internal/storage"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	catalog    *service.CatalogService
	users      *service.UserService
	tokens     *auth.Tokens
	protection *middleware.LoginProtection
	uploader   storage.Uploader
	images     imaging.Options
	maxUpload  int64
	sanitizer  *sanitizer
}

// Options configures a Handler. Uploader may be nil, in which case the
// upload endpoint answers 503.
type Options struct {
	Catalog        *service.CatalogService
	Users          *service.UserService
	Tokens         *auth.Tokens
	Protection     *middleware.LoginProtection
	Uploader       storage.Uploader
	Images         imaging.Options
	MaxUploadBytes int64
}

// DefaultMaxUploadBytes caps upload request bodies.
const DefaultMaxUploadBytes = 10 << 20

// NewHandler creates a new API handler.
func NewHandler(opts Options) *Handler {
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	images := opts.Images
	if images == (imaging.Options{}) {
		images = imaging.DefaultOptions()
	}
	return &Handler{
		catalog:    opts.Catalog,
		users:      opts.Users,
		tokens:     opts.Tokens,
		protection: opts.Protection,
		uploader:   opts.Uploader,
		images:     images,
		maxUpload:  maxUpload,
		sanitizer:  newSanitizer(),
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination metadata.
type Meta struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Pages   int   `json:"pages"`
}

func newMeta(total int64, p pagination) *Meta {
	pages := int(total) / p.PerPage
	if int(total)%p.PerPage != 0 {
		pages++
	}
	return &Meta{Total: total, Page: p.Page, PerPage: p.PerPage, Pages: pages}
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	middleware.WriteAPIError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	middleware.WriteAPIError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	middleware.WriteAPIError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteConflict writes a 409 Conflict response.
func WriteConflict(w http.ResponseWriter, message string) {
	middleware.WriteAPIError(w, http.StatusConflict, "conflict", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	middleware.WriteAPIError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	middleware.WriteAPIError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed", fieldErrors)
}

// writeServiceError maps a service error to a response. entity names the
// resource in not-found messages, e.g. "Product". Unclassified errors are
// logged and answered with a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, entity string) {
	var (
		verr  *service.ValidationError
		taken *service.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		WriteValidationError(w, verr.Fields)
	case errors.Is(err, service.ErrNotFound):
		WriteNotFound(w, entity+" not found")
	case errors.As(err, &taken):
		middleware.WriteAPIError(w, http.StatusConflict, "conflict",
			capitalizeFirst(taken.Error()), map[string]string{taken.Field: "already registered"})
	case errors.Is(err, service.ErrConflict):
		WriteConflict(w, entity+" already exists")
	case errors.Is(err, service.ErrInvalidReference):
		middleware.WriteAPIError(w, http.StatusUnprocessableEntity, "invalid_reference",
			"A referenced record does not exist", nil)
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		WriteInternalError(w, "Internal server error")
	}
}

// capitalizeFirst returns s with the first letter capitalized.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status             string      `json:"status"`
	Version            string      `json:"version"`
	SupportedLanguages []i18n.Code `json:"supported_languages"`
}

// Status returns the API status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, StatusResponse{
		Status:             "ok",
		Version:            "v1",
		SupportedLanguages: i18n.All(),
	}, nil)
}

// Languages lists the supported content languages.
func (h *Handler) Languages(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, i18n.Languages(), nil)
}
