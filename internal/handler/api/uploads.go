// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/petshop-go/internal/imaging"
	"github.com/olegiv/petshop-go/internal/middleware"
	"github.com/olegiv/petshop-go/internal/storage"
)

// UploadResponse describes a stored image.
type UploadResponse struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	MimeType string `json:"mime_type"`
	Size     int    `json:"size"`
}

// UploadImage handles POST /api/v1/admin/uploads
// Expects multipart/form-data with the image in the "file" field. The image
// is normalised before it is stored; the returned URL goes into image_url.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		middleware.WriteAPIError(w, http.StatusServiceUnavailable, "uploads_disabled",
			"Image uploads are not configured", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.WriteAPIError(w, http.StatusRequestEntityTooLarge, "payload_too_large",
				"File is too large", nil)
			return
		}
		WriteBadRequest(w, "Expected a multipart form", nil)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteValidationError(w, map[string]string{"file": "is required"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		WriteBadRequest(w, "Could not read file", nil)
		return
	}

	img, err := imaging.Process(data, h.images)
	if errors.Is(err, imaging.ErrUnsupportedFormat) {
		WriteValidationError(w, map[string]string{"file": "must be a JPEG, PNG, GIF or WebP image"})
		return
	}
	if err != nil {
		WriteValidationError(w, map[string]string{"file": "could not be decoded as an image"})
		return
	}

	key := storage.ObjectKey(time.Now().UTC(), header.Filename, img.Ext)
	obj, err := h.uploader.Upload(r.Context(), key, img.Data, img.MimeType)
	if err != nil {
		slog.ErrorContext(r.Context(), "storing upload failed", "key", key, "error", err)
		WriteInternalError(w, "Failed to store file")
		return
	}

	slog.InfoContext(r.Context(), "image uploaded", "key", obj.Key, "size", len(img.Data))
	WriteCreated(w, UploadResponse{
		URL:      obj.URL,
		Key:      obj.Key,
		Width:    img.Width,
		Height:   img.Height,
		MimeType: img.MimeType,
		Size:     len(img.Data),
	})
}
