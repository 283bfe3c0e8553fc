// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package storage stores uploaded images on the local disk or in an
// S3-compatible bucket and returns their public URLs.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/petshop-go/internal/util"
)

// Object is a stored file.
type Object struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// Uploader stores data under key and returns where it can be fetched.
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (Object, error)
}

// ObjectKey builds "images/YYYY/MM/<uuid>-<slug><ext>" for an uploaded file
// name. The original extension is replaced by ext.
func ObjectKey(now time.Time, filename, ext string) string {
	if safe, err := util.SanitizeFilename(filename); err == nil {
		filename = safe
	}
	slug := util.Slugify(strings.TrimSuffix(filename, path.Ext(filename)))
	const maxSlug = 60
	if len(slug) > maxSlug {
		slug = strings.TrimRight(slug[:maxSlug], "-")
	}
	if !util.IsValidSlug(slug) {
		slug = "image"
	}
	return fmt.Sprintf("images/%04d/%02d/%s-%s%s", now.Year(), int(now.Month()), uuid.NewString(), slug, ext)
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
