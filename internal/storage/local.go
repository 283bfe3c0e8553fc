// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/olegiv/petshop-go/internal/util"
)

// LocalUploader writes files below a directory that is served at baseURL.
type LocalUploader struct {
	dir     string
	baseURL string
}

// NewLocalUploader creates the upload directory if needed.
func NewLocalUploader(dir, baseURL string) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &LocalUploader{dir: dir, baseURL: baseURL}, nil
}

// Dir returns the upload root.
func (u *LocalUploader) Dir() string {
	return u.dir
}

// Upload writes data to dir/key. Keys that would escape dir are rejected.
func (u *LocalUploader) Upload(ctx context.Context, key string, data []byte, _ string) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}

	target, err := util.SafeJoinPath(u.dir, filepath.FromSlash(key))
	if err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Object{}, fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return Object{}, fmt.Errorf("writing %s: %w", key, err)
	}

	return Object{URL: joinURL(u.baseURL, key), Key: key}, nil
}
