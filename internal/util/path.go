// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// SanitizeFilename keeps only the base name of an uploaded file's name, so
// "../../etc/passwd" becomes "passwd". Both slash styles are treated as
// separators because client file names may come from any OS.
func SanitizeFilename(filename string) (string, error) {
	safe := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if safe == "." || safe == ".." || safe == "/" || strings.TrimSpace(safe) == "" {
		return "", fmt.Errorf("invalid filename: %q", filename)
	}
	return safe, nil
}

// SafeJoinPath joins components under basePath and returns an error when the
// result would escape it.
func SafeJoinPath(basePath string, components ...string) (string, error) {
	absBase, err := filepath.Abs(filepath.Clean(basePath))
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	full := filepath.Join(append([]string{absBase}, components...)...)
	if full != absBase && !strings.HasPrefix(full, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected: %q escapes %q", full, absBase)
	}
	return full, nil
}
