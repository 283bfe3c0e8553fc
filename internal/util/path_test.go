// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"path/filepath"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "simple filename", input: "cat.jpg", want: "cat.jpg"},
		{name: "filename with spaces", input: "my cat.jpg", want: "my cat.jpg"},
		{name: "path traversal attempt", input: "../../../etc/passwd", want: "passwd"},
		{name: "windows path", input: `C:\Users\me\dog.png`, want: "dog.png"},
		{name: "absolute path", input: "/var/www/uploads/file.webp", want: "file.webp"},
		{name: "single dot", input: ".", wantErr: true},
		{name: "double dot", input: "..", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
		{name: "trailing slash only", input: "/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SanitizeFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSafeJoinPath(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		name       string
		components []string
		wantErr    bool
	}{
		{name: "nested key", components: []string{"images/2026/10/a.jpg"}},
		{name: "multiple components", components: []string{"images", "2026", "a.jpg"}},
		{name: "base itself", components: nil},
		{name: "escapes base", components: []string{"../outside.txt"}, wantErr: true},
		{name: "escapes after descending", components: []string{"images", "../../x"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SafeJoinPath(base, tt.components...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SafeJoinPath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				rel, relErr := filepath.Rel(base, got)
				if relErr != nil || filepath.IsAbs(rel) {
					t.Errorf("SafeJoinPath() = %q is not under %q", got, base)
				}
			}
		})
	}
}
