// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"os"
	"strconv"
	"strings"
)

// StaticCache sets a public Cache-Control header with the given max-age in seconds.
func StaticCache(maxAge int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(maxAge))
			next.ServeHTTP(w, r)
		})
	}
}

// noListingFS hides directories so the file server never renders an index.
type noListingFS struct {
	fs http.FileSystem
}

func (n noListingFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}

// UploadsHandler serves files below dir at prefix. Directory requests
// answer 404, and responses are cacheable for maxAge seconds.
func UploadsHandler(prefix, dir string, maxAge int) http.Handler {
	prefix = "/" + strings.Trim(prefix, "/") + "/"
	files := http.StripPrefix(prefix, http.FileServer(noListingFS{fs: http.Dir(dir)}))
	return StaticCache(maxAge)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		files.ServeHTTP(w, r)
	}))
}
