// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// RecoverJSON turns a handler panic into a JSON 500. The panic value and
// stack are logged, never sent to the client. http.ErrAbortHandler is
// re-raised so the server can abort the connection.
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}
			slog.ErrorContext(r.Context(), "panic recovered",
				"method", r.Method,
				"path", r.URL.Path,
				"panic", rvr,
				"stack", string(debug.Stack()),
			)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		}()
		next.ServeHTTP(w, r)
	})
}
