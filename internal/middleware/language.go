// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"

	"github.com/olegiv/petshop-go/internal/i18n"
)

// ContextKeyLanguage is the context key of the requested response language.
const ContextKeyLanguage ContextKey = "language"

// LanguageParam is the query parameter selecting the response language.
const LanguageParam = "lang"

// Language reads ?lang= and stores the parsed code in the request context.
// A missing or unsupported value leaves the language unset, which makes
// responses carry every language.
func Language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get(LanguageParam)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		code, ok := i18n.ParseCode(raw)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Language", code.String())
		next.ServeHTTP(w, r.WithContext(WithLanguage(r.Context(), code)))
	})
}

// WithLanguage returns a copy of ctx carrying code.
func WithLanguage(ctx context.Context, code i18n.Code) context.Context {
	return context.WithValue(ctx, ContextKeyLanguage, code)
}

// GetLanguage returns the requested language, or nil when none was selected.
func GetLanguage(r *http.Request) *i18n.Code {
	code, ok := r.Context().Value(ContextKeyLanguage).(i18n.Code)
	if !ok {
		return nil
	}
	return &code
}
