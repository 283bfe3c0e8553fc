// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/petshop-go/internal/auth"
	"github.com/olegiv/petshop-go/internal/service"
	"github.com/olegiv/petshop-go/internal/store"
)

// ContextKeyUser is the context key of the authenticated user.
const ContextKeyUser ContextKey = "user"

// UserLookup resolves a token subject to an account.
type UserLookup interface {
	UserByUsername(ctx context.Context, username string) (store.User, error)
}

// TokenValidator checks bearer tokens.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// bearerToken extracts the token of an "Authorization: Bearer <token>"
// header. The scheme is case-insensitive.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="petshop"`)
	WriteAPIError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// BearerAuth requires a valid bearer token whose subject is an existing user
// and stores that user in the request context. The user is loaded on every
// request, so deleted accounts and revoked admin rights take effect at once.
func BearerAuth(users UserLookup, tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "Missing or malformed Authorization header. Use: Bearer <token>")
				return
			}

			claims, err := tokens.Validate(raw)
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				unauthorized(w, "Token has expired")
				return
			case err != nil:
				unauthorized(w, "Could not validate credentials")
				return
			}

			user, err := users.UserByUsername(r.Context(), claims.Subject)
			if err != nil {
				if !errors.Is(err, service.ErrNotFound) {
					slog.ErrorContext(r.Context(), "failed to load token subject", "username", claims.Subject, "error", err)
					WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to validate credentials", nil)
					return
				}
				unauthorized(w, "Could not validate credentials")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin rejects users without admin rights. Use after BearerAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r)
		if user == nil {
			unauthorized(w, "Authentication required")
			return
		}
		if !user.IsAdmin {
			WriteAPIError(w, http.StatusForbidden, "forbidden", "Admin privileges required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *store.User {
	user, ok := r.Context().Value(ContextKeyUser).(store.User)
	if !ok {
		return nil
	}
	return &user
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user store.User) context.Context {
	return context.WithValue(ctx, ContextKeyUser, user)
}
