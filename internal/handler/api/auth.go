// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/petshop-go/internal/auth"
	"github.com/olegiv/petshop-go/internal/middleware"
	"github.com/olegiv/petshop-go/internal/service"
	"github.com/olegiv/petshop-go/internal/store"
)

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func userResponse(u store.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/v1/auth/register
// Accounts created here are never administrators.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err, "User")
		return
	}
	WriteCreated(w, userResponse(user))
}

// loginCredentials reads username and password from a JSON body, or else
// from form or query values.
func loginCredentials(w http.ResponseWriter, r *http.Request) (username, password string, err error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&body); err != nil {
			return "", "", err
		}
		return body.Username, body.Password, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := r.ParseForm(); err != nil {
		return "", "", err
	}
	return r.Form.Get("username"), r.Form.Get("password"), nil
}

func writeLocked(w http.ResponseWriter, remaining time.Duration) {
	seconds := int(math.Ceil(remaining.Seconds()))
	w.Header().Set("Retry-After", strconv.Itoa(max(seconds, 1)))
	middleware.WriteAPIError(w, http.StatusTooManyRequests, "account_locked",
		"Too many failed login attempts. Try again later.", nil)
}

// Login handles POST /api/v1/auth/login
// Repeated failures lock the username for a growing period.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	username, password, err := loginCredentials(w, r)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeTooLarge(w)
		return
	}
	if err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	username = strings.TrimSpace(username)

	errs := &service.ValidationError{}
	if username == "" {
		errs.Add("username", "is required")
	}
	if password == "" {
		errs.Add("password", "is required")
	}
	if errs.Err() != nil {
		WriteValidationError(w, errs.Fields)
		return
	}

	if h.protection != nil {
		if locked, remaining := h.protection.IsAccountLocked(username); locked {
			writeLocked(w, remaining)
			return
		}
	}

	user, err := h.users.Authenticate(r.Context(), username, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		if h.protection != nil {
			if locked, _ := h.protection.RecordFailedAttempt(username); !locked {
				slog.InfoContext(r.Context(), "failed login",
					"username", username, "ip", middleware.ClientIP(r),
					"remaining_attempts", h.protection.RemainingAttempts(username))
			}
		}
		WriteUnauthorized(w, "Incorrect username or password")
		return
	}
	if err != nil {
		writeServiceError(w, r, err, "User")
		return
	}

	if h.protection != nil {
		h.protection.RecordSuccessfulLogin(username)
	}

	token, expiresAt, err := h.tokens.Issue(user.Username, user.IsAdmin)
	if err != nil {
		writeServiceError(w, r, err, "User")
		return
	}

	slog.InfoContext(r.Context(), "user logged in", "user_id", user.ID, "username", user.Username)
	WriteSuccess(w, TokenResponse{
		AccessToken: token,
		TokenType:   auth.TokenType,
		ExpiresAt:   expiresAt.UTC(),
	}, nil)
}

// Me handles GET /api/v1/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}
	WriteSuccess(w, userResponse(*user), nil)
}
