// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/olegiv/petshop-go/internal/auth"
	"github.com/olegiv/petshop-go/internal/store"
)

// ErrInvalidCredentials is returned by Authenticate for an unknown user or a
// wrong password; callers cannot tell which.
var ErrInvalidCredentials = errors.New("incorrect username or password")

// Account field limits.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 8
)

// RegisterInput holds the fields of a self-service registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// UserService manages accounts and credentials.
type UserService struct {
	db      *sql.DB
	queries *store.Queries
	now     func() time.Time
}

// NewUserService creates a UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{
		db:      db,
		queries: store.New(db),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (in *RegisterInput) normalize() error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	verr := &ValidationError{}
	switch n := utf8.RuneCountInString(in.Username); {
	case n == 0:
		verr.Add("username", "is required")
	case n < MinUsernameLength || n > MaxUsernameLength:
		verr.Add("username", fmt.Sprintf("must be %d to %d characters", MinUsernameLength, MaxUsernameLength))
	}
	if in.Email == "" {
		verr.Add("email", "is required")
	} else if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		verr.Add("email", "invalid email format")
	}
	if in.Password == "" {
		verr.Add("password", "is required")
	} else if len(in.Password) < MinPasswordLength {
		verr.Add("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	return verr.Err()
}

// Register creates a non-admin account. Admin rights are only granted by the
// seed or directly in the database.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (store.User, error) {
	if err := in.normalize(); err != nil {
		return store.User{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return store.User{}, fmt.Errorf("hashing password: %w", err)
	}

	var user store.User
	err = runInTx(ctx, s.db, s.queries, func(q *store.Queries) error {
		if _, err := q.GetUserByUsername(ctx, in.Username); err == nil {
			return &ConflictError{Field: "username"}
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking username: %w", err)
		}
		if _, err := q.GetUserByEmail(ctx, in.Email); err == nil {
			return &ConflictError{Field: "email"}
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking email: %w", err)
		}

		user, err = q.CreateUser(ctx, store.CreateUserParams{
			Username:     in.Username,
			Email:        in.Email,
			PasswordHash: hash,
			CreatedAt:    s.now(),
		})
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		return nil
	})
	if err != nil {
		return store.User{}, err
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Authenticate checks a username and password. Legacy bcrypt hashes are
// upgraded to argon2id after a successful check.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (store.User, error) {
	user, err := s.queries.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return store.User{}, fmt.Errorf("getting user: %w", err)
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.WarnContext(ctx, "unusable password hash", "user_id", user.ID, "error", err)
		return store.User{}, ErrInvalidCredentials
	}
	if !ok {
		return store.User{}, ErrInvalidCredentials
	}

	if auth.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user, password)
	}
	return user, nil
}

func (s *UserService) rehash(ctx context.Context, user store.User, password string) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		slog.WarnContext(ctx, "rehashing password failed", "user_id", user.ID, "error", err)
		return
	}
	if err := s.queries.UpdateUserPasswordHash(ctx, user.ID, hash); err != nil {
		slog.WarnContext(ctx, "storing rehashed password failed", "user_id", user.ID, "error", err)
		return
	}
	slog.InfoContext(ctx, "upgraded legacy password hash", "user_id", user.ID)
}

// UserByUsername returns the account with that username.
func (s *UserService) UserByUsername(ctx context.Context, username string) (store.User, error) {
	user, err := s.queries.GetUserByUsername(ctx, username)
	if err != nil {
		return store.User{}, classify(fmt.Errorf("getting user %q: %w", username, err))
	}
	return user, nil
}
