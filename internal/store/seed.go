// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/petshop-go/internal/auth"
)

// Default admin credentials
const (
	DefaultAdminUsername = "admin"
	DefaultAdminEmail    = "admin@palyan.am"
	DefaultAdminPassword = "admin"
)

// AdminSeed describes the admin account created on first start.
type AdminSeed struct {
	Username string
	Email    string
	Password string
}

// DefaultAdminSeed returns the built-in admin credentials.
func DefaultAdminSeed() AdminSeed {
	return AdminSeed{
		Username: DefaultAdminUsername,
		Email:    DefaultAdminEmail,
		Password: DefaultAdminPassword,
	}
}

// Seed creates the admin user unless its username or email is taken.
// Empty fields of admin fall back to DefaultAdminSeed.
func Seed(ctx context.Context, db *sql.DB, admin AdminSeed) error {
	def := DefaultAdminSeed()
	if admin.Username == "" {
		admin.Username = def.Username
	}
	if admin.Email == "" {
		admin.Email = def.Email
	}
	if admin.Password == "" {
		admin.Password = def.Password
	}

	queries := New(db)

	exists, err := queries.UserExists(ctx, admin.Username, admin.Email)
	if err != nil {
		return fmt.Errorf("checking for admin user: %w", err)
	}
	if exists {
		slog.Info("admin user already exists, skipping seed", "username", admin.Username)
		return nil
	}

	passwordHash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		Username:     admin.Username,
		Email:        admin.Email,
		PasswordHash: passwordHash,
		IsAdmin:      true,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", user.ID,
		"username", user.Username,
		"email", user.Email,
	)

	return nil
}
