// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the petshop project.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/olegiv/petshop-go/internal/auth"
	"github.com/olegiv/petshop-go/internal/store"
)

// TestSecret is a JWT signing secret long enough to pass config validation.
const TestSecret = "test-secret-0123456789abcdef0123456789"

// TestDB creates a migrated SQLite database in a temp dir. It is closed when
// the test finishes.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewDB(store.DriverSQLite, filepath.Join(t.TempDir(), "petshop-test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(context.Background(), db, store.DriverSQLite); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user with the given password.
func CreateUser(t *testing.T, db *sql.DB, username, password string, admin bool) store.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		IsAdmin:      admin,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

// Tokens returns a token issuer suitable for tests.
func Tokens() *auth.Tokens {
	return auth.NewTokens(TestSecret, time.Hour, "petshop-test")
}

// BearerToken issues a token for user.
func BearerToken(t *testing.T, user store.User) string {
	t.Helper()

	tok, _, err := Tokens().Issue(user.Username, user.IsAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return tok
}
