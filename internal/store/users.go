// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const userColumns = "id, username, email, password_hash, is_admin, created_at"

func scanUser(sc scanner) (User, error) {
	var u User
	err := sc.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	return u, err
}

// CreateUserParams holds the values for a new user.
type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// CreateUser inserts a user and returns it.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	id, err := q.insert(ctx,
		"INSERT INTO users (username, email, password_hash, is_admin, created_at) VALUES (?, ?, ?, ?, ?)",
		arg.Username, arg.Email, arg.PasswordHash, arg.IsAdmin, arg.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return q.GetUserByID(ctx, id)
}

// GetUserByID returns sql.ErrNoRows when the user does not exist.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
}

// GetUserByUsername returns sql.ErrNoRows when the user does not exist.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username))
}

// GetUserByEmail returns sql.ErrNoRows when the user does not exist.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email))
}

// UserExists reports whether username or email is already taken.
func (q *Queries) UserExists(ctx context.Context, username, email string) (bool, error) {
	n, err := q.count(ctx, "SELECT COUNT(*) FROM users WHERE username = ? OR email = ?", username, email)
	return n > 0, err
}

// UpdateUserPasswordHash replaces a user's stored hash.
func (q *Queries) UpdateUserPasswordHash(ctx context.Context, id int64, hash string) error {
	_, err := q.db.ExecContext(ctx, "UPDATE users SET password_hash = ? WHERE id = ?", hash, id)
	return err
}
