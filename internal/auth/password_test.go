// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	other, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == other {
		t.Fatal("two hashes of the same password must use different salts")
	}
}

func TestCheckPassword(t *testing.T) {
	argonHash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	bcryptHash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{name: "argon2 correct", password: "changeme", hash: argonHash, want: true},
		{name: "argon2 wrong", password: "wrong", hash: argonHash, want: false},
		{name: "bcrypt correct", password: "admin", hash: string(bcryptHash), want: true},
		{name: "bcrypt wrong", password: "wrong", hash: string(bcryptHash), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckPassword(tt.password, tt.hash)
			if err != nil {
				t.Fatalf("CheckPassword error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CheckPassword = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	if _, err := CheckPassword("x", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}

	_, err := CheckPassword("x", "$scrypt$v=1$a$b$c")
	if !errors.Is(err, ErrUnsupportedHash) {
		t.Fatalf("expected ErrUnsupportedHash, got %v", err)
	}
}

func TestNeedsRehash(t *testing.T) {
	current, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	legacy, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}

	tests := []struct {
		name string
		hash string
		want bool
	}{
		{name: "current parameters", hash: current, want: false},
		{name: "bcrypt", hash: string(legacy), want: true},
		{name: "older argon2 parameters", hash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA", want: true},
		{name: "garbage", hash: "garbage", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsRehash(tt.hash); got != tt.want {
				t.Errorf("NeedsRehash = %v, want %v", got, tt.want)
			}
		})
	}
}
