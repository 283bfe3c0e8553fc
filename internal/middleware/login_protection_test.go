// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLoginProtection(t *testing.T, cfg LoginProtectionConfig) (*LoginProtection, *fakeClock) {
	t.Helper()
	lp := NewLoginProtection(cfg)
	t.Cleanup(lp.Stop)
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	lp.now = clock.now
	return lp, clock
}

func TestNewLoginProtection_Defaults(t *testing.T) {
	lp, _ := newTestLoginProtection(t, LoginProtectionConfig{})

	def := DefaultLoginProtectionConfig()
	assert.Equal(t, def.MaxFailedAttempts, lp.maxFailedAttempts)
	assert.Equal(t, def.LockoutDuration, lp.lockoutDuration)
	assert.Equal(t, def.AttemptWindow, lp.attemptWindow)
}

func TestLoginProtection_LocksAfterMaxFailures(t *testing.T) {
	lp, clock := newTestLoginProtection(t, LoginProtectionConfig{
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Hour,
	})

	for i := 0; i < 2; i++ {
		locked, _ := lp.RecordFailedAttempt("Alice")
		require.False(t, locked)
	}
	assert.Equal(t, 1, lp.RemainingAttempts("alice"))

	locked, d := lp.RecordFailedAttempt(" alice ")
	require.True(t, locked, "usernames are matched case-insensitively")
	assert.Equal(t, time.Minute, d)

	isLocked, remaining := lp.IsAccountLocked("ALICE")
	assert.True(t, isLocked)
	assert.Equal(t, time.Minute, remaining)

	clock.advance(61 * time.Second)
	isLocked, _ = lp.IsAccountLocked("alice")
	assert.False(t, isLocked)
}

func TestLoginProtection_ExponentialBackoff(t *testing.T) {
	lp, clock := newTestLoginProtection(t, LoginProtectionConfig{
		MaxFailedAttempts: 2,
		LockoutDuration:   10 * time.Hour,
		AttemptWindow:     100 * time.Hour,
	})

	want := []time.Duration{10 * time.Hour, 20 * time.Hour, 24 * time.Hour, 24 * time.Hour}
	for i, w := range want {
		lp.RecordFailedAttempt("bob")
		locked, d := lp.RecordFailedAttempt("bob")
		require.True(t, locked, "lockout %d", i+1)
		assert.Equal(t, w, d, "lockout %d", i+1)
		clock.advance(time.Minute)
	}
}

func TestLoginProtection_WindowResets(t *testing.T) {
	lp, clock := newTestLoginProtection(t, LoginProtectionConfig{
		MaxFailedAttempts: 2,
		AttemptWindow:     time.Minute,
	})

	lp.RecordFailedAttempt("carol")
	clock.advance(2 * time.Minute)
	assert.Equal(t, 2, lp.RemainingAttempts("carol"))

	locked, _ := lp.RecordFailedAttempt("carol")
	assert.False(t, locked, "the earlier failure fell out of the window")
}

func TestLoginProtection_SuccessClears(t *testing.T) {
	lp, _ := newTestLoginProtection(t, LoginProtectionConfig{MaxFailedAttempts: 3})

	lp.RecordFailedAttempt("dave")
	lp.RecordFailedAttempt("dave")
	lp.RecordSuccessfulLogin("Dave")

	assert.Equal(t, 3, lp.RemainingAttempts("dave"))
}

func TestLoginProtection_CleanupStaleEntries(t *testing.T) {
	lp, clock := newTestLoginProtection(t, LoginProtectionConfig{
		MaxFailedAttempts: 5,
		AttemptWindow:     time.Minute,
	})

	lp.RecordFailedAttempt("erin")
	clock.advance(2 * time.Minute)
	lp.cleanupStaleEntries()

	lp.attemptsMu.Lock()
	defer lp.attemptsMu.Unlock()
	assert.Empty(t, lp.failedAttempts)
}

func TestLoginProtection_Middleware(t *testing.T) {
	lp, _ := newTestLoginProtection(t, LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 1})
	handler := lp.Middleware()(simpleOKHandler)

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = "198.51.100.9:4000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, post())
	assert.Equal(t, http.StatusTooManyRequests, post())

	w := executeRequest(handler, http.MethodGet, "/api/v1/auth/login")
	assert.Equal(t, http.StatusOK, w.Code, "only POST is limited")
}

func TestLoginProtection_StopIsIdempotent(t *testing.T) {
	lp := NewLoginProtection(DefaultLoginProtectionConfig())
	lp.Stop()
	lp.Stop()
}
