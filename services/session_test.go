package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionStore(clock Clock) *sessionStore {
	return newSessionStore(clock, []byte("test-secret"))
}

func TestSessionStore_CreateAndValidate(t *testing.T) {
	clock := newMockClock()
	store := newTestSessionStore(clock)

	token, err := store.create("10.0.0.1", "admin-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	adminID, ok := store.validate(token, "10.0.0.1")
	assert.True(t, ok)
	assert.Equal(t, "admin-1", adminID)
}

func TestSessionStore_UnknownToken(t *testing.T) {
	store := newTestSessionStore(newMockClock())

	_, ok := store.validate("deadbeef", "10.0.0.1")
	assert.False(t, ok)
}

func TestSessionStore_IPMismatchDeletesSession(t *testing.T) {
	clock := newMockClock()
	store := newTestSessionStore(clock)

	token, err := store.create("10.0.0.1", "admin-1")
	require.NoError(t, err)

	_, ok := store.validate(token, "10.0.0.2")
	assert.False(t, ok, "session is bound to the creating IP")

	// the session was removed, so even the right IP fails now
	_, ok = store.validate(token, "10.0.0.1")
	assert.False(t, ok)
}

func TestSessionStore_Expiry(t *testing.T) {
	clock := newMockClock()
	store := newTestSessionStore(clock)

	token, err := store.create("10.0.0.1", "admin-1")
	require.NoError(t, err)

	clock.Advance(8*time.Hour + time.Second)

	_, ok := store.validate(token, "10.0.0.1")
	assert.False(t, ok)
}

func TestSessionStore_TamperedSignatureRejected(t *testing.T) {
	clock := newMockClock()
	store := newTestSessionStore(clock)

	token, err := store.create("10.0.0.1", "admin-1")
	require.NoError(t, err)

	store.mu.Lock()
	store.sessions[token].Signature = "deadbeef"
	store.mu.Unlock()

	_, ok := store.validate(token, "10.0.0.1")
	assert.False(t, ok)
}

func TestSessionStore_RewrittenIPStillRejected(t *testing.T) {
	clock := newMockClock()
	store := newTestSessionStore(clock)

	token, err := store.create("10.0.0.1", "admin-1")
	require.NoError(t, err)

	// Overwriting the stored IP must not re-bind the session; the signature
	// still carries the creating address.
	store.mu.Lock()
	store.sessions[token].IP = "10.0.0.9"
	store.mu.Unlock()

	_, ok := store.validate(token, "10.0.0.9")
	assert.False(t, ok)
}

func TestSessionStore_Invalidate(t *testing.T) {
	clock := newMockClock()
	store := newTestSessionStore(clock)

	token, err := store.create("10.0.0.1", "admin-1")
	require.NoError(t, err)

	store.invalidate(token)

	_, ok := store.validate(token, "10.0.0.1")
	assert.False(t, ok)
}

func TestSessionStore_GCRemovesExpiredSessions(t *testing.T) {
	clock := newMockClock()
	store := newTestSessionStore(clock)

	stale, err := store.create("10.0.0.1", "admin-1")
	require.NoError(t, err)

	clock.Advance(9 * time.Hour)

	// every Nth creation sweeps expired sessions
	for i := 0; i < sessionGCInterval; i++ {
		_, err := store.create("10.0.0.2", "admin-1")
		require.NoError(t, err)
	}

	store.mu.Lock()
	_, exists := store.sessions[stale]
	store.mu.Unlock()
	assert.False(t, exists, "expired session should have been swept")
}

func TestSessionStore_LockoutAfterTwoFailures(t *testing.T) {
	clock := newMockClock()
	store := newTestSessionStore(clock)

	assert.False(t, store.recordFailure("10.0.0.1"), "first failure does not lock")
	assert.False(t, store.isLockedOut("10.0.0.1"))

	assert.True(t, store.recordFailure("10.0.0.1"), "second failure trips the lockout")
	assert.True(t, store.isLockedOut("10.0.0.1"))

	// lockout holds for its full duration
	clock.Advance(14 * time.Minute)
	assert.True(t, store.isLockedOut("10.0.0.1"))

	clock.Advance(time.Minute + time.Second)
	assert.False(t, store.isLockedOut("10.0.0.1"), "lockout lapses after 15 minutes")

	// counter was reset: one new failure does not lock again
	assert.False(t, store.recordFailure("10.0.0.1"))
	assert.False(t, store.isLockedOut("10.0.0.1"))
}

func TestSessionStore_FailuresDuringLockoutDoNotExtendIt(t *testing.T) {
	clock := newMockClock()
	store := newTestSessionStore(clock)

	store.recordFailure("10.0.0.1")
	store.recordFailure("10.0.0.1")
	require.True(t, store.isLockedOut("10.0.0.1"))

	clock.Advance(10 * time.Minute)
	store.recordFailure("10.0.0.1")

	clock.Advance(5*time.Minute + time.Second)
	assert.False(t, store.isLockedOut("10.0.0.1"),
		"the lockout ends 15 minutes after it was tripped")
}

func TestSessionStore_ClearFailures(t *testing.T) {
	clock := newMockClock()
	store := newTestSessionStore(clock)

	store.recordFailure("10.0.0.1")
	store.clearFailures("10.0.0.1")

	assert.False(t, store.recordFailure("10.0.0.1"),
		"cleared counter starts from zero again")
}
