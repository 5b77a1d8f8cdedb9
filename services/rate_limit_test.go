package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRateLimitService(clock Clock) *RateLimitService {
	svc := &RateLimitService{clock: clock, store: newMemoryRateStore(clock)}
	svc.initDefaultConfigs()
	return svc
}

func TestMemoryRateStore_Hit_CountsWithinWindow(t *testing.T) {
	clock := newMockClock()
	store := newMemoryRateStore(clock)

	for i := 1; i <= 5; i++ {
		count, resetAt, err := store.hit("contact:1.2.3.4", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, count)
		assert.Equal(t, clock.Now().Add(time.Minute), resetAt)
	}
}

func TestMemoryRateStore_Hit_NewWindowAfterExpiry(t *testing.T) {
	clock := newMockClock()
	store := newMemoryRateStore(clock)

	for i := 0; i < 7; i++ {
		_, _, err := store.hit("k", time.Minute)
		require.NoError(t, err)
	}

	clock.Advance(61 * time.Second)

	count, _, err := store.hit("k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "expired window should restart the count")
}

func TestMemoryRateStore_Purge(t *testing.T) {
	clock := newMockClock()
	store := newMemoryRateStore(clock)

	store.hit("old", time.Minute)
	clock.Advance(3 * time.Hour)
	store.hit("fresh", time.Minute)

	store.purge(24 * time.Hour)
	assert.Equal(t, 2, store.size())

	store.purge(time.Hour)
	assert.Equal(t, 1, store.size(), "only the fresh window should survive")
}

func TestRateLimitService_IsAllowed_CapacityAndReset(t *testing.T) {
	clock := newMockClock()
	svc := newTestRateLimitService(clock)

	// chat_minute allows 10 requests per minute
	for i := 0; i < 10; i++ {
		allowed, info, err := svc.IsAllowed("9.9.9.9", EndpointChatMinute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 10-(i+1), info.Remaining)
	}

	allowed, info, err := svc.IsAllowed("9.9.9.9", EndpointChatMinute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)

	// the window expires and the identifier gets fresh capacity
	clock.Advance(61 * time.Second)

	allowed, info, err = svc.IsAllowed("9.9.9.9", EndpointChatMinute)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 9, info.Remaining)
}

func TestRateLimitService_IsAllowed_LimitedCallsKeepCounting(t *testing.T) {
	clock := newMockClock()
	svc := newTestRateLimitService(clock)

	for i := 0; i < 15; i++ {
		svc.IsAllowed("probe", EndpointChatMinute)
	}

	count, _, err := svc.store.hit(EndpointChatMinute+":probe", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 16, count, "rejected calls still increment the window")
}

func TestRateLimitService_IsAllowed_SeparateIdentifiers(t *testing.T) {
	clock := newMockClock()
	svc := newTestRateLimitService(clock)

	for i := 0; i < 11; i++ {
		svc.IsAllowed("1.1.1.1", EndpointChatMinute)
	}

	allowed, _, err := svc.IsAllowed("2.2.2.2", EndpointChatMinute)
	require.NoError(t, err)
	assert.True(t, allowed, "another identifier has its own window")
}

func TestRateLimitService_IsAllowed_UnknownEndpointAllows(t *testing.T) {
	clock := newMockClock()
	svc := newTestRateLimitService(clock)

	allowed, info, err := svc.IsAllowed("1.1.1.1", "nonexistent")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, -1, info.Remaining)
}

func TestRateLimitService_ResetRateLimit(t *testing.T) {
	clock := newMockClock()
	svc := newTestRateLimitService(clock)

	for i := 0; i < 11; i++ {
		svc.IsAllowed("3.3.3.3", EndpointChatMinute)
	}

	require.NoError(t, svc.ResetRateLimit("3.3.3.3", EndpointChatMinute))

	allowed, _, err := svc.IsAllowed("3.3.3.3", EndpointChatMinute)
	require.NoError(t, err)
	assert.True(t, allowed)
}
