package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBlockCache_IPRoundTrip(t *testing.T) {
	cache := newBlockCache(newMockClock())

	assert.False(t, cache.isBlockedIP("203.0.113.7"))

	cache.blockIP("203.0.113.7", nil)
	assert.True(t, cache.isBlockedIP("203.0.113.7"))
	assert.False(t, cache.isBlockedIP("203.0.113.8"))

	cache.unblockIP("203.0.113.7")
	assert.False(t, cache.isBlockedIP("203.0.113.7"))
}

func TestBlockCache_EmailRoundTrip(t *testing.T) {
	cache := newBlockCache(newMockClock())

	cache.blockEmail("spammer@example.com", nil)
	assert.True(t, cache.isBlockedEmail("spammer@example.com"))

	cache.unblockEmail("spammer@example.com")
	assert.False(t, cache.isBlockedEmail("spammer@example.com"))
}

func TestBlockCache_ExpiryHonored(t *testing.T) {
	clock := newMockClock()
	cache := newBlockCache(clock)

	expiresAt := clock.Now().Add(time.Hour)
	cache.blockIP("203.0.113.7", &expiresAt)

	assert.True(t, cache.isBlockedIP("203.0.113.7"))

	clock.Advance(time.Hour + time.Second)
	assert.False(t, cache.isBlockedIP("203.0.113.7"), "expired entry no longer blocks")

	// the lapsed entry was dropped, not just ignored
	cache.mu.Lock()
	_, exists := cache.ips["203.0.113.7"]
	cache.mu.Unlock()
	assert.False(t, exists)
}

func TestBlockCache_PermanentEntryNeverExpires(t *testing.T) {
	clock := newMockClock()
	cache := newBlockCache(clock)

	cache.blockIP("203.0.113.7", nil)

	clock.Advance(365 * 24 * time.Hour)
	assert.True(t, cache.isBlockedIP("203.0.113.7"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", normalizeEmail("  User@Example.COM "))
}
