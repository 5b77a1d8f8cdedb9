package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ColdByDefault/Portfolio-sub001/shared"
)

func TestSubmissionTracker_AcceptsUpToCap(t *testing.T) {
	clock := newMockClock()
	tracker := newSubmissionTracker(clock)

	for i := 0; i < 3; i++ {
		err := tracker.checkAndRecord("1.2.3.4", fmt.Sprintf("user%d@example.com", i))
		require.NoError(t, err, "submission %d should be accepted", i+1)
		clock.Advance(6 * time.Minute)
	}

	err := tracker.checkAndRecord("1.2.3.4", "user4@example.com")
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, shared.KindRateLimited, appErr.Kind)
}

func TestSubmissionTracker_MinimumGap(t *testing.T) {
	clock := newMockClock()
	tracker := newSubmissionTracker(clock)

	require.NoError(t, tracker.checkAndRecord("1.2.3.4", "a@example.com"))

	clock.Advance(2 * time.Minute)
	err := tracker.checkAndRecord("1.2.3.4", "b@example.com")
	require.Error(t, err, "second submission inside the gap should be rejected")

	clock.Advance(3*time.Minute + time.Second)
	assert.NoError(t, tracker.checkAndRecord("1.2.3.4", "b@example.com"))
}

func TestSubmissionTracker_EmailReuse(t *testing.T) {
	clock := newMockClock()
	tracker := newSubmissionTracker(clock)

	require.NoError(t, tracker.checkAndRecord("1.2.3.4", "same@example.com"))

	clock.Advance(10 * time.Minute)
	err := tracker.checkAndRecord("1.2.3.4", "same@example.com")
	require.Error(t, err, "same email within an hour should be rejected")

	// a different email is fine at the same moment
	assert.NoError(t, tracker.checkAndRecord("1.2.3.4", "other@example.com"))

	clock.Advance(51 * time.Minute)
	assert.NoError(t, tracker.checkAndRecord("1.2.3.4", "same@example.com"),
		"reuse window has lapsed")
}

func TestSubmissionTracker_RejectionsDoNotCount(t *testing.T) {
	clock := newMockClock()
	tracker := newSubmissionTracker(clock)

	require.NoError(t, tracker.checkAndRecord("1.2.3.4", "a@example.com"))

	// hammer inside the gap: every call rejected, none recorded
	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
		require.Error(t, tracker.checkAndRecord("1.2.3.4", "b@example.com"))
	}

	clock.Advance(5 * time.Minute)
	require.NoError(t, tracker.checkAndRecord("1.2.3.4", "b@example.com"))
	clock.Advance(6 * time.Minute)
	require.NoError(t, tracker.checkAndRecord("1.2.3.4", "c@example.com"),
		"only two accepted submissions so far, cap not reached")
}

func TestSubmissionTracker_StaleWindowResets(t *testing.T) {
	clock := newMockClock()
	tracker := newSubmissionTracker(clock)

	for i := 0; i < 3; i++ {
		require.NoError(t, tracker.checkAndRecord("1.2.3.4", fmt.Sprintf("u%d@example.com", i)))
		clock.Advance(6 * time.Minute)
	}

	// over an hour since the last accepted submission
	clock.Advance(time.Hour)
	assert.NoError(t, tracker.checkAndRecord("1.2.3.4", "fresh@example.com"))
}

func TestSubmissionTracker_KeysAreIndependent(t *testing.T) {
	clock := newMockClock()
	tracker := newSubmissionTracker(clock)

	require.NoError(t, tracker.checkAndRecord("1.1.1.1", "x@example.com"))
	assert.NoError(t, tracker.checkAndRecord("2.2.2.2", "y@example.com"),
		"another IP has its own quota")
}

func TestSubmissionTracker_Purge(t *testing.T) {
	clock := newMockClock()
	tracker := newSubmissionTracker(clock)

	require.NoError(t, tracker.checkAndRecord("1.2.3.4", "a@example.com"))

	clock.Advance(3 * time.Hour)
	tracker.purge()

	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	assert.Empty(t, tracker.records)
}
