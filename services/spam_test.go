package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ColdByDefault/Portfolio-sub001/dto"
)

func validContactRequest(clock Clock) *dto.ContactRequest {
	return &dto.ContactRequest{
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Subject:   "Project inquiry",
		Message:   "Hi, I saw your portfolio and would like to talk about a project.",
		Timestamp: clock.Now().Add(-30 * time.Second).UnixMilli(),
	}
}

func TestSpamFilter_AcceptsLegitimateSubmission(t *testing.T) {
	clock := newMockClock()
	filter := newSpamFilter(clock)

	cls := filter.classify(validContactRequest(clock))
	assert.True(t, cls.Accepted)
	assert.Empty(t, cls.Reason)
}

func TestSpamFilter_Honeypot(t *testing.T) {
	clock := newMockClock()
	filter := newSpamFilter(clock)

	req := validContactRequest(clock)
	req.Honeypot = "gotcha"

	cls := filter.classify(req)
	assert.False(t, cls.Accepted)
	assert.Equal(t, ReasonHoneypot, cls.Reason)
}

func TestSpamFilter_TooFast(t *testing.T) {
	clock := newMockClock()
	filter := newSpamFilter(clock)

	req := validContactRequest(clock)
	req.Timestamp = clock.Now().Add(-time.Second).UnixMilli()

	cls := filter.classify(req)
	assert.False(t, cls.Accepted)
	assert.Equal(t, ReasonTooFast, cls.Reason)
}

func TestSpamFilter_MissingTimestampTolerated(t *testing.T) {
	clock := newMockClock()
	filter := newSpamFilter(clock)

	req := validContactRequest(clock)
	req.Timestamp = 0

	cls := filter.classify(req)
	assert.True(t, cls.Accepted)
}

func TestSpamFilter_WhitespaceOnlyFieldsRejected(t *testing.T) {
	clock := newMockClock()
	filter := newSpamFilter(clock)

	req := validContactRequest(clock)
	req.Subject = "   \t  "

	cls := filter.classify(req)
	assert.False(t, cls.Accepted)
	assert.Equal(t, ReasonMissingFields, cls.Reason)
}

func TestSpamFilter_InvalidEmail(t *testing.T) {
	clock := newMockClock()
	filter := newSpamFilter(clock)

	for _, email := range []string{"not-an-email", "a@b", "a..b@example.com"} {
		req := validContactRequest(clock)
		req.Email = email

		cls := filter.classify(req)
		assert.False(t, cls.Accepted, "email %q should be rejected", email)
		assert.Equal(t, ReasonInvalidEmail, cls.Reason)
	}
}

func TestSpamFilter_DisposableEmail(t *testing.T) {
	clock := newMockClock()
	filter := newSpamFilter(clock)

	req := validContactRequest(clock)
	req.Email = "throwaway@mailinator.com"

	cls := filter.classify(req)
	assert.False(t, cls.Accepted)
	assert.Equal(t, ReasonDisposableEmail, cls.Reason)
}

func TestSpamFilter_KeywordScoring(t *testing.T) {
	clock := newMockClock()
	filter := newSpamFilter(clock)

	req := validContactRequest(clock)
	req.Message = "Buy now! Casino winner, claim your prize today."

	cls := filter.classify(req)
	assert.False(t, cls.Accepted)
	assert.Equal(t, ReasonSpamContent, cls.Reason)
	assert.GreaterOrEqual(t, cls.Score, 5)
}

func TestSpamFilter_LinkHeavyMessage(t *testing.T) {
	clock := newMockClock()
	filter := newSpamFilter(clock)

	req := validContactRequest(clock)
	req.Message = strings.Repeat("check https://example.com/x ", 5)

	cls := filter.classify(req)
	assert.False(t, cls.Accepted)
	assert.Equal(t, ReasonSpamContent, cls.Reason)
}

func TestSpamFilter_LowScoreMentionAccepted(t *testing.T) {
	clock := newMockClock()
	filter := newSpamFilter(clock)

	req := validContactRequest(clock)
	req.Message = "I work on crypto tooling and liked your posts."

	cls := filter.classify(req)
	assert.True(t, cls.Accepted, "a single low-weight keyword is not spam")
	assert.Equal(t, 2, cls.Score)
}

func TestSpamFilter_SanitizesFields(t *testing.T) {
	clock := newMockClock()
	filter := newSpamFilter(clock)

	req := validContactRequest(clock)
	req.Name = "<script>alert(1)</script>Jane"
	req.Message = "Hello & <b>welcome</b>"

	cls := filter.classify(req)
	assert.True(t, cls.Accepted)
	assert.Equal(t, "alert(1)Jane", req.Name)
	assert.Equal(t, "Hello &amp; welcome", req.Message)
	assert.NotContains(t, req.Name, "<")
}

func TestSpamFilter_EmailIsLowercased(t *testing.T) {
	clock := newMockClock()
	filter := newSpamFilter(clock)

	req := validContactRequest(clock)
	req.Email = "  Jane@Example.COM "

	cls := filter.classify(req)
	assert.True(t, cls.Accepted)
	assert.Equal(t, "jane@example.com", req.Email)
}
