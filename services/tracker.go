package services

import (
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/ColdByDefault/Portfolio-sub001/shared"
)

type SubmissionTrackerService struct {
	context.DefaultService

	tracker *submissionTracker
}

const SUBMISSION_TRACKER_SVC = "submission_tracker_svc"

func (svc SubmissionTrackerService) Id() string {
	return SUBMISSION_TRACKER_SVC
}

func (svc *SubmissionTrackerService) Configure(ctx *context.Context) error {
	svc.tracker = newSubmissionTracker(systemClock{})
	return svc.DefaultService.Configure(ctx)
}

func (svc *SubmissionTrackerService) Start() error {
	go svc.startPurgeJob()
	return nil
}

// CheckAndRecord enforces the per-IP frequency policy for accepted contact
// submissions. A nil return means the submission was recorded; a non-nil
// return is a RateLimited AppError and nothing was recorded.
func (svc *SubmissionTrackerService) CheckAndRecord(key, email string) error {
	if err := svc.tracker.checkAndRecord(key, email); err != nil {
		log.WithFields(log.Fields{"ip": key, "email": email}).
			WithError(err).Warn("Submission frequency limit hit")
		return err
	}
	return nil
}

func (svc *SubmissionTrackerService) startPurgeJob() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		svc.tracker.purge()
	}
}

// ==================== TRACKER ====================

type submissionRecord struct {
	count          int
	lastSubmission time.Time
	emails         map[string]time.Time
}

// submissionTracker caps accepted submissions per client key: at most
// maxPerWindow per rolling window, a minimum gap between submissions, and no
// reuse of the same email address within emailReuseWindow. Rejections do not
// count against the quota.
type submissionTracker struct {
	mu    sync.Mutex
	clock Clock

	records map[string]*submissionRecord

	maxPerWindow     int
	window           time.Duration
	minGap           time.Duration
	emailReuseWindow time.Duration
}

func newSubmissionTracker(clock Clock) *submissionTracker {
	return &submissionTracker{
		clock:            clock,
		records:          make(map[string]*submissionRecord),
		maxPerWindow:     3,
		window:           time.Hour,
		minGap:           5 * time.Minute,
		emailReuseWindow: time.Hour,
	}
}

func (t *submissionTracker) checkAndRecord(key, email string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	rec, ok := t.records[key]
	if !ok {
		rec = &submissionRecord{emails: make(map[string]time.Time)}
		t.records[key] = rec
	}

	// 1. Same email reused by this key within the reuse window.
	if usedAt, used := rec.emails[email]; used {
		if now.Sub(usedAt) < t.emailReuseWindow {
			wait := int(t.emailReuseWindow.Seconds() - now.Sub(usedAt).Seconds())
			return shared.NewRateLimitedError("This email address was used recently. Please wait before sending another message.", wait)
		}
		delete(rec.emails, email)
	}

	// 2. Minimum gap since the last accepted submission.
	if rec.count > 0 && now.Sub(rec.lastSubmission) < t.minGap {
		wait := int(t.minGap.Seconds() - now.Sub(rec.lastSubmission).Seconds())
		return shared.NewRateLimitedError("Please wait a few minutes before sending another message.", wait)
	}

	// 3. Stale window: reset counters before continuing.
	if rec.count > 0 && now.Sub(rec.lastSubmission) > t.window {
		rec.count = 0
		rec.emails = make(map[string]time.Time)
	}

	// 4. Rolling cap within the window.
	if rec.count >= t.maxPerWindow {
		wait := int(t.window.Seconds() - now.Sub(rec.lastSubmission).Seconds())
		if wait < 0 {
			wait = 0
		}
		return shared.NewRateLimitedError("Too many messages. Please try again later.", wait)
	}

	// 5. Accept and record.
	rec.count++
	rec.lastSubmission = now
	rec.emails[email] = now
	return nil
}

// purge drops records idle for more than twice the rolling window.
func (t *submissionTracker) purge() {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.clock.Now().Add(-2 * t.window)
	for key, rec := range t.records {
		if rec.lastSubmission.Before(cutoff) {
			delete(t.records, key)
		}
	}
}
