package services

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
)

// SessionService issues and validates the IP-bound admin session tokens and
// runs the failed-attempt lockout alongside them. Sessions live in process
// memory only; a restart logs every admin out, which is acceptable here.
type SessionService struct {
	context.DefaultService

	store *sessionStore

	monitorSvc *MonitoringService
}

const SESSION_SVC = "session_svc"

func (svc SessionService) Id() string {
	return SESSION_SVC
}

func (svc *SessionService) Configure(ctx *context.Context) error {
	secret := os.Getenv("ADMIN_SESSION_SECRET")
	if secret == "" {
		return fmt.Errorf("ADMIN_SESSION_SECRET is not set")
	}

	svc.store = newSessionStore(systemClock{}, []byte(secret))
	return svc.DefaultService.Configure(ctx)
}

func (svc *SessionService) Start() error {
	svc.monitorSvc = svc.Service(MONITORING_SVC).(*MonitoringService)
	return nil
}

func (svc *SessionService) Create(ip, adminID string) (string, error) {
	return svc.store.create(ip, adminID)
}

// Validate reports whether the token belongs to a live session bound to the
// requesting IP. Any non-valid outcome removes the session record.
func (svc *SessionService) Validate(token, ip string) (string, bool) {
	return svc.store.validate(token, ip)
}

func (svc *SessionService) Invalidate(token string) {
	svc.store.invalidate(token)
}

func (svc *SessionService) RecordFailure(ip string) {
	if svc.store.recordFailure(ip) {
		log.WithField("ip", ip).Warn("Admin lockout triggered")
		if svc.monitorSvc != nil {
			svc.monitorSvc.RecordLockout()
		}
	}
}

func (svc *SessionService) IsLockedOut(ip string) bool {
	return svc.store.isLockedOut(ip)
}

func (svc *SessionService) ClearFailures(ip string) {
	svc.store.clearFailures(ip)
}

// ==================== STORE ====================

const (
	sessionTTL        = 8 * time.Hour
	sessionGCInterval = 10 // purge expired sessions every Nth creation
	maxFailedAttempts = 2
	lockoutDuration   = 15 * time.Minute
	sessionTokenBytes = 32
)

type adminSession struct {
	ID        string
	AdminID   string
	IP        string
	Signature string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type failedAttempt struct {
	count       int
	lockedUntil time.Time
}

type sessionStore struct {
	mu     sync.Mutex
	clock  Clock
	secret []byte

	sessions  map[string]*adminSession
	failures  map[string]*failedAttempt
	creations int
}

func newSessionStore(clock Clock, secret []byte) *sessionStore {
	return &sessionStore{
		clock:    clock,
		secret:   secret,
		sessions: make(map[string]*adminSession),
		failures: make(map[string]*failedAttempt),
	}
}

func (s *sessionStore) sign(token, ip string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(token + "|" + ip))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *sessionStore) create(ip, adminID string) (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.sessions[token] = &adminSession{
		ID:        token,
		AdminID:   adminID,
		IP:        ip,
		Signature: s.sign(token, ip),
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}

	// Expired sessions are purged opportunistically rather than on every
	// request; a little stale memory beats a per-request sweep.
	s.creations++
	if s.creations%sessionGCInterval == 0 {
		s.purgeExpiredLocked(now)
	}

	return token, nil
}

func (s *sessionStore) validate(token, ip string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return "", false
	}

	now := s.clock.Now()
	// The signature was minted over the creating IP, so verifying it against
	// the request IP is what binds the session to that address.
	if now.After(sess.ExpiresAt) || !hmac.Equal([]byte(sess.Signature), []byte(s.sign(token, ip))) {
		delete(s.sessions, token)
		return "", false
	}

	return sess.AdminID, true
}

func (s *sessionStore) invalidate(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// recordFailure increments the IP's failure counter and reports whether this
// call tripped the lockout.
func (s *sessionStore) recordFailure(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	f, ok := s.failures[ip]
	if !ok {
		f = &failedAttempt{}
		s.failures[ip] = f
	}

	// A lapsed lockout resets the counter before the new failure counts.
	if !f.lockedUntil.IsZero() && now.After(f.lockedUntil) {
		f.count = 0
		f.lockedUntil = time.Time{}
	}

	f.count++
	if f.count >= maxFailedAttempts && f.lockedUntil.IsZero() {
		f.lockedUntil = now.Add(lockoutDuration)
		return true
	}
	return false
}

func (s *sessionStore) isLockedOut(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.failures[ip]
	if !ok || f.lockedUntil.IsZero() {
		return false
	}

	if s.clock.Now().After(f.lockedUntil) {
		delete(s.failures, ip)
		return false
	}
	return true
}

func (s *sessionStore) clearFailures(ip string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, ip)
}

func (s *sessionStore) purgeExpiredLocked(now time.Time) {
	for token, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}
