package services

import (
	stdContext "context"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/ColdByDefault/Portfolio-sub001/dto"
	"github.com/ColdByDefault/Portfolio-sub001/shared"
)

// Endpoint types with a configured window.
const (
	EndpointContact    = "contact"
	EndpointChatMinute = "chat_minute"
	EndpointChatHour   = "chat_hour"
	EndpointAdminLogin = "admin_login"
	EndpointAPIGeneral = "api_general"
)

type RateLimitService struct {
	context.DefaultService

	configs map[string]*RateLimitConfig
	mutex   sync.RWMutex

	store rateStore
	clock Clock

	monitorSvc *MonitoringService
}

// RateLimitConfig represents rate limiting configuration
type RateLimitConfig struct {
	EndpointType string        `json:"endpoint_type"`
	MaxRequests  int           `json:"max_requests"`
	WindowSize   time.Duration `json:"window_size"`
	Description  string        `json:"description"`
	IsActive     bool          `json:"is_active"`
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *context.Context) error {
	svc.clock = systemClock{}
	svc.initDefaultConfigs()
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.monitorSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	// Counter state lives in process memory unless an external store is
	// configured; with RATE_LIMIT_BACKEND=redis the windows survive restarts
	// and are shared across instances.
	if os.Getenv("RATE_LIMIT_BACKEND") == "redis" {
		redisSvc := svc.Service(REDIS_SVC).(*RedisService)
		svc.store = newRedisRateStore(redisSvc)
		log.Info("Rate limiter using redis backend")
	} else {
		svc.store = newMemoryRateStore(svc.clock)
		log.Info("Rate limiter using in-memory backend")
	}

	go svc.startCleanupJob()

	return nil
}

// ==================== CONFIGURATION MANAGEMENT ====================

func (svc *RateLimitService) initDefaultConfigs() {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	svc.configs = map[string]*RateLimitConfig{
		EndpointContact: {
			EndpointType: EndpointContact,
			MaxRequests:  10,
			WindowSize:   15 * time.Minute,
			Description:  "Contact form rate limit per IP",
			IsActive:     true,
		},
		EndpointChatMinute: {
			EndpointType: EndpointChatMinute,
			MaxRequests:  10,
			WindowSize:   time.Minute,
			Description:  "Chatbot burst rate limit per IP",
			IsActive:     true,
		},
		EndpointChatHour: {
			EndpointType: EndpointChatHour,
			MaxRequests:  60,
			WindowSize:   time.Hour,
			Description:  "Chatbot sustained rate limit per IP",
			IsActive:     true,
		},
		EndpointAdminLogin: {
			EndpointType: EndpointAdminLogin,
			MaxRequests:  5,
			WindowSize:   15 * time.Minute,
			Description:  "Admin login attempts rate limit",
			IsActive:     true,
		},
		EndpointAPIGeneral: {
			EndpointType: EndpointAPIGeneral,
			MaxRequests:  300,
			WindowSize:   time.Hour,
			Description:  "General API rate limit per IP",
			IsActive:     true,
		},
	}
}

// ==================== CORE RATE LIMITING LOGIC ====================

// IsAllowed records a hit for the identifier and reports whether it is within
// the window's capacity. The counter increments even on the call that reports
// limited, so repeated probing keeps incrementing without extending the block.
func (svc *RateLimitService) IsAllowed(identifier, endpointType string) (bool, *dto.RateLimitInfo, error) {
	svc.mutex.RLock()
	config, exists := svc.configs[endpointType]
	svc.mutex.RUnlock()

	if !exists || !config.IsActive {
		// If no config exists or inactive, allow the request
		return true, &dto.RateLimitInfo{
			Allowed:   true,
			Remaining: -1,
		}, nil
	}

	count, resetAt, err := svc.store.hit(endpointType+":"+identifier, config.WindowSize)
	if err != nil {
		return false, nil, err
	}

	remaining := config.MaxRequests - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= config.MaxRequests, &dto.RateLimitInfo{
		Allowed:   count <= config.MaxRequests,
		Remaining: remaining,
		ResetTime: &resetAt,
	}, nil
}

func (svc *RateLimitService) ResetRateLimit(identifier, endpointType string) error {
	return svc.store.reset(endpointType + ":" + identifier)
}

// ==================== MIDDLEWARE FUNCTIONS ====================

// Limit creates a rate limiting middleware for a specific endpoint type.
func (svc *RateLimitService) Limit(endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := ClientIP(c)

		allowed, info, err := svc.IsAllowed(identifier, endpointType)
		if err != nil {
			log.WithError(err).WithField("endpoint_type", endpointType).Error("Rate limit check failed")
			// Continue with request on error to avoid blocking users due to system issues
			return c.Next()
		}

		svc.addRateLimitHeaders(c, info)

		if !allowed {
			svc.monitorSvc.RecordRateLimitHit(endpointType)
			return svc.limitExceeded(endpointType, info, nil)
		}

		return c.Next()
	}
}

// ChatLimit enforces the chatbot's dual minute/hour windows. Both windows
// count every request; either one over capacity rejects.
func (svc *RateLimitService) ChatLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := ClientIP(c)

		minuteAllowed, minuteInfo, err := svc.IsAllowed(identifier, EndpointChatMinute)
		if err != nil {
			log.WithError(err).Error("Chat minute rate limit check failed")
			return c.Next()
		}

		hourAllowed, hourInfo, err := svc.IsAllowed(identifier, EndpointChatHour)
		if err != nil {
			log.WithError(err).Error("Chat hour rate limit check failed")
			return c.Next()
		}

		// Headers reflect the tighter of the two windows.
		info := minuteInfo
		if hourInfo.Remaining >= 0 && hourInfo.Remaining < minuteInfo.Remaining {
			info = hourInfo
		}
		svc.addRateLimitHeaders(c, info)

		if !minuteAllowed || !hourAllowed {
			blocked := minuteInfo
			endpointType := EndpointChatMinute
			if !hourAllowed {
				blocked = hourInfo
				endpointType = EndpointChatHour
			}
			svc.monitorSvc.RecordRateLimitHit(endpointType)
			return svc.limitExceeded(endpointType, blocked, map[string]interface{}{
				"code": shared.ChatErrRateLimitExceeded,
			})
		}

		return c.Next()
	}
}

// ==================== HELPER FUNCTIONS ====================

func (svc *RateLimitService) addRateLimitHeaders(c *fiber.Ctx, info *dto.RateLimitInfo) {
	if info == nil {
		return
	}

	if info.Remaining >= 0 {
		c.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	}

	if info.ResetTime != nil {
		c.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

func (svc *RateLimitService) limitExceeded(endpointType string, info *dto.RateLimitInfo, extra map[string]interface{}) error {
	retryAfter := 0
	if info != nil && info.ResetTime != nil {
		retryAfter = int(info.ResetTime.Sub(svc.clock.Now()).Seconds())
		if retryAfter < 0 {
			retryAfter = 0
		}
	}

	appErr := shared.NewRateLimitedError(svc.getRateLimitMessage(endpointType), retryAfter)
	if extra != nil {
		if retryAfter > 0 {
			extra["retry_after"] = retryAfter
		}
		appErr.Data = extra
	}
	return appErr
}

func (svc *RateLimitService) getRateLimitMessage(endpointType string) string {
	messages := map[string]string{
		EndpointContact:    "Too many messages. Please try again later.",
		EndpointChatMinute: "Too many chat messages. Please slow down.",
		EndpointChatHour:   "Chat limit reached for this hour. Please come back later.",
		EndpointAdminLogin: "Too many login attempts. Please try again later.",
		EndpointAPIGeneral: "Too many requests. Please slow down.",
	}

	if message, exists := messages[endpointType]; exists {
		return message
	}

	return "Too many requests. Please try again later."
}

// ==================== ADMIN FUNCTIONS ====================

func (svc *RateLimitService) GetRateLimitStats() fiber.Handler {
	return func(c *fiber.Ctx) error {
		svc.mutex.RLock()
		configs := make(map[string]*RateLimitConfig, len(svc.configs))
		for k, v := range svc.configs {
			copied := *v
			configs[k] = &copied
		}
		svc.mutex.RUnlock()

		stats := map[string]interface{}{
			"configs":        configs,
			"active_windows": svc.store.size(),
			"timestamp":      svc.clock.Now().Unix(),
		}

		return shared.ResponseJSON(c, fiber.StatusOK, "Rate limit statistics", stats)
	}
}

func (svc *RateLimitService) UpdateConfig() fiber.Handler {
	return func(c *fiber.Ctx) error {
		endpointType := c.Params("endpointType")

		var req dto.UpdateRateLimitConfigRequest
		if err := c.BodyParser(&req); err != nil {
			return shared.NewValidationError("Invalid request body", nil)
		}
		if err := req.Validate(); err != nil {
			return shared.NewValidationError("Validation failed", dto.FormatValidationErrors(err))
		}

		svc.mutex.Lock()
		config, exists := svc.configs[endpointType]
		if !exists {
			svc.mutex.Unlock()
			return shared.ResponseJSON(c, fiber.StatusNotFound, "Endpoint type not found", nil)
		}

		if req.MaxRequests > 0 {
			config.MaxRequests = req.MaxRequests
		}

		if req.WindowSize != "" {
			if duration, err := time.ParseDuration(req.WindowSize); err == nil {
				config.WindowSize = duration
			}
		}

		if req.IsActive != nil {
			config.IsActive = *req.IsActive
		}

		updated := *config
		svc.mutex.Unlock()

		return shared.ResponseJSON(c, fiber.StatusOK, "Configuration updated successfully", updated)
	}
}

func (svc *RateLimitService) RemoveRateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := c.Params("identifier")
		endpointType := c.Params("endpointType")

		if identifier == "" || endpointType == "" {
			return shared.NewValidationError("Missing identifier or endpoint type", nil)
		}

		if err := svc.ResetRateLimit(identifier, endpointType); err != nil {
			return shared.NewDownstreamError("Failed to remove rate limit", nil)
		}

		return shared.ResponseJSON(c, fiber.StatusOK, "Rate limit removed", nil)
	}
}

// ==================== BACKGROUND JOBS ====================

func (svc *RateLimitService) startCleanupJob() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		svc.store.purge(24 * time.Hour)
	}
}

// ==================== STORES ====================

type rateStore interface {
	// hit records a request against key and returns the window's running
	// count and reset time.
	hit(key string, window time.Duration) (count int, resetAt time.Time, err error)
	reset(key string) error
	purge(maxAge time.Duration)
	size() int
}

type rateWindow struct {
	count       int
	windowStart time.Time
	lastRequest time.Time
}

type memoryRateStore struct {
	mu      sync.Mutex
	clock   Clock
	windows map[string]*rateWindow
}

func newMemoryRateStore(clock Clock) *memoryRateStore {
	return &memoryRateStore{
		clock:   clock,
		windows: make(map[string]*rateWindow),
	}
}

func (s *memoryRateStore) hit(key string, window time.Duration) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	w, ok := s.windows[key]
	if !ok || now.Sub(w.windowStart) > window {
		s.windows[key] = &rateWindow{count: 1, windowStart: now, lastRequest: now}
		return 1, now.Add(window), nil
	}

	w.count++
	w.lastRequest = now
	return w.count, w.windowStart.Add(window), nil
}

func (s *memoryRateStore) reset(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, key)
	return nil
}

func (s *memoryRateStore) purge(maxAge time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.clock.Now().Add(-maxAge)
	for key, w := range s.windows {
		if w.lastRequest.Before(cutoff) {
			delete(s.windows, key)
		}
	}
}

func (s *memoryRateStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

type redisRateStore struct {
	redisSvc *RedisService
}

func newRedisRateStore(redisSvc *RedisService) *redisRateStore {
	return &redisRateStore{redisSvc: redisSvc}
}

func (s *redisRateStore) hit(key string, window time.Duration) (int, time.Time, error) {
	ctx := stdContext.Background()
	fullKey := "ratelimit:" + key

	count, err := s.redisSvc.Increment(ctx, fullKey)
	if err != nil {
		return 0, time.Time{}, err
	}

	if count == 1 {
		if err := s.redisSvc.Expire(ctx, fullKey, window); err != nil {
			return 0, time.Time{}, err
		}
	}

	ttl, err := s.redisSvc.TTL(ctx, fullKey)
	if err != nil || ttl < 0 {
		ttl = window
	}

	return int(count), time.Now().Add(ttl), nil
}

func (s *redisRateStore) reset(key string) error {
	return s.redisSvc.Delete(stdContext.Background(), "ratelimit:"+key)
}

func (s *redisRateStore) purge(time.Duration) {
	// Key TTLs handle expiry.
}

func (s *redisRateStore) size() int {
	keys, err := s.redisSvc.Keys(stdContext.Background(), "ratelimit:*")
	if err != nil {
		return -1
	}
	return len(keys)
}
