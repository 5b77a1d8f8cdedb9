package services

import (
	stdContext "context"
	"strings"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ColdByDefault/Portfolio-sub001/dto"
	"github.com/ColdByDefault/Portfolio-sub001/model"
	"github.com/ColdByDefault/Portfolio-sub001/services/repositories"
	"github.com/ColdByDefault/Portfolio-sub001/shared"
)

const (
	blocklistIPSetKey    = "blocklist:ips"
	blocklistEmailSetKey = "blocklist:emails"
)

// BlocklistService answers set-membership checks on every relevant request
// from an in-memory cache and persists entries through gorm. A redis set
// mirror keeps other instances in sync on a best-effort basis.
type BlocklistService struct {
	context.DefaultService

	cache *blockCache
	repo  *repositories.BlocklistRepository

	sqlSvc   *PostgresService
	redisSvc *RedisService
}

const BLOCKLIST_SVC = "blocklist_svc"

func (svc BlocklistService) Id() string {
	return BLOCKLIST_SVC
}

func (svc *BlocklistService) Configure(ctx *context.Context) error {
	svc.cache = newBlockCache(systemClock{})
	return svc.DefaultService.Configure(ctx)
}

func (svc *BlocklistService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.repo = repositories.NewBlocklistRepository(svc.sqlSvc.Db())

	return svc.loadEntries()
}

func (svc *BlocklistService) loadEntries() error {
	now := time.Now()

	ips, err := svc.repo.ActiveIPs(now)
	if err != nil {
		return err
	}
	for i := range ips {
		svc.cache.blockIP(ips[i].IP, ips[i].ExpiresAt)
	}

	emails, err := svc.repo.ActiveEmails(now)
	if err != nil {
		return err
	}
	for i := range emails {
		svc.cache.blockEmail(emails[i].Email, emails[i].ExpiresAt)
	}

	// Merge entries other instances may have written to redis.
	ctx := stdContext.Background()
	if members, err := svc.redisSvc.SMembers(ctx, blocklistIPSetKey); err == nil {
		for _, ip := range members {
			svc.cache.blockIP(ip, nil)
		}
	}
	if members, err := svc.redisSvc.SMembers(ctx, blocklistEmailSetKey); err == nil {
		for _, email := range members {
			svc.cache.blockEmail(email, nil)
		}
	}

	log.WithFields(log.Fields{"ips": len(ips), "emails": len(emails)}).
		Info("Blocklist loaded")
	return nil
}

func (svc *BlocklistService) IsBlockedIP(ip string) bool {
	return svc.cache.isBlockedIP(ip)
}

func (svc *BlocklistService) IsBlockedEmail(email string) bool {
	return svc.cache.isBlockedEmail(normalizeEmail(email))
}

// Block adds a permanent entry. Reachable only through the admin surface;
// the gate has already authorized the caller.
func (svc *BlocklistService) Block(target, kind, reason, createdBy string) error {
	now := time.Now()

	switch kind {
	case shared.BlockTypeIP:
		entry := &model.BlockedIP{
			ID:        uuid.NewString(),
			IP:        target,
			Reason:    reason,
			CreatedBy: createdBy,
			CreatedAt: now,
		}
		if err := svc.repo.SaveIP(entry); err != nil {
			return svc.sqlSvc.HandleError(err)
		}
		svc.cache.blockIP(target, nil)
		if err := svc.redisSvc.SAdd(stdContext.Background(), blocklistIPSetKey, target); err != nil {
			log.WithError(err).Warn("Failed to mirror IP block to redis")
		}

	case shared.BlockTypeEmail:
		email := normalizeEmail(target)
		entry := &model.BlockedEmail{
			ID:        uuid.NewString(),
			Email:     email,
			Reason:    reason,
			CreatedBy: createdBy,
			CreatedAt: now,
		}
		if err := svc.repo.SaveEmail(entry); err != nil {
			return svc.sqlSvc.HandleError(err)
		}
		svc.cache.blockEmail(email, nil)
		if err := svc.redisSvc.SAdd(stdContext.Background(), blocklistEmailSetKey, email); err != nil {
			log.WithError(err).Warn("Failed to mirror email block to redis")
		}
	}

	log.WithFields(log.Fields{"target": target, "type": kind, "by": createdBy}).
		Info("Blocklist entry added")
	return nil
}

func (svc *BlocklistService) Unblock(target, kind string) error {
	switch kind {
	case shared.BlockTypeIP:
		if err := svc.repo.DeleteIP(target); err != nil {
			return svc.sqlSvc.HandleError(err)
		}
		svc.cache.unblockIP(target)
		if err := svc.redisSvc.SRem(stdContext.Background(), blocklistIPSetKey, target); err != nil {
			log.WithError(err).Warn("Failed to remove IP block from redis")
		}

	case shared.BlockTypeEmail:
		email := normalizeEmail(target)
		if err := svc.repo.DeleteEmail(email); err != nil {
			return svc.sqlSvc.HandleError(err)
		}
		svc.cache.unblockEmail(email)
		if err := svc.redisSvc.SRem(stdContext.Background(), blocklistEmailSetKey, email); err != nil {
			log.WithError(err).Warn("Failed to remove email block from redis")
		}
	}

	log.WithFields(log.Fields{"target": target, "type": kind}).
		Info("Blocklist entry removed")
	return nil
}

func (svc *BlocklistService) List() (*dto.BlocklistResponse, error) {
	now := time.Now()

	ips, err := svc.repo.ActiveIPs(now)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	emails, err := svc.repo.ActiveEmails(now)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp := &dto.BlocklistResponse{Entries: make([]dto.BlockEntryInfo, 0, len(ips)+len(emails))}
	for i := range ips {
		info := dto.BlockEntryInfo{
			Target:    ips[i].IP,
			Type:      shared.BlockTypeIP,
			Reason:    ips[i].Reason,
			CreatedBy: ips[i].CreatedBy,
			CreatedAt: ips[i].CreatedAt.Unix(),
		}
		if ips[i].ExpiresAt != nil {
			info.ExpiresAt = ips[i].ExpiresAt.Unix()
		}
		resp.Entries = append(resp.Entries, info)
	}
	for i := range emails {
		info := dto.BlockEntryInfo{
			Target:    emails[i].Email,
			Type:      shared.BlockTypeEmail,
			Reason:    emails[i].Reason,
			CreatedBy: emails[i].CreatedBy,
			CreatedAt: emails[i].CreatedAt.Unix(),
		}
		if emails[i].ExpiresAt != nil {
			info.ExpiresAt = emails[i].ExpiresAt.Unix()
		}
		resp.Entries = append(resp.Entries, info)
	}

	return resp, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ==================== CACHE ====================

type blockCache struct {
	mu    sync.RWMutex
	clock Clock

	ips    map[string]*time.Time // nil expiry = permanent
	emails map[string]*time.Time
}

func newBlockCache(clock Clock) *blockCache {
	return &blockCache{
		clock:  clock,
		ips:    make(map[string]*time.Time),
		emails: make(map[string]*time.Time),
	}
}

func (c *blockCache) blockIP(ip string, expiresAt *time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ips[ip] = expiresAt
}

func (c *blockCache) blockEmail(email string, expiresAt *time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emails[email] = expiresAt
}

func (c *blockCache) unblockIP(ip string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.ips, ip)
}

func (c *blockCache) unblockEmail(email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.emails, email)
}

func (c *blockCache) isBlockedIP(ip string) bool {
	return c.lookup(c.ips, ip)
}

func (c *blockCache) isBlockedEmail(email string) bool {
	return c.lookup(c.emails, email)
}

func (c *blockCache) lookup(entries map[string]*time.Time, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt, ok := entries[key]
	if !ok {
		return false
	}
	if expiresAt != nil && c.clock.Now().After(*expiresAt) {
		delete(entries, key)
		return false
	}
	return true
}
