package middleware

import (
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/ColdByDefault/Portfolio-sub001/services"
	"github.com/ColdByDefault/Portfolio-sub001/shared"
)

// Known automation user agent fragments. An empty user agent is treated
// the same way.
var botUAPattern = regexp.MustCompile(`(?i)(bot|crawl|spider|scrape|curl|wget|python-requests|python-urllib|scrapy|httpclient|go-http-client|java/|libwww)`)

// GatekeeperMiddleware runs the cheap request gates that fire before any
// service logic: client identity resolution, bot filtering, referer
// checking and the IP blocklist.
type GatekeeperMiddleware struct {
	context.DefaultService

	blocklistSvc *services.BlocklistService

	allowedHosts map[string]struct{}
}

const GATEKEEPER_MIDDLEWARE_SVC = "gatekeeper"

func (svc GatekeeperMiddleware) Id() string {
	return GATEKEEPER_MIDDLEWARE_SVC
}

func (svc *GatekeeperMiddleware) Configure(ctx *context.Context) error {
	svc.allowedHosts = make(map[string]struct{})
	for _, origin := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			svc.allowedHosts[strings.ToLower(u.Host)] = struct{}{}
		} else {
			svc.allowedHosts[strings.ToLower(origin)] = struct{}{}
		}
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *GatekeeperMiddleware) Start() error {
	svc.blocklistSvc = svc.Service(services.BLOCKLIST_SVC).(*services.BlocklistService)
	return nil
}

// Identify resolves the client IP once and stashes it for every later
// stage of the chain.
func (svc *GatekeeperMiddleware) Identify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(shared.ClientIPKey, services.ClientIP(c))
		return c.Next()
	}
}

// BotFilter rejects requests whose user agent is empty or matches a known
// automation fragment.
func (svc *GatekeeperMiddleware) BotFilter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ua := strings.TrimSpace(c.Get(fiber.HeaderUserAgent))
		if ua == "" || botUAPattern.MatchString(ua) {
			log.WithFields(log.Fields{
				"ip":         c.Locals(shared.ClientIPKey),
				"user_agent": ua,
				"path":       c.Path(),
			}).Warn("Request rejected by bot filter")
			return shared.NewAccessDeniedError()
		}
		return c.Next()
	}
}

// RefererCheck requires the request to originate from an allowed host.
// With no ALLOWED_ORIGINS configured the check is a no-op.
func (svc *GatekeeperMiddleware) RefererCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(svc.allowedHosts) == 0 {
			return c.Next()
		}

		referer := c.Get(fiber.HeaderReferer)
		if referer == "" {
			referer = c.Get(fiber.HeaderOrigin)
		}

		u, err := url.Parse(referer)
		if err != nil || u.Host == "" {
			return shared.NewAccessDeniedError()
		}
		if _, ok := svc.allowedHosts[strings.ToLower(u.Host)]; !ok {
			log.WithFields(log.Fields{
				"ip":      c.Locals(shared.ClientIPKey),
				"referer": referer,
			}).Warn("Request rejected by referer check")
			return shared.NewAccessDeniedError()
		}
		return c.Next()
	}
}

// BlocklistCheck rejects blocklisted IPs before they reach the limiter.
func (svc *GatekeeperMiddleware) BlocklistCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip, _ := c.Locals(shared.ClientIPKey).(string)
		if ip == "" {
			ip = services.ClientIP(c)
		}
		if svc.blocklistSvc.IsBlockedIP(ip) {
			log.WithField("ip", ip).Warn("Request rejected by blocklist")
			return shared.NewAccessDeniedError()
		}
		return c.Next()
	}
}
