package middleware

import (
	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/ColdByDefault/Portfolio-sub001/services"
	"github.com/ColdByDefault/Portfolio-sub001/shared"
)

// AdminMiddleware gates the admin surface. A request authenticates with
// either the IP-bound session cookie or a bearer token; failures count
// toward the per-IP lockout.
type AdminMiddleware struct {
	context.DefaultService

	sessionSvc *services.SessionService
	jwtSvc     *services.JWTService
}

const ADMIN_MIDDLEWARE_SVC = "admin_middleware"

func (svc AdminMiddleware) Id() string {
	return ADMIN_MIDDLEWARE_SVC
}

func (svc *AdminMiddleware) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AdminMiddleware) Start() error {
	svc.sessionSvc = svc.Service(services.SESSION_SVC).(*services.SessionService)
	svc.jwtSvc = svc.Service(services.JWT_SVC).(*services.JWTService)
	return nil
}

func (svc *AdminMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip, _ := c.Locals(shared.ClientIPKey).(string)
		if ip == "" {
			ip = services.ClientIP(c)
		}

		if svc.sessionSvc.IsLockedOut(ip) {
			return shared.NewRateLimitedError("too many failed attempts, try again later", 0)
		}

		// Bearer token path for API clients
		if token := svc.jwtSvc.ExtractTokenFromHeader(c.Get(fiber.HeaderAuthorization)); token != "" {
			claims, err := svc.jwtSvc.VerifyJWTToken(token)
			if err == nil && claims.AdminID != "" {
				svc.sessionSvc.ClearFailures(ip)
				c.Locals(shared.AdminID, claims.AdminID)
				return c.Next()
			}
			svc.sessionSvc.RecordFailure(ip)
			log.WithField("ip", ip).Warn("Admin request with invalid bearer token")
			return shared.NewUnauthorizedError("invalid token")
		}

		// Session cookie path
		if token := c.Cookies(shared.SessionCookieName); token != "" {
			if adminID, ok := svc.sessionSvc.Validate(token, ip); ok {
				svc.sessionSvc.ClearFailures(ip)
				c.Locals(shared.AdminID, adminID)
				return c.Next()
			}
			svc.sessionSvc.RecordFailure(ip)
			log.WithField("ip", ip).Warn("Admin request with invalid session")
			return shared.NewUnauthorizedError("invalid session")
		}

		svc.sessionSvc.RecordFailure(ip)
		return shared.NewUnauthorizedError("authentication required")
	}
}
