package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"

	"github.com/ColdByDefault/Portfolio-sub001/services/handlers"
	"github.com/ColdByDefault/Portfolio-sub001/shared"
)

// Ids of the gate services registered by the middleware package. They are
// looked up through the container and asserted to the narrow interfaces
// below so this package does not import its own consumers.
const (
	gatekeeperSvcID = "gatekeeper"
	adminGateSvcID  = "admin_middleware"
)

type requestGate interface {
	Identify() fiber.Handler
	BotFilter() fiber.Handler
	RefererCheck() fiber.Handler
	BlocklistCheck() fiber.Handler
}

type adminGate interface {
	RequireAdmin() fiber.Handler
}

type HttpService struct {
	context.DefaultService

	contactSvc   *ContactService
	chatSvc      *ChatService
	blogSvc      *BlogService
	blocklistSvc *BlocklistService
	authSvc      *AdminAuthService
	rateLimitSvc *RateLimitService
	minioSvc     *MinIOService
	monitorSvc   *MonitoringService

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.contactSvc = svc.Service(CONTACT_SVC).(*ContactService)
	svc.chatSvc = svc.Service(CHAT_SVC).(*ChatService)
	svc.blogSvc = svc.Service(BLOG_SVC).(*BlogService)
	svc.blocklistSvc = svc.Service(BLOCKLIST_SVC).(*BlocklistService)
	svc.authSvc = svc.Service(ADMIN_AUTH_SVC).(*AdminAuthService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.minioSvc = svc.Service(MINIO_SVC).(*MinIOService)
	svc.monitorSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	gate := svc.Service(gatekeeperSvcID).(requestGate)
	admin := svc.Service(adminGateSvcID).(adminGate)

	app := fiber.New(fiber.Config{
		AppName:      "portfolio-backend",
		JSONEncoder:  shared.JSONMarshal,
		JSONDecoder:  shared.JSONUnmarshal,
		ErrorHandler: httpErrorHandler,
		BodyLimit:    10 << 20,
	})

	app.Use(recover.New())
	app.Use(cors.New(corsConfig()))
	app.Use(MonitoringMiddleware(svc.monitorSvc))
	app.Use(gate.Identify())

	contactHandler := handlers.NewContactHandler(svc.contactSvc)
	chatHandler := handlers.NewChatHandler(svc.chatSvc)
	blogHandler := handlers.NewBlogHandler(svc.blogSvc)
	authHandler := handlers.NewAuthHandler(svc.authSvc)
	adminHandler := handlers.NewAdminHandler(svc.contactSvc, svc.chatSvc, svc.blogSvc, svc.blocklistSvc, svc.minioSvc)

	app.Get("/ping", svc.ping)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	// Public surface. The gate chain runs in a fixed order: bot filter,
	// referer (chat only), blocklist, rate limiter, then the handler.
	v1.Post("/contact",
		gate.BotFilter(),
		gate.BlocklistCheck(),
		svc.rateLimitSvc.Limit(EndpointContact),
		contactHandler.Submit)

	v1.Post("/chat",
		gate.BotFilter(),
		gate.RefererCheck(),
		gate.BlocklistCheck(),
		svc.rateLimitSvc.ChatLimit(),
		chatHandler.Send)

	v1.Get("/posts",
		svc.rateLimitSvc.Limit(EndpointAPIGeneral),
		blogHandler.ListPublished)
	v1.Get("/posts/:slug",
		svc.rateLimitSvc.Limit(EndpointAPIGeneral),
		blogHandler.GetBySlug)

	// Admin surface
	v1.Post("/admin/login",
		gate.BlocklistCheck(),
		svc.rateLimitSvc.Limit(EndpointAdminLogin),
		authHandler.Login)

	adminGroup := v1.Group("/admin",
		gate.BlocklistCheck(),
		admin.RequireAdmin(),
		svc.rateLimitSvc.Limit(EndpointAPIGeneral))

	adminGroup.Post("/logout", authHandler.Logout)

	adminGroup.Get("/submissions", adminHandler.ListSubmissions)
	adminGroup.Get("/chats", adminHandler.ListChatLogs)

	adminGroup.Get("/blocklist", adminHandler.ListBlocklist)
	adminGroup.Post("/blocklist", adminHandler.Block)
	adminGroup.Delete("/blocklist", adminHandler.Unblock)

	adminGroup.Get("/posts", adminHandler.ListPosts)
	adminGroup.Post("/posts", adminHandler.CreatePost)
	adminGroup.Get("/posts/:id", adminHandler.GetPost)
	adminGroup.Put("/posts/:id", adminHandler.UpdatePost)
	adminGroup.Delete("/posts/:id", adminHandler.DeletePost)
	adminGroup.Post("/posts/:id/cover", adminHandler.UploadCover)

	adminGroup.Get("/ratelimits/stats", svc.rateLimitSvc.GetRateLimitStats())
	adminGroup.Put("/ratelimits/:endpointType", svc.rateLimitSvc.UpdateConfig())
	adminGroup.Delete("/ratelimits/:identifier/:endpointType", svc.rateLimitSvc.RemoveRateLimit())

	svc.server = app

	log.WithField("port", svc.port).Info("HTTP server starting")
	return app.Listen(fmt.Sprintf(":%d", svc.port))
}

// @Summary Health check
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "max-age=10")
	return shared.ResponseOK(c, "pong")
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// corsConfig only allows credentials when explicit origins are configured;
// fiber rejects the wildcard plus credentials combination.
func corsConfig() cors.Config {
	config := cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowOrigins = origins
		config.AllowCredentials = true
	}
	return config
}

// httpErrorHandler turns tagged service errors into the response envelope.
// Anything untagged is a bug and surfaces as a generic 500.
func httpErrorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		if m, ok := appErr.Data.(map[string]interface{}); ok {
			if retryAfter, ok := m["retry_after"].(int); ok {
				c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
			}
		}
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).Error("Unhandled error in HTTP handler")
	return shared.ResponseJSON(c, fiber.StatusInternalServerError, "Internal server error", nil)
}
