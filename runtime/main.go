package main

import (
	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/ColdByDefault/Portfolio-sub001/middleware"
	"github.com/ColdByDefault/Portfolio-sub001/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	ctx, err := context.NewCtx(
		&services.PostgresService{},
		&services.RedisService{},
		&services.MonitoringService{},
		&services.GeolocationService{},
		&services.EmailService{},

		&services.SessionService{},
		&services.JWTService{},
		&services.BlocklistService{},
		&services.RateLimitService{},
		&services.SpamService{},
		&services.SubmissionTrackerService{},

		&services.LLMService{},
		&services.MinIOService{},

		&services.ChatService{},
		&services.ContactService{},
		&services.BlogService{},
		&services.AdminAuthService{},

		&middleware.GatekeeperMiddleware{},
		&middleware.AdminMiddleware{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build service context")
		return
	}

	if err = ctx.Run(); err != nil {
		log.Fatal().Err(err).Msg("Service context exited")
		return
	}
}
