package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"transportku_backend/internals/configs"
	"transportku_backend/internals/middlewares/logger"
)

// SetupMiddlewares: cors → recovery → access log → rate limit → billing clock.
func SetupMiddlewares(app *fiber.App, log *zap.Logger, billing configs.BillingConfig) {
	app.Use(CorsMiddleware())
	app.Use(RecoveryMiddleware(log))

	if configs.GetEnv("LOG_FORMAT") == "json" {
		app.Use(logger.ZapRequestLogger(log.Named("http")))
	} else {
		app.Use(logger.LoggerMiddleware(billing.Location.String()))
	}

	app.Use(GlobalRateLimiter())
	app.Use(BillingClock(billing.Location, nil))
}
