package routes

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"transportku_backend/internals/bootstrap"
	database "transportku_backend/internals/databases"
)

func BaseRoutes(app *fiber.App, c *bootstrap.Container) {
	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.SendString("Transportku billing API 🚐")
	})

	app.Get("/health", func(ctx *fiber.Ctx) error {
		pingCtx, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
		defer cancel()

		dbStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK
		if err := database.Ping(pingCtx, c.DB); err != nil {
			dbStatus = "Database connection error"
			serverStatus = "DOWN"
			httpStatus = fiber.StatusServiceUnavailable
		}

		pending, _ := c.Worker.Pending(pingCtx)
		return ctx.Status(httpStatus).JSON(fiber.Map{
			"status":          serverStatus,
			"database":        dbStatus,
			"pending_intents": pending,
			"billing_zone":    c.Billing.Location.String(),
			"server_time":     time.Now().Format(time.RFC3339),
			"uptime_seconds":  int(time.Since(startTime).Seconds()),
			"environment":     os.Getenv("RAILWAY_ENVIRONMENT"),
		})
	})
}
