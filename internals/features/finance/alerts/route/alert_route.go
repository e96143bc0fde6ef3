package route

import (
	"github.com/gofiber/fiber/v2"

	"transportku_backend/internals/features/finance/alerts/controller"
)

func AlertAdminRoutes(r fiber.Router, h *controller.AlertController) {
	r.Get("/alerts/logs", h.ListLogs)
}
