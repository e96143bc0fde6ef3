package route

import (
	"github.com/gofiber/fiber/v2"

	"transportku_backend/internals/constants"
	"transportku_backend/internals/features/finance/gateway/controller"
	"transportku_backend/internals/middlewares"
	authMiddleware "transportku_backend/internals/middlewares/auth"
)

func GatewayPublicRoutes(r fiber.Router, h *controller.GatewayController) {
	r.Post("/payments/midtrans/notification", middlewares.WebhookRateLimiter(), h.Notification)
}

func GatewayAdminRoutes(r fiber.Router, h *controller.GatewayController) {
	finance := authMiddleware.OnlyRoles(constants.RoleErrorFinance("pembayaran online"), constants.FinanceRoles...)
	r.Post("/charges/:id/checkout", finance, h.Checkout)
	r.Get("/gateway/events", finance, h.ListEvents)
}
