package route

import (
	"github.com/gofiber/fiber/v2"

	"transportku_backend/internals/constants"
	"transportku_backend/internals/features/finance/billing/controller"
	"transportku_backend/internals/middlewares"
	authMiddleware "transportku_backend/internals/middlewares/auth"
)

func BillingAdminRoutes(r fiber.Router, h *controller.BillingController) {
	g := r.Group("/billing",
		authMiddleware.OnlyRoles(constants.RoleErrorFinance("billing"), constants.FinanceRoles...),
		middlewares.BillingJobRateLimiter(),
	)
	g.Post("/generate", h.Generate)
	g.Post("/reconcile", h.Reconcile)
}
