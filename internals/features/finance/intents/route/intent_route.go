package route

import (
	"github.com/gofiber/fiber/v2"

	"transportku_backend/internals/constants"
	"transportku_backend/internals/features/finance/intents/controller"
	authMiddleware "transportku_backend/internals/middlewares/auth"
)

func IntentAdminRoutes(r fiber.Router, h *controller.IntentController) {
	g := r.Group("/intents", authMiddleware.OnlyRoles(constants.RoleErrorFinance("outbox"), constants.FinanceRoles...))
	g.Get("/", h.List)
	g.Post("/dispatch", h.Dispatch)
	g.Post("/:id/retry", h.Retry)
}
