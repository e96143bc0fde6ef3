package route

import (
	"github.com/gofiber/fiber/v2"

	"transportku_backend/internals/constants"
	"transportku_backend/internals/features/finance/charges/controller"
	authMiddleware "transportku_backend/internals/middlewares/auth"
)

// ChargeAdminRoutes: baca untuk semua staff, tulis hanya admin/accountant.
func ChargeAdminRoutes(r fiber.Router, h *controller.ChargeController) {
	finance := authMiddleware.OnlyRoles(constants.RoleErrorFinance("tagihan"), constants.FinanceRoles...)

	g := r.Group("/charges")
	g.Get("/", h.List)
	g.Get("/export", h.Export)
	g.Get("/:id", h.Get)
	g.Get("/:id/evaluate", h.Evaluate)
	g.Get("/:id/payments", h.ListPayments)

	g.Post("/", finance, h.Create)
	g.Post("/:id/recompute", finance, h.Recompute)
	g.Post("/:id/payments", finance, h.RecordPayment)
	g.Delete("/:id", finance, h.Delete)
}
