package route

import (
	"github.com/gofiber/fiber/v2"

	"transportku_backend/internals/constants"
	"transportku_backend/internals/features/staff/employees/controller"
	authMiddleware "transportku_backend/internals/middlewares/auth"
)

// data gaji: hanya admin / accountant
func EmployeeAdminRoutes(r fiber.Router, h *controller.EmployeeController) {
	g := r.Group("/employees", authMiddleware.OnlyRoles(constants.RoleErrorFinance("mengelola employee"), constants.FinanceRoles...))
	g.Get("/", h.List)
	g.Post("/", h.Create)
	g.Get("/:id", h.Get)
	g.Patch("/:id", h.Update)
	g.Delete("/:id", h.Delete)
}
