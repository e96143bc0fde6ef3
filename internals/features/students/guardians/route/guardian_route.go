package route

import (
	"github.com/gofiber/fiber/v2"

	"transportku_backend/internals/features/students/guardians/controller"
)

func GuardianAdminRoutes(r fiber.Router, h *controller.GuardianController) {
	g := r.Group("/guardians")
	g.Get("/", h.List)
	g.Post("/", h.Create)
	g.Get("/:id", h.Get)
	g.Patch("/:id", h.Update)
	g.Delete("/:id", h.Delete)
}
