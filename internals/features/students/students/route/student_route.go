package route

import (
	"github.com/gofiber/fiber/v2"

	"transportku_backend/internals/features/students/students/controller"
)

func StudentAdminRoutes(r fiber.Router, h *controller.StudentController) {
	g := r.Group("/students")
	g.Get("/", h.List)
	g.Post("/", h.Create)
	g.Get("/:id", h.Get)
	g.Patch("/:id", h.Update)
	g.Delete("/:id", h.Delete)
}
