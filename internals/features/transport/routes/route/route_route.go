package route

import (
	"github.com/gofiber/fiber/v2"

	"transportku_backend/internals/features/transport/routes/controller"
)

func RouteAdminRoutes(r fiber.Router, h *controller.RouteController) {
	g := r.Group("/routes")
	g.Get("/", h.List)
	g.Post("/", h.Create)
	g.Get("/:id", h.Get)
	g.Patch("/:id", h.Update)
	g.Delete("/:id", h.Delete)
}
