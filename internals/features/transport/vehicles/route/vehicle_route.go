package route

import (
	"github.com/gofiber/fiber/v2"

	"transportku_backend/internals/features/transport/vehicles/controller"
)

func VehicleAdminRoutes(r fiber.Router, h *controller.VehicleController) {
	g := r.Group("/vehicles")
	g.Get("/", h.List)
	g.Post("/", h.Create)
	g.Get("/:id", h.Get)
	g.Patch("/:id", h.Update)
	g.Delete("/:id", h.Delete)
}
