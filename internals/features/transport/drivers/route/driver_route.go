package route

import (
	"github.com/gofiber/fiber/v2"

	"transportku_backend/internals/features/transport/drivers/controller"
)

func DriverAdminRoutes(r fiber.Router, h *controller.DriverController) {
	g := r.Group("/drivers")
	g.Get("/", h.List)
	g.Post("/", h.Create)
	g.Get("/:id", h.Get)
	g.Patch("/:id", h.Update)
	g.Delete("/:id", h.Delete)
}
