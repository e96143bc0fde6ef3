package route

import (
	"github.com/gofiber/fiber/v2"

	"transportku_backend/internals/features/finance/receipts/controller"
)

func ReceiptAdminRoutes(r fiber.Router, h *controller.ReceiptController) {
	r.Get("/receipts", h.List)
	r.Get("/charges/:id/receipt", h.ByCharge)
}
