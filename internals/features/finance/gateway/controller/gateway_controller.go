package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	chargeService "transportku_backend/internals/features/finance/charges/service"
	gatewayModel "transportku_backend/internals/features/finance/gateway/model"
	"transportku_backend/internals/features/finance/gateway/service"
	payeeService "transportku_backend/internals/features/finance/payees/service"
	helper "transportku_backend/internals/helpers"
)

type GatewayController struct {
	Midtrans *service.Midtrans
	Log      *zap.Logger
}

func NewGatewayController(m *service.Midtrans, log *zap.Logger) *GatewayController {
	if log == nil {
		log = zap.NewNop()
	}
	return &GatewayController{Midtrans: m, Log: log}
}

// POST /charges/:id/checkout (admin) → snap token untuk saldo tuition
func (h *GatewayController) Checkout(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	res, err := h.Midtrans.Checkout(c.UserContext(), id)
	switch {
	case err == nil:
		return helper.JsonCreated(c, "checkout created", res)
	case errors.Is(err, chargeService.ErrChargeNotFound), errors.Is(err, payeeService.ErrPayeeNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotPayable):
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrNothingToPay):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrGateway):
		h.Log.Warn("checkout gateway error", zap.String("charge_id", id.String()), zap.Error(err))
		return helper.JsonError(c, fiber.StatusBadGateway, err.Error())
	}
	h.Log.Error("checkout failed", zap.String("charge_id", id.String()), zap.Error(err))
	return helper.JsonError(c, fiber.StatusInternalServerError, "internal error")
}

// POST /api/public/payments/midtrans/notification (webhook Midtrans, tanpa JWT).
// 2xx = selesai; 5xx = Midtrans akan mengulang.
func (h *GatewayController) Notification(c *fiber.Ctx) error {
	var n service.Notification
	if err := c.BodyParser(&n); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid notification body")
	}
	res, err := h.Midtrans.HandleNotification(c.UserContext(), n)
	if errors.Is(err, service.ErrInvalidSignature) {
		h.Log.Warn("notification signature mismatch", zap.String("order_id", n.OrderID), zap.String("ip", c.IP()))
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "notification not processed")
	}
	return helper.JsonOK(c, "ok", res)
}

// GET /gateway/events?order_id=&status=
func (h *GatewayController) ListEvents(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 50, 500)
	rows, total, err := service.ListEvents(c.UserContext(), h.Midtrans.DB, service.EventFilter{
		OrderID: strings.TrimSpace(c.Query("order_id")),
		Status:  gatewayModel.GatewayEventStatus(strings.ToLower(strings.TrimSpace(c.Query("status")))),
		Offset:  pg.Offset,
		Limit:   pg.Limit,
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list gateway events")
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromOffset(total, pg.Offset, pg.Limit), len(rows))
}
