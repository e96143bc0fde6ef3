package controller

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	intentModel "transportku_backend/internals/features/finance/intents/model"
	intentService "transportku_backend/internals/features/finance/intents/service"
	helper "transportku_backend/internals/helpers"
)

type Drainer interface {
	Drain(ctx context.Context) (intentService.DrainStats, error)
	Pending(ctx context.Context) (int64, error)
}

type IntentController struct {
	DB     *gorm.DB
	Worker Drainer
}

func NewIntentController(db *gorm.DB, worker Drainer) *IntentController {
	return &IntentController{DB: db, Worker: worker}
}

// GET /intents?status=&type=&charge_id=
func (h *IntentController) List(c *fiber.Ctx) error {
	f := intentService.IntentFilter{
		Status: intentModel.IntentStatus(strings.ToLower(strings.TrimSpace(c.Query("status")))),
		Type:   strings.TrimSpace(c.Query("type")),
	}
	if raw := strings.TrimSpace(c.Query("charge_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "charge_id is not a valid UUID")
		}
		f.ChargeID = &id
	}
	pg := helper.ResolvePaging(c, 50, 500)
	f.Offset, f.Limit = pg.Offset, pg.Limit

	rows, total, err := intentService.ListIntents(c.UserContext(), h.DB, f)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list intents")
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromOffset(total, pg.Offset, pg.Limit), len(rows))
}

// POST /intents/dispatch → drain outbox sekarang
func (h *IntentController) Dispatch(c *fiber.Ctx) error {
	st, err := h.Worker.Drain(c.UserContext())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	pending, _ := h.Worker.Pending(c.UserContext())
	return helper.JsonOK(c, "intents dispatched", fiber.Map{"stats": st, "pending": pending})
}

// POST /intents/:id/retry (hanya intent failed)
func (h *IntentController) Retry(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	ok, err := intentService.Retry(c.UserContext(), h.DB, id)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to requeue intent")
	}
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "failed intent not found")
	}
	return helper.JsonUpdated(c, "intent requeued", fiber.Map{"billing_intent_id": id})
}
