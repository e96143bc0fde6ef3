package controller

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"transportku_backend/internals/features/finance/billing/dto"
	"transportku_backend/internals/features/finance/billing/service"
	helper "transportku_backend/internals/helpers"
)

// job billing tidak ikut timeout request (5s); batasnya sendiri
const jobTimeout = 2 * time.Minute

type BillingController struct {
	Generator *service.Generator
	Scheduler *service.Scheduler
	Log       *zap.Logger
}

func NewBillingController(gen *service.Generator, sched *service.Scheduler, log *zap.Logger) *BillingController {
	if log == nil {
		log = zap.NewNop()
	}
	return &BillingController{Generator: gen, Scheduler: sched, Log: log}
}

// POST /billing/generate
func (h *BillingController) Generate(c *fiber.Ctx) error {
	var req dto.GenerateRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	in, fieldErrs := req.ToInput()
	if fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	res, err := h.Generator.Run(ctx, in)
	if err != nil {
		h.Log.Error("generate failed", zap.String("period", req.Period), zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "billing generated", res)
}

// POST /billing/reconcile → satu pass sekarang; 409 kalau pass lain sedang jalan
func (h *BillingController) Reconcile(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	res, ran, err := h.Scheduler.RunNow(ctx)
	if !ran {
		return helper.JsonError(c, fiber.StatusConflict, "reconciliation already running")
	}
	if err != nil {
		h.Log.Error("manual reconcile failed", zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "reconciliation finished", res)
}
