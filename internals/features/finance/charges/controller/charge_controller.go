package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"transportku_backend/internals/features/finance/charges/dto"
	"transportku_backend/internals/features/finance/charges/model"
	"transportku_backend/internals/features/finance/charges/service"
	payeeService "transportku_backend/internals/features/finance/payees/service"
	helper "transportku_backend/internals/helpers"
	"transportku_backend/internals/helpers/billperiod"
	"transportku_backend/internals/helpers/dbtime"
)

// =======================================================
// BOOTSTRAP
// =======================================================

type ChargeController struct {
	Charges  *service.ChargeService
	Payments *service.PaymentService
	Contacts ContactResolver
	Defaults func(billperiod.Period) dto.ChargeDefaults
	Log      *zap.Logger
}

func NewChargeController(charges *service.ChargeService, contacts ContactResolver, defaults func(billperiod.Period) dto.ChargeDefaults, log *zap.Logger) *ChargeController {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChargeController{
		Charges:  charges,
		Payments: service.NewPaymentService(charges),
		Contacts: contacts,
		Defaults: defaults,
		Log:      log,
	}
}

var defaultLateFeeRate = decimal.RequireFromString("0.10")

// =======================================================
// HELPERS
// =======================================================

// serviceError memetakan error domain → status HTTP.
func (h *ChargeController) serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrChargeNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidPeriod),
		errors.Is(err, service.ErrConcurrentModification),
		errors.Is(err, service.ErrChargeLocked):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidDates),
		errors.Is(err, service.ErrFutureDated),
		errors.Is(err, service.ErrOverpayment),
		errors.Is(err, service.ErrInvalidPayment),
		errors.Is(err, service.ErrInvalidCharge):
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}
	h.Log.Error("charge request failed", zap.String("path", c.Path()), zap.Error(err))
	return helper.JsonError(c, fiber.StatusInternalServerError, "internal error")
}

func (h *ChargeController) defaults(p billperiod.Period) dto.ChargeDefaults {
	if h.Defaults != nil {
		return h.Defaults(p)
	}
	return dto.ChargeDefaults{DueDate: p.Day(10, time.UTC), HardDeadline: p.Next().Day(10, time.UTC), LateFeeRate: defaultLateFeeRate}
}

// =======================================================
// HANDLERS
// =======================================================

// POST /charges
func (h *ChargeController) Create(c *fiber.Ctx) error {
	var req dto.CreateChargeRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	in, fieldErrs := req.ToInput(h.defaults)
	if fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}
	if h.Contacts != nil {
		kind := in.Kind
		if kind == "" {
			kind = model.ChargeKindTuition
		}
		ref := model.PayeeRef{Type: model.PayeeTypeFor(kind), ID: in.PayeeID}
		if _, err := h.Contacts.Resolve(c.UserContext(), ref); err != nil {
			if errors.Is(err, payeeService.ErrPayeeNotFound) {
				return helper.JsonValidationError(c, map[string][]string{"payee_id": {"no " + string(ref.Type) + " with this id"}})
			}
			return h.serviceError(c, err)
		}
	}
	ch, err := h.Charges.Create(c.UserContext(), in)
	if err != nil {
		return h.serviceError(c, err)
	}
	return helper.JsonCreated(c, "charge created", dto.FromCharge(ch, dbtime.Today(c)))
}

// GET /charges
var chargeSortColumns = map[string]string{
	"period":   "charge_reference_period",
	"due_date": "charge_due_date",
	"amount":   "charge_base_amount",
	"status":   "charge_status",
	"created":  "charge_created_at",
}

func (h *ChargeController) List(c *fiber.Ctx) error {
	var q dto.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	f, err := q.ToFilter()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	pg := helper.ResolvePaging(c, 20, 200)
	f.Offset, f.Limit = pg.Offset, pg.Limit
	if f.OrderBy, err = helper.ResolveSort(c, chargeSortColumns, "period", "desc"); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	rows, total, err := h.Charges.List(c.UserContext(), f)
	if err != nil {
		return h.serviceError(c, err)
	}
	data := dto.FromCharges(rows, dbtime.Today(c))
	return helper.JsonList(c, "ok", data, helper.BuildPaginationFromOffset(total, pg.Offset, pg.Limit), len(data))
}

// GET /charges/:id
func (h *ChargeController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	ch, err := h.Charges.Get(c.UserContext(), id)
	if err != nil {
		return h.serviceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromCharge(ch, dbtime.Today(c)))
}

// GET /charges/:id/evaluate?on=YYYY-MM-DD → read model, tanpa menulis
func (h *ChargeController) Evaluate(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	on := dbtime.Today(c)
	if raw := c.Query("on"); raw != "" {
		on, err = dbtime.ParseDate(raw)
		if err != nil {
			return helper.JsonValidationError(c, map[string][]string{"on": {"must be YYYY-MM-DD"}})
		}
	}
	ev, err := h.Charges.Evaluate(c.UserContext(), id, &on)
	if err != nil {
		return h.serviceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromEvaluation(ev))
}

// POST /charges/:id/recompute
func (h *ChargeController) Recompute(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	ch, res, err := h.Charges.Recompute(c.UserContext(), id)
	if err != nil {
		return h.serviceError(c, err)
	}
	return helper.JsonUpdated(c, "charge recomputed", fiber.Map{
		"charge":          dto.FromCharge(ch, dbtime.Today(c)),
		"previous_status": res.Previous,
		"changed":         res.Changed,
		"intents":         len(res.Intents),
	})
}

// DELETE /charges/:id (hanya charge tanpa payment)
func (h *ChargeController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.Charges.Delete(c.UserContext(), id); err != nil {
		return h.serviceError(c, err)
	}
	return helper.JsonDeleted(c, "charge deleted", fiber.Map{"charge_id": id})
}

// POST /charges/:id/payments
func (h *ChargeController) RecordPayment(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.RecordPaymentRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	res, err := h.Payments.Record(c.UserContext(), req.ToInput(id))
	if err != nil {
		return h.serviceError(c, err)
	}
	body := dto.RecordPaymentResponse{
		Payment:   dto.FromPayment(*res.Payment),
		Charge:    dto.FromCharge(res.Charge, dbtime.Today(c)),
		Previous:  string(res.Result.Previous),
		Duplicate: res.Duplicate,
	}
	if res.Duplicate {
		return helper.JsonOK(c, "payment already recorded", body)
	}
	return helper.JsonCreated(c, "payment recorded", body)
}

// GET /charges/:id/payments
func (h *ChargeController) ListPayments(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.Charges.Get(c.UserContext(), id); err != nil {
		return h.serviceError(c, err)
	}
	rows, err := h.Payments.ListByCharge(c.UserContext(), id)
	if err != nil {
		return h.serviceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromPayments(rows))
}

func timestamp(t time.Time) string { return t.Format("20060102-150405") }
