package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"transportku_backend/internals/features/finance/receipts/dto"
	"transportku_backend/internals/features/finance/receipts/service"
	helper "transportku_backend/internals/helpers"
	"transportku_backend/internals/helpers/dbtime"
)

type ReceiptController struct {
	Receipts *service.Service
}

func NewReceiptController(s *service.Service) *ReceiptController {
	return &ReceiptController{Receipts: s}
}

// parseRange: ?from=YYYY-MM-DD&to=YYYY-MM-DD (to inklusif), dihitung di zona billing.
func parseRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	loc := dbtime.GetBillingLocation(c)
	if raw := c.Query("from"); raw != "" {
		d, perr := dbtime.ParseDate(raw)
		if perr != nil {
			return nil, nil, perr
		}
		t := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		d, perr := dbtime.ParseDate(raw)
		if perr != nil {
			return nil, nil, perr
		}
		t := time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, 0, loc)
		to = &t
	}
	return from, to, nil
}

// GET /receipts
func (h *ReceiptController) List(c *fiber.Ctx) error {
	from, to, err := parseRange(c)
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{"from/to": {"must be YYYY-MM-DD"}})
	}
	pg := helper.ResolvePaging(c, 20, 200)
	rows, total, err := h.Receipts.List(c.UserContext(), service.ListFilter{From: from, To: to, Offset: pg.Offset, Limit: pg.Limit})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list receipts")
	}
	data := dto.FromModels(rows)
	return helper.JsonList(c, "ok", data, helper.BuildPaginationFromOffset(total, pg.Offset, pg.Limit), len(data))
}

// GET /charges/:id/receipt
func (h *ReceiptController) ByCharge(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	r, err := h.Receipts.ByCharge(c.UserContext(), id)
	if errors.Is(err, service.ErrReceiptNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "receipt not issued yet")
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load receipt")
	}
	if c.Query("redirect") == "1" {
		return c.Redirect(r.ReceiptURL, fiber.StatusFound)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(*r))
}
