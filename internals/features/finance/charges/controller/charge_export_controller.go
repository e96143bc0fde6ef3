package controller

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"transportku_backend/internals/features/finance/charges/dto"
	"transportku_backend/internals/features/finance/charges/model"
	payeeService "transportku_backend/internals/features/finance/payees/service"
	helper "transportku_backend/internals/helpers"
	"transportku_backend/internals/helpers/dbtime"
)

type ContactResolver interface {
	Resolve(ctx context.Context, ref model.PayeeRef) (payeeService.Contact, error)
}

const (
	exportSheet   = "Charges"
	exportMaxRows = 10_000
)

var exportHeaders = []string{
	"Charge ID", "Kind", "Payee", "Recipient", "Period", "Due date", "Hard deadline",
	"Base amount", "Status", "Days late", "Amount due", "Paid", "Outstanding",
}

// GET /charges/export → xlsx, filter sama dengan List
func (h *ChargeController) Export(c *fiber.Ctx) error {
	var q dto.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	f, err := q.ToFilter()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	f.Limit = exportMaxRows

	rows, _, err := h.Charges.List(c.UserContext(), f)
	if err != nil {
		return h.serviceError(c, err)
	}

	book, err := h.buildWorkbook(c.UserContext(), dto.FromCharges(rows, dbtime.Today(c)))
	if err != nil {
		h.Log.Error("export build failed", zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to build export")
	}
	defer book.Close()

	buf, err := book.WriteToBuffer()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to write export")
	}
	fileName := fmt.Sprintf("charges-%s.xlsx", timestamp(dbtime.Now(c)))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+fileName)
	return c.Send(buf.Bytes())
}

func (h *ChargeController) buildWorkbook(ctx context.Context, data []dto.ChargeResponse) (*excelize.File, error) {
	book := excelize.NewFile()
	if err := book.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		book.SetCellValue(exportSheet, cell, header)
	}

	// nama payee dicache per ref; resolver gagal → kolom kosong
	names := map[string]payeeService.Contact{}
	for i, ch := range data {
		row := i + 2
		contact, ok := names[ch.Payee.String()]
		if !ok && h.Contacts != nil {
			if ct, err := h.Contacts.Resolve(ctx, ch.Payee); err == nil {
				contact = ct
			}
			names[ch.Payee.String()] = contact
		}
		values := []any{
			ch.ChargeID.String(), ch.Kind, contact.PayeeName, contact.Name, ch.Period, ch.DueDate, ch.HardDeadline,
			ch.BaseAmount, ch.Status, ch.DaysLate, ch.AdjustedAmountDue, ch.TotalPaid, ch.Outstanding,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			book.SetCellValue(exportSheet, cell, v)
		}
	}
	return book, nil
}
