package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	alertModel "transportku_backend/internals/features/finance/alerts/model"
	"transportku_backend/internals/features/finance/alerts/service"
	helper "transportku_backend/internals/helpers"
	"transportku_backend/internals/helpers/dbtime"
)

type AlertController struct {
	DB *gorm.DB
}

func NewAlertController(db *gorm.DB) *AlertController { return &AlertController{DB: db} }

// GET /alerts/logs?recipient=&kind=&status=&from=&to=
func (h *AlertController) ListLogs(c *fiber.Ctx) error {
	f := service.LogFilter{
		RecipientKey: strings.TrimSpace(c.Query("recipient")),
		Kind:         alertModel.AlertKind(strings.ToUpper(strings.TrimSpace(c.Query("kind")))),
		Status:       alertModel.AlertStatus(strings.ToUpper(strings.TrimSpace(c.Query("status")))),
	}
	loc := dbtime.GetBillingLocation(c)
	for key, dst := range map[string]**time.Time{"from": &f.From, "to": &f.To} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		d, err := dbtime.ParseDate(raw)
		if err != nil {
			return helper.JsonValidationError(c, map[string][]string{key: {"must be YYYY-MM-DD"}})
		}
		if key == "to" {
			d = d.AddDate(0, 0, 1)
		}
		t := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
		*dst = &t
	}
	pg := helper.ResolvePaging(c, 50, 500)
	f.Offset, f.Limit = pg.Offset, pg.Limit

	rows, total, err := service.ListLogs(c.UserContext(), h.DB, f)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list alert logs")
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromOffset(total, pg.Offset, pg.Limit), len(rows))
}
