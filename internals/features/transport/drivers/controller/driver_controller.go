package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"transportku_backend/internals/features/transport/drivers/dto"
	"transportku_backend/internals/features/transport/drivers/model"
	helper "transportku_backend/internals/helpers"
	"transportku_backend/internals/helpers/dbtime"
)

type DriverController struct {
	DB *gorm.DB
}

func NewDriverController(db *gorm.DB) *DriverController { return &DriverController{DB: db} }

func (h *DriverController) save(c *fiber.Ctx, d *model.Driver, create bool) error {
	db := h.DB.WithContext(c.UserContext())
	if create {
		return db.Create(d).Error
	}
	return db.Save(d).Error
}

// fail: error hook model → 422, sisanya lewat JsonDBError.
func fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, model.ErrInvalidPhone) {
		return helper.JsonValidationError(c, map[string][]string{"phone": {err.Error()}})
	}
	return helper.JsonDBError(c, err, "driver")
}

func (h *DriverController) Create(c *fiber.Ctx) error {
	var req dto.DriverRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	if errs := req.Missing(); errs != nil {
		return helper.JsonValidationError(c, errs)
	}
	d := &model.Driver{DriverActive: true}
	req.Apply(d)
	if err := h.save(c, d, true); err != nil {
		return fail(c, err)
	}
	return helper.JsonCreated(c, "driver created", dto.FromModel(*d, dbtime.Today(c)))
}

func (h *DriverController) List(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 20, 200)
	q := h.DB.WithContext(c.UserContext()).Model(&model.Driver{})
	if raw := c.Query("active"); raw != "" {
		q = q.Where("driver_active = ?", raw == "true" || raw == "1")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonDBError(c, err, "driver")
	}
	var rows []model.Driver
	if err := q.Order("driver_name ASC").Limit(pg.Limit).Offset(pg.Offset).Find(&rows).Error; err != nil {
		return helper.JsonDBError(c, err, "driver")
	}
	today := dbtime.Today(c)
	data := make([]dto.DriverResponse, 0, len(rows))
	for _, d := range rows {
		data = append(data, dto.FromModel(d, today))
	}
	return helper.JsonList(c, "ok", data, helper.BuildPaginationFromOffset(total, pg.Offset, pg.Limit), len(data))
}

func (h *DriverController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var d model.Driver
	if err := h.DB.WithContext(c.UserContext()).First(&d, "driver_id = ?", id).Error; err != nil {
		return helper.JsonDBError(c, err, "driver")
	}
	return helper.JsonOK(c, "ok", dto.FromModel(d, dbtime.Today(c)))
}

func (h *DriverController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.DriverRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	var d model.Driver
	if err := h.DB.WithContext(c.UserContext()).First(&d, "driver_id = ?", id).Error; err != nil {
		return helper.JsonDBError(c, err, "driver")
	}
	req.Apply(&d)
	if err := h.save(c, &d, false); err != nil {
		return fail(c, err)
	}
	return helper.JsonUpdated(c, "driver updated", dto.FromModel(d, dbtime.Today(c)))
}

func (h *DriverController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	res := h.DB.WithContext(c.UserContext()).Delete(&model.Driver{}, "driver_id = ?", id)
	if res.Error != nil {
		return helper.JsonDBError(c, res.Error, "driver")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "driver not found")
	}
	return helper.JsonDeleted(c, "driver deleted", fiber.Map{"driver_id": id})
}
