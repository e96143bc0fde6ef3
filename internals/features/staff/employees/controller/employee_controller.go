package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"transportku_backend/internals/features/staff/employees/dto"
	"transportku_backend/internals/features/staff/employees/model"
	driverModel "transportku_backend/internals/features/transport/drivers/model"
	helper "transportku_backend/internals/helpers"
)

type EmployeeController struct {
	DB *gorm.DB
}

func NewEmployeeController(db *gorm.DB) *EmployeeController { return &EmployeeController{DB: db} }

func (h *EmployeeController) validDriver(c *fiber.Ctx, e *model.Employee) bool {
	if e.EmployeeDriverID == nil {
		return true
	}
	var n int64
	h.DB.WithContext(c.UserContext()).Model(&driverModel.Driver{}).Where("driver_id = ?", *e.EmployeeDriverID).Count(&n)
	return n > 0
}

func (h *EmployeeController) Create(c *fiber.Ctx) error {
	var req dto.EmployeeRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	if errs := req.Missing(); errs != nil {
		return helper.JsonValidationError(c, errs)
	}
	e := &model.Employee{EmployeeActive: true}
	if errs := req.Apply(e); errs != nil {
		return helper.JsonValidationError(c, errs)
	}
	if !h.validDriver(c, e) {
		return helper.JsonValidationError(c, map[string][]string{"driver_id": {"driver not found"}})
	}
	if err := h.DB.WithContext(c.UserContext()).Create(e).Error; err != nil {
		return helper.JsonDBError(c, err, "employee")
	}
	return helper.JsonCreated(c, "employee created", e)
}

// GET /employees?role=DRIVER&active=true&q=
func (h *EmployeeController) List(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 20, 200)
	q := h.DB.WithContext(c.UserContext()).Model(&model.Employee{})
	if role := strings.ToUpper(strings.TrimSpace(c.Query("role"))); role != "" {
		q = q.Where("employee_role = ?", role)
	}
	if raw := c.Query("active"); raw != "" {
		q = q.Where("employee_active = ?", raw == "true" || raw == "1")
	}
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		q = q.Where("LOWER(employee_name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonDBError(c, err, "employee")
	}
	var rows []model.Employee
	if err := q.Order("employee_name ASC").Limit(pg.Limit).Offset(pg.Offset).Find(&rows).Error; err != nil {
		return helper.JsonDBError(c, err, "employee")
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromOffset(total, pg.Offset, pg.Limit), len(rows))
}

func (h *EmployeeController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var e model.Employee
	if err := h.DB.WithContext(c.UserContext()).First(&e, "employee_id = ?", id).Error; err != nil {
		return helper.JsonDBError(c, err, "employee")
	}
	return helper.JsonOK(c, "ok", e)
}

func (h *EmployeeController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.EmployeeRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	var e model.Employee
	if err := h.DB.WithContext(c.UserContext()).First(&e, "employee_id = ?", id).Error; err != nil {
		return helper.JsonDBError(c, err, "employee")
	}
	if errs := req.Apply(&e); errs != nil {
		return helper.JsonValidationError(c, errs)
	}
	if !h.validDriver(c, &e) {
		return helper.JsonValidationError(c, map[string][]string{"driver_id": {"driver not found"}})
	}
	if err := h.DB.WithContext(c.UserContext()).Save(&e).Error; err != nil {
		return helper.JsonDBError(c, err, "employee")
	}
	return helper.JsonUpdated(c, "employee updated", e)
}

// soft delete; charge gaji yang sudah ada tetap tersimpan
func (h *EmployeeController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	res := h.DB.WithContext(c.UserContext()).Delete(&model.Employee{}, "employee_id = ?", id)
	if res.Error != nil {
		return helper.JsonDBError(c, res.Error, "employee")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "employee not found")
	}
	return helper.JsonDeleted(c, "employee deleted", fiber.Map{"employee_id": id})
}
