package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	studentModel "transportku_backend/internals/features/students/students/model"
	driverModel "transportku_backend/internals/features/transport/drivers/model"
	"transportku_backend/internals/features/transport/vehicles/dto"
	"transportku_backend/internals/features/transport/vehicles/model"
	helper "transportku_backend/internals/helpers"
)

type VehicleController struct {
	DB *gorm.DB
}

func NewVehicleController(db *gorm.DB) *VehicleController { return &VehicleController{DB: db} }

func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidPlate):
		return helper.JsonValidationError(c, map[string][]string{"plate": {err.Error()}})
	case errors.Is(err, model.ErrInvalidCapacity):
		return helper.JsonValidationError(c, map[string][]string{"capacity": {err.Error()}})
	}
	return helper.JsonDBError(c, err, "vehicle")
}

func (h *VehicleController) driverExists(c *fiber.Ctx, id *uuid.UUID) bool {
	if id == nil {
		return true
	}
	var n int64
	h.DB.WithContext(c.UserContext()).Model(&driverModel.Driver{}).Where("driver_id = ?", *id).Count(&n)
	return n > 0
}

// occupied = student aktif di rute yang memakai kendaraan ini
func (h *VehicleController) occupied(c *fiber.Ctx, id uuid.UUID) int {
	var n int64
	h.DB.WithContext(c.UserContext()).Model(&studentModel.Student{}).
		Where("student_active = ? AND student_route_id IN (?)", true,
			h.DB.Table("routes").Select("route_id").Where("route_vehicle_id = ? AND route_deleted_at IS NULL", id)).
		Count(&n)
	return int(n)
}

func (h *VehicleController) Create(c *fiber.Ctx) error {
	var req dto.VehicleRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	if errs := req.Missing(); errs != nil {
		return helper.JsonValidationError(c, errs)
	}
	v := &model.Vehicle{VehicleBrand: "unknown", VehicleModel: "unknown", VehicleActive: true}
	req.Apply(v)
	if !h.driverExists(c, v.VehicleDriverID) {
		return helper.JsonValidationError(c, map[string][]string{"driver_id": {"driver not found"}})
	}
	if err := h.DB.WithContext(c.UserContext()).Create(v).Error; err != nil {
		return fail(c, err)
	}
	return helper.JsonCreated(c, "vehicle created", dto.FromModel(*v, 0))
}

func (h *VehicleController) List(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 20, 200)
	q := h.DB.WithContext(c.UserContext()).Model(&model.Vehicle{})
	if raw := c.Query("active"); raw != "" {
		q = q.Where("vehicle_active = ?", raw == "true" || raw == "1")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonDBError(c, err, "vehicle")
	}
	var rows []model.Vehicle
	if err := q.Order("vehicle_plate ASC").Limit(pg.Limit).Offset(pg.Offset).Find(&rows).Error; err != nil {
		return helper.JsonDBError(c, err, "vehicle")
	}
	data := make([]dto.VehicleResponse, 0, len(rows))
	for _, v := range rows {
		data = append(data, dto.FromModel(v, 0))
	}
	return helper.JsonList(c, "ok", data, helper.BuildPaginationFromOffset(total, pg.Offset, pg.Limit), len(data))
}

// GET /vehicles/:id → termasuk kursi terisi
func (h *VehicleController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var v model.Vehicle
	if err := h.DB.WithContext(c.UserContext()).First(&v, "vehicle_id = ?", id).Error; err != nil {
		return helper.JsonDBError(c, err, "vehicle")
	}
	return helper.JsonOK(c, "ok", dto.FromModel(v, h.occupied(c, id)))
}

func (h *VehicleController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.VehicleRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	var v model.Vehicle
	if err := h.DB.WithContext(c.UserContext()).First(&v, "vehicle_id = ?", id).Error; err != nil {
		return helper.JsonDBError(c, err, "vehicle")
	}
	req.Apply(&v)
	if !h.driverExists(c, v.VehicleDriverID) {
		return helper.JsonValidationError(c, map[string][]string{"driver_id": {"driver not found"}})
	}
	if err := h.DB.WithContext(c.UserContext()).Save(&v).Error; err != nil {
		return fail(c, err)
	}
	return helper.JsonUpdated(c, "vehicle updated", dto.FromModel(v, 0))
}

func (h *VehicleController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	res := h.DB.WithContext(c.UserContext()).Delete(&model.Vehicle{}, "vehicle_id = ?", id)
	if res.Error != nil {
		return helper.JsonDBError(c, res.Error, "vehicle")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "vehicle not found")
	}
	return helper.JsonDeleted(c, "vehicle deleted", fiber.Map{"vehicle_id": id})
}
