package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	studentModel "transportku_backend/internals/features/students/students/model"
	driverModel "transportku_backend/internals/features/transport/drivers/model"
	"transportku_backend/internals/features/transport/routes/dto"
	"transportku_backend/internals/features/transport/routes/model"
	vehicleModel "transportku_backend/internals/features/transport/vehicles/model"
	helper "transportku_backend/internals/helpers"
)

type RouteController struct {
	DB *gorm.DB
}

func NewRouteController(db *gorm.DB) *RouteController { return &RouteController{DB: db} }

func fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, model.ErrArrivalBeforeDeparture) {
		return helper.JsonValidationError(c, map[string][]string{"arrival": {err.Error()}})
	}
	return helper.JsonDBError(c, err, "route")
}

// checkRefs: driver dan kendaraan yang dirujuk harus ada
func (h *RouteController) checkRefs(c *fiber.Ctx, rt *model.Route) map[string][]string {
	errs := map[string][]string{}
	db := h.DB.WithContext(c.UserContext())
	exists := func(m any, col string, id *uuid.UUID) bool {
		if id == nil {
			return true
		}
		var n int64
		db.Model(m).Where(col+" = ?", *id).Count(&n)
		return n > 0
	}
	if !exists(&driverModel.Driver{}, "driver_id", rt.RouteDriverID) {
		errs["driver_id"] = []string{"driver not found"}
	}
	if !exists(&vehicleModel.Vehicle{}, "vehicle_id", rt.RouteVehicleID) {
		errs["vehicle_id"] = []string{"vehicle not found"}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (h *RouteController) Create(c *fiber.Ctx) error {
	var req dto.RouteRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	if errs := req.Missing(); errs != nil {
		return helper.JsonValidationError(c, errs)
	}
	rt := &model.Route{RouteActive: true}
	if errs := req.Apply(rt); errs != nil {
		return helper.JsonValidationError(c, errs)
	}
	if errs := h.checkRefs(c, rt); errs != nil {
		return helper.JsonValidationError(c, errs)
	}
	if err := h.DB.WithContext(c.UserContext()).Create(rt).Error; err != nil {
		return fail(c, err)
	}
	return helper.JsonCreated(c, "route created", rt)
}

func (h *RouteController) List(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 20, 200)
	q := h.DB.WithContext(c.UserContext()).Model(&model.Route{})
	if raw := c.Query("active"); raw != "" {
		q = q.Where("route_active = ?", raw == "true" || raw == "1")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonDBError(c, err, "route")
	}
	var rows []model.Route
	if err := q.Order("route_name ASC").Limit(pg.Limit).Offset(pg.Offset).Find(&rows).Error; err != nil {
		return helper.JsonDBError(c, err, "route")
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromOffset(total, pg.Offset, pg.Limit), len(rows))
}

// GET /routes/:id → rute + driver yang bertugas + jumlah student
func (h *RouteController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	db := h.DB.WithContext(c.UserContext())
	var rt model.Route
	if err := db.First(&rt, "route_id = ?", id).Error; err != nil {
		return helper.JsonDBError(c, err, "route")
	}
	var vehicleDriver *vehicleModel.Vehicle
	if rt.RouteVehicleID != nil {
		var v vehicleModel.Vehicle
		if err := db.First(&v, "vehicle_id = ?", *rt.RouteVehicleID).Error; err == nil {
			vehicleDriver = &v
		}
	}
	var students int64
	db.Model(&studentModel.Student{}).Where("student_route_id = ? AND student_active = ?", id, true).Count(&students)

	body := fiber.Map{"route": rt, "students": students}
	if vehicleDriver != nil {
		body["assigned_driver_id"] = rt.AssignedDriverID(vehicleDriver.VehicleDriverID)
		body["vehicle"] = vehicleDriver.String()
	} else {
		body["assigned_driver_id"] = rt.AssignedDriverID(nil)
	}
	return helper.JsonOK(c, "ok", body)
}

func (h *RouteController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.RouteRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	var rt model.Route
	if err := h.DB.WithContext(c.UserContext()).First(&rt, "route_id = ?", id).Error; err != nil {
		return helper.JsonDBError(c, err, "route")
	}
	if errs := req.Apply(&rt); errs != nil {
		return helper.JsonValidationError(c, errs)
	}
	if errs := h.checkRefs(c, &rt); errs != nil {
		return helper.JsonValidationError(c, errs)
	}
	if err := rt.Validate(); err != nil {
		return fail(c, err)
	}
	if err := h.DB.WithContext(c.UserContext()).Save(&rt).Error; err != nil {
		return fail(c, err)
	}
	return helper.JsonUpdated(c, "route updated", rt)
}

func (h *RouteController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var n int64
	h.DB.WithContext(c.UserContext()).Model(&studentModel.Student{}).
		Where("student_route_id = ? AND student_active = ?", id, true).Count(&n)
	if n > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "route still has active students")
	}
	res := h.DB.WithContext(c.UserContext()).Delete(&model.Route{}, "route_id = ?", id)
	if res.Error != nil {
		return helper.JsonDBError(c, res.Error, "route")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "route not found")
	}
	return helper.JsonDeleted(c, "route deleted", fiber.Map{"route_id": id})
}
