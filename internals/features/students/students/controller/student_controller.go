package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	guardianModel "transportku_backend/internals/features/students/guardians/model"
	"transportku_backend/internals/features/students/students/dto"
	"transportku_backend/internals/features/students/students/model"
	routeModel "transportku_backend/internals/features/transport/routes/model"
	helper "transportku_backend/internals/helpers"
)

type StudentController struct {
	DB *gorm.DB
}

func NewStudentController(db *gorm.DB) *StudentController { return &StudentController{DB: db} }

// checkRefs: guardian wajib ada; rute (kalau diisi) wajib ada.
func (h *StudentController) checkRefs(c *fiber.Ctx, s *model.Student) map[string][]string {
	errs := map[string][]string{}
	var n int64
	h.DB.WithContext(c.UserContext()).Model(&guardianModel.Guardian{}).Where("guardian_id = ?", s.StudentGuardianID).Count(&n)
	if n == 0 {
		errs["guardian_id"] = []string{"guardian not found"}
	}
	if s.StudentRouteID != nil {
		n = 0
		h.DB.WithContext(c.UserContext()).Model(&routeModel.Route{}).Where("route_id = ?", *s.StudentRouteID).Count(&n)
		if n == 0 {
			errs["route_id"] = []string{"route not found"}
		}
	}
	if s.StudentMonthlyFee != nil && s.StudentMonthlyFee.IsNegative() {
		errs["monthly_fee"] = []string{"must be >= 0"}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (h *StudentController) Create(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	s := req.ToModel()
	if errs := h.checkRefs(c, s); errs != nil {
		return helper.JsonValidationError(c, errs)
	}
	if err := h.DB.WithContext(c.UserContext()).Create(s).Error; err != nil {
		return helper.JsonDBError(c, err, "student")
	}
	return helper.JsonCreated(c, "student created", s)
}

// GET /students?q=&guardian_id=&route_id=&active=
func (h *StudentController) List(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 20, 200)
	q := h.DB.WithContext(c.UserContext()).Model(&model.Student{})
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		q = q.Where("LOWER(student_name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	for param, col := range map[string]string{"guardian_id": "student_guardian_id", "route_id": "student_route_id"} {
		if raw := strings.TrimSpace(c.Query(param)); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return helper.JsonError(c, fiber.StatusBadRequest, param+" is not a valid UUID")
			}
			q = q.Where(col+" = ?", id)
		}
	}
	if raw := c.Query("active"); raw != "" {
		q = q.Where("student_active = ?", raw == "true" || raw == "1")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonDBError(c, err, "student")
	}
	var rows []model.Student
	if err := q.Order("student_name ASC").Limit(pg.Limit).Offset(pg.Offset).Find(&rows).Error; err != nil {
		return helper.JsonDBError(c, err, "student")
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromOffset(total, pg.Offset, pg.Limit), len(rows))
}

func (h *StudentController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var s model.Student
	if err := h.DB.WithContext(c.UserContext()).First(&s, "student_id = ?", id).Error; err != nil {
		return helper.JsonDBError(c, err, "student")
	}
	return helper.JsonOK(c, "ok", s)
}

func (h *StudentController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateStudentRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	var s model.Student
	if err := h.DB.WithContext(c.UserContext()).First(&s, "student_id = ?", id).Error; err != nil {
		return helper.JsonDBError(c, err, "student")
	}
	req.Apply(&s)
	if errs := h.checkRefs(c, &s); errs != nil {
		return helper.JsonValidationError(c, errs)
	}
	if err := h.DB.WithContext(c.UserContext()).Save(&s).Error; err != nil {
		return helper.JsonDBError(c, err, "student")
	}
	return helper.JsonUpdated(c, "student updated", s)
}

// DELETE = soft delete; charge lama tetap bisa dibayar / diberi receipt
func (h *StudentController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	res := h.DB.WithContext(c.UserContext()).Delete(&model.Student{}, "student_id = ?", id)
	if res.Error != nil {
		return helper.JsonDBError(c, res.Error, "student")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "student not found")
	}
	return helper.JsonDeleted(c, "student deleted", fiber.Map{"student_id": id})
}
