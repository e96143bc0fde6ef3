package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"transportku_backend/internals/features/students/guardians/dto"
	"transportku_backend/internals/features/students/guardians/model"
	studentModel "transportku_backend/internals/features/students/students/model"
	helper "transportku_backend/internals/helpers"
)

type GuardianController struct {
	DB *gorm.DB
}

func NewGuardianController(db *gorm.DB) *GuardianController { return &GuardianController{DB: db} }

func (h *GuardianController) Create(c *fiber.Ctx) error {
	var req dto.CreateGuardianRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	g := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Create(g).Error; err != nil {
		return helper.JsonDBError(c, err, "guardian")
	}
	return helper.JsonCreated(c, "guardian created", g)
}

// GET /guardians?q=
func (h *GuardianController) List(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 20, 200)
	q := h.DB.WithContext(c.UserContext()).Model(&model.Guardian{})
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		q = q.Where("LOWER(guardian_name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonDBError(c, err, "guardian")
	}
	var rows []model.Guardian
	if err := q.Order("guardian_name ASC").Limit(pg.Limit).Offset(pg.Offset).Find(&rows).Error; err != nil {
		return helper.JsonDBError(c, err, "guardian")
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromOffset(total, pg.Offset, pg.Limit), len(rows))
}

func (h *GuardianController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var g model.Guardian
	if err := h.DB.WithContext(c.UserContext()).First(&g, "guardian_id = ?", id).Error; err != nil {
		return helper.JsonDBError(c, err, "guardian")
	}
	var students []studentModel.Student
	h.DB.WithContext(c.UserContext()).Where("student_guardian_id = ?", id).Order("student_name ASC").Find(&students)
	return helper.JsonOK(c, "ok", fiber.Map{"guardian": g, "students": students})
}

func (h *GuardianController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateGuardianRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	var g model.Guardian
	if err := h.DB.WithContext(c.UserContext()).First(&g, "guardian_id = ?", id).Error; err != nil {
		return helper.JsonDBError(c, err, "guardian")
	}
	req.Apply(&g)
	if err := h.DB.WithContext(c.UserContext()).Save(&g).Error; err != nil {
		return helper.JsonDBError(c, err, "guardian")
	}
	return helper.JsonUpdated(c, "guardian updated", g)
}

// DELETE: ditolak kalau masih punya student aktif
func (h *GuardianController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var n int64
	h.DB.WithContext(c.UserContext()).Model(&studentModel.Student{}).
		Where("student_guardian_id = ? AND student_active = ?", id, true).Count(&n)
	if n > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "guardian still has active students")
	}
	res := h.DB.WithContext(c.UserContext()).Delete(&model.Guardian{}, "guardian_id = ?", id)
	if res.Error != nil {
		return helper.JsonDBError(c, res.Error, "guardian")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "guardian not found")
	}
	return helper.JsonDeleted(c, "guardian deleted", fiber.Map{"guardian_id": id})
}
