package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"transportku_backend/internals/features/students/students/model"
)

type CreateStudentRequest struct {
	Name       string           `json:"name" validate:"required,max=255"`
	BirthDate  string           `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	GuardianID string           `json:"guardian_id" validate:"required,uuid"`
	School     string           `json:"school" validate:"required,max=255"`
	Grade      string           `json:"grade" validate:"required,max=25"`
	RouteID    *string          `json:"route_id" validate:"omitempty,uuid"`
	MonthlyFee *decimal.Decimal `json:"monthly_fee"`
}

func (r CreateStudentRequest) ToModel() *model.Student {
	s := &model.Student{
		StudentName:       strings.TrimSpace(r.Name),
		StudentGuardianID: uuid.MustParse(r.GuardianID),
		StudentSchool:     strings.TrimSpace(r.School),
		StudentGrade:      strings.TrimSpace(r.Grade),
		StudentRouteID:    parseOptUUID(r.RouteID),
		StudentMonthlyFee: r.MonthlyFee,
		StudentActive:     true,
	}
	if r.BirthDate != "" {
		if t, err := time.Parse("2006-01-02", r.BirthDate); err == nil {
			s.StudentBirthDate = &t
		}
	}
	return s
}

type UpdateStudentRequest struct {
	Name       *string          `json:"name" validate:"omitempty,max=255"`
	School     *string          `json:"school" validate:"omitempty,max=255"`
	Grade      *string          `json:"grade" validate:"omitempty,max=25"`
	GuardianID *string          `json:"guardian_id" validate:"omitempty,uuid"`
	RouteID    *string          `json:"route_id" validate:"omitempty,uuid"`
	ClearRoute bool             `json:"clear_route"`
	MonthlyFee *decimal.Decimal `json:"monthly_fee"`
	ClearFee   bool             `json:"clear_fee"`
	Active     *bool            `json:"active"`
}

func (r UpdateStudentRequest) Apply(s *model.Student) {
	if r.Name != nil {
		s.StudentName = strings.TrimSpace(*r.Name)
	}
	if r.School != nil {
		s.StudentSchool = strings.TrimSpace(*r.School)
	}
	if r.Grade != nil {
		s.StudentGrade = strings.TrimSpace(*r.Grade)
	}
	if r.GuardianID != nil {
		s.StudentGuardianID = uuid.MustParse(*r.GuardianID)
	}
	if r.RouteID != nil {
		s.StudentRouteID = parseOptUUID(r.RouteID)
	}
	if r.ClearRoute {
		s.StudentRouteID = nil
	}
	if r.MonthlyFee != nil {
		s.StudentMonthlyFee = r.MonthlyFee
	}
	if r.ClearFee {
		s.StudentMonthlyFee = nil
	}
	if r.Active != nil {
		s.StudentActive = *r.Active
	}
}

func parseOptUUID(s *string) *uuid.UUID {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	return &id
}
