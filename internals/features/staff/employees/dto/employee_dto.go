package dto

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"transportku_backend/internals/features/staff/employees/model"
)

type EmployeeRequest struct {
	Name     *string          `json:"name" validate:"omitempty,max=255"`
	Email    *string          `json:"email" validate:"omitempty,email,max=150"`
	Role     *string          `json:"role" validate:"omitempty,oneof=ADMIN STAFF DRIVER admin staff driver"`
	UserID   *string          `json:"user_id" validate:"omitempty,uuid"`
	DriverID *string          `json:"driver_id" validate:"omitempty,uuid"`
	Salary   *decimal.Decimal `json:"salary"`
	Active   *bool            `json:"active"`

	ClearDriver bool `json:"clear_driver"`
}

func (r EmployeeRequest) Missing() map[string][]string {
	errs := map[string][]string{}
	if r.Name == nil || strings.TrimSpace(*r.Name) == "" {
		errs["name"] = []string{"is required"}
	}
	if r.Role == nil {
		errs["role"] = []string{"is required"}
	}
	if r.Salary == nil {
		errs["salary"] = []string{"is required"}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (r EmployeeRequest) Apply(e *model.Employee) map[string][]string {
	if r.Name != nil {
		e.EmployeeName = strings.TrimSpace(*r.Name)
	}
	if r.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Email))
		if v == "" {
			e.EmployeeEmail = nil
		} else {
			e.EmployeeEmail = &v
		}
	}
	if r.Role != nil {
		e.EmployeeRole = model.EmployeeRole(strings.ToUpper(*r.Role))
	}
	if r.UserID != nil {
		id := uuid.MustParse(*r.UserID)
		e.EmployeeUserID = &id
	}
	if r.DriverID != nil {
		id := uuid.MustParse(*r.DriverID)
		e.EmployeeDriverID = &id
	}
	if r.ClearDriver {
		e.EmployeeDriverID = nil
	}
	if r.Salary != nil {
		if r.Salary.IsNegative() {
			return map[string][]string{"salary": {"must be >= 0"}}
		}
		e.EmployeeSalary = r.Salary.Round(2)
	}
	if r.Active != nil {
		e.EmployeeActive = *r.Active
	}
	if e.EmployeeDriverID != nil && e.EmployeeRole != model.EmployeeRoleDriver {
		return map[string][]string{"driver_id": {"only allowed for role DRIVER"}}
	}
	return nil
}
