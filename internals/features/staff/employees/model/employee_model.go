package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type EmployeeRole string

const (
	EmployeeRoleAdmin  EmployeeRole = "ADMIN"
	EmployeeRoleStaff  EmployeeRole = "STAFF"
	EmployeeRoleDriver EmployeeRole = "DRIVER"
)

func (r EmployeeRole) Valid() bool {
	switch r {
	case EmployeeRoleAdmin, EmployeeRoleStaff, EmployeeRoleDriver:
		return true
	}
	return false
}

// Employee = penerima gaji bulanan (funcionario / motorista / admin).
type Employee struct {
	EmployeeID     uuid.UUID  `gorm:"column:employee_id;type:uuid;primaryKey" json:"employee_id"`
	EmployeeUserID *uuid.UUID `gorm:"column:employee_user_id;type:uuid;uniqueIndex" json:"employee_user_id,omitempty"`

	EmployeeName  string       `gorm:"column:employee_name;type:varchar(255);not null" json:"employee_name"`
	EmployeeEmail *string      `gorm:"column:employee_email;type:varchar(150);uniqueIndex" json:"employee_email,omitempty"`
	EmployeeRole  EmployeeRole `gorm:"column:employee_role;type:varchar(20);not null;index" json:"employee_role"`

	// kalau role DRIVER: profil driver terkait
	EmployeeDriverID *uuid.UUID `gorm:"column:employee_driver_id;type:uuid;index" json:"employee_driver_id,omitempty"`

	EmployeeSalary decimal.Decimal `gorm:"column:employee_salary;type:numeric(12,2);not null;default:0" json:"employee_salary"`
	EmployeeActive bool            `gorm:"column:employee_active;not null;default:true;index" json:"employee_active"`

	EmployeeCreatedAt time.Time      `gorm:"column:employee_created_at;autoCreateTime" json:"employee_created_at"`
	EmployeeUpdatedAt time.Time      `gorm:"column:employee_updated_at;autoUpdateTime" json:"employee_updated_at"`
	EmployeeDeletedAt gorm.DeletedAt `gorm:"column:employee_deleted_at;index" json:"employee_deleted_at,omitempty"`
}

func (Employee) TableName() string { return "employees" }

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.EmployeeID == uuid.Nil {
		e.EmployeeID = uuid.New()
	}
	return nil
}

func (e *Employee) ContactEmail() string {
	if e.EmployeeEmail == nil {
		return ""
	}
	return strings.TrimSpace(*e.EmployeeEmail)
}
