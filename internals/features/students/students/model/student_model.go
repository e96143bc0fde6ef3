package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Student struct {
	StudentID uuid.UUID `gorm:"column:student_id;type:uuid;primaryKey" json:"student_id"`

	StudentName       string     `gorm:"column:student_name;type:varchar(255);not null" json:"student_name"`
	StudentBirthDate  *time.Time `gorm:"column:student_birth_date;type:date" json:"student_birth_date,omitempty"`
	StudentGuardianID uuid.UUID  `gorm:"column:student_guardian_id;type:uuid;not null;index" json:"student_guardian_id"`

	StudentSchool string `gorm:"column:student_school;type:varchar(255);not null" json:"student_school"`
	StudentGrade  string `gorm:"column:student_grade;type:varchar(25);not null" json:"student_grade"`

	// rute jemputan; nil = belum ditempatkan
	StudentRouteID *uuid.UUID `gorm:"column:student_route_id;type:uuid;index" json:"student_route_id,omitempty"`

	// nominal khusus student ini; nil = ikut tarif rute / default
	StudentMonthlyFee *decimal.Decimal `gorm:"column:student_monthly_fee;type:numeric(12,2)" json:"student_monthly_fee,omitempty"`

	StudentActive bool `gorm:"column:student_active;not null;default:true;index" json:"student_active"`

	StudentCreatedAt time.Time      `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt time.Time      `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`
	StudentDeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"student_deleted_at,omitempty"`
}

func (Student) TableName() string { return "students" }

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.StudentID == uuid.Nil {
		s.StudentID = uuid.New()
	}
	return nil
}
