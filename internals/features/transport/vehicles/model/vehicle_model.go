package model

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// contoh: ABC-1234, AB-12, ABC-123-XY
var platePattern = regexp.MustCompile(`^[A-Z]{2,3}-\d{1,4}(-[A-Z]{1,2})?$`)

var (
	ErrInvalidPlate    = errors.New("invalid plate, e.g. ABC-1234 or ABC-123-XY")
	ErrInvalidCapacity = errors.New("capacity must be at least 1")
)

// NormalizePlate: trim + upper-case.
func NormalizePlate(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

func ValidPlate(s string) bool { return platePattern.MatchString(NormalizePlate(s)) }

type Vehicle struct {
	VehicleID uuid.UUID `gorm:"column:vehicle_id;type:uuid;primaryKey" json:"vehicle_id"`

	VehicleBrand string `gorm:"column:vehicle_brand;type:varchar(20);not null;default:'unknown'" json:"vehicle_brand"`
	VehicleModel string `gorm:"column:vehicle_model;type:varchar(50);not null;default:'unknown'" json:"vehicle_model"`
	VehiclePlate string `gorm:"column:vehicle_plate;type:varchar(20);not null;uniqueIndex" json:"vehicle_plate"`

	VehicleCapacity int        `gorm:"column:vehicle_capacity;not null" json:"vehicle_capacity"`
	VehicleDriverID *uuid.UUID `gorm:"column:vehicle_driver_id;type:uuid;index" json:"vehicle_driver_id,omitempty"`
	VehicleActive   bool       `gorm:"column:vehicle_active;not null;default:true" json:"vehicle_active"`

	VehicleCreatedAt time.Time      `gorm:"column:vehicle_created_at;autoCreateTime" json:"vehicle_created_at"`
	VehicleUpdatedAt time.Time      `gorm:"column:vehicle_updated_at;autoUpdateTime" json:"vehicle_updated_at"`
	VehicleDeletedAt gorm.DeletedAt `gorm:"column:vehicle_deleted_at;index" json:"vehicle_deleted_at,omitempty"`
}

func (Vehicle) TableName() string { return "vehicles" }

func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.VehicleID == uuid.Nil {
		v.VehicleID = uuid.New()
	}
	return v.normalize()
}

func (v *Vehicle) BeforeSave(tx *gorm.DB) error { return v.normalize() }

func (v *Vehicle) normalize() error {
	v.VehicleModel = strings.TrimSpace(v.VehicleModel)
	v.VehiclePlate = NormalizePlate(v.VehiclePlate)
	if !platePattern.MatchString(v.VehiclePlate) {
		return ErrInvalidPlate
	}
	if v.VehicleCapacity < 1 {
		return ErrInvalidCapacity
	}
	return nil
}

// SeatsAvailable = kapasitas - terisi, minimal 0.
func (v *Vehicle) SeatsAvailable(occupied int) int {
	if n := v.VehicleCapacity - occupied; n > 0 {
		return n
	}
	return 0
}

func (v *Vehicle) String() string { return v.VehicleModel + " - " + v.VehiclePlate }
