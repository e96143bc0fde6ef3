package model

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var phonePattern = regexp.MustCompile(`^\+?\d{9}$`)

var ErrInvalidPhone = errors.New("phone must contain 9 digits, optionally prefixed with +")

// ValidPhone: 9 digit, boleh diawali "+".
func ValidPhone(s string) bool { return phonePattern.MatchString(strings.TrimSpace(s)) }

type Driver struct {
	DriverID     uuid.UUID  `gorm:"column:driver_id;type:uuid;primaryKey" json:"driver_id"`
	DriverUserID *uuid.UUID `gorm:"column:driver_user_id;type:uuid;uniqueIndex" json:"driver_user_id,omitempty"`

	DriverName    string  `gorm:"column:driver_name;type:varchar(100);not null" json:"driver_name"`
	DriverPhone   string  `gorm:"column:driver_phone;type:varchar(25);not null;index" json:"driver_phone"`
	DriverAddress *string `gorm:"column:driver_address;type:varchar(200)" json:"driver_address,omitempty"`

	DriverLicenseNumber string     `gorm:"column:driver_license_number;type:varchar(50);not null;index" json:"driver_license_number"`
	DriverLicenseExpiry *time.Time `gorm:"column:driver_license_expiry;type:date" json:"driver_license_expiry,omitempty"`

	DriverActive bool `gorm:"column:driver_active;not null;default:true" json:"driver_active"`

	DriverCreatedAt time.Time      `gorm:"column:driver_created_at;autoCreateTime" json:"driver_created_at"`
	DriverUpdatedAt time.Time      `gorm:"column:driver_updated_at;autoUpdateTime" json:"driver_updated_at"`
	DriverDeletedAt gorm.DeletedAt `gorm:"column:driver_deleted_at;index" json:"driver_deleted_at,omitempty"`
}

func (Driver) TableName() string { return "drivers" }

func (d *Driver) BeforeCreate(tx *gorm.DB) error {
	if d.DriverID == uuid.Nil {
		d.DriverID = uuid.New()
	}
	return d.normalize()
}

func (d *Driver) BeforeSave(tx *gorm.DB) error { return d.normalize() }

func (d *Driver) normalize() error {
	d.DriverName = strings.TrimSpace(d.DriverName)
	d.DriverPhone = strings.TrimSpace(d.DriverPhone)
	if !ValidPhone(d.DriverPhone) {
		return ErrInvalidPhone
	}
	return nil
}

// LicenseValid: carta masih berlaku pada `today` (tanpa tanggal = tidak valid).
func (d *Driver) LicenseValid(today time.Time) bool {
	if d.DriverLicenseExpiry == nil {
		return false
	}
	e := *d.DriverLicenseExpiry
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return !time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, time.UTC).Before(t)
}
