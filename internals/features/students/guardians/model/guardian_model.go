package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Guardian = encarregado: penanggung jawab (dan penerima alert) satu/lebih student.
type Guardian struct {
	GuardianID uuid.UUID `gorm:"column:guardian_id;type:uuid;primaryKey" json:"guardian_id"`

	// akun login (opsional); autentikasi dikelola di luar service ini
	GuardianUserID *uuid.UUID `gorm:"column:guardian_user_id;type:uuid;uniqueIndex" json:"guardian_user_id,omitempty"`

	GuardianName    string  `gorm:"column:guardian_name;type:varchar(150);not null" json:"guardian_name"`
	GuardianEmail   *string `gorm:"column:guardian_email;type:varchar(150);index" json:"guardian_email,omitempty"`
	GuardianPhone   string  `gorm:"column:guardian_phone;type:varchar(20);not null" json:"guardian_phone"`
	GuardianAddress *string `gorm:"column:guardian_address;type:text" json:"guardian_address,omitempty"`

	GuardianCreatedAt time.Time      `gorm:"column:guardian_created_at;autoCreateTime" json:"guardian_created_at"`
	GuardianUpdatedAt time.Time      `gorm:"column:guardian_updated_at;autoUpdateTime" json:"guardian_updated_at"`
	GuardianDeletedAt gorm.DeletedAt `gorm:"column:guardian_deleted_at;index" json:"guardian_deleted_at,omitempty"`
}

func (Guardian) TableName() string { return "guardians" }

func (g *Guardian) BeforeCreate(tx *gorm.DB) error {
	if g.GuardianID == uuid.Nil {
		g.GuardianID = uuid.New()
	}
	return nil
}

// ContactEmail: email yang sudah di-trim, "" kalau tidak ada.
func (g *Guardian) ContactEmail() string {
	if g.GuardianEmail == nil {
		return ""
	}
	return strings.TrimSpace(*g.GuardianEmail)
}
