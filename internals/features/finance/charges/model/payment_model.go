package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment bersifat immutable: tidak ada jalur update/delete.
// Koreksi dilakukan dengan pembayaran baru oleh pemanggil.
type Payment struct {
	PaymentID       uuid.UUID `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`
	PaymentChargeID uuid.UUID `gorm:"column:payment_charge_id;type:uuid;not null;index" json:"payment_charge_id"`

	PaymentAmount decimal.Decimal `gorm:"column:payment_amount;type:numeric(12,2);not null" json:"payment_amount"`
	PaymentPaidAt time.Time       `gorm:"column:payment_paid_at;not null" json:"payment_paid_at"`
	PaymentMethod PaymentMethod   `gorm:"column:payment_method;type:varchar(20);not null;default:'CASH'" json:"payment_method"`
	PaymentNote   *string         `gorm:"column:payment_note;type:text" json:"payment_note,omitempty"`

	// order_id gateway (Midtrans) untuk idempotensi webhook
	PaymentExternalRef *string `gorm:"column:payment_external_ref;type:varchar(80);uniqueIndex" json:"payment_external_ref,omitempty"`

	PaymentCreatedAt time.Time `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
}

func (Payment) TableName() string { return "charge_payments" }

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	return nil
}

// BeforeUpdate menolak semua update: payment append-only.
func (p *Payment) BeforeUpdate(tx *gorm.DB) error {
	return gorm.ErrInvalidData
}
