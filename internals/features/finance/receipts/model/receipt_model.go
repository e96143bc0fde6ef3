package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Receipt: satu per charge. Dibuat oleh worker dari intent generate_receipt.
type Receipt struct {
	ReceiptID       uuid.UUID `gorm:"column:receipt_id;type:uuid;primaryKey" json:"receipt_id"`
	ReceiptChargeID uuid.UUID `gorm:"column:receipt_charge_id;type:uuid;not null;uniqueIndex" json:"receipt_charge_id"`
	ReceiptNumber   string    `gorm:"column:receipt_number;type:varchar(40);not null;uniqueIndex" json:"receipt_number"`

	ReceiptPayeeName  string          `gorm:"column:receipt_payee_name;type:varchar(150);not null" json:"receipt_payee_name"`
	ReceiptAmountPaid decimal.Decimal `gorm:"column:receipt_amount_paid;type:numeric(12,2);not null" json:"receipt_amount_paid"`
	ReceiptPaidAt     time.Time       `gorm:"column:receipt_paid_at;not null" json:"receipt_paid_at"`

	ReceiptStorage     string `gorm:"column:receipt_storage;type:varchar(20);not null" json:"receipt_storage"`
	ReceiptObjectKey   string `gorm:"column:receipt_object_key;type:text;not null" json:"receipt_object_key"`
	ReceiptURL         string `gorm:"column:receipt_url;type:text;not null" json:"receipt_url"`
	ReceiptContentType string `gorm:"column:receipt_content_type;type:varchar(60);not null" json:"receipt_content_type"`

	ReceiptCreatedAt time.Time `gorm:"column:receipt_created_at;autoCreateTime" json:"receipt_created_at"`
}

func (Receipt) TableName() string { return "receipts" }

func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ReceiptID == uuid.Nil {
		r.ReceiptID = uuid.New()
	}
	return nil
}
