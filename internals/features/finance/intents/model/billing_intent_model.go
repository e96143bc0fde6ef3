package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type IntentStatus string

const (
	IntentPending     IntentStatus = "pending"
	IntentDispatching IntentStatus = "dispatching"
	IntentDispatched  IntentStatus = "dispatched"
	IntentFailed      IntentStatus = "failed"
)

// BillingIntent = baris outbox; ditulis bersama perubahan status charge.
type BillingIntent struct {
	BillingIntentID uuid.UUID `gorm:"column:billing_intent_id;type:uuid;primaryKey" json:"billing_intent_id"`

	BillingIntentType      string    `gorm:"column:billing_intent_type;type:varchar(40);not null;index" json:"billing_intent_type"`
	BillingIntentChargeID  uuid.UUID `gorm:"column:billing_intent_charge_id;type:uuid;not null;index" json:"billing_intent_charge_id"`
	BillingIntentPayeeType string    `gorm:"column:billing_intent_payee_type;type:varchar(20);not null" json:"billing_intent_payee_type"`
	BillingIntentPayeeID   uuid.UUID `gorm:"column:billing_intent_payee_id;type:uuid;not null;index" json:"billing_intent_payee_id"`

	BillingIntentPayload   datatypes.JSON `gorm:"column:billing_intent_payload;not null" json:"billing_intent_payload"`
	BillingIntentDedupeKey string         `gorm:"column:billing_intent_dedupe_key;type:varchar(160);not null;uniqueIndex" json:"billing_intent_dedupe_key"`

	BillingIntentStatus    IntentStatus `gorm:"column:billing_intent_status;type:varchar(20);not null;default:'pending';index" json:"billing_intent_status"`
	BillingIntentAttempts  int          `gorm:"column:billing_intent_attempts;not null;default:0" json:"billing_intent_attempts"`
	BillingIntentLastError *string      `gorm:"column:billing_intent_last_error;type:text" json:"billing_intent_last_error,omitempty"`

	BillingIntentAvailableAt  *time.Time `gorm:"column:billing_intent_available_at;index" json:"billing_intent_available_at,omitempty"`
	BillingIntentClaimedAt    *time.Time `gorm:"column:billing_intent_claimed_at" json:"billing_intent_claimed_at,omitempty"`
	BillingIntentDispatchedAt *time.Time `gorm:"column:billing_intent_dispatched_at" json:"billing_intent_dispatched_at,omitempty"`

	BillingIntentCreatedAt time.Time `gorm:"column:billing_intent_created_at;autoCreateTime" json:"billing_intent_created_at"`
	BillingIntentUpdatedAt time.Time `gorm:"column:billing_intent_updated_at;autoUpdateTime" json:"billing_intent_updated_at"`
}

func (BillingIntent) TableName() string { return "billing_intents" }

func (b *BillingIntent) BeforeCreate(tx *gorm.DB) error {
	if b.BillingIntentID == uuid.Nil {
		b.BillingIntentID = uuid.New()
	}
	if b.BillingIntentStatus == "" {
		b.BillingIntentStatus = IntentPending
	}
	return nil
}
