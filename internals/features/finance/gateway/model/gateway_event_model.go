package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GatewayEventStatus string

const (
	GatewayEventReceived  GatewayEventStatus = "received"
	GatewayEventProcessed GatewayEventStatus = "processed"
	GatewayEventIgnored   GatewayEventStatus = "ignored"
	GatewayEventFailed    GatewayEventStatus = "failed"
)

const ProviderMidtrans = "midtrans"

// GatewayEvent = log notifikasi gateway (satu baris per callback), untuk debug / replay.
type GatewayEvent struct {
	GatewayEventID uuid.UUID `gorm:"column:gateway_event_id;type:uuid;primaryKey" json:"gateway_event_id"`

	GatewayEventProvider      string     `gorm:"column:gateway_event_provider;type:varchar(30);not null" json:"gateway_event_provider"`
	GatewayEventOrderID       string     `gorm:"column:gateway_event_order_id;type:varchar(80);not null;index" json:"gateway_event_order_id"`
	GatewayEventTransactionID *string    `gorm:"column:gateway_event_transaction_id;type:varchar(80)" json:"gateway_event_transaction_id,omitempty"`
	GatewayEventChargeID      *uuid.UUID `gorm:"column:gateway_event_charge_id;type:uuid;index" json:"gateway_event_charge_id,omitempty"`
	GatewayEventPaymentID     *uuid.UUID `gorm:"column:gateway_event_payment_id;type:uuid" json:"gateway_event_payment_id,omitempty"`

	GatewayEventTransactionStatus string  `gorm:"column:gateway_event_transaction_status;type:varchar(30);not null" json:"gateway_event_transaction_status"`
	GatewayEventFraudStatus       *string `gorm:"column:gateway_event_fraud_status;type:varchar(20)" json:"gateway_event_fraud_status,omitempty"`
	GatewayEventGrossAmount       string  `gorm:"column:gateway_event_gross_amount;type:varchar(30)" json:"gateway_event_gross_amount"`

	GatewayEventPayload datatypes.JSON `gorm:"column:gateway_event_payload" json:"gateway_event_payload"`

	GatewayEventStatus GatewayEventStatus `gorm:"column:gateway_event_status;type:varchar(20);not null;default:'received'" json:"gateway_event_status"`
	GatewayEventError  *string            `gorm:"column:gateway_event_error;type:text" json:"gateway_event_error,omitempty"`

	GatewayEventReceivedAt  time.Time  `gorm:"column:gateway_event_received_at;autoCreateTime" json:"gateway_event_received_at"`
	GatewayEventProcessedAt *time.Time `gorm:"column:gateway_event_processed_at" json:"gateway_event_processed_at,omitempty"`
}

func (GatewayEvent) TableName() string { return "gateway_events" }

func (e *GatewayEvent) BeforeCreate(tx *gorm.DB) error {
	if e.GatewayEventID == uuid.Nil {
		e.GatewayEventID = uuid.New()
	}
	if e.GatewayEventStatus == "" {
		e.GatewayEventStatus = GatewayEventReceived
	}
	return nil
}
