package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AlertKind string
type AlertStatus string

const (
	AlertKindOverdue     AlertKind = "OVERDUE"
	AlertKindPeriodStart AlertKind = "PERIOD_START"
	AlertKindPending     AlertKind = "PENDING"
	AlertKindOther       AlertKind = "OTHER"
)

const (
	AlertStatusSent    AlertStatus = "SENT"
	AlertStatusFailed  AlertStatus = "FAILED"
	AlertStatusPending AlertStatus = "PENDING"
)

// AlertLog = riwayat pesan yang dikirim (atau gagal dikirim) ke satu penerima.
type AlertLog struct {
	AlertLogID uuid.UUID `gorm:"column:alert_log_id;type:uuid;primaryKey" json:"alert_log_id"`

	AlertLogRecipientKey  string `gorm:"column:alert_log_recipient_key;type:varchar(80);not null;index" json:"alert_log_recipient_key"`
	AlertLogRecipientName string `gorm:"column:alert_log_recipient_name;type:varchar(255);not null" json:"alert_log_recipient_name"`
	AlertLogEmail         string `gorm:"column:alert_log_email;type:varchar(150);not null" json:"alert_log_email"`

	AlertLogKind    AlertKind   `gorm:"column:alert_log_kind;type:varchar(20);not null;default:'OVERDUE';index" json:"alert_log_kind"`
	AlertLogSubject string      `gorm:"column:alert_log_subject;type:varchar(255);not null" json:"alert_log_subject"`
	AlertLogMessage string      `gorm:"column:alert_log_message;type:text;not null" json:"alert_log_message"`
	AlertLogStatus  AlertStatus `gorm:"column:alert_log_status;type:varchar(20);not null;default:'PENDING';index" json:"alert_log_status"`
	AlertLogError   *string     `gorm:"column:alert_log_error;type:text" json:"alert_log_error,omitempty"`

	// charge yang dibahas di pesan ini (JSON array of uuid string)
	AlertLogChargeIDs datatypes.JSON `gorm:"column:alert_log_charge_ids" json:"alert_log_charge_ids"`

	AlertLogSentAt    *time.Time `gorm:"column:alert_log_sent_at" json:"alert_log_sent_at,omitempty"`
	AlertLogCreatedAt time.Time  `gorm:"column:alert_log_created_at;autoCreateTime;index" json:"alert_log_created_at"`
}

func (AlertLog) TableName() string { return "alert_logs" }

func (a *AlertLog) BeforeCreate(tx *gorm.DB) error {
	if a.AlertLogID == uuid.Nil {
		a.AlertLogID = uuid.New()
	}
	if a.AlertLogStatus == "" {
		a.AlertLogStatus = AlertStatusPending
	}
	return nil
}
