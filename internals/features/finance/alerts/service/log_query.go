package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	alertModel "transportku_backend/internals/features/finance/alerts/model"
)

type LogFilter struct {
	RecipientKey string
	Kind         alertModel.AlertKind
	Status       alertModel.AlertStatus
	From         *time.Time
	To           *time.Time
	Offset       int
	Limit        int
}

func (f LogFilter) apply(db *gorm.DB) *gorm.DB {
	if f.RecipientKey != "" {
		db = db.Where("alert_log_recipient_key = ?", f.RecipientKey)
	}
	if f.Kind != "" {
		db = db.Where("alert_log_kind = ?", f.Kind)
	}
	if f.Status != "" {
		db = db.Where("alert_log_status = ?", f.Status)
	}
	if f.From != nil {
		db = db.Where("alert_log_created_at >= ?", *f.From)
	}
	if f.To != nil {
		db = db.Where("alert_log_created_at < ?", *f.To)
	}
	return db
}

// ListLogs: riwayat alert terbaru dulu.
func ListLogs(ctx context.Context, db *gorm.DB, f LogFilter) ([]alertModel.AlertLog, int64, error) {
	var total int64
	if err := f.apply(db.WithContext(ctx).Model(&alertModel.AlertLog{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	q := f.apply(db.WithContext(ctx).Model(&alertModel.AlertLog{})).Order("alert_log_created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	var rows []alertModel.AlertLog
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
