package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	intentModel "transportku_backend/internals/features/finance/intents/model"
)

type IntentFilter struct {
	Status   intentModel.IntentStatus
	Type     string
	ChargeID *uuid.UUID
	Offset   int
	Limit    int
}

func (f IntentFilter) apply(db *gorm.DB) *gorm.DB {
	if f.Status != "" {
		db = db.Where("billing_intent_status = ?", f.Status)
	}
	if f.Type != "" {
		db = db.Where("billing_intent_type = ?", f.Type)
	}
	if f.ChargeID != nil {
		db = db.Where("billing_intent_charge_id = ?", *f.ChargeID)
	}
	return db
}

func ListIntents(ctx context.Context, db *gorm.DB, f IntentFilter) ([]intentModel.BillingIntent, int64, error) {
	var total int64
	if err := f.apply(db.WithContext(ctx).Model(&intentModel.BillingIntent{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	q := f.apply(db.WithContext(ctx).Model(&intentModel.BillingIntent{})).
		Order("billing_intent_created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	var rows []intentModel.BillingIntent
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Retry mengembalikan intent failed ke antrean (attempts direset).
func Retry(ctx context.Context, db *gorm.DB, id uuid.UUID) (bool, error) {
	res := db.WithContext(ctx).Model(&intentModel.BillingIntent{}).
		Where("billing_intent_id = ? AND billing_intent_status = ?", id, intentModel.IntentFailed).
		Updates(map[string]any{
			"billing_intent_status":       intentModel.IntentPending,
			"billing_intent_attempts":     0,
			"billing_intent_available_at": nil,
		})
	return res.RowsAffected > 0, res.Error
}
