package service

import (
	"context"

	"gorm.io/gorm"

	gatewayModel "transportku_backend/internals/features/finance/gateway/model"
)

type EventFilter struct {
	OrderID string
	Status  gatewayModel.GatewayEventStatus
	Offset  int
	Limit   int
}

func (f EventFilter) apply(db *gorm.DB) *gorm.DB {
	if f.OrderID != "" {
		db = db.Where("gateway_event_order_id = ?", f.OrderID)
	}
	if f.Status != "" {
		db = db.Where("gateway_event_status = ?", f.Status)
	}
	return db
}

// ListEvents: riwayat notifikasi gateway, terbaru dulu.
func ListEvents(ctx context.Context, db *gorm.DB, f EventFilter) ([]gatewayModel.GatewayEvent, int64, error) {
	var total int64
	if err := f.apply(db.WithContext(ctx).Model(&gatewayModel.GatewayEvent{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	q := f.apply(db.WithContext(ctx).Model(&gatewayModel.GatewayEvent{})).Order("gateway_event_received_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	var rows []gatewayModel.GatewayEvent
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
