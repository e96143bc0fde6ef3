package dto

import (
	"time"

	"github.com/google/uuid"

	"transportku_backend/internals/features/finance/receipts/model"
)

type ReceiptResponse struct {
	ReceiptID   uuid.UUID `json:"receipt_id"`
	ChargeID    uuid.UUID `json:"charge_id"`
	Number      string    `json:"number"`
	PayeeName   string    `json:"payee_name"`
	AmountPaid  string    `json:"amount_paid"`
	PaidAt      time.Time `json:"paid_at"`
	Storage     string    `json:"storage"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromModel(r model.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ReceiptID:   r.ReceiptID,
		ChargeID:    r.ReceiptChargeID,
		Number:      r.ReceiptNumber,
		PayeeName:   r.ReceiptPayeeName,
		AmountPaid:  r.ReceiptAmountPaid.StringFixed(2),
		PaidAt:      r.ReceiptPaidAt,
		Storage:     r.ReceiptStorage,
		URL:         r.ReceiptURL,
		ContentType: r.ReceiptContentType,
		CreatedAt:   r.ReceiptCreatedAt,
	}
}

func FromModels(rows []model.Receipt) []ReceiptResponse {
	out := make([]ReceiptResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromModel(r))
	}
	return out
}
