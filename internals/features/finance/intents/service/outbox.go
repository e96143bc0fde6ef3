package service

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"transportku_backend/internals/features/finance/charges/engine"
	intentModel "transportku_backend/internals/features/finance/intents/model"
)

// Outbox menulis intent status engine ke tabel billing_intents.
// Dedupe key unik: intent yang sama dari dua evaluasi tercatat sekali saja.
type Outbox struct{}

func NewOutbox() *Outbox { return &Outbox{} }

func (o *Outbox) EnqueueTx(ctx context.Context, tx *gorm.DB, intents []engine.Intent) error {
	if len(intents) == 0 {
		return nil
	}
	rows := make([]intentModel.BillingIntent, 0, len(intents))
	for _, it := range intents {
		row, err := encodeIntent(it)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	return tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "billing_intent_dedupe_key"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}

func encodeIntent(it engine.Intent) (intentModel.BillingIntent, error) {
	payload, err := json.Marshal(it)
	if err != nil {
		return intentModel.BillingIntent{}, fmt.Errorf("encode intent %s: %w", it.Type(), err)
	}
	payee := it.Payee()
	return intentModel.BillingIntent{
		BillingIntentType:      string(it.Type()),
		BillingIntentChargeID:  it.ChargeID(),
		BillingIntentPayeeType: string(payee.Type),
		BillingIntentPayeeID:   payee.ID,
		BillingIntentPayload:   datatypes.JSON(payload),
		BillingIntentDedupeKey: it.DedupeKey(),
		BillingIntentStatus:    intentModel.IntentPending,
	}, nil
}

// DecodeIntent mengembalikan intent bertipe dari baris outbox.
func DecodeIntent(row intentModel.BillingIntent) (engine.Intent, error) {
	switch engine.IntentType(row.BillingIntentType) {
	case engine.IntentGenerateReceipt:
		var v engine.GenerateReceipt
		if err := json.Unmarshal(row.BillingIntentPayload, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", row.BillingIntentType, err)
		}
		return v, nil
	case engine.IntentSendOverdueAlert:
		var v engine.SendOverdueAlert
		if err := json.Unmarshal(row.BillingIntentPayload, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", row.BillingIntentType, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown intent type %q", row.BillingIntentType)
	}
}
