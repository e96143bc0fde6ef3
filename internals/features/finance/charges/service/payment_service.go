package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"transportku_backend/internals/features/finance/charges/engine"
	"transportku_backend/internals/features/finance/charges/model"
	"transportku_backend/internals/helpers/billperiod"
)

type PaymentService struct {
	Charges *ChargeService
}

func NewPaymentService(charges *ChargeService) *PaymentService {
	return &PaymentService{Charges: charges}
}

type RecordPaymentInput struct {
	ChargeID    uuid.UUID
	Amount      decimal.Decimal
	Method      model.PaymentMethod
	PaidAt      *time.Time // nil = sekarang
	Note        *string
	ExternalRef *string // order id gateway; kalau sudah tercatat → no-op
	Tolerance   decimal.Decimal
}

type RecordResult struct {
	Payment   *model.Payment
	Charge    *model.Charge
	Result    engine.Result
	Duplicate bool // external_ref sudah pernah dicatat
}

// Record mencatat satu payment terhadap charge.
//
// Tolerance: kelebihan bayar di bawah nilai ini (sisa pembulatan gateway) dicatat
// sebesar saldo yang tersisa. Nol = kelebihan sekecil apa pun ditolak.
//
// Pemeriksaan saldo, insert payment, dan recompute status berjalan di satu transaksi
// dengan baris charge terkunci, versi charge dinaikkan setiap kali payment masuk.
// Dua Record yang berebut charge yang sama: yang kalah menunggu lock (Postgres)
// atau gagal version-check → ErrConcurrentModification.
func (s *PaymentService) Record(ctx context.Context, in RecordPaymentInput) (*RecordResult, error) {
	cs := s.Charges
	now := cs.now()

	paidAt := now
	if in.PaidAt != nil {
		paidAt = *in.PaidAt
	}
	if paidAt.After(now) {
		return nil, ErrFutureDated
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be > 0", ErrInvalidPayment)
	}
	if !in.Amount.Equal(billperiod.Round2(in.Amount)) {
		return nil, fmt.Errorf("%w: amount has more than 2 decimals", ErrInvalidPayment)
	}
	method := in.Method
	if method == "" {
		method = model.PaymentMethodCash
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: unknown method %q", ErrInvalidPayment, in.Method)
	}
	var extRef *string
	if in.ExternalRef != nil && strings.TrimSpace(*in.ExternalRef) != "" {
		v := strings.TrimSpace(*in.ExternalRef)
		extRef = &v
	}

	out := &RecordResult{}
	err := cs.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := lockCharge(tx, in.ChargeID)
		if err != nil {
			return err
		}
		out.Charge = c

		if extRef != nil {
			var existing model.Payment
			err := tx.Where("payment_external_ref = ?", *extRef).Take(&existing).Error
			if err == nil {
				out.Payment = &existing
				out.Duplicate = true
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		today := billperiod.DateOf(now, cs.Policy.Location)
		amount := in.Amount
		if outstanding := c.OutstandingBalance(today); amount.GreaterThan(outstanding) {
			if !outstanding.IsPositive() || !amount.Sub(outstanding).LessThan(in.Tolerance) {
				return fmt.Errorf("%w: amount %s, outstanding %s", ErrOverpayment, amount.StringFixed(2), outstanding.StringFixed(2))
			}
			amount = outstanding
		}

		p := &model.Payment{
			PaymentChargeID:    c.ChargeID,
			PaymentAmount:      amount,
			PaymentPaidAt:      paidAt,
			PaymentMethod:      method,
			PaymentNote:        in.Note,
			PaymentExternalRef: extRef,
		}
		if err := tx.Create(p).Error; err != nil {
			if extRef != nil && isUniqueViolation(err) {
				return ErrConcurrentModification
			}
			return err
		}
		c.Payments = append(c.Payments, *p)
		out.Payment = p

		res, err := cs.ApplyTx(ctx, tx, c, true)
		if err != nil {
			return err
		}
		out.Result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !out.Duplicate {
		cs.Log.Info("payment recorded",
			zap.String("charge_id", out.Charge.ChargeID.String()),
			zap.String("payment_id", out.Payment.PaymentID.String()),
			zap.String("amount", out.Payment.PaymentAmount.StringFixed(2)),
			zap.String("method", string(out.Payment.PaymentMethod)),
			zap.String("status", string(out.Charge.ChargeStatus)),
		)
	}
	return out, nil
}

// ListByCharge: riwayat payment urut waktu bayar.
func (s *PaymentService) ListByCharge(ctx context.Context, chargeID uuid.UUID) ([]model.Payment, error) {
	var rows []model.Payment
	err := s.Charges.DB.WithContext(ctx).
		Where("payment_charge_id = ?", chargeID).
		Order("payment_paid_at ASC").
		Find(&rows).Error
	return rows, err
}
