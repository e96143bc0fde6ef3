package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"transportku_backend/internals/features/finance/charges/model"
	"transportku_backend/internals/helpers/billperiod"
)

type IntentType string

const (
	IntentGenerateReceipt  IntentType = "generate_receipt"
	IntentSendOverdueAlert IntentType = "send_overdue_alert"
)

// Intent adalah deskripsi kerja untuk kolaborator luar (renderer / notifier).
// Engine tidak pernah melakukan I/O sendiri.
type Intent interface {
	Type() IntentType
	ChargeID() uuid.UUID
	Payee() model.PayeeRef
	// DedupeKey menjamin intent yang sama tidak tercatat dua kali di outbox.
	DedupeKey() string
}

type GenerateReceipt struct {
	Charge     uuid.UUID      `json:"charge_id"`
	PayeeRef   model.PayeeRef `json:"payee"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	PaidAt     time.Time      `json:"paid_at"`
}

func (g GenerateReceipt) Type() IntentType      { return IntentGenerateReceipt }
func (g GenerateReceipt) ChargeID() uuid.UUID   { return g.Charge }
func (g GenerateReceipt) Payee() model.PayeeRef { return g.PayeeRef }

// satu receipt per charge, selamanya
func (g GenerateReceipt) DedupeKey() string { return "receipt:" + g.Charge.String() }

// ChargeSummary = ringkasan charge yang dibawa oleh alert.
type ChargeSummary struct {
	ChargeID          uuid.UUID          `json:"charge_id"`
	Kind              model.ChargeKind   `json:"kind"`
	Period            billperiod.Period  `json:"period"`
	DueDate           time.Time          `json:"due_date"`
	HardDeadline      time.Time          `json:"hard_deadline"`
	DaysLate          int                `json:"days_late"`
	AdjustedAmountDue decimal.Decimal    `json:"adjusted_amount_due"`
	Outstanding       decimal.Decimal    `json:"outstanding"`
	PastHardDeadline  bool               `json:"past_hard_deadline"`
	Status            model.ChargeStatus `json:"status"`
}

type SendOverdueAlert struct {
	PayeeRef    model.PayeeRef `json:"payee"`
	Summary     ChargeSummary  `json:"summary"`
	EvaluatedOn time.Time      `json:"evaluated_on"`
}

func (s SendOverdueAlert) Type() IntentType      { return IntentSendOverdueAlert }
func (s SendOverdueAlert) ChargeID() uuid.UUID   { return s.Summary.ChargeID }
func (s SendOverdueAlert) Payee() model.PayeeRef { return s.PayeeRef }

// paling banyak satu alert per charge per hari evaluasi
func (s SendOverdueAlert) DedupeKey() string {
	return "overdue:" + s.Summary.ChargeID.String() + ":" + s.EvaluatedOn.Format("2006-01-02")
}

// Summarize membangun ChargeSummary pada tanggal evaluasi.
func Summarize(c *model.Charge, today time.Time) ChargeSummary {
	return ChargeSummary{
		ChargeID:          c.ChargeID,
		Kind:              c.ChargeKind,
		Period:            c.ChargeReferencePeriod,
		DueDate:           c.ChargeDueDate,
		HardDeadline:      c.ChargeHardDeadline,
		DaysLate:          c.DaysLate(today),
		AdjustedAmountDue: c.AdjustedAmountDue(today),
		Outstanding:       c.OutstandingBalance(today),
		PastHardDeadline:  c.PastHardDeadline(today),
		Status:            c.StatusAt(today),
	}
}
