package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"transportku_backend/internals/features/finance/charges/model"
	"transportku_backend/internals/features/finance/charges/service"
	"transportku_backend/internals/helpers/billperiod"
	"transportku_backend/internals/helpers/dbtime"
)

const dateLayout = "2006-01-02"

/* ===================== REQUEST ===================== */

// CreateChargeRequest: due_date / hard_deadline / late_fee_rate kosong → jadwal default periode.
type CreateChargeRequest struct {
	Kind         string           `json:"kind" validate:"omitempty,oneof=tuition salary"`
	PayeeID      string           `json:"payee_id" validate:"required,uuid"`
	BaseAmount   decimal.Decimal  `json:"base_amount"`
	Period       string           `json:"period" validate:"required,len=7"`
	DueDate      string           `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	HardDeadline string           `json:"hard_deadline" validate:"omitempty,datetime=2006-01-02"`
	LateFeeRate  *decimal.Decimal `json:"late_fee_rate"`
	Note         *string          `json:"note" validate:"omitempty,max=500"`
}

// Defaults untuk field opsional, diisi controller dari jadwal billing.
type ChargeDefaults struct {
	DueDate      time.Time
	HardDeadline time.Time
	LateFeeRate  decimal.Decimal
}

// ToInput: field error dikembalikan sebagai map (422).
func (r CreateChargeRequest) ToInput(defaults func(billperiod.Period) ChargeDefaults) (service.CreateChargeInput, map[string][]string) {
	errs := map[string][]string{}
	period, err := billperiod.ParsePeriod(r.Period)
	if err != nil {
		errs["period"] = append(errs["period"], "must be YYYY-MM")
	}
	payee, _ := uuid.Parse(strings.TrimSpace(r.PayeeID))
	if r.BaseAmount.IsNegative() {
		errs["base_amount"] = append(errs["base_amount"], "must be >= 0")
	}
	if !r.BaseAmount.Equal(billperiod.Round2(r.BaseAmount)) {
		errs["base_amount"] = append(errs["base_amount"], "must have at most 2 decimals")
	}
	if r.LateFeeRate != nil && (r.LateFeeRate.IsNegative() || r.LateFeeRate.GreaterThan(decimal.NewFromInt(1))) {
		errs["late_fee_rate"] = append(errs["late_fee_rate"], "must be between 0 and 1")
	}
	if len(errs) > 0 {
		return service.CreateChargeInput{}, errs
	}

	d := defaults(period)
	in := service.CreateChargeInput{
		Kind:         model.ChargeKind(r.Kind),
		PayeeID:      payee,
		BaseAmount:   r.BaseAmount,
		Period:       period,
		DueDate:      d.DueDate,
		HardDeadline: d.HardDeadline,
		LateFeeRate:  d.LateFeeRate,
		Note:         r.Note,
	}
	if r.DueDate != "" {
		in.DueDate, _ = dbtime.ParseDate(r.DueDate)
	}
	if r.HardDeadline != "" {
		in.HardDeadline, _ = dbtime.ParseDate(r.HardDeadline)
	}
	if r.LateFeeRate != nil {
		in.LateFeeRate = *r.LateFeeRate
	}
	if in.Kind == model.ChargeKindSalary && r.LateFeeRate == nil {
		in.LateFeeRate = decimal.Zero
	}
	return in, nil
}

type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method" validate:"omitempty,oneof=CASH TRANSFER CARD"`
	PaidAt *time.Time      `json:"paid_at"`
	Note   *string         `json:"note" validate:"omitempty,max=500"`
}

func (r RecordPaymentRequest) ToInput(chargeID uuid.UUID) service.RecordPaymentInput {
	return service.RecordPaymentInput{
		ChargeID: chargeID,
		Amount:   r.Amount,
		Method:   model.PaymentMethod(strings.ToUpper(strings.TrimSpace(r.Method))),
		PaidAt:   r.PaidAt,
		Note:     r.Note,
	}
}

// ListQuery dibaca dari query string.
type ListQuery struct {
	Status    string `query:"status"`
	Kind      string `query:"kind"`
	Period    string `query:"period"`
	PayeeType string `query:"payee_type"`
	PayeeID   string `query:"payee_id"`
	Open      bool   `query:"open"`
}

func (q ListQuery) ToFilter() (service.ChargeFilter, error) {
	f := service.ChargeFilter{
		Status:    model.ChargeStatus(strings.ToUpper(strings.TrimSpace(q.Status))),
		Kind:      model.ChargeKind(strings.ToLower(strings.TrimSpace(q.Kind))),
		PayeeType: model.PayeeType(strings.ToLower(strings.TrimSpace(q.PayeeType))),
		OpenOnly:  q.Open,
	}
	if f.Status != "" && !f.Status.Valid() {
		return f, fmt.Errorf("unknown status %q", q.Status)
	}
	if strings.TrimSpace(q.Period) != "" {
		p, err := billperiod.ParsePeriod(q.Period)
		if err != nil {
			return f, err
		}
		f.Period = p
	}
	if strings.TrimSpace(q.PayeeID) != "" {
		id, err := uuid.Parse(strings.TrimSpace(q.PayeeID))
		if err != nil {
			return f, fmt.Errorf("payee_id is not a valid UUID")
		}
		f.PayeeID = &id
	}
	return f, nil
}

/* ===================== RESPONSE ===================== */

type PaymentResponse struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	ChargeID    uuid.UUID `json:"charge_id"`
	Amount      string    `json:"amount"`
	PaidAt      time.Time `json:"paid_at"`
	Method      string    `json:"method"`
	Note        *string   `json:"note,omitempty"`
	ExternalRef *string   `json:"external_ref,omitempty"`
}

func FromPayment(p model.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:   p.PaymentID,
		ChargeID:    p.PaymentChargeID,
		Amount:      p.PaymentAmount.StringFixed(2),
		PaidAt:      p.PaymentPaidAt,
		Method:      string(p.PaymentMethod),
		Note:        p.PaymentNote,
		ExternalRef: p.PaymentExternalRef,
	}
}

func FromPayments(rows []model.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(rows))
	for _, p := range rows {
		out = append(out, FromPayment(p))
	}
	return out
}

// ChargeResponse = kolom tersimpan + nilai turunan pada evaluated_on.
type ChargeResponse struct {
	ChargeID     uuid.UUID      `json:"charge_id"`
	Kind         string         `json:"kind"`
	Payee        model.PayeeRef `json:"payee"`
	BaseAmount   string         `json:"base_amount"`
	Period       string         `json:"period"`
	DueDate      string         `json:"due_date"`
	HardDeadline string         `json:"hard_deadline"`
	LateFeeRate  string         `json:"late_fee_rate"`

	Status        string     `json:"status"`
	StoredStatus  string     `json:"stored_status"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	ReceiptIssued bool       `json:"receipt_issued"`
	Version       int64      `json:"version"`
	Note          *string    `json:"note,omitempty"`

	EvaluatedOn       string `json:"evaluated_on"`
	DaysLate          int    `json:"days_late"`
	LateFeeTiers      int    `json:"late_fee_tiers"`
	AdjustedAmountDue string `json:"adjusted_amount_due"`
	TotalPaid         string `json:"total_paid"`
	Outstanding       string `json:"outstanding"`
	PastHardDeadline  bool   `json:"past_hard_deadline"`

	Payments  []PaymentResponse `json:"payments"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func FromEvaluation(ev service.Evaluation) ChargeResponse {
	c := ev.Charge
	return ChargeResponse{
		ChargeID:     c.ChargeID,
		Kind:         string(c.ChargeKind),
		Payee:        c.PayeeRef(),
		BaseAmount:   c.ChargeBaseAmount.StringFixed(2),
		Period:       c.ChargeReferencePeriod.String(),
		DueDate:      c.ChargeDueDate.Format(dateLayout),
		HardDeadline: c.ChargeHardDeadline.Format(dateLayout),
		LateFeeRate:  c.ChargeLateFeeRate.String(),

		Status:        string(ev.Status),
		StoredStatus:  string(c.ChargeStatus),
		PaidAt:        c.ChargePaidAt,
		ReceiptIssued: c.ChargeReceiptIssued,
		Version:       c.ChargeVersion,
		Note:          c.ChargeNote,

		EvaluatedOn:       ev.EvaluatedOn.Format(dateLayout),
		DaysLate:          ev.DaysLate,
		LateFeeTiers:      ev.LateFeeTiers,
		AdjustedAmountDue: ev.AdjustedAmountDue.StringFixed(2),
		TotalPaid:         ev.TotalPaid.StringFixed(2),
		Outstanding:       ev.Outstanding.StringFixed(2),
		PastHardDeadline:  ev.PastHardDeadline,

		Payments:  FromPayments(c.Payments),
		CreatedAt: c.ChargeCreatedAt,
		UpdatedAt: c.ChargeUpdatedAt,
	}
}

func FromCharge(c *model.Charge, today time.Time) ChargeResponse {
	return FromEvaluation(service.Evaluate(c, today))
}

func FromCharges(rows []model.Charge, today time.Time) []ChargeResponse {
	out := make([]ChargeResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromCharge(&rows[i], today))
	}
	return out
}

type RecordPaymentResponse struct {
	Payment   PaymentResponse `json:"payment"`
	Charge    ChargeResponse  `json:"charge"`
	Previous  string          `json:"previous_status"`
	Duplicate bool            `json:"duplicate,omitempty"`
}
