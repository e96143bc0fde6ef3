package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"transportku_backend/internals/helpers/billperiod"
)

// LateFeeStepDays: denda naik per 5 hari keterlambatan (bertingkat, bukan kontinu).
const LateFeeStepDays = 5

// PayeeRef menunjuk entitas pemilik tagihan (student / employee) tanpa menyimpan datanya.
type PayeeRef struct {
	Type PayeeType `json:"type"`
	ID   uuid.UUID `json:"id"`
}

func (p PayeeRef) String() string { return string(p.Type) + ":" + p.ID.String() }

type Charge struct {
	ChargeID uuid.UUID `gorm:"column:charge_id;type:uuid;primaryKey" json:"charge_id"`

	ChargeKind      ChargeKind `gorm:"column:charge_kind;type:varchar(20);not null;index" json:"charge_kind"`
	ChargePayeeType PayeeType  `gorm:"column:charge_payee_type;type:varchar(20);not null;uniqueIndex:uq_charge_payee_period,priority:1" json:"charge_payee_type"`
	ChargePayeeID   uuid.UUID  `gorm:"column:charge_payee_id;type:uuid;not null;uniqueIndex:uq_charge_payee_period,priority:2" json:"charge_payee_id"`

	ChargeBaseAmount      decimal.Decimal    `gorm:"column:charge_base_amount;type:numeric(12,2);not null" json:"charge_base_amount"`
	ChargeReferencePeriod billperiod.Period `gorm:"column:charge_reference_period;type:varchar(7);not null;uniqueIndex:uq_charge_payee_period,priority:3;index" json:"charge_reference_period"`
	ChargeDueDate         time.Time          `gorm:"column:charge_due_date;type:date;not null;index" json:"charge_due_date"`
	ChargeHardDeadline    time.Time          `gorm:"column:charge_hard_deadline;type:date;not null" json:"charge_hard_deadline"`
	ChargeLateFeeRate     decimal.Decimal    `gorm:"column:charge_late_fee_rate;type:numeric(5,4);not null" json:"charge_late_fee_rate"`

	// Hanya boleh diubah oleh status engine
	ChargeStatus        ChargeStatus `gorm:"column:charge_status;type:varchar(20);not null;default:'PENDING';index" json:"charge_status"`
	ChargePaidAt        *time.Time   `gorm:"column:charge_paid_at" json:"charge_paid_at,omitempty"`
	ChargeReceiptIssued bool         `gorm:"column:charge_receipt_issued;not null;default:false" json:"charge_receipt_issued"`

	ChargeNote    *string `gorm:"column:charge_note;type:text" json:"charge_note,omitempty"`
	ChargeVersion int64   `gorm:"column:charge_version;not null;default:0" json:"charge_version"`

	ChargeCreatedAt time.Time `gorm:"column:charge_created_at;autoCreateTime" json:"charge_created_at"`
	ChargeUpdatedAt time.Time `gorm:"column:charge_updated_at;autoUpdateTime" json:"charge_updated_at"`

	Payments []Payment `gorm:"foreignKey:PaymentChargeID;references:ChargeID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
}

func (Charge) TableName() string { return "charges" }

func (c *Charge) BeforeCreate(tx *gorm.DB) error {
	if c.ChargeID == uuid.Nil {
		c.ChargeID = uuid.New()
	}
	if c.ChargeStatus == "" {
		c.ChargeStatus = ChargeStatusPending
	}
	return nil
}

var ErrHardDeadlineBeforeDue = errors.New("hard deadline before due date")

// Validate cek invariant statis yang tidak tergantung tanggal evaluasi.
func (c *Charge) Validate() error {
	if c.ChargeBaseAmount.IsNegative() {
		return fmt.Errorf("base amount %s must be >= 0", c.ChargeBaseAmount)
	}
	if c.ChargeLateFeeRate.IsNegative() {
		return fmt.Errorf("late fee rate %s must be >= 0", c.ChargeLateFeeRate)
	}
	if c.ChargeReferencePeriod.IsZero() {
		return errors.New("reference period is required")
	}
	if c.ChargeHardDeadline.Before(c.ChargeDueDate) && !billperiod.SameDate(c.ChargeHardDeadline, c.ChargeDueDate) {
		return ErrHardDeadlineBeforeDue
	}
	return nil
}

func (c *Charge) PayeeRef() PayeeRef {
	return PayeeRef{Type: c.ChargePayeeType, ID: c.ChargePayeeID}
}

/* ===================== Arithmetic ===================== */

// TotalPaid = Σ pembayaran; 0.00 kalau belum ada.
func (c *Charge) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range c.Payments {
		total = total.Add(p.PaymentAmount)
	}
	return billperiod.Round2(total)
}

// StatusAt menghitung status murni dari (today, due, base, rate, Σ payments).
// PAID bersifat final: sekali PAID tidak pernah mundur.
//
// Urutan prioritas: PAID > PARTIALLY_PAID > LATE > PENDING. Karena LATE hanya
// mungkin saat belum ada pembayaran, nominal ber-denda cukup dibandingkan
// dengan Σ payments = 0, jadi tidak ada ketergantungan melingkar.
func (c *Charge) StatusAt(today time.Time) ChargeStatus {
	if c.ChargeStatus == ChargeStatusPaid {
		return ChargeStatusPaid
	}
	paid := c.TotalPaid()
	late := billperiod.AfterDate(today, c.ChargeDueDate)

	due := c.ChargeBaseAmount
	if paid.IsZero() && late {
		due = c.lateAdjusted(today)
	}
	switch {
	case paid.GreaterThanOrEqual(due):
		return ChargeStatusPaid
	case paid.IsPositive():
		return ChargeStatusPartiallyPaid
	case late:
		return ChargeStatusLate
	default:
		return ChargeStatusPending
	}
}

// DaysLate = max(0, today - due_date) kalau belum PAID, selain itu 0.
func (c *Charge) DaysLate(today time.Time) int {
	if c.StatusAt(today) == ChargeStatusPaid {
		return 0
	}
	return c.rawDaysLate(today)
}

// AdjustedAmountDue = base × (1 + rate × floor(days_late/5)) saat LATE, selain itu base.
func (c *Charge) AdjustedAmountDue(today time.Time) decimal.Decimal {
	if c.StatusAt(today) != ChargeStatusLate {
		return billperiod.Round2(c.ChargeBaseAmount)
	}
	return c.lateAdjusted(today)
}

// OutstandingBalance = adjusted - total paid, minimal 0.
func (c *Charge) OutstandingBalance(today time.Time) decimal.Decimal {
	return billperiod.MaxZero(c.AdjustedAmountDue(today).Sub(c.TotalPaid()))
}

// LateFeeTiers = floor(days_late / 5).
func (c *Charge) LateFeeTiers(today time.Time) int {
	return c.rawDaysLate(today) / LateFeeStepDays
}

// PastHardDeadline: hari evaluasi sudah lewat batas akhir pembayaran.
func (c *Charge) PastHardDeadline(today time.Time) bool {
	return billperiod.AfterDate(today, c.ChargeHardDeadline)
}

func (c *Charge) rawDaysLate(today time.Time) int {
	d := billperiod.DaysBetween(c.ChargeDueDate, today)
	if d < 0 {
		return 0
	}
	return d
}

func (c *Charge) lateAdjusted(today time.Time) decimal.Decimal {
	tiers := decimal.NewFromInt(int64(c.LateFeeTiers(today)))
	factor := decimal.NewFromInt(1).Add(c.ChargeLateFeeRate.Mul(tiers))
	return billperiod.Round2(c.ChargeBaseAmount.Mul(factor))
}
