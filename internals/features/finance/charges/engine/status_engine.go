package engine

import (
	"time"

	"transportku_backend/internals/features/finance/charges/model"
	"transportku_backend/internals/helpers/billperiod"
)

// DefaultAlertMinDay: alert ditahan sebelum tanggal 10 bulan evaluasi.
const DefaultAlertMinDay = 10

type Policy struct {
	AlertMinDay int
	Location    *time.Location
}

func DefaultPolicy() Policy {
	return Policy{AlertMinDay: DefaultAlertMinDay, Location: time.UTC}
}

func (p Policy) loc() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

func (p Policy) minDay() int {
	if p.AlertMinDay <= 0 {
		return DefaultAlertMinDay
	}
	return p.AlertMinDay
}

type Result struct {
	Previous model.ChargeStatus
	Status   model.ChargeStatus
	Changed  bool // ada kolom charge yang berubah (status / paid_at / receipt_issued)
	Intents  []Intent
}

// Recompute adalah satu-satunya mutator status charge.
// Tidak pernah gagal: hanya aritmetika + perbandingan atas Payments yang sudah dimuat.
// `now` dipakai untuk paid_at; tanggal evaluasi = now di lokasi policy.
func Recompute(c *model.Charge, now time.Time, p Policy) Result {
	today := billperiod.DateOf(now, p.loc())
	prev := c.ChargeStatus
	next := c.StatusAt(today)

	res := Result{Previous: prev, Status: next}

	if next != prev {
		c.ChargeStatus = next
		res.Changed = true
	}

	if next == model.ChargeStatusPaid {
		if c.ChargePaidAt == nil {
			at := now
			c.ChargePaidAt = &at
			res.Changed = true
		}
		if prev != model.ChargeStatusPaid && !c.ChargeReceiptIssued {
			c.ChargeReceiptIssued = true
			res.Changed = true
			res.Intents = append(res.Intents, GenerateReceipt{
				Charge:     c.ChargeID,
				PayeeRef:   c.PayeeRef(),
				AmountPaid: c.TotalPaid(),
				PaidAt:     *c.ChargePaidAt,
			})
		}
		return res
	}

	// LATE (termasuk PENDING yang baru lewat jatuh tempo) → alert, mulai tanggal 10
	if next == model.ChargeStatusLate && billperiod.OnOrAfterDay(today, p.minDay()) {
		res.Intents = append(res.Intents, SendOverdueAlert{
			PayeeRef:    c.PayeeRef(),
			Summary:     Summarize(c, today),
			EvaluatedOn: today,
		})
	}
	return res
}
