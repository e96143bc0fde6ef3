package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"transportku_backend/internals/features/finance/charges/model"
	"transportku_backend/internals/helpers/billperiod"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 30, 0, 0, time.UTC)
}

func newCharge() *model.Charge {
	return &model.Charge{
		ChargeID:              uuid.New(),
		ChargeKind:            model.ChargeKindTuition,
		ChargePayeeType:       model.PayeeStudent,
		ChargePayeeID:         uuid.New(),
		ChargeBaseAmount:      decimal.RequireFromString("1000.00"),
		ChargeReferencePeriod: billperiod.NewPeriod(2025, time.January),
		ChargeDueDate:         billperiod.Civil(day(2025, time.January, 10)),
		ChargeHardDeadline:    billperiod.Civil(day(2025, time.February, 10)),
		ChargeLateFeeRate:     decimal.RequireFromString("0.10"),
		ChargeStatus:          model.ChargeStatusPending,
	}
}

func pay(c *model.Charge, amount string) {
	c.Payments = append(c.Payments, model.Payment{
		PaymentID:       uuid.New(),
		PaymentChargeID: c.ChargeID,
		PaymentAmount:   decimal.RequireFromString(amount),
		PaymentMethod:   model.PaymentMethodCash,
	})
}

func countType(in []Intent, t IntentType) int {
	n := 0
	for _, it := range in {
		if it.Type() == t {
			n++
		}
	}
	return n
}

func TestRecompute_LateWithoutPayment(t *testing.T) {
	c := newCharge()
	now := day(2025, time.January, 20)
	res := Recompute(c, now, DefaultPolicy())

	if res.Status != model.ChargeStatusLate || c.ChargeStatus != model.ChargeStatusLate {
		t.Fatalf("status = %s, want LATE", res.Status)
	}
	today := billperiod.DateOf(now, time.UTC)
	if got := c.DaysLate(today); got != 10 {
		t.Fatalf("days late = %d, want 10", got)
	}
	if got := c.AdjustedAmountDue(today); !got.Equal(decimal.RequireFromString("1200.00")) {
		t.Fatalf("adjusted = %s, want 1200.00", got)
	}
	if !res.Changed {
		t.Fatalf("expected Changed for PENDING -> LATE")
	}
	if countType(res.Intents, IntentSendOverdueAlert) != 1 {
		t.Fatalf("want one overdue alert, got %+v", res.Intents)
	}
	alert := res.Intents[0].(SendOverdueAlert)
	if alert.DedupeKey() != "overdue:"+c.ChargeID.String()+":2025-01-20" {
		t.Fatalf("dedupe key = %s", alert.DedupeKey())
	}
	if !alert.Summary.Outstanding.Equal(decimal.RequireFromString("1200")) {
		t.Fatalf("summary outstanding = %s", alert.Summary.Outstanding)
	}
}

func TestRecompute_PartialBeforeLateness(t *testing.T) {
	c := newCharge()
	pay(c, "700.00")
	now := day(2025, time.January, 15)
	res := Recompute(c, now, DefaultPolicy())

	if res.Status != model.ChargeStatusPartiallyPaid {
		t.Fatalf("status = %s, want PARTIALLY_PAID", res.Status)
	}
	if got := c.OutstandingBalance(billperiod.DateOf(now, time.UTC)); !got.Equal(decimal.RequireFromString("300")) {
		t.Fatalf("outstanding = %s, want 300.00", got)
	}
	if len(res.Intents) != 0 {
		t.Fatalf("no intents expected, got %+v", res.Intents)
	}
}

func TestRecompute_ReceiptEmittedOnce(t *testing.T) {
	c := newCharge()
	Recompute(c, day(2025, time.January, 20), DefaultPolicy())

	pay(c, "1200.00")
	now := day(2025, time.January, 21)
	res := Recompute(c, now, DefaultPolicy())
	if res.Status != model.ChargeStatusPaid {
		t.Fatalf("status = %s, want PAID", res.Status)
	}
	if countType(res.Intents, IntentGenerateReceipt) != 1 {
		t.Fatalf("want exactly one receipt intent, got %+v", res.Intents)
	}
	if !c.ChargeReceiptIssued {
		t.Fatalf("receipt_issued must be set with the PAID write")
	}
	if c.ChargePaidAt == nil || !c.ChargePaidAt.Equal(now) {
		t.Fatalf("paid_at = %v, want %v", c.ChargePaidAt, now)
	}

	again := Recompute(c, day(2025, time.March, 15), DefaultPolicy())
	if len(again.Intents) != 0 {
		t.Fatalf("re-evaluation must not emit intents, got %+v", again.Intents)
	}
	if again.Changed {
		t.Fatalf("re-evaluation of PAID charge must not change it")
	}
	if !c.ChargePaidAt.Equal(now) {
		t.Fatalf("paid_at overwritten: %v", c.ChargePaidAt)
	}
}

func TestRecompute_PaidNeverRegresses(t *testing.T) {
	c := newCharge()
	pay(c, "1000.00")
	Recompute(c, day(2025, time.January, 5), DefaultPolicy())
	if c.ChargeStatus != model.ChargeStatusPaid {
		t.Fatalf("status = %s", c.ChargeStatus)
	}
	// payment list kosong dari luar (mis. load tanpa preload) tidak boleh menurunkan status
	c.Payments = nil
	for _, d := range []time.Time{day(2025, time.January, 11), day(2025, time.February, 20), day(2026, time.January, 1)} {
		res := Recompute(c, d, DefaultPolicy())
		if res.Status != model.ChargeStatusPaid {
			t.Fatalf("status on %s = %s, want PAID", d.Format("2006-01-02"), res.Status)
		}
	}
}

func TestRecompute_NoAlertBeforeDay10(t *testing.T) {
	c := newCharge()
	c.ChargeDueDate = billperiod.Civil(day(2025, time.January, 2))
	for d := 3; d <= 9; d++ {
		res := Recompute(c, day(2025, time.January, d), DefaultPolicy())
		if res.Status != model.ChargeStatusLate {
			t.Fatalf("day %d: status = %s, want LATE", d, res.Status)
		}
		if n := countType(res.Intents, IntentSendOverdueAlert); n != 0 {
			t.Fatalf("day %d: alerts suppressed before the 10th, got %d", d, n)
		}
	}
	// bulan berikutnya, masih sebelum tanggal 10
	if res := Recompute(c, day(2025, time.February, 3), DefaultPolicy()); len(res.Intents) != 0 {
		t.Fatalf("feb 3: want no alert, got %+v", res.Intents)
	}
	if res := Recompute(c, day(2025, time.February, 10), DefaultPolicy()); countType(res.Intents, IntentSendOverdueAlert) != 1 {
		t.Fatalf("feb 10: want alert, got %+v", res.Intents)
	}
}

func TestRecompute_AlertRepeatsWhileLate(t *testing.T) {
	c := newCharge()
	first := Recompute(c, day(2025, time.January, 20), DefaultPolicy())
	second := Recompute(c, day(2025, time.January, 21), DefaultPolicy())
	if second.Changed {
		t.Fatalf("LATE -> LATE is not a change")
	}
	if countType(second.Intents, IntentSendOverdueAlert) != 1 {
		t.Fatalf("periodic re-evaluation while LATE should alert")
	}
	if first.Intents[0].DedupeKey() == second.Intents[0].DedupeKey() {
		t.Fatalf("alerts on different days need different dedupe keys")
	}
}

func TestRecompute_CustomAlertDay(t *testing.T) {
	c := newCharge()
	p := Policy{AlertMinDay: 25, Location: time.UTC}
	if res := Recompute(c, day(2025, time.January, 20), p); len(res.Intents) != 0 {
		t.Fatalf("want no alert before day 25")
	}
	if res := Recompute(c, day(2025, time.January, 25), p); len(res.Intents) != 1 {
		t.Fatalf("want alert on day 25")
	}
}

func TestRecompute_UsesPolicyLocation(t *testing.T) {
	c := newCharge()
	loc := time.FixedZone("CAT", 2*60*60)
	// 23:00 UTC tanggal 10 = tanggal 11 di CAT → sudah lewat jatuh tempo
	now := time.Date(2025, time.January, 10, 23, 0, 0, 0, time.UTC)
	if res := Recompute(c, now, Policy{AlertMinDay: 10, Location: loc}); res.Status != model.ChargeStatusLate {
		t.Fatalf("status = %s, want LATE in CAT", res.Status)
	}
	c2 := newCharge()
	if res := Recompute(c2, now, DefaultPolicy()); res.Status != model.ChargeStatusPending {
		t.Fatalf("status = %s, want PENDING in UTC", res.Status)
	}
}

func TestAdjustedAmountDue_Tiers(t *testing.T) {
	c := newCharge()
	cases := []struct {
		on   time.Time
		want string
	}{
		{day(2025, time.January, 10), "1000"},
		{day(2025, time.January, 14), "1000"}, // 4 hari: tier 0
		{day(2025, time.January, 15), "1100"},
		{day(2025, time.January, 19), "1100"},
		{day(2025, time.January, 20), "1200"},
		{day(2025, time.February, 9), "1600"}, // 30 hari: tier 6, tidak compounding
	}
	prev := decimal.Zero
	for _, tc := range cases {
		today := billperiod.DateOf(tc.on, time.UTC)
		got := c.AdjustedAmountDue(today)
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("%s: adjusted = %s, want %s", today.Format("2006-01-02"), got, tc.want)
		}
		if got.LessThan(prev) {
			t.Fatalf("adjusted amount decreased: %s < %s", got, prev)
		}
		prev = got
	}
}

func TestOutstandingNeverNegative(t *testing.T) {
	c := newCharge()
	pay(c, "600")
	pay(c, "600")
	today := billperiod.DateOf(day(2025, time.January, 25), time.UTC)
	if got := c.OutstandingBalance(today); got.IsNegative() {
		t.Fatalf("outstanding = %s", got)
	}
	if Recompute(c, today, DefaultPolicy()).Status != model.ChargeStatusPaid {
		t.Fatalf("1200 paid against 1000 base must be PAID")
	}
}

func TestGenerateReceipt_DedupeStable(t *testing.T) {
	id := uuid.New()
	a := GenerateReceipt{Charge: id}
	b := GenerateReceipt{Charge: id, AmountPaid: decimal.NewFromInt(5)}
	if a.DedupeKey() != b.DedupeKey() {
		t.Fatalf("receipt dedupe key must depend on charge only")
	}
}
