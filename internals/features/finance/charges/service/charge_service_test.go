package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"transportku_backend/internals/features/finance/charges/engine"
	"transportku_backend/internals/features/finance/charges/model"
	"transportku_backend/internals/helpers/billperiod"
	"transportku_backend/internals/helpers/testdb"
)

type recordingOutbox struct {
	mu      sync.Mutex
	intents []engine.Intent
}

func (r *recordingOutbox) EnqueueTx(_ context.Context, _ *gorm.DB, in []engine.Intent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intents = append(r.intents, in...)
	return nil
}

func (r *recordingOutbox) count(t engine.IntentType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, it := range r.intents {
		if it.Type() == t {
			n++
		}
	}
	return n
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }
func (c *clock) set(y int, m time.Month, d, h int) {
	c.t = time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func newServices(t *testing.T) (*ChargeService, *PaymentService, *recordingOutbox, *clock) {
	t.Helper()
	db := testdb.Open(t, &model.Charge{}, &model.Payment{})
	ob := &recordingOutbox{}
	clk := &clock{}
	clk.set(2025, time.January, 5, 9)
	cs := NewChargeService(db, ob, engine.DefaultPolicy(), nil)
	cs.Now = clk.now
	return cs, NewPaymentService(cs), ob, clk
}

func scenarioInput(payee uuid.UUID) CreateChargeInput {
	return CreateChargeInput{
		Kind:         model.ChargeKindTuition,
		PayeeID:      payee,
		BaseAmount:   decimal.RequireFromString("1000.00"),
		Period:       billperiod.NewPeriod(2025, time.January),
		DueDate:      time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		HardDeadline: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		LateFeeRate:  decimal.RequireFromString("0.10"),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCreate_DuplicatePeriod(t *testing.T) {
	cs, _, _, _ := newServices(t)
	payee := uuid.New()
	if _, err := cs.Create(context.Background(), scenarioInput(payee)); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := cs.Create(context.Background(), scenarioInput(payee))
	if !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("second create: got %v, want ErrInvalidPeriod", err)
	}

	// payee lain, periode sama → boleh
	if _, err := cs.Create(context.Background(), scenarioInput(uuid.New())); err != nil {
		t.Fatalf("other payee: %v", err)
	}
}

func TestCreate_InvalidDates(t *testing.T) {
	cs, _, _, _ := newServices(t)
	in := scenarioInput(uuid.New())
	in.HardDeadline = time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC)
	if _, err := cs.Create(context.Background(), in); !errors.Is(err, ErrInvalidDates) {
		t.Fatalf("got %v, want ErrInvalidDates", err)
	}
}

func TestCreate_AfterDueDateIsLate(t *testing.T) {
	cs, _, _, clk := newServices(t)
	clk.set(2025, time.January, 20, 9)
	c, err := cs.Create(context.Background(), scenarioInput(uuid.New()))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ChargeStatus != model.ChargeStatusLate {
		t.Fatalf("status = %s, want LATE", c.ChargeStatus)
	}
}

func TestRecord_FullScenario(t *testing.T) {
	cs, ps, ob, clk := newServices(t)
	ctx := context.Background()
	c, err := cs.Create(ctx, scenarioInput(uuid.New()))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// pada 2025-01-20 tanpa pembayaran → LATE, 1200.00
	clk.set(2025, time.January, 20, 9)
	got, _, err := cs.Recompute(ctx, c.ChargeID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if got.ChargeStatus != model.ChargeStatusLate {
		t.Fatalf("status = %s, want LATE", got.ChargeStatus)
	}
	ev, err := cs.Evaluate(ctx, c.ChargeID, nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if ev.DaysLate != 10 || !ev.AdjustedAmountDue.Equal(dec("1200")) {
		t.Fatalf("days_late=%d adjusted=%s, want 10 / 1200.00", ev.DaysLate, ev.AdjustedAmountDue)
	}

	// overpayment terhadap saldo 1200
	_, err = ps.Record(ctx, RecordPaymentInput{ChargeID: c.ChargeID, Amount: dec("1300.00")})
	if !errors.Is(err, ErrOverpayment) {
		t.Fatalf("got %v, want ErrOverpayment", err)
	}

	res, err := ps.Record(ctx, RecordPaymentInput{ChargeID: c.ChargeID, Amount: dec("1200.00"), Method: model.PaymentMethodTransfer})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if res.Charge.ChargeStatus != model.ChargeStatusPaid {
		t.Fatalf("status = %s, want PAID", res.Charge.ChargeStatus)
	}
	if !res.Charge.ChargeReceiptIssued || res.Charge.ChargePaidAt == nil {
		t.Fatal("receipt_issued / paid_at not set")
	}
	if n := ob.count(engine.IntentGenerateReceipt); n != 1 {
		t.Fatalf("receipt intents = %d, want 1", n)
	}

	clk.set(2025, time.January, 25, 9)
	if _, _, err := cs.Recompute(ctx, c.ChargeID); err != nil {
		t.Fatalf("recompute after paid: %v", err)
	}
	if n := ob.count(engine.IntentGenerateReceipt); n != 1 {
		t.Fatalf("receipt intents after re-evaluation = %d, want 1", n)
	}

	stored, err := cs.Get(ctx, c.ChargeID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.ChargeStatus != model.ChargeStatusPaid || len(stored.Payments) != 1 {
		t.Fatalf("stored status=%s payments=%d", stored.ChargeStatus, len(stored.Payments))
	}
}

func TestRecord_PartialBeforeLateness(t *testing.T) {
	cs, ps, _, clk := newServices(t)
	ctx := context.Background()
	c, _ := cs.Create(ctx, scenarioInput(uuid.New()))

	clk.set(2025, time.January, 8, 9)
	res, err := ps.Record(ctx, RecordPaymentInput{ChargeID: c.ChargeID, Amount: dec("700.00")})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if res.Charge.ChargeStatus != model.ChargeStatusPartiallyPaid {
		t.Fatalf("status = %s, want PARTIALLY_PAID", res.Charge.ChargeStatus)
	}
	if out := res.Charge.OutstandingBalance(cs.Today()); !out.Equal(dec("300")) {
		t.Fatalf("outstanding = %s, want 300.00", out)
	}
	if res.Charge.ChargeVersion != 1 {
		t.Fatalf("version = %d, want 1", res.Charge.ChargeVersion)
	}
}

func TestRecord_Validation(t *testing.T) {
	cs, ps, _, clk := newServices(t)
	ctx := context.Background()
	c, _ := cs.Create(ctx, scenarioInput(uuid.New()))

	future := clk.now().Add(time.Hour)
	cases := []struct {
		name string
		in   RecordPaymentInput
		want error
	}{
		{"future", RecordPaymentInput{ChargeID: c.ChargeID, Amount: dec("10"), PaidAt: &future}, ErrFutureDated},
		{"zero", RecordPaymentInput{ChargeID: c.ChargeID, Amount: decimal.Zero}, ErrInvalidPayment},
		{"negative", RecordPaymentInput{ChargeID: c.ChargeID, Amount: dec("-5")}, ErrInvalidPayment},
		{"three decimals", RecordPaymentInput{ChargeID: c.ChargeID, Amount: dec("1.005")}, ErrInvalidPayment},
		{"bad method", RecordPaymentInput{ChargeID: c.ChargeID, Amount: dec("10"), Method: "CHEQUE"}, ErrInvalidPayment},
		{"missing charge", RecordPaymentInput{ChargeID: uuid.New(), Amount: dec("10")}, ErrChargeNotFound},
	}
	for _, tc := range cases {
		if _, err := ps.Record(ctx, tc.in); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestRecord_ToleranceTrimsRoundingRemainder(t *testing.T) {
	cs, ps, ob, _ := newServices(t)
	ctx := context.Background()
	in := scenarioInput(uuid.New())
	in.BaseAmount = dec("1000.50")
	c, err := cs.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := ps.Record(ctx, RecordPaymentInput{ChargeID: c.ChargeID, Amount: dec("1001")}); !errors.Is(err, ErrOverpayment) {
		t.Fatalf("no tolerance: got %v, want ErrOverpayment", err)
	}
	if _, err := ps.Record(ctx, RecordPaymentInput{ChargeID: c.ChargeID, Amount: dec("1002"), Tolerance: dec("1")}); !errors.Is(err, ErrOverpayment) {
		t.Fatalf("beyond tolerance: got %v, want ErrOverpayment", err)
	}

	rec, err := ps.Record(ctx, RecordPaymentInput{ChargeID: c.ChargeID, Amount: dec("1001"), Method: model.PaymentMethodCard, Tolerance: dec("1")})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !rec.Payment.PaymentAmount.Equal(dec("1000.50")) {
		t.Fatalf("recorded %s, want 1000.50", rec.Payment.PaymentAmount)
	}
	if rec.Charge.ChargeStatus != model.ChargeStatusPaid {
		t.Fatalf("status = %s, want PAID", rec.Charge.ChargeStatus)
	}
	if ob.count(engine.IntentGenerateReceipt) != 1 {
		t.Fatalf("receipt intents = %d, want 1", ob.count(engine.IntentGenerateReceipt))
	}

	// lunas: toleransi tidak berlaku untuk saldo nol
	if _, err := ps.Record(ctx, RecordPaymentInput{ChargeID: c.ChargeID, Amount: dec("0.50"), Tolerance: dec("1")}); !errors.Is(err, ErrOverpayment) {
		t.Fatalf("paid charge: got %v, want ErrOverpayment", err)
	}
}

func TestRecord_DuplicateExternalRef(t *testing.T) {
	cs, ps, _, _ := newServices(t)
	ctx := context.Background()
	c, _ := cs.Create(ctx, scenarioInput(uuid.New()))

	ref := "CHG-abc-1"
	in := RecordPaymentInput{ChargeID: c.ChargeID, Amount: dec("400"), Method: model.PaymentMethodCard, ExternalRef: &ref}
	first, err := ps.Record(ctx, in)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := ps.Record(ctx, in)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if !second.Duplicate || second.Payment.PaymentID != first.Payment.PaymentID {
		t.Fatalf("expected duplicate of %s, got %+v", first.Payment.PaymentID, second)
	}
	payments, _ := ps.ListByCharge(ctx, c.ChargeID)
	if len(payments) != 1 {
		t.Fatalf("payments = %d, want 1", len(payments))
	}
}

func TestSaveVersioned_StaleVersionConflicts(t *testing.T) {
	cs, _, _, _ := newServices(t)
	ctx := context.Background()
	c, _ := cs.Create(ctx, scenarioInput(uuid.New()))

	stale := *c
	// versi sudah dinaikkan proses lain
	if err := cs.DB.Model(&model.Charge{}).Where("charge_id = ?", c.ChargeID).
		Update("charge_version", c.ChargeVersion+1).Error; err != nil {
		t.Fatalf("bump: %v", err)
	}
	err := cs.DB.Transaction(func(tx *gorm.DB) error {
		return saveVersioned(tx, &stale, time.Now())
	})
	if !errors.Is(err, ErrConcurrentModification) {
		t.Fatalf("got %v, want ErrConcurrentModification", err)
	}
}

func TestRecord_ConcurrentNeverOverpays(t *testing.T) {
	cs, ps, _, _ := newServices(t)
	ctx := context.Background()
	c, _ := cs.Create(ctx, scenarioInput(uuid.New()))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = ps.Record(ctx, RecordPaymentInput{ChargeID: c.ChargeID, Amount: dec("600")})
		}()
	}
	wg.Wait()

	stored, err := cs.Get(ctx, c.ChargeID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.TotalPaid().GreaterThan(dec("1000")) {
		t.Fatalf("total paid %s exceeds base", stored.TotalPaid())
	}
	if len(stored.Payments) != 1 {
		t.Fatalf("payments = %d, want 1", len(stored.Payments))
	}
}

func TestDelete(t *testing.T) {
	cs, ps, _, _ := newServices(t)
	ctx := context.Background()

	c1, _ := cs.Create(ctx, scenarioInput(uuid.New()))
	if err := cs.Delete(ctx, c1.ChargeID); err != nil {
		t.Fatalf("delete unpaid: %v", err)
	}
	if _, err := cs.Get(ctx, c1.ChargeID); !errors.Is(err, ErrChargeNotFound) {
		t.Fatalf("get deleted: %v", err)
	}

	c2, _ := cs.Create(ctx, scenarioInput(uuid.New()))
	if _, err := ps.Record(ctx, RecordPaymentInput{ChargeID: c2.ChargeID, Amount: dec("100")}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := cs.Delete(ctx, c2.ChargeID); !errors.Is(err, ErrChargeLocked) {
		t.Fatalf("delete paid-against: got %v, want ErrChargeLocked", err)
	}
}

func TestList_Filters(t *testing.T) {
	cs, ps, _, _ := newServices(t)
	ctx := context.Background()
	a, _ := cs.Create(ctx, scenarioInput(uuid.New()))
	cs.Create(ctx, scenarioInput(uuid.New()))
	ps.Record(ctx, RecordPaymentInput{ChargeID: a.ChargeID, Amount: dec("1000")})

	rows, total, err := cs.List(ctx, ChargeFilter{OpenOnly: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("open charges = %d/%d, want 1", len(rows), total)
	}
	_, total, _ = cs.List(ctx, ChargeFilter{Status: model.ChargeStatusPaid})
	if total != 1 {
		t.Fatalf("paid = %d, want 1", total)
	}
	_, total, _ = cs.List(ctx, ChargeFilter{Period: billperiod.NewPeriod(2025, time.February)})
	if total != 0 {
		t.Fatalf("feb = %d, want 0", total)
	}
}
