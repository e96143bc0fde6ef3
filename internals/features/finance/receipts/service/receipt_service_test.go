package service

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"transportku_backend/internals/features/finance/charges/engine"
	chargeModel "transportku_backend/internals/features/finance/charges/model"
	payeeService "transportku_backend/internals/features/finance/payees/service"
	receiptModel "transportku_backend/internals/features/finance/receipts/model"
	"transportku_backend/internals/helpers/billperiod"
	"transportku_backend/internals/helpers/storage"
	"transportku_backend/internals/helpers/testdb"
)

type fakeContacts struct{ calls int }

func (f *fakeContacts) Resolve(ctx context.Context, ref chargeModel.PayeeRef) (payeeService.Contact, error) {
	f.calls++
	return payeeService.Contact{PayeeName: "Ana Maria", Name: "Joao Maria", Email: "joao@example.com", RecipientKey: "guardian:x"}, nil
}

func seedPaidCharge(t *testing.T, svc *Service) *chargeModel.Charge {
	t.Helper()
	paidAt := time.Date(2025, 1, 8, 9, 30, 0, 0, time.UTC)
	c := &chargeModel.Charge{
		ChargeID:              uuid.New(),
		ChargeKind:            chargeModel.ChargeKindTuition,
		ChargePayeeType:       chargeModel.PayeeStudent,
		ChargePayeeID:         uuid.New(),
		ChargeBaseAmount:      decimal.NewFromInt(2500),
		ChargeReferencePeriod: billperiod.NewPeriod(2025, time.January),
		ChargeDueDate:         time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		ChargeHardDeadline:    time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		ChargeLateFeeRate:     decimal.RequireFromString("0.10"),
		ChargeStatus:          chargeModel.ChargeStatusPaid,
		ChargePaidAt:          &paidAt,
		ChargeReceiptIssued:   true,
	}
	if err := svc.DB.Create(c).Error; err != nil {
		t.Fatalf("seed charge: %v", err)
	}
	for _, amt := range []int64{1000, 1500} {
		p := chargeModel.Payment{
			PaymentChargeID: c.ChargeID,
			PaymentAmount:   decimal.NewFromInt(amt),
			PaymentPaidAt:   paidAt,
			PaymentMethod:   chargeModel.PaymentMethodCash,
		}
		if err := svc.DB.Create(&p).Error; err != nil {
			t.Fatalf("seed payment: %v", err)
		}
	}
	return c
}

func newTestService(t *testing.T) (*Service, *storage.LocalStore, *fakeContacts) {
	t.Helper()
	db := testdb.Open(t, &chargeModel.Charge{}, &chargeModel.Payment{}, &receiptModel.Receipt{})
	store, err := storage.NewLocalStore(t.TempDir(), "http://files.test")
	if err != nil {
		t.Fatalf("local store: %v", err)
	}
	contacts := &fakeContacts{}
	svc := NewService(db, store, contacts, nil)
	svc.Now = func() time.Time { return time.Date(2025, 1, 9, 12, 0, 0, 0, time.UTC) }
	return svc, store, contacts
}

func TestRenderReceipt_WritesDocumentAndRow(t *testing.T) {
	svc, store, _ := newTestService(t)
	c := seedPaidCharge(t, svc)

	in := engine.GenerateReceipt{Charge: c.ChargeID, PayeeRef: c.PayeeRef(), AmountPaid: decimal.NewFromInt(2500), PaidAt: *c.ChargePaidAt}
	if err := svc.RenderReceipt(context.Background(), in); err != nil {
		t.Fatalf("RenderReceipt: %v", err)
	}

	r, err := svc.ByCharge(context.Background(), c.ChargeID)
	if err != nil {
		t.Fatalf("ByCharge: %v", err)
	}
	if !r.ReceiptAmountPaid.Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("amount = %s, want 2500", r.ReceiptAmountPaid)
	}
	if r.ReceiptStorage != "local" {
		t.Fatalf("storage = %q", r.ReceiptStorage)
	}
	wantKey := "receipts/2025-01/" + c.ChargeID.String() + ".html"
	if r.ReceiptObjectKey != wantKey {
		t.Fatalf("key = %q, want %q", r.ReceiptObjectKey, wantKey)
	}
	if r.ReceiptURL != "http://files.test/"+wantKey {
		t.Fatalf("url = %q", r.ReceiptURL)
	}

	raw, err := os.ReadFile(store.Path(wantKey))
	if err != nil {
		t.Fatalf("read receipt file: %v", err)
	}
	doc := string(raw)
	for _, want := range []string{"Ana Maria", "Tuition", "2500.00 MTN", "08/01/2025", "PAID", "Signature", "Thank you"} {
		if !strings.Contains(doc, want) {
			t.Fatalf("receipt missing %q", want)
		}
	}
}

func TestRenderReceipt_Idempotent(t *testing.T) {
	svc, _, contacts := newTestService(t)
	c := seedPaidCharge(t, svc)
	in := engine.GenerateReceipt{Charge: c.ChargeID, PayeeRef: c.PayeeRef(), PaidAt: *c.ChargePaidAt}

	for i := 0; i < 3; i++ {
		if err := svc.RenderReceipt(context.Background(), in); err != nil {
			t.Fatalf("RenderReceipt #%d: %v", i, err)
		}
	}
	var n int64
	svc.DB.Model(&receiptModel.Receipt{}).Count(&n)
	if n != 1 {
		t.Fatalf("receipts = %d, want 1", n)
	}
	if contacts.calls != 1 {
		t.Fatalf("contact lookups = %d, want 1", contacts.calls)
	}
}

func TestRenderReceipt_RejectsUnpaidCharge(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := seedPaidCharge(t, svc)
	svc.DB.Model(&chargeModel.Charge{}).Where("charge_id = ?", c.ChargeID).Update("charge_status", chargeModel.ChargeStatusPartiallyPaid)

	err := svc.RenderReceipt(context.Background(), engine.GenerateReceipt{Charge: c.ChargeID, PayeeRef: c.PayeeRef()})
	if err == nil {
		t.Fatal("expected error for unpaid charge")
	}
}

func TestNumber(t *testing.T) {
	id := uuid.MustParse("3f2a9c10-0000-4000-8000-000000000000")
	if got := Number("2025-03", id); got != "RC-202503-3F2A9C10" {
		t.Fatalf("Number = %q", got)
	}
}
