package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"transportku_backend/internals/features/finance/charges/engine"
	chargeModel "transportku_backend/internals/features/finance/charges/model"
	payeeService "transportku_backend/internals/features/finance/payees/service"
	receiptModel "transportku_backend/internals/features/finance/receipts/model"
	"transportku_backend/internals/helpers/storage"
)

var ErrReceiptNotFound = errors.New("receipt not found")

const contentTypeHTML = "text/html; charset=utf-8"

type ContactResolver interface {
	Resolve(ctx context.Context, ref chargeModel.PayeeRef) (payeeService.Contact, error)
}

// Service merender receipt charge PAID dan menyimpannya ke object storage.
// Idempoten per charge: receipt yang sudah ada tidak dibuat ulang.
type Service struct {
	DB       *gorm.DB
	Store    storage.Store
	Contacts ContactResolver
	Currency string
	Location *time.Location
	Now      func() time.Time
	Log      *zap.Logger
}

func NewService(db *gorm.DB, store storage.Store, contacts ContactResolver, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{DB: db, Store: store, Contacts: contacts, Currency: "MTN", Location: time.UTC, Now: time.Now, Log: log}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// ObjectKey: receipts/<period>/<charge>.html
func ObjectKey(period string, chargeID uuid.UUID) string {
	return fmt.Sprintf("receipts/%s/%s.html", period, chargeID)
}

// Number: RC-<YYYYMM>-<8 hex pertama charge id>
func Number(period string, chargeID uuid.UUID) string {
	return "RC-" + strings.ReplaceAll(period, "-", "") + "-" + strings.ToUpper(chargeID.String()[:8])
}

// RenderReceipt memenuhi kontrak worker intents.
func (s *Service) RenderReceipt(ctx context.Context, in engine.GenerateReceipt) error {
	if existing, err := s.ByCharge(ctx, in.Charge); err == nil && existing != nil {
		return nil
	} else if err != nil && !errors.Is(err, ErrReceiptNotFound) {
		return err
	}

	var c chargeModel.Charge
	if err := s.DB.WithContext(ctx).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("payment_paid_at ASC") }).
		First(&c, "charge_id = ?", in.Charge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("charge %s not found", in.Charge)
		}
		return err
	}
	if c.ChargeStatus != chargeModel.ChargeStatusPaid {
		return fmt.Errorf("charge %s not paid (status %s)", c.ChargeID, c.ChargeStatus)
	}

	contact, err := s.Contacts.Resolve(ctx, c.PayeeRef())
	if err != nil {
		return err
	}

	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	paidAt := in.PaidAt
	if c.ChargePaidAt != nil {
		paidAt = *c.ChargePaidAt
	}
	period := c.ChargeReferencePeriod.String()

	view := ReceiptView{
		Number:    Number(period, c.ChargeID),
		PayeeName: contact.PayeeName,
		Recipient: contact.Name,
		Kind:      kindLabel(c.ChargeKind),
		Period:    period,
		Amount:    money(c.TotalPaid()),
		Currency:  s.Currency,
		PaidDate:  dateLabel(paidAt.In(loc)),
		Status:    string(c.ChargeStatus),
		IssuedAt:  dateLabel(s.now().In(loc)),
	}
	for _, p := range c.Payments {
		view.Payments = append(view.Payments, PaymentLine{
			Date:   dateLabel(p.PaymentPaidAt.In(loc)),
			Method: string(p.PaymentMethod),
			Amount: money(p.PaymentAmount),
		})
	}

	doc, err := RenderHTML(view)
	if err != nil {
		return fmt.Errorf("render receipt: %w", err)
	}

	key := ObjectKey(period, c.ChargeID)
	if err := s.Store.Put(ctx, key, bytes.NewReader(doc), int64(len(doc)), contentTypeHTML); err != nil {
		return fmt.Errorf("store receipt: %w", err)
	}

	row := receiptModel.Receipt{
		ReceiptChargeID:    c.ChargeID,
		ReceiptNumber:      view.Number,
		ReceiptPayeeName:   contact.PayeeName,
		ReceiptAmountPaid:  c.TotalPaid(),
		ReceiptPaidAt:      paidAt,
		ReceiptStorage:     s.Store.Name(),
		ReceiptObjectKey:   key,
		ReceiptURL:         s.Store.URL(key),
		ReceiptContentType: contentTypeHTML,
	}
	// dua worker bisa sampai di sini bersamaan; object key sama, baris cukup satu
	if err := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "receipt_charge_id"}}, DoNothing: true}).
		Create(&row).Error; err != nil {
		return err
	}

	s.Log.Info("receipt generated",
		zap.String("charge_id", c.ChargeID.String()),
		zap.String("number", row.ReceiptNumber),
		zap.String("storage", row.ReceiptStorage),
	)
	return nil
}

func (s *Service) ByCharge(ctx context.Context, chargeID uuid.UUID) (*receiptModel.Receipt, error) {
	var r receiptModel.Receipt
	err := s.DB.WithContext(ctx).First(&r, "receipt_charge_id = ?", chargeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReceiptNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

type ListFilter struct {
	From   *time.Time
	To     *time.Time
	Offset int
	Limit  int
}

func (f ListFilter) apply(db *gorm.DB) *gorm.DB {
	if f.From != nil {
		db = db.Where("receipt_paid_at >= ?", *f.From)
	}
	if f.To != nil {
		db = db.Where("receipt_paid_at < ?", *f.To)
	}
	return db
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]receiptModel.Receipt, int64, error) {
	var total int64
	if err := f.apply(s.DB.WithContext(ctx).Model(&receiptModel.Receipt{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	q := f.apply(s.DB.WithContext(ctx).Model(&receiptModel.Receipt{})).Order("receipt_created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	var rows []receiptModel.Receipt
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
