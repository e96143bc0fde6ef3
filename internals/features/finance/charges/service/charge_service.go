package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"transportku_backend/internals/features/finance/charges/engine"
	"transportku_backend/internals/features/finance/charges/model"
	"transportku_backend/internals/helpers/billperiod"
)

// IntentEnqueuer menyimpan intent hasil status engine di transaksi yang sama
// dengan penulisan status (outbox).
type IntentEnqueuer interface {
	EnqueueTx(ctx context.Context, tx *gorm.DB, intents []engine.Intent) error
}

type discardIntents struct{}

func (discardIntents) EnqueueTx(context.Context, *gorm.DB, []engine.Intent) error { return nil }

type ChargeService struct {
	DB     *gorm.DB
	Outbox IntentEnqueuer
	Policy engine.Policy
	Now    func() time.Time
	Log    *zap.Logger
}

func NewChargeService(db *gorm.DB, outbox IntentEnqueuer, policy engine.Policy, log *zap.Logger) *ChargeService {
	if outbox == nil {
		outbox = discardIntents{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ChargeService{DB: db, Outbox: outbox, Policy: policy, Now: time.Now, Log: log}
}

func (s *ChargeService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Today = tanggal evaluasi di timezone billing.
func (s *ChargeService) Today() time.Time {
	return billperiod.DateOf(s.now(), s.Policy.Location)
}

/* ===================== Create ===================== */

type CreateChargeInput struct {
	Kind         model.ChargeKind
	PayeeID      uuid.UUID
	BaseAmount   decimal.Decimal
	Period       billperiod.Period
	DueDate      time.Time
	HardDeadline time.Time
	LateFeeRate  decimal.Decimal
	Note         *string
}

func (in CreateChargeInput) toModel() *model.Charge {
	kind := in.Kind
	if kind == "" {
		kind = model.ChargeKindTuition
	}
	return &model.Charge{
		ChargeID:              uuid.New(), // intent butuh id sebelum insert
		ChargeKind:            kind,
		ChargePayeeType:       model.PayeeTypeFor(kind),
		ChargePayeeID:         in.PayeeID,
		ChargeBaseAmount:      billperiod.Round2(in.BaseAmount),
		ChargeReferencePeriod: in.Period,
		ChargeDueDate:         billperiod.Civil(in.DueDate),
		ChargeHardDeadline:    billperiod.Civil(in.HardDeadline),
		ChargeLateFeeRate:     in.LateFeeRate,
		ChargeStatus:          model.ChargeStatusPending,
		ChargeNote:            in.Note,
	}
}

// Create membuat charge baru untuk (payee, period).
// Status awal langsung dihitung engine: charge yang dibuat setelah jatuh tempo lahir sebagai LATE.
func (s *ChargeService) Create(ctx context.Context, in CreateChargeInput) (*model.Charge, error) {
	c := in.toModel()
	if err := c.Validate(); err != nil {
		if errors.Is(err, model.ErrHardDeadlineBeforeDue) {
			return nil, ErrInvalidDates
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCharge, err)
	}
	if c.ChargePayeeID == uuid.Nil {
		return nil, fmt.Errorf("%w: payee is required", ErrInvalidCharge)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Charge{}).
			Where("charge_payee_type = ? AND charge_payee_id = ? AND charge_reference_period = ?",
				c.ChargePayeeType, c.ChargePayeeID, c.ChargeReferencePeriod).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrInvalidPeriod
		}

		now := s.now()
		res := engine.Recompute(c, now, s.Policy)
		if err := tx.Omit(clause.Associations).Create(c).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrInvalidPeriod
			}
			return err
		}
		return s.Outbox.EnqueueTx(ctx, tx, res.Intents)
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info("charge created",
		zap.String("charge_id", c.ChargeID.String()),
		zap.String("payee", c.PayeeRef().String()),
		zap.String("period", c.ChargeReferencePeriod.String()),
		zap.String("status", string(c.ChargeStatus)),
	)
	return c, nil
}

/* ===================== Read ===================== */

func (s *ChargeService) Get(ctx context.Context, id uuid.UUID) (*model.Charge, error) {
	var c model.Charge
	err := s.DB.WithContext(ctx).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("payment_paid_at ASC") }).
		First(&c, "charge_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChargeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

type ChargeFilter struct {
	Status    model.ChargeStatus
	Kind      model.ChargeKind
	Period    billperiod.Period
	PayeeType model.PayeeType
	PayeeID   *uuid.UUID
	OpenOnly  bool
	// OrderBy: klausa ORDER BY dari whitelist (helper.ResolveSort); kosong = default
	OrderBy string
	Offset  int
	Limit   int
}

func (f ChargeFilter) apply(db *gorm.DB) *gorm.DB {
	if f.Status != "" {
		db = db.Where("charge_status = ?", f.Status)
	}
	if f.Kind != "" {
		db = db.Where("charge_kind = ?", f.Kind)
	}
	if !f.Period.IsZero() {
		db = db.Where("charge_reference_period = ?", f.Period)
	}
	if f.PayeeType != "" {
		db = db.Where("charge_payee_type = ?", f.PayeeType)
	}
	if f.PayeeID != nil {
		db = db.Where("charge_payee_id = ?", *f.PayeeID)
	}
	if f.OpenOnly {
		db = db.Where("charge_status <> ?", model.ChargeStatusPaid)
	}
	return db
}

// List mengembalikan charges + payments (untuk aritmetika) beserta total baris.
func (s *ChargeService) List(ctx context.Context, f ChargeFilter) ([]model.Charge, int64, error) {
	base := f.apply(s.DB.WithContext(ctx).Model(&model.Charge{}))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := f.OrderBy
	if order == "" {
		order = "charge_reference_period DESC, charge_due_date ASC"
	}
	q := f.apply(s.DB.WithContext(ctx).Model(&model.Charge{})).
		Preload("Payments").
		Order(order + ", charge_id ASC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	var rows []model.Charge
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

/* ===================== Evaluate (read model) ===================== */

// Evaluation = nilai turunan charge pada satu tanggal evaluasi; tidak menulis apa pun.
type Evaluation struct {
	Charge            *model.Charge
	EvaluatedOn       time.Time
	Status            model.ChargeStatus
	DaysLate          int
	LateFeeTiers      int
	AdjustedAmountDue decimal.Decimal
	TotalPaid         decimal.Decimal
	Outstanding       decimal.Decimal
	PastHardDeadline  bool
}

func Evaluate(c *model.Charge, today time.Time) Evaluation {
	ev := Evaluation{
		Charge:            c,
		EvaluatedOn:       today,
		Status:            c.StatusAt(today),
		DaysLate:          c.DaysLate(today),
		AdjustedAmountDue: c.AdjustedAmountDue(today),
		TotalPaid:         c.TotalPaid(),
		Outstanding:       c.OutstandingBalance(today),
		PastHardDeadline:  c.PastHardDeadline(today),
	}
	if ev.Status == model.ChargeStatusLate {
		ev.LateFeeTiers = c.LateFeeTiers(today)
	}
	return ev
}

// Evaluate memuat charge lalu menghitung read model pada `on` (nil = hari ini).
func (s *ChargeService) Evaluate(ctx context.Context, id uuid.UUID, on *time.Time) (Evaluation, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return Evaluation{}, err
	}
	today := s.Today()
	if on != nil {
		today = billperiod.Civil(*on)
	}
	return Evaluate(c, today), nil
}

/* ===================== Recompute (write path) ===================== */

// Recompute mengunci charge, menjalankan status engine, menyimpan perubahan
// (version-checked) dan mengantrekan intent dalam satu transaksi.
func (s *ChargeService) Recompute(ctx context.Context, id uuid.UUID) (*model.Charge, engine.Result, error) {
	var (
		c   *model.Charge
		res engine.Result
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := lockCharge(tx, id)
		if err != nil {
			return err
		}
		c = locked
		res, err = s.ApplyTx(ctx, tx, c, false)
		return err
	})
	if err != nil {
		return nil, engine.Result{}, err
	}
	return c, res, nil
}

// ApplyTx menjalankan engine atas charge yang sudah dimuat (beserta payments) di dalam tx.
// bump=true menaikkan version walau status tidak berubah (dipakai saat payment baru masuk).
func (s *ChargeService) ApplyTx(ctx context.Context, tx *gorm.DB, c *model.Charge, bump bool) (engine.Result, error) {
	now := s.now()
	res := engine.Recompute(c, now, s.Policy)
	if res.Changed || bump {
		if err := saveVersioned(tx, c, now); err != nil {
			return res, err
		}
	}
	if err := s.Outbox.EnqueueTx(ctx, tx, res.Intents); err != nil {
		return res, err
	}
	if res.Previous != res.Status {
		s.Log.Info("charge status changed",
			zap.String("charge_id", c.ChargeID.String()),
			zap.String("from", string(res.Previous)),
			zap.String("to", string(res.Status)),
			zap.Int("intents", len(res.Intents)),
		)
	}
	return res, nil
}

// lockCharge: SELECT ... FOR UPDATE lalu muat payments.
// (sqlite mengabaikan klausa locking; version check tetap menjaga race)
func lockCharge(tx *gorm.DB, id uuid.UUID) (*model.Charge, error) {
	var c model.Charge
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&c, "charge_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChargeNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := tx.Where("payment_charge_id = ?", id).
		Order("payment_paid_at ASC").
		Find(&c.Payments).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func saveVersioned(tx *gorm.DB, c *model.Charge, now time.Time) error {
	q := tx.Model(&model.Charge{}).
		Where("charge_id = ? AND charge_version = ?", c.ChargeID, c.ChargeVersion).
		Updates(map[string]any{
			"charge_status":         c.ChargeStatus,
			"charge_paid_at":        c.ChargePaidAt,
			"charge_receipt_issued": c.ChargeReceiptIssued,
			"charge_version":        c.ChargeVersion + 1,
			"charge_updated_at":     now,
		})
	if q.Error != nil {
		return q.Error
	}
	if q.RowsAffected == 0 {
		return ErrConcurrentModification
	}
	c.ChargeVersion++
	c.ChargeUpdatedAt = now
	return nil
}

/* ===================== Delete ===================== */

// Delete hanya untuk charge yang belum pernah dibayar.
func (s *ChargeService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := lockCharge(tx, id)
		if err != nil {
			return err
		}
		if len(c.Payments) > 0 {
			return ErrChargeLocked
		}
		q := tx.Where("charge_id = ? AND charge_version = ?", id, c.ChargeVersion).Delete(&model.Charge{})
		if q.Error != nil {
			return q.Error
		}
		if q.RowsAffected == 0 {
			return ErrConcurrentModification
		}
		return nil
	})
}
