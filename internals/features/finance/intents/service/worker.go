package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"transportku_backend/internals/features/finance/charges/engine"
	intentModel "transportku_backend/internals/features/finance/intents/model"
)

// Notifier mengirim alert overdue. Satu panggilan membawa semua alert yang siap;
// notifier bebas menggabungkan per penerima. Hasil error per dedupe key (nil/absen = terkirim).
type Notifier interface {
	NotifyOverdue(ctx context.Context, alerts []engine.SendOverdueAlert) map[string]error
}

// ReceiptRenderer menghasilkan dokumen receipt untuk satu charge.
type ReceiptRenderer interface {
	RenderReceipt(ctx context.Context, intent engine.GenerateReceipt) error
}

const (
	defaultBatchSize   = 200
	defaultMaxAttempts = 5
	claimLease         = 5 * time.Minute
)

// retryBackoff: 1m, 2m, 4m, ... maks 1 jam.
func retryBackoff(attempts int) time.Duration {
	d := time.Minute
	for i := 1; i < attempts && d < time.Hour; i++ {
		d *= 2
	}
	if d > time.Hour {
		d = time.Hour
	}
	return d
}

type Worker struct {
	DB          *gorm.DB
	Notifier    Notifier
	Renderer    ReceiptRenderer
	MaxAttempts int
	BatchSize   int
	Now         func() time.Time
	Log         *zap.Logger
}

func NewWorker(db *gorm.DB, notifier Notifier, renderer ReceiptRenderer, maxAttempts int, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &Worker{
		DB:          db,
		Notifier:    notifier,
		Renderer:    renderer,
		MaxAttempts: maxAttempts,
		BatchSize:   defaultBatchSize,
		Now:         time.Now,
		Log:         log,
	}
}

type DrainStats struct {
	Claimed   int `json:"claimed"`
	Receipts  int `json:"receipts"`
	Alerts    int `json:"alerts"`
	Retrying  int `json:"retrying"`
	Failed    int `json:"failed"`
	Undecoded int `json:"undecoded"`
}

func (s *DrainStats) add(o DrainStats) {
	s.Claimed += o.Claimed
	s.Receipts += o.Receipts
	s.Alerts += o.Alerts
	s.Retrying += o.Retrying
	s.Failed += o.Failed
	s.Undecoded += o.Undecoded
}

func (w *Worker) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}

// Drain mengulang batch sampai tidak ada intent pending yang bisa diklaim.
func (w *Worker) Drain(ctx context.Context) (DrainStats, error) {
	var total DrainStats
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		st, err := w.DrainOnce(ctx)
		total.add(st)
		if err != nil {
			return total, err
		}
		if st.Claimed < w.batchSize() {
			return total, nil
		}
	}
}

func (w *Worker) batchSize() int {
	if w.BatchSize <= 0 {
		return defaultBatchSize
	}
	return w.BatchSize
}

// DrainOnce: klaim satu batch, dispatch keluar transaksi, lalu tandai hasil per baris.
func (w *Worker) DrainOnce(ctx context.Context) (DrainStats, error) {
	var st DrainStats
	rows, err := w.claim(ctx)
	if err != nil {
		return st, err
	}
	st.Claimed = len(rows)
	if len(rows) == 0 {
		return st, nil
	}

	byKey := make(map[string]*intentModel.BillingIntent, len(rows))
	var (
		receipts []engine.GenerateReceipt
		alerts   []engine.SendOverdueAlert
	)
	outcome := make(map[string]error, len(rows))

	for i := range rows {
		row := &rows[i]
		byKey[row.BillingIntentDedupeKey] = row
		it, err := DecodeIntent(*row)
		if err != nil {
			st.Undecoded++
			outcome[row.BillingIntentDedupeKey] = err
			continue
		}
		switch v := it.(type) {
		case engine.GenerateReceipt:
			receipts = append(receipts, v)
		case engine.SendOverdueAlert:
			alerts = append(alerts, v)
		}
	}

	for _, r := range receipts {
		if w.Renderer == nil {
			outcome[r.DedupeKey()] = errors.New("no receipt renderer configured")
			continue
		}
		outcome[r.DedupeKey()] = w.Renderer.RenderReceipt(ctx, r)
	}

	if len(alerts) > 0 {
		var errs map[string]error
		if w.Notifier == nil {
			errs = make(map[string]error, len(alerts))
			for _, a := range alerts {
				errs[a.DedupeKey()] = errors.New("no notifier configured")
			}
		} else {
			errs = w.Notifier.NotifyOverdue(ctx, alerts)
		}
		for _, a := range alerts {
			outcome[a.DedupeKey()] = errs[a.DedupeKey()]
		}
	}

	for key, row := range byKey {
		derr := outcome[key]
		final, err := w.settle(ctx, row, derr)
		if err != nil {
			return st, err
		}
		switch final {
		case intentModel.IntentDispatched:
			if row.BillingIntentType == string(engine.IntentGenerateReceipt) {
				st.Receipts++
			} else {
				st.Alerts++
			}
		case intentModel.IntentFailed:
			st.Failed++
		default:
			st.Retrying++
		}
	}

	w.Log.Info("intents drained",
		zap.Int("claimed", st.Claimed),
		zap.Int("receipts", st.Receipts),
		zap.Int("alerts", st.Alerts),
		zap.Int("retrying", st.Retrying),
		zap.Int("failed", st.Failed),
	)
	return st, nil
}

// claim mengambil intent pending (atau dispatching yang lease-nya habis) dengan
// FOR UPDATE SKIP LOCKED, lalu menandainya dispatching.
func (w *Worker) claim(ctx context.Context) ([]intentModel.BillingIntent, error) {
	now := w.now()
	var rows []intentModel.BillingIntent
	err := w.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("(billing_intent_status = ? AND (billing_intent_available_at IS NULL OR billing_intent_available_at <= ?)) OR (billing_intent_status = ? AND billing_intent_claimed_at < ?)",
				intentModel.IntentPending, now, intentModel.IntentDispatching, now.Add(-claimLease)).
			Order("billing_intent_created_at ASC").
			Limit(w.batchSize()).
			Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		ids := make([]uuid.UUID, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, r.BillingIntentID)
		}
		return tx.Model(&intentModel.BillingIntent{}).
			Where("billing_intent_id IN ?", ids).
			Updates(map[string]any{
				"billing_intent_status":     intentModel.IntentDispatching,
				"billing_intent_claimed_at": now,
				"billing_intent_updated_at": now,
			}).Error
	})
	return rows, err
}

func (w *Worker) settle(ctx context.Context, row *intentModel.BillingIntent, derr error) (intentModel.IntentStatus, error) {
	now := w.now()
	attempts := row.BillingIntentAttempts + 1
	updates := map[string]any{
		"billing_intent_attempts":   attempts,
		"billing_intent_updated_at": now,
	}
	status := intentModel.IntentDispatched
	if derr == nil {
		updates["billing_intent_dispatched_at"] = now
		updates["billing_intent_last_error"] = nil
	} else {
		msg := derr.Error()
		updates["billing_intent_last_error"] = msg
		status = intentModel.IntentPending
		updates["billing_intent_available_at"] = now.Add(retryBackoff(attempts))
		if attempts >= w.MaxAttempts {
			status = intentModel.IntentFailed
		}
		w.Log.Warn("intent dispatch failed",
			zap.String("dedupe_key", row.BillingIntentDedupeKey),
			zap.Int("attempts", attempts),
			zap.String("status", string(status)),
			zap.Error(derr),
		)
	}
	updates["billing_intent_status"] = status
	if err := w.DB.WithContext(ctx).Model(&intentModel.BillingIntent{}).
		Where("billing_intent_id = ?", row.BillingIntentID).
		Updates(updates).Error; err != nil {
		return status, err
	}
	return status, nil
}

// Pending: jumlah intent yang belum selesai (monitoring / CLI).
func (w *Worker) Pending(ctx context.Context) (int64, error) {
	var n int64
	err := w.DB.WithContext(ctx).Model(&intentModel.BillingIntent{}).
		Where("billing_intent_status IN ?", []intentModel.IntentStatus{intentModel.IntentPending, intentModel.IntentDispatching}).
		Count(&n).Error
	return n, err
}
