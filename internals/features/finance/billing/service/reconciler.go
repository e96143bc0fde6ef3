package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"transportku_backend/internals/features/finance/charges/engine"
	chargeModel "transportku_backend/internals/features/finance/charges/model"
	chargeService "transportku_backend/internals/features/finance/charges/service"
	intentService "transportku_backend/internals/features/finance/intents/service"
)

const defaultReconcileWorkers = 8

// Drainer = worker outbox; nil berarti intent dibiarkan pending untuk proses lain.
type Drainer interface {
	Drain(ctx context.Context) (intentService.DrainStats, error)
}

type ReconcileResult struct {
	Evaluated int                      `json:"evaluated"`
	Changed   int                      `json:"changed"`
	Paid      int                      `json:"paid"`
	Partial   int                      `json:"partially_paid"`
	Late      int                      `json:"late"`
	Pending   int                      `json:"pending"`
	Alerts    int                      `json:"alerts"`
	Receipts  int                      `json:"receipts"`
	Conflicts int                      `json:"conflicts"`
	Dispatch  intentService.DrainStats `json:"dispatch"`
	StartedAt time.Time                `json:"started_at"`
	Duration  string                   `json:"duration"`
}

func (r *ReconcileResult) count(res engine.Result) {
	r.Evaluated++
	if res.Changed {
		r.Changed++
	}
	switch res.Status {
	case chargeModel.ChargeStatusPaid:
		r.Paid++
	case chargeModel.ChargeStatusPartiallyPaid:
		r.Partial++
	case chargeModel.ChargeStatusLate:
		r.Late++
	default:
		r.Pending++
	}
	for _, it := range res.Intents {
		switch it.Type() {
		case engine.IntentGenerateReceipt:
			r.Receipts++
		case engine.IntentSendOverdueAlert:
			r.Alerts++
		}
	}
}

// Reconciler mengevaluasi ulang semua charge terbuka. Tiap charge berdiri sendiri,
// jadi evaluasi berjalan paralel dengan batas Workers.
type Reconciler struct {
	DB      *gorm.DB
	Charges *chargeService.ChargeService
	Worker  Drainer
	Workers int
	Log     *zap.Logger
}

func NewReconciler(db *gorm.DB, charges *chargeService.ChargeService, worker Drainer, workers int, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	if workers <= 0 {
		workers = defaultReconcileWorkers
	}
	return &Reconciler{DB: db, Charges: charges, Worker: worker, Workers: workers, Log: log}
}

func (r *Reconciler) openChargeIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.DB.WithContext(ctx).Model(&chargeModel.Charge{}).
		Where("charge_status <> ?", chargeModel.ChargeStatusPaid).
		Order("charge_due_date ASC").
		Pluck("charge_id", &ids).Error
	return ids, err
}

func (r *Reconciler) Run(ctx context.Context) (ReconcileResult, error) {
	out := ReconcileResult{StartedAt: time.Now()}
	ids, err := r.openChargeIDs(ctx)
	if err != nil {
		return out, err
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Workers)
	for _, id := range ids {
		g.Go(func() error {
			_, res, err := r.Charges.Recompute(gctx, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				out.count(res)
				return nil
			case errors.Is(err, chargeService.ErrConcurrentModification):
				// payment masuk bersamaan; pass berikutnya akan melihat state terbaru
				out.Conflicts++
				return nil
			case errors.Is(err, chargeService.ErrChargeNotFound):
				return nil
			default:
				return err
			}
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}

	if r.Worker != nil {
		st, err := r.Worker.Drain(ctx)
		out.Dispatch = st
		if err != nil {
			return out, err
		}
	}

	out.Duration = time.Since(out.StartedAt).Round(time.Millisecond).String()
	r.Log.Info("reconciliation finished",
		zap.Int("evaluated", out.Evaluated),
		zap.Int("changed", out.Changed),
		zap.Int("late", out.Late),
		zap.Int("alerts", out.Alerts),
		zap.Int("receipts", out.Receipts),
		zap.Int("conflicts", out.Conflicts),
		zap.String("duration", out.Duration),
	)
	return out, nil
}
