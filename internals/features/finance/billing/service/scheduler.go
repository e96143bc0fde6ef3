package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Scheduler menjalankan rekonsiliasi periodik sampai ctx dibatalkan.
type Scheduler struct {
	Reconciler *Reconciler
	Interval   time.Duration
	Log        *zap.Logger

	mu      sync.Mutex
	running bool
}

func NewScheduler(r *Reconciler, interval time.Duration, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{Reconciler: r, Interval: interval, Log: log}
}

// Start memblok; panggil di goroutine sendiri. Satu pass dijalankan segera.
func (s *Scheduler) Start(ctx context.Context) {
	s.Log.Info("billing scheduler started", zap.Duration("interval", s.Interval))
	t := time.NewTicker(s.Interval)
	defer t.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.Log.Info("billing scheduler stopped")
			return
		case <-t.C:
			s.tick(ctx)
		}
	}
}

// tick melewati pass kalau pass sebelumnya masih jalan (mis. dipicu manual).
func (s *Scheduler) tick(ctx context.Context) {
	if !s.tryAcquire() {
		s.Log.Warn("reconciliation still running, tick skipped")
		return
	}
	defer s.release()
	if _, err := s.Reconciler.Run(ctx); err != nil && ctx.Err() == nil {
		s.Log.Error("reconciliation failed", zap.Error(err))
	}
}

// RunNow dipakai endpoint admin; false kalau sedang ada pass berjalan.
func (s *Scheduler) RunNow(ctx context.Context) (ReconcileResult, bool, error) {
	if !s.tryAcquire() {
		return ReconcileResult{}, false, nil
	}
	defer s.release()
	res, err := s.Reconciler.Run(ctx)
	return res, true, err
}

func (s *Scheduler) tryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *Scheduler) release() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}
