package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/trip-editor/internal/worker"
)

// SessionStore - хранилище сессий, которое умеет закрывать простаивающие
type SessionStore interface {
	Sweep(now time.Time, ttl time.Duration) int
}

// SweeperWorker закрывает сессии редактора без обращений дольше ttl.
// Закрытие уничтожает живую карту сессии
type SweeperWorker struct {
	*worker.BaseWorker
	store    SessionStore
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
}

// NewSweeperWorker создает новый SweeperWorker
func NewSweeperWorker(store SessionStore, ttl, interval time.Duration, logger *zap.Logger) *SweeperWorker {
	return &SweeperWorker{
		BaseWorker: worker.NewBaseWorker("session-sweeper", logger),
		store:      store,
		ttl:        ttl,
		interval:   interval,
		now:        time.Now,
	}
}

// Start запускает цикл очистки до остановки воркера или отмены ctx
func (w *SweeperWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting session sweeper",
		zap.Duration("ttl", w.ttl),
		zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		case <-ticker.C:
			w.SweepOnce()
		}
	}
}

// SweepOnce - один проход очистки
func (w *SweeperWorker) SweepOnce() int {
	closed := w.store.Sweep(w.now(), w.ttl)
	if closed > 0 {
		w.Logger().Debug("Idle sessions swept", zap.Int("closed", closed))
	}
	return closed
}
