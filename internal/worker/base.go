package worker

import (
	"sync"

	"go.uber.org/zap"
)

// BaseWorker - общая часть воркеров: имя, логгер с полем worker и однократный сигнал остановки
type BaseWorker struct {
	name   string
	logger *zap.Logger
	quit   chan struct{}
	once   sync.Once
}

// NewBaseWorker - создание BaseWorker
func NewBaseWorker(name string, logger *zap.Logger) *BaseWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BaseWorker{
		name:   name,
		logger: logger.With(zap.String("worker", name)),
		quit:   make(chan struct{}),
	}
}

func (w *BaseWorker) Name() string { return w.name }

// Stop закрывает канал остановки; повторные вызовы игнорируются
func (w *BaseWorker) Stop() error {
	w.once.Do(func() {
		w.logger.Info("Stop requested")
		close(w.quit)
	})
	return nil
}

// IsStopped - был ли уже вызван Stop
func (w *BaseWorker) IsStopped() bool {
	select {
	case <-w.quit:
		return true
	default:
		return false
	}
}

// StopChan - канал, закрываемый при Stop
func (w *BaseWorker) StopChan() <-chan struct{} { return w.quit }

func (w *BaseWorker) Logger() *zap.Logger { return w.logger }
