package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	errNoWorkers      = errors.New("no workers registered")
	errAlreadyStarted = errors.New("workers already started")
)

// WorkerManager запускает зарегистрированные воркеры в отдельных горутинах
// и дожидается их при остановке
type WorkerManager struct {
	logger *zap.Logger

	mu      sync.Mutex
	workers []Worker
	names   map[string]struct{}
	started bool

	running sync.WaitGroup
}

// NewWorkerManager - создание менеджера воркеров
func NewWorkerManager(logger *zap.Logger) *WorkerManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerManager{
		logger: logger.Named("workers"),
		names:  make(map[string]struct{}),
	}
}

// Register добавляет воркер; воркер с уже занятым именем пропускается
func (m *WorkerManager) Register(w Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, dup := m.names[w.Name()]; dup {
		m.logger.Warn("Duplicate worker name, skipped", zap.String("name", w.Name()))
		return
	}
	m.names[w.Name()] = struct{}{}
	m.workers = append(m.workers, w)
	m.logger.Debug("Worker registered", zap.String("name", w.Name()))
}

// Start запускает все воркеры и сразу возвращается. Повторный запуск - ошибка
func (m *WorkerManager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case len(m.workers) == 0:
		return errNoWorkers
	case m.started:
		return errAlreadyStarted
	}
	m.started = true

	for _, w := range m.workers {
		m.running.Add(1)
		go m.run(ctx, w)
	}

	m.logger.Info("Workers started", zap.Int("count", len(m.workers)))
	return nil
}

func (m *WorkerManager) run(ctx context.Context, w Worker) {
	defer m.running.Done()
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Worker panicked",
				zap.String("name", w.Name()),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()

	err := w.Start(ctx)
	if err != nil && ctx.Err() == nil {
		m.logger.Error("Worker exited with error", zap.String("name", w.Name()), zap.Error(err))
	}
}

// Stop останавливает воркеры и ждет их завершения не дольше, чем живет ctx
func (m *WorkerManager) Stop(ctx context.Context) error {
	m.mu.Lock()
	workers := append([]Worker(nil), m.workers...)
	m.mu.Unlock()

	for _, w := range workers {
		if err := w.Stop(); err != nil {
			m.logger.Warn("Worker refused to stop", zap.String("name", w.Name()), zap.Error(err))
		}
	}

	finished := make(chan struct{})
	go func() {
		m.running.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		m.logger.Info("Workers stopped", zap.Int("count", len(workers)))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("workers shutdown: %w", ctx.Err())
	}
}
