package worker

import "context"

// Worker - фоновая задача процесса API, запускается и останавливается WorkerManager
type Worker interface {
	// Start блокируется до Stop или отмены ctx
	Start(ctx context.Context) error

	// Stop подает сигнал остановки и не ждет завершения Start
	Stop() error

	Name() string
}
