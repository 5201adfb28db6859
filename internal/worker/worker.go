package worker

import (
	"context"
)

// Worker - фоновый процесс сервиса (синхронизация с релеями, индексация)
type Worker interface {
	// Start блокируется до Stop или отмены ctx
	Start(ctx context.Context) error

	// Stop сигнализирует о завершении, не дожидаясь его
	Stop() error

	Name() string
}
