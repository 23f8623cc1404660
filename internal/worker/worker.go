package worker

import "context"

// Worker - фоновый процесс с управляемым жизненным циклом
type Worker interface {
	// Start блокируется до Stop или отмены ctx
	Start(ctx context.Context) error

	// Stop должен быть идемпотентным
	Stop() error

	Name() string
}
