package testutil

import "context"

// NoopTxRunner satisfies service.TxRunner without a real database. The
// in-memory stores are individually atomic, so the pass-through keeps
// service transaction blocks working in tests.
type NoopTxRunner struct{}

func NewNoopTxRunner() *NoopTxRunner {
	return &NoopTxRunner{}
}

func (r *NoopTxRunner) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
