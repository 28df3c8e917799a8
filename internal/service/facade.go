package service

import (
	"context"
	"time"

	"github.com/controlly-api/internal/metrics"
)

// facade carries what every public operation shares: the simulated
// round-trip latency and per-operation metrics
type facade struct {
	latency time.Duration
	metrics *metrics.Metrics
}

// wait blocks for the configured latency or until ctx is done
func (f *facade) wait(ctx context.Context) error {
	if f.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(f.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// track is deferred by operations with a named error result
func (f *facade) track(op string, started time.Time, err *error) {
	f.metrics.ObserveOperation(op, started, *err)
}
