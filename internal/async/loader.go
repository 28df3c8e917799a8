// Package async tracks the state of a repeatable asynchronous load.
package async

import (
	"context"
	"fmt"
	"sync"
)

// State is a snapshot of a Loader
type State[T any] struct {
	Data    *T
	Loading bool
	Err     error
}

// Loader runs a producer on demand and remembers its latest outcome.
// Overlapping executions may run; only the most recently started one
// publishes its result, so a slow stale call never overwrites a newer one.
type Loader[T any] struct {
	fn func(ctx context.Context) (T, error)

	mu       sync.Mutex
	started  uint64
	inflight int
	data     *T
	err      error
}

// NewLoader wraps fn
func NewLoader[T any](fn func(ctx context.Context) (T, error)) *Loader[T] {
	return &Loader[T]{fn: fn}
}

// Execute runs the producer and returns its result.
// A panic in the producer is returned as an error.
func (l *Loader[T]) Execute(ctx context.Context) (T, error) {
	l.mu.Lock()
	l.started++
	seq := l.started
	l.inflight++
	l.err = nil
	l.mu.Unlock()

	value, err := l.run(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.inflight--
	if seq == l.started {
		if err != nil {
			l.err = err
		} else {
			l.data = &value
		}
	}
	return value, err
}

func (l *Loader[T]) run(ctx context.Context) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("loader panicked: %v", r)
		}
	}()
	return l.fn(ctx)
}

// State returns the current snapshot. Data keeps the last successful
// value even after a later execution fails.
func (l *Loader[T]) State() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := State[T]{Loading: l.inflight > 0, Err: l.err}
	if l.data != nil {
		v := *l.data
		st.Data = &v
	}
	return st
}
