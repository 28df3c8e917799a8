package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/controlly-api/internal/metrics"
	"github.com/controlly-api/internal/storage"
	"github.com/rs/zerolog"
)

// collection keeps a whole entity list JSON-encoded under one store key.
// Every access holds mu, so read-merge-write cycles within one process
// never interleave and a fresh store is seeded exactly once.
type collection[T any] struct {
	mu      sync.Mutex
	store   storage.Store
	key     string
	name    string
	seed    func() ([]T, error)
	metrics *metrics.Metrics
	log     zerolog.Logger
}

func newCollection[T any](store storage.Store, key, name string, seedFn func() ([]T, error), m *metrics.Metrics, log zerolog.Logger) *collection[T] {
	return &collection[T]{
		store:   store,
		key:     key,
		name:    name,
		seed:    seedFn,
		metrics: m,
		log:     log.With().Str("collection", name).Logger(),
	}
}

// view runs fn over the current items
func (c *collection[T]) view(ctx context.Context, fn func(items []T) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}
	return fn(items)
}

// mutate runs fn over the current items and persists the slice it returns
func (c *collection[T]) mutate(ctx context.Context, fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}
	updated, err := fn(items)
	if err != nil {
		return err
	}
	return c.save(ctx, updated)
}

// reset drops the stored entry; the next access seeds again
func (c *collection[T]) reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Remove(ctx, c.key); err != nil {
		return fmt.Errorf("reset %s: %w", c.name, err)
	}
	c.log.Info().Msg("Collection cleared")
	return nil
}

// load must be called with mu held
func (c *collection[T]) load(ctx context.Context) ([]T, error) {
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.name, err)
	}
	if ok {
		items, err := decodeArray[T](raw)
		if err == nil {
			return items, nil
		}
		c.log.Warn().Err(err).Msg("Stored collection is malformed, seeding again")
		return c.seedAndSave(ctx, "malformed")
	}
	return c.seedAndSave(ctx, "absent")
}

func (c *collection[T]) seedAndSave(ctx context.Context, reason string) ([]T, error) {
	items, err := c.seed()
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", c.name, err)
	}
	if err := c.save(ctx, items); err != nil {
		return nil, err
	}
	c.metrics.SeedEvent(c.name, reason)
	c.log.Info().Str("reason", reason).Int("count", len(items)).Msg("Collection seeded")
	return items, nil
}

func (c *collection[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.name, err)
	}
	if err := c.store.Set(ctx, c.key, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", c.name, err)
	}
	return nil
}

// decodeArray accepts only a JSON array; null, objects and garbage are errors
func decodeArray[T any](raw string) ([]T, error) {
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("expected a JSON array")
	}
	var items []T
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, err
	}
	return items, nil
}
