package repository

import (
	"context"
	"fmt"

	"github.com/controlly-api/internal/models"
	"github.com/controlly-api/internal/seed"
	"github.com/controlly-api/internal/storage"
	"github.com/rs/zerolog"
)

// planRepo is the concrete implementation of PlanRepository
type planRepo struct {
	plans *collection[models.PlanDef]
}

// NewPlanRepo creates a plan repository seeded with the default catalog
func NewPlanRepo(store storage.Store, opts Options, log zerolog.Logger) PlanRepository {
	seedFn := func() ([]models.PlanDef, error) {
		return seed.Plans(), nil
	}
	return &planRepo{
		plans: newCollection(store, PlansKey, "plans", seedFn, opts.Metrics, log),
	}
}

func (r *planRepo) List(ctx context.Context) ([]models.PlanDef, error) {
	var out []models.PlanDef
	err := r.plans.view(ctx, func(items []models.PlanDef) error {
		out = items
		return nil
	})
	return out, err
}

func (r *planRepo) GetByID(ctx context.Context, id string) (*models.PlanDef, error) {
	var found *models.PlanDef
	err := r.plans.view(ctx, func(items []models.PlanDef) error {
		for i := range items {
			if items[i].ID == id {
				p := items[i]
				found = &p
				break
			}
		}
		return nil
	})
	return found, err
}

func (r *planRepo) Update(ctx context.Context, id string, patch models.PlanPatch) (*models.PlanDef, error) {
	var updated models.PlanDef
	err := r.plans.mutate(ctx, func(items []models.PlanDef) ([]models.PlanDef, error) {
		for i := range items {
			if items[i].ID == id {
				patch.Apply(&items[i])
				updated = items[i]
				return items, nil
			}
		}
		return nil, fmt.Errorf("plan %q: %w", id, models.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Reset restores the default catalog on next read
func (r *planRepo) Reset(ctx context.Context) error {
	return r.plans.reset(ctx)
}
