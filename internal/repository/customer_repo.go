package repository

import (
	"context"
	"fmt"

	"github.com/controlly-api/internal/models"
	"github.com/controlly-api/internal/storage"
	"github.com/rs/zerolog"
)

// customerRepo is the concrete implementation of CustomerRepository
type customerRepo struct {
	customers *collection[models.Customer]
}

// NewCustomerRepo creates a customer repository seeded with opts.CustomerCount synthetic records
func NewCustomerRepo(store storage.Store, opts Options, log zerolog.Logger) CustomerRepository {
	gen, count := opts.Generator, opts.CustomerCount
	seedFn := func() ([]models.Customer, error) {
		return gen.Customers(count), nil
	}
	return &customerRepo{
		customers: newCollection(store, CustomersKey, "customers", seedFn, opts.Metrics, log),
	}
}

func (r *customerRepo) List(ctx context.Context) ([]models.Customer, error) {
	var out []models.Customer
	err := r.customers.view(ctx, func(items []models.Customer) error {
		out = items
		return nil
	})
	return out, err
}

func (r *customerRepo) GetByID(ctx context.Context, id int) (*models.Customer, error) {
	var found *models.Customer
	err := r.customers.view(ctx, func(items []models.Customer) error {
		for i := range items {
			if items[i].ID == id {
				c := items[i]
				found = &c
				break
			}
		}
		return nil
	})
	return found, err
}

func (r *customerRepo) Update(ctx context.Context, id int, patch models.CustomerPatch) (*models.Customer, error) {
	var updated models.Customer
	err := r.customers.mutate(ctx, func(items []models.Customer) ([]models.Customer, error) {
		for i := range items {
			if items[i].ID == id {
				patch.Apply(&items[i])
				updated = items[i]
				return items, nil
			}
		}
		return nil, fmt.Errorf("customer %d: %w", id, models.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
