package repository

import (
	"context"

	"github.com/controlly-api/internal/metrics"
	"github.com/controlly-api/internal/models"
	"github.com/controlly-api/internal/seed"
	"github.com/controlly-api/internal/storage"
	"github.com/rs/zerolog"
)

// Storage keys, one JSON array per collection
const (
	UsersKey     = "controlly:users"
	CustomersKey = "controlly:customers"
	PlansKey     = "controlly:plans"
)

// UserRepository defines the interface for staff account operations
type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	Create(ctx context.Context, input models.NewUser) (*models.User, error)
	Update(ctx context.Context, id int, patch models.UserPatch) (*models.User, error)
}

// CustomerRepository defines the interface for customer operations.
// Customers are only ever seeded or patched.
type CustomerRepository interface {
	List(ctx context.Context) ([]models.Customer, error)
	GetByID(ctx context.Context, id int) (*models.Customer, error)
	Update(ctx context.Context, id int, patch models.CustomerPatch) (*models.Customer, error)
}

// PlanRepository defines the interface for pricing catalog operations
type PlanRepository interface {
	List(ctx context.Context) ([]models.PlanDef, error)
	GetByID(ctx context.Context, id string) (*models.PlanDef, error)
	Update(ctx context.Context, id string, patch models.PlanPatch) (*models.PlanDef, error)
	Reset(ctx context.Context) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	User     UserRepository
	Customer CustomerRepository
	Plan     PlanRepository
}

// Options tunes seeding
type Options struct {
	Generator     *seed.Generator
	CustomerCount int
	Metrics       *metrics.Metrics
}

// New creates all repositories on top of the given store
func New(store storage.Store, opts Options, log zerolog.Logger) *Repositories {
	if opts.Generator == nil {
		opts.Generator = seed.NewGenerator(nil, nil)
	}
	if opts.CustomerCount <= 0 {
		opts.CustomerCount = seed.DefaultCustomerCount
	}
	log = log.With().Str("component", "repository").Logger()

	return &Repositories{
		User:     NewUserRepo(store, opts, log),
		Customer: NewCustomerRepo(store, opts, log),
		Plan:     NewPlanRepo(store, opts, log),
	}
}

// EnsureSeeded materializes every collection so later reads never seed
func (r *Repositories) EnsureSeeded(ctx context.Context) error {
	if _, err := r.User.List(ctx); err != nil {
		return err
	}
	if _, err := r.Customer.List(ctx); err != nil {
		return err
	}
	_, err := r.Plan.List(ctx)
	return err
}
