package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/controlly-api/internal/models"
	"github.com/controlly-api/internal/seed"
	"github.com/controlly-api/internal/storage"
	"github.com/rs/zerolog"
)

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	users *collection[models.User]
	now   func() time.Time
}

// NewUserRepo creates a new staff repository seeded from the fixed roster
func NewUserRepo(store storage.Store, opts Options, log zerolog.Logger) UserRepository {
	now := func() time.Time { return time.Now().UTC() }
	if opts.Generator != nil {
		now = opts.Generator.Now
	}
	return &userRepo{
		users: newCollection(store, UsersKey, "users", seed.Staff, opts.Metrics, log),
		now:   now,
	}
}

// List returns every staff account in stored order; created accounts come first
func (r *userRepo) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := r.users.view(ctx, func(items []models.User) error {
		out = items
		return nil
	})
	return out, err
}

// GetByID returns nil when no account has the id
func (r *userRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	var found *models.User
	err := r.users.view(ctx, func(items []models.User) error {
		if i := indexOfUser(items, id); i >= 0 {
			u := items[i]
			found = &u
		}
		return nil
	})
	return found, err
}

// Create assigns the next id and prepends the account.
// A zero LastLogin is stamped with the current time.
func (r *userRepo) Create(ctx context.Context, input models.NewUser) (*models.User, error) {
	var created models.User
	err := r.users.mutate(ctx, func(items []models.User) ([]models.User, error) {
		maxID := 0
		for _, u := range items {
			maxID = max(maxID, u.ID)
		}
		created = models.User{
			ID:        maxID + 1,
			Name:      input.Name,
			Email:     input.Email,
			Role:      input.Role,
			Status:    input.Status,
			Plan:      input.Plan,
			LastLogin: input.LastLogin,
		}
		if created.Plan == "" {
			created.Plan = models.PlanFree
		}
		if created.LastLogin.IsZero() {
			created.LastLogin = r.now().Truncate(time.Millisecond)
		}
		return append([]models.User{created}, items...), nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update merges patch over the account with the given id
func (r *userRepo) Update(ctx context.Context, id int, patch models.UserPatch) (*models.User, error) {
	var updated models.User
	err := r.users.mutate(ctx, func(items []models.User) ([]models.User, error) {
		i := indexOfUser(items, id)
		if i < 0 {
			return nil, fmt.Errorf("user %d: %w", id, models.ErrNotFound)
		}
		patch.Apply(&items[i])
		updated = items[i]
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func indexOfUser(items []models.User, id int) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
