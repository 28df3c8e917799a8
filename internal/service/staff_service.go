package service

import (
	"context"
	"time"

	"github.com/controlly-api/internal/models"
	"github.com/controlly-api/internal/repository"
	"github.com/rs/zerolog"
)

// staffService is the concrete implementation of StaffService
type staffService struct {
	*facade
	repo repository.UserRepository
	log  zerolog.Logger
}

func newStaffService(repo repository.UserRepository, f *facade, log zerolog.Logger) *staffService {
	return &staffService{
		facade: f,
		repo:   repo,
		log:    log.With().Str("service", "staff").Logger(),
	}
}

func (s *staffService) ListUsers(ctx context.Context) (users []models.User, err error) {
	defer s.track("list_users", time.Now(), &err)
	if err = s.wait(ctx); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// GetUser returns nil, nil for an unknown id
func (s *staffService) GetUser(ctx context.Context, id int) (user *models.User, err error) {
	defer s.track("get_user", time.Now(), &err)
	if err = s.wait(ctx); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *staffService) CreateUser(ctx context.Context, input models.NewUser) (user *models.User, err error) {
	defer s.track("create_user", time.Now(), &err)
	if err = s.wait(ctx); err != nil {
		return nil, err
	}
	user, err = s.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int("user_id", user.ID).Str("role", string(user.Role)).Msg("Staff user created")
	return user, nil
}

func (s *staffService) UpdateUser(ctx context.Context, id int, patch models.UserPatch) (user *models.User, err error) {
	defer s.track("update_user", time.Now(), &err)
	if err = s.wait(ctx); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *staffService) DeactivateUser(ctx context.Context, id int) (*models.User, error) {
	user, err := s.UpdateUser(ctx, id, models.StatusPatch(models.StatusInactive))
	if err == nil {
		s.log.Info().Int("user_id", id).Msg("Staff user deactivated")
	}
	return user, err
}

func (s *staffService) ActivateUser(ctx context.Context, id int) (*models.User, error) {
	user, err := s.UpdateUser(ctx, id, models.StatusPatch(models.StatusActive))
	if err == nil {
		s.log.Info().Int("user_id", id).Msg("Staff user activated")
	}
	return user, err
}

// SearchUsers matches query against name, email and role
func (s *staffService) SearchUsers(ctx context.Context, query string) (users []models.User, err error) {
	defer s.track("search_users", time.Now(), &err)
	if err = s.wait(ctx); err != nil {
		return nil, err
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return filterUsers(all, query), nil
}
