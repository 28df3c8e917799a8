package service

import (
	"context"
	"time"

	"github.com/controlly-api/internal/models"
	"github.com/controlly-api/internal/repository"
	"github.com/rs/zerolog"
)

// planService is the concrete implementation of PlanService
type planService struct {
	*facade
	repo repository.PlanRepository
	log  zerolog.Logger
}

func newPlanService(repo repository.PlanRepository, f *facade, log zerolog.Logger) *planService {
	return &planService{
		facade: f,
		repo:   repo,
		log:    log.With().Str("service", "plan").Logger(),
	}
}

func (s *planService) GetPlans(ctx context.Context) (plans []models.PlanDef, err error) {
	defer s.track("get_plans", time.Now(), &err)
	if err = s.wait(ctx); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *planService) UpdatePlan(ctx context.Context, id string, patch models.PlanPatch) (plan *models.PlanDef, err error) {
	defer s.track("update_plan", time.Now(), &err)
	if err = s.wait(ctx); err != nil {
		return nil, err
	}
	plan, err = s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("plan_id", id).
		Int("projects", plan.Limits.Projects).
		Int("seats", plan.Limits.Seats).
		Msg("Plan updated")
	return plan, nil
}

// ResetPlans restores the default catalog and returns it
func (s *planService) ResetPlans(ctx context.Context) (plans []models.PlanDef, err error) {
	defer s.track("reset_plans", time.Now(), &err)
	if err = s.wait(ctx); err != nil {
		return nil, err
	}
	if err = s.repo.Reset(ctx); err != nil {
		return nil, err
	}
	s.log.Info().Msg("Plans restored to defaults")
	return s.repo.List(ctx)
}
