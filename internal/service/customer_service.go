package service

import (
	"context"
	"time"

	"github.com/controlly-api/internal/models"
	"github.com/controlly-api/internal/repository"
	"github.com/rs/zerolog"
)

// customerService is the concrete implementation of CustomerService
type customerService struct {
	*facade
	repo repository.CustomerRepository
	log  zerolog.Logger
}

func newCustomerService(repo repository.CustomerRepository, f *facade, log zerolog.Logger) *customerService {
	return &customerService{
		facade: f,
		repo:   repo,
		log:    log.With().Str("service", "customer").Logger(),
	}
}

func (s *customerService) GetCustomers(ctx context.Context) (customers []models.Customer, err error) {
	defer s.track("get_customers", time.Now(), &err)
	if err = s.wait(ctx); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *customerService) GetCustomer(ctx context.Context, id int) (customer *models.Customer, err error) {
	defer s.track("get_customer", time.Now(), &err)
	if err = s.wait(ctx); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *customerService) UpdateCustomer(ctx context.Context, id int, patch models.CustomerPatch) (customer *models.Customer, err error) {
	defer s.track("update_customer", time.Now(), &err)
	if err = s.wait(ctx); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, patch)
}

// SearchCustomers matches query against name, email and plan; a non-empty
// plan additionally restricts the result to that tier
func (s *customerService) SearchCustomers(ctx context.Context, query string, plan models.Plan) (customers []models.Customer, err error) {
	defer s.track("search_customers", time.Now(), &err)
	if err = s.wait(ctx); err != nil {
		return nil, err
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return filterCustomers(all, query, plan), nil
}
