package service

import (
	"context"
	"net/http"

	"github.com/controlly-api/internal/async"
	"github.com/controlly-api/internal/config"
	"github.com/controlly-api/internal/metrics"
	"github.com/controlly-api/internal/models"
	"github.com/controlly-api/internal/repository"
	"github.com/controlly-api/internal/seed"
	"github.com/rs/zerolog"
)

// StaffService defines the staff account operations
type StaffService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
	CreateUser(ctx context.Context, input models.NewUser) (*models.User, error)
	UpdateUser(ctx context.Context, id int, patch models.UserPatch) (*models.User, error)
	DeactivateUser(ctx context.Context, id int) (*models.User, error)
	ActivateUser(ctx context.Context, id int) (*models.User, error)
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
}

// CustomerService defines the customer operations
type CustomerService interface {
	GetCustomers(ctx context.Context) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id int) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id int, patch models.CustomerPatch) (*models.Customer, error)
	SearchCustomers(ctx context.Context, query string, plan models.Plan) ([]models.Customer, error)
}

// PlanService defines the pricing catalog operations
type PlanService interface {
	GetPlans(ctx context.Context) ([]models.PlanDef, error)
	UpdatePlan(ctx context.Context, id string, patch models.PlanPatch) (*models.PlanDef, error)
	ResetPlans(ctx context.Context) ([]models.PlanDef, error)
}

// AnalyticsService defines the derived, non-persisted queries
type AnalyticsService interface {
	DefaultUsageDays() int
	GetUsage(ctx context.Context, days int) (*models.UsageResponse, error)
	Summary(ctx context.Context) (*models.Summary, error)
	Search(ctx context.Context, query string) (*models.SearchResult, error)
}

// ExportService defines the download operations
type ExportService interface {
	StreamCustomers(ctx context.Context, w http.ResponseWriter, format string) error
	StreamStaff(ctx context.Context, w http.ResponseWriter, format string) error
}

// DashboardService keeps a periodically refreshed Summary.
// StartRefresher returns immediately; StopRefresher blocks until the loop exits.
type DashboardService interface {
	StartRefresher(ctx context.Context)
	StopRefresher()
	Refresh(ctx context.Context) (*models.Summary, error)
	State() async.State[models.Summary]
}

// Services holds all service interfaces
type Services struct {
	Staff     StaffService
	Customers CustomerService
	Plans     PlanService
	Analytics AnalyticsService
	Export    ExportService
	Dashboard DashboardService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, gen *seed.Generator, cfg *config.Config, m *metrics.Metrics, log zerolog.Logger) *Services {
	f := &facade{
		latency: cfg.API.Latency,
		metrics: m,
	}

	staffSvc := newStaffService(repos.User, f, log)
	customerSvc := newCustomerService(repos.Customer, f, log)
	planSvc := newPlanService(repos.Plan, f, log)
	analyticsSvc := newAnalyticsService(repos, gen, f, cfg.API.UsageDefaultDays, log)

	return &Services{
		Staff:     staffSvc,
		Customers: customerSvc,
		Plans:     planSvc,
		Analytics: analyticsSvc,
		Export:    newExportService(repos, f, log),
		Dashboard: newDashboardService(analyticsSvc, cfg.API.RefreshInterval, log),
	}
}
