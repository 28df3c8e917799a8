package mocks

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/controlly-api/internal/async"
	"github.com/controlly-api/internal/models"
	"github.com/controlly-api/internal/service"
)

// MockStaffService is a map-backed StaffService
type MockStaffService struct {
	mu    sync.Mutex
	Users map[int]*models.User
	Order []int
	Err   error
}

// Verify interface compliance
var _ service.StaffService = (*MockStaffService)(nil)

func NewMockStaffService(users ...models.User) *MockStaffService {
	m := &MockStaffService{Users: make(map[int]*models.User)}
	for _, u := range users {
		u := u
		m.Users[u.ID] = &u
		m.Order = append(m.Order, u.ID)
	}
	return m
}

func (m *MockStaffService) ListUsers(ctx context.Context) ([]models.User, error) {
	return m.SearchUsers(ctx, "")
}

func (m *MockStaffService) GetUser(ctx context.Context, id int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	u, ok := m.Users[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (m *MockStaffService) CreateUser(ctx context.Context, input models.NewUser) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	id := 1
	for existing := range m.Users {
		id = max(id, existing+1)
	}
	u := &models.User{ID: id, Name: input.Name, Email: input.Email, Role: input.Role, Status: input.Status, Plan: input.Plan, LastLogin: input.LastLogin}
	if u.Plan == "" {
		u.Plan = models.PlanFree
	}
	m.Users[id] = u
	m.Order = append([]int{id}, m.Order...)
	out := *u
	return &out, nil
}

func (m *MockStaffService) UpdateUser(ctx context.Context, id int, patch models.UserPatch) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	u, ok := m.Users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, models.ErrNotFound)
	}
	patch.Apply(u)
	out := *u
	return &out, nil
}

func (m *MockStaffService) DeactivateUser(ctx context.Context, id int) (*models.User, error) {
	return m.UpdateUser(ctx, id, models.StatusPatch(models.StatusInactive))
}

func (m *MockStaffService) ActivateUser(ctx context.Context, id int) (*models.User, error) {
	return m.UpdateUser(ctx, id, models.StatusPatch(models.StatusActive))
}

// SearchUsers ignores the query and returns every user
func (m *MockStaffService) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.User, 0, len(m.Order))
	for _, id := range m.Order {
		out = append(out, *m.Users[id])
	}
	return out, nil
}

// MockCustomerService is a map-backed CustomerService
type MockCustomerService struct {
	mu        sync.Mutex
	Customers map[int]*models.Customer
	Order     []int
	Err       error
	LastPlan  models.Plan
	LastQuery string
}

// Verify interface compliance
var _ service.CustomerService = (*MockCustomerService)(nil)

func NewMockCustomerService(customers ...models.Customer) *MockCustomerService {
	m := &MockCustomerService{Customers: make(map[int]*models.Customer)}
	for _, c := range customers {
		c := c
		m.Customers[c.ID] = &c
		m.Order = append(m.Order, c.ID)
	}
	return m
}

func (m *MockCustomerService) GetCustomers(ctx context.Context) ([]models.Customer, error) {
	return m.SearchCustomers(ctx, "", "")
}

func (m *MockCustomerService) GetCustomer(ctx context.Context, id int) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	c, ok := m.Customers[id]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (m *MockCustomerService) UpdateCustomer(ctx context.Context, id int, patch models.CustomerPatch) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	c, ok := m.Customers[id]
	if !ok {
		return nil, fmt.Errorf("customer %d: %w", id, models.ErrNotFound)
	}
	patch.Apply(c)
	out := *c
	return &out, nil
}

// SearchCustomers records its arguments and filters by plan only
func (m *MockCustomerService) SearchCustomers(ctx context.Context, query string, plan models.Plan) ([]models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastQuery, m.LastPlan = query, plan
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.Customer, 0, len(m.Order))
	for _, id := range m.Order {
		if c := m.Customers[id]; plan == "" || c.Plan == plan {
			out = append(out, *c)
		}
	}
	return out, nil
}

// MockPlanService is a slice-backed PlanService
type MockPlanService struct {
	Plans      []models.PlanDef
	ResetCalls int
	Err        error
}

// Verify interface compliance
var _ service.PlanService = (*MockPlanService)(nil)

func NewMockPlanService(plans ...models.PlanDef) *MockPlanService {
	return &MockPlanService{Plans: plans}
}

func (m *MockPlanService) GetPlans(ctx context.Context) ([]models.PlanDef, error) {
	return m.Plans, m.Err
}

func (m *MockPlanService) UpdatePlan(ctx context.Context, id string, patch models.PlanPatch) (*models.PlanDef, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Plans {
		if m.Plans[i].ID == id {
			patch.Apply(&m.Plans[i])
			out := m.Plans[i]
			return &out, nil
		}
	}
	return nil, fmt.Errorf("plan %q: %w", id, models.ErrNotFound)
}

func (m *MockPlanService) ResetPlans(ctx context.Context) ([]models.PlanDef, error) {
	m.ResetCalls++
	return m.Plans, m.Err
}

// MockAnalyticsService returns canned analytics
type MockAnalyticsService struct {
	Usage       *models.UsageResponse
	Result      *models.SearchResult
	Sum         *models.Summary
	LastDays    int
	DefaultDays int
	Err         error
}

// Verify interface compliance
var _ service.AnalyticsService = (*MockAnalyticsService)(nil)

func NewMockAnalyticsService() *MockAnalyticsService {
	return &MockAnalyticsService{
		Usage:       &models.UsageResponse{Points: []models.UsagePoint{}},
		Result:      &models.SearchResult{Staff: []models.User{}, Customers: []models.Customer{}},
		Sum:         &models.Summary{PlanCounts: map[models.Plan]int{}},
		DefaultDays: 30,
	}
}

func (m *MockAnalyticsService) DefaultUsageDays() int {
	return m.DefaultDays
}

func (m *MockAnalyticsService) GetUsage(ctx context.Context, days int) (*models.UsageResponse, error) {
	m.LastDays = days
	return m.Usage, m.Err
}

func (m *MockAnalyticsService) Summary(ctx context.Context) (*models.Summary, error) {
	return m.Sum, m.Err
}

func (m *MockAnalyticsService) Search(ctx context.Context, query string) (*models.SearchResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := *m.Result
	out.Query = query
	return &out, nil
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	StreamCustomersFunc func(ctx context.Context, w http.ResponseWriter, format string) error
	StreamStaffFunc     func(ctx context.Context, w http.ResponseWriter, format string) error
}

// Verify interface compliance
var _ service.ExportService = (*MockExportService)(nil)

func NewMockExportService() *MockExportService {
	return &MockExportService{}
}

func (m *MockExportService) StreamCustomers(ctx context.Context, w http.ResponseWriter, format string) error {
	if m.StreamCustomersFunc != nil {
		return m.StreamCustomersFunc(ctx, w, format)
	}
	return nil
}

func (m *MockExportService) StreamStaff(ctx context.Context, w http.ResponseWriter, format string) error {
	if m.StreamStaffFunc != nil {
		return m.StreamStaffFunc(ctx, w, format)
	}
	return nil
}

// MockDashboardService serves a fixed loader state
type MockDashboardService struct {
	Current      async.State[models.Summary]
	RefreshErr   error
	RefreshCalls int
}

// Verify interface compliance
var _ service.DashboardService = (*MockDashboardService)(nil)

func NewMockDashboardService() *MockDashboardService {
	return &MockDashboardService{}
}

func (m *MockDashboardService) StartRefresher(ctx context.Context) {}

func (m *MockDashboardService) StopRefresher() {}

func (m *MockDashboardService) Refresh(ctx context.Context) (*models.Summary, error) {
	m.RefreshCalls++
	if m.RefreshErr != nil {
		m.Current.Err = m.RefreshErr
		return nil, m.RefreshErr
	}
	s := models.Summary{PlanCounts: map[models.Plan]int{}}
	m.Current = async.State[models.Summary]{Data: &s}
	return &s, nil
}

func (m *MockDashboardService) State() async.State[models.Summary] {
	return m.Current
}
