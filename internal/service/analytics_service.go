package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/controlly-api/internal/models"
	"github.com/controlly-api/internal/repository"
	"github.com/controlly-api/internal/seed"
	"github.com/rs/zerolog"
)

// summaryDays is the usage window the dashboard KPIs are computed over
const summaryDays = 30

// analyticsService is the concrete implementation of AnalyticsService
type analyticsService struct {
	*facade
	repos       *repository.Repositories
	gen         *seed.Generator
	defaultDays int
	log         zerolog.Logger
}

func newAnalyticsService(repos *repository.Repositories, gen *seed.Generator, f *facade, defaultDays int, log zerolog.Logger) *analyticsService {
	if gen == nil {
		gen = seed.NewGenerator(nil, nil)
	}
	if defaultDays <= 0 {
		defaultDays = summaryDays
	}
	return &analyticsService{
		facade:      f,
		repos:       repos,
		gen:         gen,
		defaultDays: defaultDays,
		log:         log.With().Str("service", "analytics").Logger(),
	}
}

// DefaultUsageDays is the range callers use when they have no preference
func (s *analyticsService) DefaultUsageDays() int {
	return s.defaultDays
}

// GetUsage fabricates exactly days points scaled to the current seat total.
// Zero days yields an empty series; negative days are rejected.
// Two calls with the same days return different samples.
func (s *analyticsService) GetUsage(ctx context.Context, days int) (usage *models.UsageResponse, err error) {
	defer s.track("get_usage", time.Now(), &err)
	if err = s.wait(ctx); err != nil {
		return nil, err
	}
	if days < 0 {
		return nil, fmt.Errorf("days %d: %w", days, models.ErrInvalidInput)
	}
	customers, err := s.repos.Customer.List(ctx)
	if err != nil {
		return nil, err
	}
	return &models.UsageResponse{Points: s.gen.Usage(days, totalSeats(customers))}, nil
}

// Summary computes the dashboard KPIs
func (s *analyticsService) Summary(ctx context.Context) (summary *models.Summary, err error) {
	defer s.track("summary", time.Now(), &err)
	if err = s.wait(ctx); err != nil {
		return nil, err
	}
	customers, err := s.repos.Customer.List(ctx)
	if err != nil {
		return nil, err
	}
	staff, err := s.repos.User.List(ctx)
	if err != nil {
		return nil, err
	}

	seats := 0
	for _, c := range customers {
		seats += c.Seats
	}
	points := s.gen.Usage(summaryDays, max(1, seats))

	summary = &models.Summary{
		Customers:   len(customers),
		TotalSeats:  seats,
		Teams:       max(1, int(math.Ceil(float64(seats)/5))),
		PlanCounts:  map[models.Plan]int{},
		GeneratedAt: s.gen.Now(),
	}
	for _, p := range models.Plans {
		summary.PlanCounts[p] = 0
	}
	for _, c := range customers {
		summary.PlanCounts[c.Plan]++
		if c.Plan != models.PlanFree {
			summary.Paid++
		}
	}
	// conversion is paid customers per hundred seats, as the dashboard has always shown it
	if seats > 0 {
		summary.Conversion = int(math.Round(float64(summary.Paid) / float64(seats) * 100))
	}
	for _, u := range staff {
		if u.Status == models.StatusActive {
			summary.ActiveStaff++
		}
	}

	if n := len(points); n > 0 {
		summary.DAU = points[n-1].Users
		window := points[max(0, n-7):]
		sum := 0
		for _, p := range window {
			sum += p.Users
		}
		summary.WAU = int(math.Round(float64(sum) / float64(len(window))))
	}
	summary.Features = sumFeatures(points)

	return summary, nil
}

// Search runs the staff and customer filters with one query
func (s *analyticsService) Search(ctx context.Context, query string) (result *models.SearchResult, err error) {
	defer s.track("search", time.Now(), &err)
	if err = s.wait(ctx); err != nil {
		return nil, err
	}
	staff, err := s.repos.User.List(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := s.repos.Customer.List(ctx)
	if err != nil {
		return nil, err
	}
	return &models.SearchResult{
		Query:     query,
		Staff:     filterUsers(staff, query),
		Customers: filterCustomers(customers, query, ""),
	}, nil
}

// totalSeats never returns less than 1 so usage always has a scale
func totalSeats(customers []models.Customer) int {
	total := 0
	for _, c := range customers {
		total += c.Seats
	}
	return max(1, total)
}

func sumFeatures(points []models.UsagePoint) models.FeatureTotals {
	var t models.FeatureTotals
	for _, p := range points {
		t.A += p.FeatureA
		t.B += p.FeatureB
		t.C += p.FeatureC
	}
	return t
}
