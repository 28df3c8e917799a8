package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/controlly-api/internal/models"
)

// DefaultCustomerCount is how many customers a fresh store is seeded with
const DefaultCustomerCount = 200

const day = 24 * time.Hour

//go:embed data/staff.json
var staffJSON []byte

var customerNames = []string{
	"Acme Corp", "Brightside", "BlueOcean", "Nova Labs",
	"CleverOps", "Team Alpha", "Stackworks", "Orbit Systems",
}

// SeatRange is the inclusive seat range a tier is generated with
type SeatRange struct{ Min, Max int }

// SeatRanges maps each tier to the seat counts new customers receive
var SeatRanges = map[models.Plan]SeatRange{
	models.PlanFree:     {1, 20},
	models.PlanPro:      {50, 2000},
	models.PlanBusiness: {500, 5000},
}

// Staff returns the fixed staff roster. Entries without a plan get Free.
func Staff() ([]models.User, error) {
	var users []models.User
	if err := json.Unmarshal(staffJSON, &users); err != nil {
		return nil, fmt.Errorf("decode staff roster: %w", err)
	}
	for i := range users {
		if users[i].Plan == "" {
			users[i].Plan = models.PlanFree
		}
	}
	return users, nil
}

// Customers fabricates count customers with ids 1..count
func (g *Generator) Customers(count int) []models.Customer {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.Now()
	customers := make([]models.Customer, 0, count)
	for i := 0; i < count; i++ {
		name := customerNames[i%len(customerNames)]
		if i > len(customerNames) {
			name = fmt.Sprintf("%s %d", name, i)
		}
		plan := models.Plans[g.rng.IntN(len(models.Plans))]
		daysAgo := int(math.Floor(g.float() * 120))
		r := SeatRanges[plan]

		customers = append(customers, models.Customer{
			ID:         i + 1,
			Name:       name,
			Email:      strings.Join(strings.Fields(strings.ToLower(name)), "") + "@example.com",
			Plan:       plan,
			Seats:      g.between(r.Min, r.Max),
			LastActive: now.Add(-time.Duration(daysAgo) * day).Truncate(time.Millisecond),
		})
	}
	return customers
}

// Plans returns the default pricing catalog
func Plans() []models.PlanDef {
	return []models.PlanDef{
		{ID: "free", Name: "Free", Limits: models.PlanLimits{Projects: 3, Seats: 5}, Price: 0},
		{ID: "pro", Name: "Pro", Limits: models.PlanLimits{Projects: 50, Seats: 25}, Price: 49},
		{ID: "business", Name: "Business", Limits: models.PlanLimits{Projects: 500, Seats: 250}, Price: 299},
	}
}

// Usage fabricates one point per day ending today, oldest first.
// Active users trend upward across the range and never exceed 95% of totalSeats.
func (g *Generator) Usage(days, totalSeats int) []models.UsagePoint {
	g.mu.Lock()
	defer g.mu.Unlock()

	if days <= 0 {
		return []models.UsagePoint{}
	}
	now := g.Now().Truncate(time.Millisecond)
	total := float64(totalSeats)
	points := make([]models.UsagePoint, days)
	for i := range points {
		trend := float64(i) / float64(max(1, days-1)) * 0.4
		base := 0.10 + g.float()*0.5
		frac := math.Min(0.95, base+trend)

		points[i] = models.UsagePoint{
			Date:     now.Add(-time.Duration(days-i-1) * day),
			Users:    max(1, int(roundHalfUp(total*frac))),
			FeatureA: int(roundHalfUp(total * (0.01 + g.float()*0.04))),
			FeatureB: int(roundHalfUp(total * (0.008 + g.float()*0.03))),
			FeatureC: int(roundHalfUp(total * (0.003 + g.float()*0.02))),
		}
	}
	return points
}

func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
