package seed_test

import (
	"testing"
	"time"

	"github.com/controlly-api/internal/models"
	"github.com/controlly-api/internal/seed"
)

var fixedNow = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func TestStaff_DefaultsPlan(t *testing.T) {
	users, err := seed.Staff()
	if err != nil {
		t.Fatalf("Staff failed: %v", err)
	}
	if len(users) == 0 {
		t.Fatal("Expected a non-empty roster")
	}

	seen := make(map[int]bool)
	for _, u := range users {
		if u.Plan == "" {
			t.Errorf("User %d has no plan", u.ID)
		}
		if seen[u.ID] {
			t.Errorf("Duplicate id %d", u.ID)
		}
		seen[u.ID] = true
	}

	// Sofia has no plan in the roster
	if users[2].Plan != models.PlanFree {
		t.Errorf("Expected missing plan to default to Free, got %s", users[2].Plan)
	}
}

func TestCustomers_SeatsWithinTierRange(t *testing.T) {
	gen := seed.NewSeeded(42, clock)
	customers := gen.Customers(seed.DefaultCustomerCount)

	if len(customers) != 200 {
		t.Fatalf("Expected 200 customers, got %d", len(customers))
	}

	for i, c := range customers {
		if c.ID != i+1 {
			t.Errorf("Expected id %d, got %d", i+1, c.ID)
		}
		if c.Seats < 1 {
			t.Errorf("Customer %d has %d seats", c.ID, c.Seats)
		}
		r, ok := seed.SeatRanges[c.Plan]
		if !ok {
			t.Fatalf("Customer %d has unknown plan %q", c.ID, c.Plan)
		}
		if c.Seats < r.Min || c.Seats > r.Max {
			t.Errorf("Customer %d (%s) seats %d outside [%d,%d]", c.ID, c.Plan, c.Seats, r.Min, r.Max)
		}
		age := fixedNow.Sub(c.LastActive)
		if age < 0 || age >= 120*24*time.Hour {
			t.Errorf("Customer %d lastActive %v out of range", c.ID, c.LastActive)
		}
	}
}

func TestCustomers_Naming(t *testing.T) {
	customers := seed.NewSeeded(1, clock).Customers(12)

	if customers[0].Name != "Acme Corp" || customers[0].Email != "acmecorp@example.com" {
		t.Errorf("Unexpected first customer %+v", customers[0])
	}
	// index 8 wraps to the first name without a suffix, index 9 onward are suffixed
	if customers[8].Name != "Acme Corp" {
		t.Errorf("Expected wrapped name, got %q", customers[8].Name)
	}
	if customers[9].Name != "Brightside 9" || customers[9].Email != "brightside9@example.com" {
		t.Errorf("Unexpected suffixed customer %+v", customers[9])
	}
}

func TestCustomers_ReproducibleWithSeed(t *testing.T) {
	a := seed.NewSeeded(7, clock).Customers(20)
	b := seed.NewSeeded(7, clock).Customers(20)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Seeded generators diverged at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestPlans_Catalog(t *testing.T) {
	plans := seed.Plans()

	wantIDs := []string{"free", "pro", "business"}
	wantPrices := []float64{0, 49, 299}
	if len(plans) != 3 {
		t.Fatalf("Expected 3 plans, got %d", len(plans))
	}
	for i, p := range plans {
		if p.ID != wantIDs[i] || p.Price != wantPrices[i] {
			t.Errorf("Plan %d: got %s/%v, want %s/%v", i, p.ID, p.Price, wantIDs[i], wantPrices[i])
		}
	}
}

func TestUsage_ShapeAndBounds(t *testing.T) {
	gen := seed.NewSeeded(99, clock)
	totalSeats := 12345

	for _, days := range []int{1, 7, 30, 90} {
		points := gen.Usage(days, totalSeats)
		if len(points) != days {
			t.Fatalf("Expected %d points, got %d", days, len(points))
		}

		if !points[days-1].Date.Equal(fixedNow) {
			t.Errorf("Expected last point at now, got %v", points[days-1].Date)
		}
		upper := int(float64(totalSeats)*0.95 + 0.5)
		for i, p := range points {
			if p.Users < 1 || p.Users > upper {
				t.Errorf("days=%d point %d users %d outside [1,%d]", days, i, p.Users, upper)
			}
			if p.FeatureA < totalSeats/100 || p.FeatureA > totalSeats*5/100 {
				t.Errorf("featureA %d out of range", p.FeatureA)
			}
			if p.FeatureC > p.FeatureA+totalSeats*2/100 {
				t.Errorf("featureC %d implausibly large", p.FeatureC)
			}
			if i > 0 && p.Date.Sub(points[i-1].Date) != 24*time.Hour {
				t.Errorf("Points %d and %d are not one day apart", i-1, i)
			}
		}
	}
}

func TestUsage_SingleSeatFloor(t *testing.T) {
	points := seed.NewSeeded(3, clock).Usage(30, 1)
	for _, p := range points {
		if p.Users != 1 {
			t.Errorf("Expected exactly 1 user with a single seat, got %d", p.Users)
		}
	}
}

func TestUsage_ZeroDays(t *testing.T) {
	if points := seed.NewSeeded(3, clock).Usage(0, 100); len(points) != 0 {
		t.Errorf("Expected no points, got %d", len(points))
	}
}
