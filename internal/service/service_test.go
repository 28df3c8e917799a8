package service_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/controlly-api/internal/config"
	"github.com/controlly-api/internal/metrics"
	"github.com/controlly-api/internal/models"
	"github.com/controlly-api/internal/repository"
	"github.com/controlly-api/internal/seed"
	"github.com/controlly-api/internal/service"
	"github.com/controlly-api/internal/storage"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

var fixedNow = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

func setupServices(t *testing.T, latency time.Duration) (*service.Services, *repository.Repositories, storage.Store) {
	t.Helper()
	store := storage.NewMemory()
	gen := seed.NewSeeded(2024, func() time.Time { return fixedNow })
	repos := repository.New(store, repository.Options{Generator: gen}, zerolog.Nop())
	cfg := &config.Config{API: config.APIConfig{Latency: latency, UsageDefaultDays: 30}}
	return service.NewServices(repos, gen, cfg, metrics.New(), zerolog.Nop()), repos, store
}

func TestStaff_CreateUserScenario(t *testing.T) {
	svcs, _, _ := setupServices(t, 0)
	ctx := context.Background()

	user, err := svcs.Staff.CreateUser(ctx, models.NewUser{Name: "A", Email: "a@x.com", Role: models.RoleStaff, Status: models.StatusActive})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.ID != 6 {
		t.Errorf("Expected id 6 after roster max 5, got %d", user.ID)
	}
	if user.Plan != models.PlanFree {
		t.Errorf("Expected plan Free, got %s", user.Plan)
	}
	if !user.LastLogin.Equal(fixedNow) {
		t.Errorf("Expected lastLogin stamped with the clock, got %v", user.LastLogin)
	}

	fetched, err := svcs.Staff.GetUser(ctx, 6)
	if err != nil || fetched == nil || fetched.Email != "a@x.com" {
		t.Errorf("GetUser returned %+v, %v", fetched, err)
	}
}

func TestStaff_GetUserMissingIsNil(t *testing.T) {
	svcs, _, _ := setupServices(t, 0)

	user, err := svcs.Staff.GetUser(context.Background(), 12345)
	if err != nil {
		t.Fatalf("GetUser should not fail for a missing id: %v", err)
	}
	if user != nil {
		t.Errorf("Expected nil user, got %+v", user)
	}
}

func TestStaff_DeactivateThenActivateRestoresRecord(t *testing.T) {
	svcs, _, _ := setupServices(t, 0)
	ctx := context.Background()

	before, _ := svcs.Staff.GetUser(ctx, 1)
	if before.Status != models.StatusActive {
		t.Fatalf("Expected roster user 1 to start active")
	}

	deactivated, err := svcs.Staff.DeactivateUser(ctx, 1)
	if err != nil {
		t.Fatalf("DeactivateUser failed: %v", err)
	}
	if deactivated.Status != models.StatusInactive {
		t.Errorf("Expected inactive, got %s", deactivated.Status)
	}

	activated, err := svcs.Staff.ActivateUser(ctx, 1)
	if err != nil {
		t.Fatalf("ActivateUser failed: %v", err)
	}
	if activated.Name != before.Name || activated.Email != before.Email || activated.Role != before.Role ||
		activated.Plan != before.Plan || !activated.LastLogin.Equal(before.LastLogin) || activated.Status != models.StatusActive {
		t.Errorf("Round trip changed the record: before %+v after %+v", before, activated)
	}
}

func TestStaff_UpdateMissingIsNotFound(t *testing.T) {
	svcs, _, _ := setupServices(t, 0)

	_, err := svcs.Staff.DeactivateUser(context.Background(), 77)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestStaff_SearchIsCaseInsensitive(t *testing.T) {
	svcs, _, _ := setupServices(t, 0)

	users, err := svcs.Staff.SearchUsers(context.Background(), "ADMIN")
	if err != nil {
		t.Fatalf("SearchUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("Expected 2 admins in the roster, got %d", len(users))
	}
	for _, u := range users {
		if u.Role != models.RoleAdmin {
			t.Errorf("Unexpected match %+v", u)
		}
	}

	all, _ := svcs.Staff.SearchUsers(context.Background(), "  ")
	if len(all) != 5 {
		t.Errorf("Blank query should return everyone, got %d", len(all))
	}
}

func TestCustomers_IdempotentListing(t *testing.T) {
	svcs, _, _ := setupServices(t, 0)
	ctx := context.Background()

	first, err := svcs.Customers.GetCustomers(ctx)
	if err != nil {
		t.Fatalf("GetCustomers failed: %v", err)
	}
	second, _ := svcs.Customers.GetCustomers(ctx)

	if len(first) != 200 || len(second) != 200 {
		t.Fatalf("Expected 200 customers twice, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Customer %d changed between calls", first[i].ID)
		}
	}
}

func TestCustomers_UpdateAndGet(t *testing.T) {
	svcs, _, _ := setupServices(t, 0)
	ctx := context.Background()

	seats := 9999
	updated, err := svcs.Customers.UpdateCustomer(ctx, 10, models.CustomerPatch{Seats: &seats})
	if err != nil {
		t.Fatalf("UpdateCustomer failed: %v", err)
	}
	if updated.Seats != 9999 {
		t.Errorf("Expected patched seats, got %d", updated.Seats)
	}

	fetched, _ := svcs.Customers.GetCustomer(ctx, 10)
	if fetched.Seats != 9999 || fetched.Name != updated.Name {
		t.Errorf("Unexpected customer %+v", fetched)
	}

	missing, err := svcs.Customers.GetCustomer(ctx, 201)
	if err != nil || missing != nil {
		t.Errorf("Expected nil for id 201, got %+v, %v", missing, err)
	}

	if _, err := svcs.Customers.UpdateCustomer(ctx, 201, models.CustomerPatch{Seats: &seats}); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCustomers_SearchByPlan(t *testing.T) {
	svcs, _, _ := setupServices(t, 0)

	pro, err := svcs.Customers.SearchCustomers(context.Background(), "", models.PlanPro)
	if err != nil {
		t.Fatalf("SearchCustomers failed: %v", err)
	}
	for _, c := range pro {
		if c.Plan != models.PlanPro {
			t.Errorf("Unexpected plan %s", c.Plan)
		}
	}

	acme, _ := svcs.Customers.SearchCustomers(context.Background(), "acme", "")
	if len(acme) == 0 {
		t.Error("Expected Acme Corp matches")
	}
}

func TestUsage_BoundedByLiveSeats(t *testing.T) {
	svcs, _, _ := setupServices(t, 0)
	ctx := context.Background()

	customers, _ := svcs.Customers.GetCustomers(ctx)
	total := 0
	for _, c := range customers {
		total += c.Seats
	}

	usage, err := svcs.Analytics.GetUsage(ctx, 14)
	if err != nil {
		t.Fatalf("GetUsage failed: %v", err)
	}
	if len(usage.Points) != 14 {
		t.Fatalf("Expected 14 points, got %d", len(usage.Points))
	}
	upper := int(float64(total)*0.95 + 0.5)
	for i, p := range usage.Points {
		if p.Users < 1 || p.Users > upper {
			t.Errorf("Point %d users %d outside [1,%d]", i, p.Users, upper)
		}
		if i > 0 && !p.Date.After(usage.Points[i-1].Date) {
			t.Errorf("Points are not ascending at %d", i)
		}
	}
	if !usage.Points[13].Date.Equal(fixedNow) {
		t.Errorf("Expected the series to end now, got %v", usage.Points[13].Date)
	}

	if got := svcs.Analytics.DefaultUsageDays(); got != 30 {
		t.Errorf("Expected default of 30 days, got %d", got)
	}
}

func TestUsage_ZeroAndNegativeDays(t *testing.T) {
	svcs, _, _ := setupServices(t, 0)
	ctx := context.Background()

	empty, err := svcs.Analytics.GetUsage(ctx, 0)
	if err != nil {
		t.Fatalf("GetUsage(0) failed: %v", err)
	}
	if empty.Points == nil || len(empty.Points) != 0 {
		t.Errorf("Expected an empty, non-nil series, got %+v", empty.Points)
	}

	if _, err := svcs.Analytics.GetUsage(ctx, -3); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestUsage_TracksSeatChanges(t *testing.T) {
	svcs, _, _ := setupServices(t, 0)
	ctx := context.Background()

	customers, _ := svcs.Customers.GetCustomers(ctx)
	one := 1
	for _, c := range customers {
		if _, err := svcs.Customers.UpdateCustomer(ctx, c.ID, models.CustomerPatch{Seats: &one}); err != nil {
			t.Fatalf("UpdateCustomer failed: %v", err)
		}
	}

	usage, _ := svcs.Analytics.GetUsage(ctx, 7)
	for _, p := range usage.Points {
		if p.Users > 190 {
			t.Errorf("Users %d exceeds 95%% of the 200 remaining seats", p.Users)
		}
	}
}

func TestPlans_CatalogScenario(t *testing.T) {
	svcs, _, store := setupServices(t, 0)
	ctx := context.Background()

	plans, err := svcs.Plans.GetPlans(ctx)
	if err != nil {
		t.Fatalf("GetPlans failed: %v", err)
	}
	wantIDs := []string{"free", "pro", "business"}
	wantPrices := []float64{0, 49, 299}
	for i, p := range plans {
		if p.ID != wantIDs[i] || p.Price != wantPrices[i] {
			t.Errorf("Plan %d = %s/%v", i, p.ID, p.Price)
		}
	}
	if _, ok, _ := store.Get(ctx, repository.PlansKey); !ok {
		t.Error("Catalog should be persisted")
	}

	again, _ := svcs.Plans.GetPlans(ctx)
	for i := range plans {
		if plans[i] != again[i] {
			t.Errorf("Second GetPlans differs at %d", i)
		}
	}
}

func TestPlans_UpdateThenReset(t *testing.T) {
	svcs, _, _ := setupServices(t, 0)
	ctx := context.Background()

	limits := models.PlanLimits{Projects: -1, Seats: 0}
	updated, err := svcs.Plans.UpdatePlan(ctx, "business", models.PlanPatch{Limits: &limits})
	if err != nil {
		t.Fatalf("UpdatePlan failed: %v", err)
	}
	if updated.Limits != limits {
		t.Errorf("Limits should be accepted unvalidated, got %+v", updated.Limits)
	}

	if _, err := svcs.Plans.UpdatePlan(ctx, "gold", models.PlanPatch{Limits: &limits}); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	restored, err := svcs.Plans.ResetPlans(ctx)
	if err != nil {
		t.Fatalf("ResetPlans failed: %v", err)
	}
	if restored[2].Limits.Projects != 500 || restored[2].Limits.Seats != 250 {
		t.Errorf("Expected default business limits, got %+v", restored[2].Limits)
	}
}

func TestAnalytics_Summary(t *testing.T) {
	svcs, _, _ := setupServices(t, 0)
	ctx := context.Background()

	summary, err := svcs.Analytics.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.Customers != 200 {
		t.Errorf("Expected 200 customers, got %d", summary.Customers)
	}
	sum := 0
	for _, n := range summary.PlanCounts {
		sum += n
	}
	if sum != 200 {
		t.Errorf("Plan counts should add up to 200, got %d", sum)
	}
	if summary.Paid != summary.PlanCounts[models.PlanPro]+summary.PlanCounts[models.PlanBusiness] {
		t.Errorf("Paid %d does not match plan counts %+v", summary.Paid, summary.PlanCounts)
	}
	if summary.Teams < 1 || summary.DAU < 1 || summary.WAU < 1 {
		t.Errorf("Unexpected KPIs %+v", summary)
	}
	if summary.ActiveStaff != 4 {
		t.Errorf("Expected 4 active staff in the roster, got %d", summary.ActiveStaff)
	}
}

func TestAnalytics_Search(t *testing.T) {
	svcs, _, _ := setupServices(t, 0)

	result, err := svcs.Analytics.Search(context.Background(), "noah")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(result.Staff) != 1 || result.Staff[0].Name != "Noah Patel" {
		t.Errorf("Unexpected staff matches %+v", result.Staff)
	}
	if len(result.Customers) != 0 {
		t.Errorf("Expected no customer matches, got %d", len(result.Customers))
	}
}

func TestFacade_LatencyAndCancellation(t *testing.T) {
	svcs, _, _ := setupServices(t, 50*time.Millisecond)

	start := time.Now()
	if _, err := svcs.Plans.GetPlans(context.Background()); err != nil {
		t.Fatalf("GetPlans failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Expected simulated latency, call took %v", elapsed)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svcs.Plans.GetPlans(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestExport_CustomersCSV(t *testing.T) {
	svcs, _, _ := setupServices(t, 0)
	w := httptest.NewRecorder()

	if err := svcs.Export.StreamCustomers(context.Background(), w, "csv"); err != nil {
		t.Fatalf("StreamCustomers failed: %v", err)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Expected text/csv, got %s", ct)
	}
	records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	if err != nil {
		t.Fatalf("Invalid CSV: %v", err)
	}
	if len(records) != 201 {
		t.Errorf("Expected header plus 200 rows, got %d", len(records))
	}
}

func TestExport_StaffJSONAndNDJSON(t *testing.T) {
	svcs, _, _ := setupServices(t, 0)

	w := httptest.NewRecorder()
	if err := svcs.Export.StreamStaff(context.Background(), w, "json"); err != nil {
		t.Fatalf("StreamStaff failed: %v", err)
	}
	var users []models.User
	if err := json.Unmarshal(w.Body.Bytes(), &users); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(users) != 5 {
		t.Errorf("Expected 5 users, got %d", len(users))
	}

	w = httptest.NewRecorder()
	svcs.Export.StreamStaff(context.Background(), w, "ndjson")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 5 {
		t.Errorf("Expected 5 NDJSON lines, got %d", len(lines))
	}

	if err := svcs.Export.StreamStaff(context.Background(), httptest.NewRecorder(), "xml"); err == nil {
		t.Error("Expected unsupported format error")
	}
}

// brokenWriter fails every write, like a client that hung up
type brokenWriter struct{ header http.Header }

func (b *brokenWriter) Header() http.Header {
	if b.header == nil {
		b.header = http.Header{}
	}
	return b.header
}
func (b *brokenWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }
func (b *brokenWriter) WriteHeader(int)           {}

func TestExport_WriteErrorsSurface(t *testing.T) {
	svcs, _, _ := setupServices(t, 0)

	for _, format := range []string{"json", "ndjson", "csv"} {
		if err := svcs.Export.StreamCustomers(context.Background(), &brokenWriter{}, format); err == nil {
			t.Errorf("Expected a write error for %s", format)
		}
	}
}

func TestExport_GoesThroughFacade(t *testing.T) {
	store := storage.NewMemory()
	gen := seed.NewSeeded(2024, func() time.Time { return fixedNow })
	repos := repository.New(store, repository.Options{Generator: gen}, zerolog.Nop())
	m := metrics.New()
	cfg := &config.Config{API: config.APIConfig{Latency: 30 * time.Millisecond}}
	svcs := service.NewServices(repos, gen, cfg, m, zerolog.Nop())

	start := time.Now()
	if err := svcs.Export.StreamStaff(context.Background(), httptest.NewRecorder(), "json"); err != nil {
		t.Fatalf("StreamStaff failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("Expected simulated latency, export took %v", elapsed)
	}
	if n, err := testutil.GatherAndCount(m.Registry, "controlly_facade_operations_total"); err != nil || n != 1 {
		t.Errorf("Expected one recorded operation, got %d (%v)", n, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := httptest.NewRecorder()
	if err := svcs.Export.StreamCustomers(ctx, w, "csv"); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if w.Body.Len() != 0 {
		t.Error("Cancelled export should write nothing")
	}
}

func TestDashboard_RefreshAndState(t *testing.T) {
	svcs, _, _ := setupServices(t, 0)

	if st := svcs.Dashboard.State(); st.Data != nil {
		t.Fatalf("Expected no data before the first load")
	}

	summary, err := svcs.Dashboard.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	st := svcs.Dashboard.State()
	if st.Data == nil || st.Data.Customers != summary.Customers {
		t.Errorf("State does not reflect the refresh: %+v", st)
	}
}

func TestDashboard_RefresherLifecycle(t *testing.T) {
	svcs, _, _ := setupServices(t, 0)

	svcs.Dashboard.StartRefresher(context.Background())

	deadline := time.After(2 * time.Second)
	for svcs.Dashboard.State().Data == nil {
		select {
		case <-deadline:
			t.Fatal("Refresher never loaded the summary")
		case <-time.After(5 * time.Millisecond):
		}
	}

	svcs.Dashboard.StopRefresher()
	// a second stop is a no-op
	svcs.Dashboard.StopRefresher()
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	page := service.Paginate(items, 2, 3)
	if len(page.Items) != 3 || page.Items[0] != 4 || page.Total != 7 {
		t.Errorf("Unexpected page %+v", page)
	}

	last := service.Paginate(items, 3, 3)
	if len(last.Items) != 1 || last.Items[0] != 7 {
		t.Errorf("Unexpected last page %+v", last)
	}

	beyond := service.Paginate(items, 9, 3)
	if len(beyond.Items) != 0 {
		t.Errorf("Expected empty page, got %+v", beyond)
	}

	clamped := service.Paginate(items, 0, 0)
	if clamped.Page != 1 || len(clamped.Items) != 7 {
		t.Errorf("Unexpected clamped page %+v", clamped)
	}
}
