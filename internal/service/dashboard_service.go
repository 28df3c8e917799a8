package service

import (
	"context"
	"sync"
	"time"

	"github.com/controlly-api/internal/async"
	"github.com/controlly-api/internal/models"
	"github.com/rs/zerolog"
)

// dashboardService is the concrete implementation of DashboardService
type dashboardService struct {
	loader   *async.Loader[models.Summary]
	interval time.Duration
	log      zerolog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
	running  bool
	mu       sync.Mutex
}

// newDashboardService wraps the analytics summary in a loader
func newDashboardService(analytics AnalyticsService, interval time.Duration, log zerolog.Logger) *dashboardService {
	loader := async.NewLoader(func(ctx context.Context) (models.Summary, error) {
		summary, err := analytics.Summary(ctx)
		if err != nil {
			return models.Summary{}, err
		}
		return *summary, nil
	})
	return &dashboardService{
		loader:   loader,
		interval: interval,
		log:      log.With().Str("service", "dashboard").Logger(),
	}
}

// StartRefresher loads the summary once, then again every interval until
// StopRefresher is called or ctx ends. The loop runs in its own goroutine and
// is registered before StartRefresher returns, so a following StopRefresher
// always waits for it.
func (s *dashboardService) StartRefresher(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(runCtx, s.done)
}

func (s *dashboardService) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	s.log.Info().Dur("interval", s.interval).Msg("Dashboard refresher started")
	s.refresh(ctx)

	if s.interval <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("Dashboard refresher stopping")
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

// StopRefresher stops the background loop and waits for it to exit
func (s *dashboardService) StopRefresher() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	done := s.done
	s.running = false
	s.mu.Unlock()

	<-done
	s.log.Info().Msg("Dashboard refresher stopped")
}

func (s *dashboardService) refresh(ctx context.Context) {
	if _, err := s.loader.Execute(ctx); err != nil && ctx.Err() == nil {
		s.log.Error().Err(err).Msg("Dashboard refresh failed")
	}
}

// Refresh re-executes the summary load on demand
func (s *dashboardService) Refresh(ctx context.Context) (*models.Summary, error) {
	summary, err := s.loader.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// State returns the latest loader snapshot
func (s *dashboardService) State() async.State[models.Summary] {
	return s.loader.State()
}
