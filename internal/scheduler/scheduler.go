package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/surf-report/internal/surf"
)

const defaultInterval = 30 * time.Minute

// Refresher rebuilds and caches the report for one location.
type Refresher interface {
	FetchAndStore(ctx context.Context, loc surf.Location) error
}

// Scheduler periodically refreshes surf reports for configured locations.
// Ticks never overlap: a slow refresh delays the next one instead of racing it.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Refresher
	locations []surf.Location
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler. timeout bounds one location's refresh.
func New(locations []surf.Location, interval, timeout time.Duration, service Refresher) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	if interval <= 0 {
		interval = defaultInterval
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Scheduler{
		scheduler: s,
		service:   service,
		locations: locations,
		interval:  interval,
		timeout:   timeout,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		log.Info().Msg("scheduler: no locations configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(s.RunOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce refreshes every location concurrently and waits for all of them.
func (s *Scheduler) RunOnce() {
	log.Info().Int("locations", len(s.locations)).Msg("scheduler: refreshing surf reports")

	var wg sync.WaitGroup
	for _, loc := range s.locations {
		loc := loc
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			defer cancel()

			if err := s.service.FetchAndStore(ctx, loc); err != nil {
				log.Warn().Err(err).Str("location", loc.ID).Msg("scheduler: refresh failed")
			}
		}()
	}
	wg.Wait()
	log.Info().Msg("scheduler: refresh complete")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
