package surf

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/surf-report/internal/observability"
)

const (
	defaultTideWindowDays = 2
	upcomingTideWindow    = 24 * time.Hour
	defaultClarity        = "fair"
)

// Service aggregates both providers into scored reports and keeps the
// latest report per location in its store.
type Service struct {
	store   Store
	marine  MarineProvider
	tides   TideProvider
	clock   clockwork.Clock
	metrics *observability.Metrics

	tideWindowDays int
}

// Option customizes a Service.
type Option func(*Service)

// WithClock swaps the time source.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTideWindow sets how many days of tide predictions are requested.
func WithTideWindow(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.tideWindowDays = days
		}
	}
}

// NewService creates a new Service.
func NewService(store Store, marine MarineProvider, tides TideProvider, opts ...Option) *Service {
	s := &Service{
		store:          store,
		marine:         marine,
		tides:          tides,
		clock:          clockwork.NewRealClock(),
		tideWindowDays: defaultTideWindowDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Report fans out all six provider calls for loc, waits for every one to
// settle and composes a report. Only the wave conditions are mandatory; any
// other absent field falls back to a neutral default.
func (s *Service) Report(ctx context.Context, loc Location) (SurfReport, error) {
	if err := ValidateLocation(loc); err != nil {
		return SurfReport{}, err
	}

	now := s.clock.Now()

	var (
		g         errgroup.Group
		waves     Optional[WaveMeasurement]
		swell     Optional[[]SwellComponent]
		wind      Optional[WindMeasurement]
		tides     Optional[[]TideEvent]
		waterTemp Optional[float64]
		forecast  Optional[[]ForecastDay]
	)

	// Each goroutine owns exactly one result slot.
	g.Go(func() error {
		waves = s.marine.WaveConditions(ctx, loc)
		return nil
	})
	g.Go(func() error {
		swell = s.marine.Swell(ctx, loc)
		return nil
	})
	g.Go(func() error {
		wind = s.tides.Wind(ctx, loc)
		return nil
	})
	g.Go(func() error {
		tides = s.tides.TidePredictions(ctx, loc, s.tideWindowDays)
		return nil
	})
	g.Go(func() error {
		waterTemp = s.tides.WaterTemperature(ctx, loc)
		return nil
	})
	g.Go(func() error {
		forecast = s.marine.Forecast(ctx, loc)
		return nil
	})
	// Adapters report failure as Absent, so Wait never returns an error.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		s.metrics.ObserveAggregation(observability.OutcomeFailed, s.clock.Since(now))
		return SurfReport{}, fmt.Errorf("aggregation for %s abandoned: %w", loc.ID, err)
	}

	current, ok := waves.Get()
	if !ok {
		s.metrics.ObserveAggregation(observability.OutcomeFailed, s.clock.Since(now))
		return SurfReport{}, ErrWaveConditionsUnavailable
	}

	report := compose(loc, now, current, swell, wind, tides, waterTemp, forecast)
	s.metrics.ObserveAggregation(observability.OutcomeSuccess, s.clock.Since(now))
	s.metrics.SetRating(loc.ID, report.Rating)
	return report, nil
}

// compose builds the report deterministically from settled provider results.
func compose(
	loc Location,
	now time.Time,
	waves WaveMeasurement,
	swell Optional[[]SwellComponent],
	wind Optional[WindMeasurement],
	tides Optional[[]TideEvent],
	waterTemp Optional[float64],
	forecast Optional[[]ForecastDay],
) SurfReport {
	waves.Quality = ClassifyQuality(waves.Height.Average, waves.Period)

	swells := swell.OrElse(nil)
	if swells == nil {
		swells = []SwellComponent{}
	}
	primary := Absent[SwellComponent]()
	if len(swells) > 0 {
		primary = Present(swells[0])
	}

	tideEvents := tides.OrElse(nil)
	days := scoreForecast(forecast.OrElse(nil))

	return SurfReport{
		Location:  loc,
		Timestamp: now,
		Conditions: Conditions{
			Waves: waves,
			Swell: swells,
			Wind:  wind.OrElse(calmWind()),
			Tide:  UpcomingTides(tideEvents, now, upcomingTideWindow),
			Water: WaterMeasurement{
				Temperature: waterTemp.OrElse(0),
				Unit:        UnitFahrenheit,
				Clarity:     defaultClarity,
			},
		},
		Forecast: MergeTides(days, tideEvents),
		Rating:   RateCurrent(waves, wind, primary),
		Alerts:   GenerateAlerts(waves, wind),
	}
}

// scoreForecast classifies and rates each day from its normalized units.
// Quality is graded on the daily maximum; the rating uses the average.
func scoreForecast(days []ForecastDay) []ForecastDay {
	scored := make([]ForecastDay, len(days))
	for i, day := range days {
		wind := Absent[WindMeasurement]()
		if day.Wind != nil {
			wind = Present(*day.Wind)
		}

		day.Waves.Quality = ClassifyQuality(day.Waves.Height.Max, day.Waves.Period)
		day.Rating = RateForecast(day.Waves, wind)
		scored[i] = day
	}
	return scored
}

// FetchAndStore aggregates a report for loc and caches it. A failed or
// abandoned aggregation leaves the previous report in place.
func (s *Service) FetchAndStore(ctx context.Context, loc Location) error {
	report, err := s.Report(ctx, loc)
	if err != nil {
		log.Error().Err(err).Str("location", loc.ID).Msg("surf report aggregation failed")
		return err
	}

	s.store.SaveReport(report)
	log.Debug().
		Str("location", loc.ID).
		Int("rating", report.Rating).
		Int("alerts", len(report.Alerts)).
		Msg("surf report stored")
	return nil
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(locationID string) (SurfReport, error) {
	return s.store.GetLatest(locationID)
}
