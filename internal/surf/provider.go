package surf

import (
	"context"
)

// MarineProvider is the marine-weather source: waves, swell and the daily
// forecast. Every method bounds its own call time and reports failure as
// Absent, never as a panic or error.
type MarineProvider interface {
	Name() string
	WaveConditions(ctx context.Context, loc Location) Optional[WaveMeasurement]
	Swell(ctx context.Context, loc Location) Optional[[]SwellComponent]
	Forecast(ctx context.Context, loc Location) Optional[[]ForecastDay]
}

// TideProvider is the tide/wind/water source.
type TideProvider interface {
	Name() string
	Wind(ctx context.Context, loc Location) Optional[WindMeasurement]
	TidePredictions(ctx context.Context, loc Location, days int) Optional[[]TideEvent]
	WaterTemperature(ctx context.Context, loc Location) Optional[float64]
}

// Store is the contract the in-memory report cache satisfies.
type Store interface {
	SaveReport(report SurfReport)
	GetLatest(locationID string) (SurfReport, error)
}
