package providers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/surf-report/internal/observability"
	"github.com/i474232898/surf-report/internal/surf"
)

const (
	DefaultMarineURL   = "https://marine-api.open-meteo.com/v1/marine"
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

	forecastDays = 7
)

// OpenMeteoConfig configures the marine-weather adapter.
type OpenMeteoConfig struct {
	MarineURL   string
	ForecastURL string
	Zone        *time.Location // civil zone for returned timestamps
	Timeout     time.Duration
	Backoff     *BackoffConfig
	Metrics     *observability.Metrics
}

// OpenMeteoProvider implements surf.MarineProvider on the Open-Meteo marine
// and forecast APIs. No API key is required.
type OpenMeteoProvider struct {
	adapter
	marineURL   string
	forecastURL string
	zone        *time.Location

	marineCircuit   *gobreaker.CircuitBreaker
	forecastCircuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, cfg OpenMeteoConfig) *OpenMeteoProvider {
	if cfg.MarineURL == "" {
		cfg.MarineURL = DefaultMarineURL
	}
	if cfg.ForecastURL == "" {
		cfg.ForecastURL = DefaultForecastURL
	}
	if cfg.Zone == nil {
		cfg.Zone = time.UTC
	}

	return &OpenMeteoProvider{
		adapter:         newAdapter("openmeteo", client, cfg.Timeout, cfg.Backoff, cfg.Metrics),
		marineURL:       cfg.MarineURL,
		forecastURL:     cfg.ForecastURL,
		zone:            cfg.Zone,
		marineCircuit:   newBreaker("openmeteo-marine"),
		forecastCircuit: newBreaker("openmeteo-forecast"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// WaveConditions returns the current wave train with a min/max range taken
// from the next 24 hourly heights.
func (p *OpenMeteoProvider) WaveConditions(ctx context.Context, loc surf.Location) surf.Optional[surf.WaveMeasurement] {
	return settle(ctx, p.adapter, "wave_conditions", loc, func(ctx context.Context) (surf.WaveMeasurement, error) {
		var payload struct {
			Current struct {
				WaveHeight    *float64 `json:"wave_height"`
				WaveDirection *float64 `json:"wave_direction"`
				WavePeriod    *float64 `json:"wave_period"`
			} `json:"current"`
			Hourly struct {
				WaveHeight []*float64 `json:"wave_height"`
			} `json:"hourly"`
		}

		q := p.query(loc)
		q.Set("current", "wave_height,wave_direction,wave_period")
		q.Set("hourly", "wave_height,wave_direction,wave_period")
		if err := p.getJSON(ctx, p.marineCircuit, p.marineURL+"?"+q.Encode(), nil, &payload); err != nil {
			return surf.WaveMeasurement{}, err
		}

		cur := payload.Current
		if cur.WaveHeight == nil || cur.WavePeriod == nil || cur.WaveDirection == nil {
			return surf.WaveMeasurement{}, errors.New("current wave fields missing")
		}

		lo, hi, ok := bounds(payload.Hourly.WaveHeight, 24)
		if !ok {
			lo, hi = *cur.WaveHeight, *cur.WaveHeight
		}

		return surf.WaveMeasurement{
			Height: surf.HeightRange{
				Min:     surf.MetersToFeet(lo),
				Max:     surf.MetersToFeet(hi),
				Average: surf.MetersToFeet(*cur.WaveHeight),
				Unit:    surf.UnitFeet,
			},
			Period:    math.Round(*cur.WavePeriod),
			Direction: *cur.WaveDirection,
		}, nil
	})
}

// Swell returns the primary swell, or an empty sequence when the sea shows
// no discernible swell.
func (p *OpenMeteoProvider) Swell(ctx context.Context, loc surf.Location) surf.Optional[[]surf.SwellComponent] {
	return settle(ctx, p.adapter, "swell", loc, func(ctx context.Context) ([]surf.SwellComponent, error) {
		var payload struct {
			Current struct {
				Height    *float64 `json:"swell_wave_height"`
				Direction *float64 `json:"swell_wave_direction"`
				Period    *float64 `json:"swell_wave_period"`
			} `json:"current"`
		}

		q := p.query(loc)
		q.Set("current", "swell_wave_height,swell_wave_direction,swell_wave_period")
		if err := p.getJSON(ctx, p.marineCircuit, p.marineURL+"?"+q.Encode(), nil, &payload); err != nil {
			return nil, err
		}

		swells := []surf.SwellComponent{}
		cur := payload.Current
		if cur.Height == nil || *cur.Height == 0 {
			return swells, nil
		}
		if cur.Period == nil || cur.Direction == nil {
			return nil, errors.New("swell period or direction missing")
		}

		swells = append(swells, surf.SwellComponent{
			Height:           surf.MetersToFeet(*cur.Height),
			Period:           math.Round(*cur.Period),
			Direction:        *cur.Direction,
			CompassDirection: surf.DegreesToCompass(*cur.Direction),
		})
		return swells, nil
	})
}

type marineDaily struct {
	Daily struct {
		Time          []string   `json:"time"`
		WaveHeightMax []*float64 `json:"wave_height_max"`
		WaveDirection []*float64 `json:"wave_direction_dominant"`
		WavePeriodMax []*float64 `json:"wave_period_max"`
	} `json:"daily"`
}

type weatherDailySeries struct {
	Time          []string   `json:"time"`
	TempMax       []*float64 `json:"temperature_2m_max"`
	WeatherCode   []*float64 `json:"weathercode"`
	WindSpeedMax  []*float64 `json:"windspeed_10m_max"`
	WindDirection []*float64 `json:"winddirection_10m_dominant"`
}

type weatherDaily struct {
	Daily weatherDailySeries `json:"daily"`
}

// Forecast joins the marine and weather daily series into up to seven days.
// Days without a marine maximum are skipped; days without a weather entry
// carry no wind and no temperature. Quality, rating and tides are left for
// the engine to fill.
func (p *OpenMeteoProvider) Forecast(ctx context.Context, loc surf.Location) surf.Optional[[]surf.ForecastDay] {
	return settle(ctx, p.adapter, "forecast", loc, func(ctx context.Context) ([]surf.ForecastDay, error) {
		var marine marineDaily
		mq := p.query(loc)
		mq.Set("daily", "wave_height_max,wave_direction_dominant,wave_period_max")
		if err := p.getJSON(ctx, p.marineCircuit, p.marineURL+"?"+mq.Encode(), nil, &marine); err != nil {
			return nil, fmt.Errorf("marine daily: %w", err)
		}

		var weather weatherDaily
		wq := p.query(loc)
		wq.Set("daily", "temperature_2m_max,weathercode,windspeed_10m_max,winddirection_10m_dominant")
		if err := p.getJSON(ctx, p.forecastCircuit, p.forecastURL+"?"+wq.Encode(), nil, &weather); err != nil {
			return nil, fmt.Errorf("weather daily: %w", err)
		}

		return p.joinDaily(marine, weather)
	})
}

func (p *OpenMeteoProvider) joinDaily(marine marineDaily, weather weatherDaily) ([]surf.ForecastDay, error) {
	md, wd := marine.Daily, weather.Daily
	n := min(forecastDays, len(md.Time))

	// weather rows are matched to marine rows by date, not position
	weatherRow := make(map[string]int, len(wd.Time))
	for i, d := range wd.Time {
		weatherRow[d] = i
	}

	days := make([]surf.ForecastDay, 0, n)
	for i := 0; i < n; i++ {
		date, err := time.ParseInLocation("2006-01-02", md.Time[i], p.zone)
		if err != nil {
			return nil, fmt.Errorf("parsing forecast date %q: %w", md.Time[i], err)
		}

		height, ok := at(md.WaveHeightMax, i)
		if !ok {
			continue
		}
		period, _ := at(md.WavePeriodMax, i)
		direction, _ := at(md.WaveDirection, i)

		day := surf.ForecastDay{
			Date: date,
			Waves: surf.WaveMeasurement{
				Height:    surf.DailyHeightRange(height),
				Period:    math.Round(period),
				Direction: direction,
			},
			Tide:    []surf.TideEvent{},
			Weather: dailyWeather(wd, -1),
		}

		if j, ok := weatherRow[md.Time[i]]; ok {
			day.Wind = dailyWind(wd, j)
			day.Weather = dailyWeather(wd, j)
		}

		days = append(days, day)
	}

	return days, nil
}

// dailyWind returns nil unless both speed and direction are reported.
func dailyWind(wd weatherDailySeries, j int) *surf.WindMeasurement {
	kmh, ok := at(wd.WindSpeedMax, j)
	if !ok {
		return nil
	}
	dir, ok := at(wd.WindDirection, j)
	if !ok {
		return nil
	}

	speed := surf.KmhToMph(kmh)
	return &surf.WindMeasurement{
		Speed:            speed,
		Gusts:            surf.EstimateGusts(speed),
		Direction:        dir,
		CompassDirection: surf.DegreesToCompass(dir),
		Unit:             surf.UnitMPH,
	}
}

// dailyWeather summarizes row j; a negative or missing row yields an
// unknown summary with no temperature.
func dailyWeather(wd weatherDailySeries, j int) surf.WeatherSummary {
	code := -1
	if c, ok := at(wd.WeatherCode, j); ok {
		code = int(c)
	}

	summary := surf.WeatherSummary{
		Description: weatherDescription(code),
		Icon:        weatherIcon(code),
	}
	if c, ok := at(wd.TempMax, j); ok {
		f := surf.CelsiusToFahrenheit(c)
		summary.Temperature = &f
	}
	return summary
}

func (p *OpenMeteoProvider) query(loc surf.Location) url.Values {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", loc.Coordinates.Latitude))
	values.Set("longitude", fmt.Sprintf("%f", loc.Coordinates.Longitude))
	values.Set("timezone", p.zone.String())
	return values
}

// at returns series[i] when it exists and is not null.
func at(series []*float64, i int) (float64, bool) {
	if i < 0 || i >= len(series) || series[i] == nil {
		return 0, false
	}
	return *series[i], true
}

// bounds returns min and max over the first n non-null values.
func bounds(series []*float64, n int) (float64, float64, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	found := false
	for i := 0; i < len(series) && i < n; i++ {
		if series[i] == nil {
			continue
		}
		lo = math.Min(lo, *series[i])
		hi = math.Max(hi, *series[i])
		found = true
	}
	return lo, hi, found
}

var weatherCodes = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Slight snow",
	73: "Moderate snow",
	75: "Heavy snow",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Heavy rain showers",
	95: "Thunderstorm",
	96: "Thunderstorm with hail",
}

func weatherDescription(code int) string {
	if d, ok := weatherCodes[code]; ok {
		return d
	}
	return "Unknown"
}

// weatherIcon maps WMO weather codes (simplified).
func weatherIcon(code int) string {
	switch {
	case code == 0 || code == 1:
		return "☀️"
	case code == 2 || code == 3:
		return "☁️"
	case code >= 45 && code <= 48:
		return "🌫️"
	case code >= 51 && code <= 65:
		return "🌧️"
	case code >= 71 && code <= 75:
		return "❄️"
	case code >= 80 && code <= 82:
		return "🌦️"
	case code >= 95:
		return "⛈️"
	default:
		return "☁️"
	}
}
