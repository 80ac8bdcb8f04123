package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker"

	"github.com/i474232898/surf-report/internal/observability"
	"github.com/i474232898/surf-report/internal/surf"
)

const (
	DefaultTidesURL  = "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"
	DefaultNWSURL    = "https://api.weather.gov"
	DefaultUserAgent = "surf-report (contact@example.com)"

	defaultGridCacheSize = 64
	noaaTimeLayout       = "2006-01-02 15:04"
	applicationName      = "SurfReport"
)

var errNoStation = errors.New("no NOAA station mapped to location")

// NOAAConfig configures the tide/wind/water adapter.
type NOAAConfig struct {
	TidesURL  string
	NWSURL    string
	UserAgent string

	// Stations maps location id to CO-OPS station id.
	Stations map[string]string

	Zone          *time.Location // zone of lst_ldt timestamps
	Timeout       time.Duration
	GridCacheSize int
	Backoff       *BackoffConfig
	Metrics       *observability.Metrics
	Clock         clockwork.Clock
}

// gridPoint is the NWS forecast office grid cell covering a coordinate.
type gridPoint struct {
	Office string
	X      int
	Y      int
}

// NOAAProvider implements surf.TideProvider on NOAA CO-OPS (tides, water
// temperature) and the NWS API (wind).
type NOAAProvider struct {
	adapter
	tidesURL  string
	nwsURL    string
	userAgent string
	stations  map[string]string
	zone      *time.Location
	clock     clockwork.Clock

	grids *lru.Cache[string, gridPoint]

	coopsCircuit *gobreaker.CircuitBreaker
	nwsCircuit   *gobreaker.CircuitBreaker
}

func NewNOAAProvider(client *http.Client, cfg NOAAConfig) (*NOAAProvider, error) {
	if cfg.TidesURL == "" {
		cfg.TidesURL = DefaultTidesURL
	}
	if cfg.NWSURL == "" {
		cfg.NWSURL = DefaultNWSURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Zone == nil {
		cfg.Zone = time.UTC
	}
	if cfg.GridCacheSize <= 0 {
		cfg.GridCacheSize = defaultGridCacheSize
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}

	grids, err := lru.New[string, gridPoint](cfg.GridCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating grid cache: %w", err)
	}

	stations := make(map[string]string, len(cfg.Stations))
	for k, v := range cfg.Stations {
		stations[k] = v
	}

	return &NOAAProvider{
		adapter:      newAdapter("noaa", client, cfg.Timeout, cfg.Backoff, cfg.Metrics),
		tidesURL:     cfg.TidesURL,
		nwsURL:       strings.TrimRight(cfg.NWSURL, "/"),
		userAgent:    cfg.UserAgent,
		stations:     stations,
		zone:         cfg.Zone,
		clock:        cfg.Clock,
		grids:        grids,
		coopsCircuit: newBreaker("noaa-coops"),
		nwsCircuit:   newBreaker("nws"),
	}, nil
}

func (p *NOAAProvider) Name() string {
	return p.name
}

type coopsError struct {
	Message string `json:"message"`
}

type coopsPredictions struct {
	Predictions []struct {
		Time   string `json:"t"`
		Height string `json:"v"`
		Type   string `json:"type"`
	} `json:"predictions"`
	Error *coopsError `json:"error"`
}

type coopsObservations struct {
	Data []struct {
		Time  string `json:"t"`
		Value string `json:"v"`
	} `json:"data"`
	Error *coopsError `json:"error"`
}

// TidePredictions returns high/low events from today through today+days in
// the station's local time, ordered by time.
func (p *NOAAProvider) TidePredictions(ctx context.Context, loc surf.Location, days int) surf.Optional[[]surf.TideEvent] {
	return settle(ctx, p.adapter, "tide_predictions", loc, func(ctx context.Context) ([]surf.TideEvent, error) {
		station, ok := p.stations[loc.ID]
		if !ok {
			return nil, errNoStation
		}

		today := p.clock.Now().In(p.zone)
		q := p.coopsQuery(station, "predictions")
		q.Set("begin_date", today.Format("20060102"))
		q.Set("end_date", today.AddDate(0, 0, days).Format("20060102"))
		q.Set("datum", "MLLW")
		q.Set("interval", "hilo")

		var payload coopsPredictions
		if err := p.getJSON(ctx, p.coopsCircuit, p.tidesURL+"?"+q.Encode(), nil, &payload); err != nil {
			return nil, err
		}
		if payload.Error != nil {
			return nil, fmt.Errorf("coops: %s", payload.Error.Message)
		}

		events := make([]surf.TideEvent, 0, len(payload.Predictions))
		for _, pred := range payload.Predictions {
			t, err := time.ParseInLocation(noaaTimeLayout, pred.Time, p.zone)
			if err != nil {
				continue
			}
			height, err := strconv.ParseFloat(pred.Height, 64)
			if err != nil {
				continue
			}

			tideType := surf.TideLow
			if pred.Type == "H" {
				tideType = surf.TideHigh
			}

			events = append(events, surf.TideEvent{Time: t, Height: height, Type: tideType})
		}

		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Time.Before(events[j].Time)
		})
		return events, nil
	})
}

// WaterTemperature returns the latest water temperature in °F.
func (p *NOAAProvider) WaterTemperature(ctx context.Context, loc surf.Location) surf.Optional[float64] {
	return settle(ctx, p.adapter, "water_temperature", loc, func(ctx context.Context) (float64, error) {
		station, ok := p.stations[loc.ID]
		if !ok {
			return 0, errNoStation
		}

		q := p.coopsQuery(station, "water_temperature")
		q.Set("date", "latest")

		var payload coopsObservations
		if err := p.getJSON(ctx, p.coopsCircuit, p.tidesURL+"?"+q.Encode(), nil, &payload); err != nil {
			return 0, err
		}
		if payload.Error != nil {
			return 0, fmt.Errorf("coops: %s", payload.Error.Message)
		}
		if len(payload.Data) == 0 {
			return 0, errors.New("no water temperature observations")
		}

		temp, err := strconv.ParseFloat(payload.Data[0].Value, 64)
		if err != nil {
			return 0, fmt.Errorf("parsing water temperature %q: %w", payload.Data[0].Value, err)
		}
		return temp, nil
	})
}

type nwsValue struct {
	Value *float64 `json:"value"`
}

type nwsSeries struct {
	Values []nwsValue `json:"values"`
}

// first returns the first non-null value.
func (s nwsSeries) first() (float64, bool) {
	for _, v := range s.Values {
		if v.Value != nil {
			return *v.Value, true
		}
	}
	return 0, false
}

// Wind returns the first NWS gridpoint wind values converted to mph. Gusts
// are estimated from speed when NWS has none.
func (p *NOAAProvider) Wind(ctx context.Context, loc surf.Location) surf.Optional[surf.WindMeasurement] {
	return settle(ctx, p.adapter, "wind", loc, func(ctx context.Context) (surf.WindMeasurement, error) {
		grid, err := p.gridFor(ctx, loc)
		if err != nil {
			return surf.WindMeasurement{}, fmt.Errorf("resolving grid point: %w", err)
		}

		var payload struct {
			Properties struct {
				WindSpeed     nwsSeries `json:"windSpeed"`
				WindDirection nwsSeries `json:"windDirection"`
				WindGust      nwsSeries `json:"windGust"`
			} `json:"properties"`
		}

		u := fmt.Sprintf("%s/gridpoints/%s/%d,%d", p.nwsURL, url.PathEscape(grid.Office), grid.X, grid.Y)
		if err := p.getJSON(ctx, p.nwsCircuit, u, p.nwsHeaders(), &payload); err != nil {
			return surf.WindMeasurement{}, err
		}

		props := payload.Properties
		speedKmh, ok := props.WindSpeed.first()
		if !ok {
			return surf.WindMeasurement{}, errors.New("no wind speed values")
		}
		direction, ok := props.WindDirection.first()
		if !ok {
			return surf.WindMeasurement{}, errors.New("no wind direction values")
		}

		speed := surf.KmhToMph(speedKmh)
		gusts := surf.EstimateGusts(speed)
		if g, ok := props.WindGust.first(); ok {
			gusts = max(surf.KmhToMph(g), speed)
		}

		return surf.WindMeasurement{
			Speed:            speed,
			Gusts:            gusts,
			Direction:        direction,
			CompassDirection: surf.DegreesToCompass(direction),
			Unit:             surf.UnitMPH,
		}, nil
	})
}

// gridFor resolves the NWS grid cell for a location, caching by coordinate.
func (p *NOAAProvider) gridFor(ctx context.Context, loc surf.Location) (gridPoint, error) {
	key := fmt.Sprintf("%.4f,%.4f", loc.Coordinates.Latitude, loc.Coordinates.Longitude)
	if g, ok := p.grids.Get(key); ok {
		return g, nil
	}

	var payload struct {
		Properties struct {
			GridID string `json:"gridId"`
			GridX  *int   `json:"gridX"`
			GridY  *int   `json:"gridY"`
		} `json:"properties"`
	}
	if err := p.getJSON(ctx, p.nwsCircuit, p.nwsURL+"/points/"+key, p.nwsHeaders(), &payload); err != nil {
		return gridPoint{}, err
	}

	props := payload.Properties
	if props.GridID == "" || props.GridX == nil || props.GridY == nil {
		return gridPoint{}, errors.New("points response missing grid")
	}

	g := gridPoint{Office: props.GridID, X: *props.GridX, Y: *props.GridY}
	p.grids.Add(key, g)
	return g, nil
}

func (p *NOAAProvider) coopsQuery(station, product string) url.Values {
	values := url.Values{}
	values.Set("station", station)
	values.Set("product", product)
	values.Set("units", "english")
	values.Set("time_zone", "lst_ldt")
	values.Set("format", "json")
	values.Set("application", applicationName)
	return values
}

func (p *NOAAProvider) nwsHeaders() map[string]string {
	return map[string]string{
		"User-Agent": p.userAgent,
		"Accept":     "application/geo+json",
	}
}
