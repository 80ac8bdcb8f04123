package surf

import (
	"time"
)

// Quality is an ordinal label describing how rideable the waves are.
type Quality string

const (
	QualityPoor      Quality = "poor"
	QualityFair      Quality = "fair"
	QualityGood      Quality = "good"
	QualityExcellent Quality = "excellent"
)

// Rank orders qualities from poor (0) to excellent (3).
func (q Quality) Rank() int {
	switch q {
	case QualityFair:
		return 1
	case QualityGood:
		return 2
	case QualityExcellent:
		return 3
	default:
		return 0
	}
}

// TideType distinguishes high and low water.
type TideType string

const (
	TideHigh TideType = "high"
	TideLow  TideType = "low"
)

// Unit tags carried on measurements.
const (
	UnitFeet       = "ft"
	UnitMPH        = "mph"
	UnitFahrenheit = "F"
)

// Coordinates is a WGS84 position.
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// SpotInfo carries optional local knowledge about a break.
type SpotInfo struct {
	BestTide   string   `json:"bestTide"`
	BestWind   string   `json:"bestWind"`
	SurfLevels []string `json:"surfLevel"`
}

// Location is a surf spot. It is reference data owned by the caller.
type Location struct {
	ID          string       `json:"id" validate:"required"`
	Name        string       `json:"name"`
	Region      string       `json:"region"`
	Coordinates *Coordinates `json:"coordinates" validate:"required"`
	WebcamURL   string       `json:"webcamUrl,omitempty" validate:"omitempty,url"`
	SpotInfo    *SpotInfo    `json:"spotInfo,omitempty"`
}

// HeightRange is a wave height spread in feet.
type HeightRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
	Unit    string  `json:"unit"`
}

// WaveMeasurement describes the dominant wave train.
type WaveMeasurement struct {
	Height    HeightRange `json:"height"`
	Period    float64     `json:"period"`    // seconds
	Direction float64     `json:"direction"` // degrees
	Quality   Quality     `json:"quality"`
}

// SwellComponent is a single swell train.
type SwellComponent struct {
	Height           float64 `json:"height"` // feet
	Period           float64 `json:"period"` // seconds
	Direction        float64 `json:"direction"`
	CompassDirection string  `json:"compassDirection"`
}

// WindMeasurement is wind in mph.
type WindMeasurement struct {
	Speed            float64 `json:"speed"`
	Gusts            float64 `json:"gusts"`
	Direction        float64 `json:"direction"`
	CompassDirection string  `json:"compassDirection"`
	Unit             string  `json:"unit"`
}

// TideEvent is a predicted high or low water.
type TideEvent struct {
	Time   time.Time `json:"time"`
	Height float64   `json:"height"` // feet above MLLW
	Type   TideType  `json:"type"`
}

// WaterMeasurement is sea surface temperature. Clarity has no upstream source.
type WaterMeasurement struct {
	Temperature float64 `json:"temperature"`
	Unit        string  `json:"unit"`
	Clarity     string  `json:"clarity"`
}

// WeatherSummary is the daily air weather attached to a forecast day.
// Temperature is nil when the day has no weather entry.
type WeatherSummary struct {
	Temperature *float64 `json:"temperature"` // °F
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
}

// ForecastDay is one calendar day of outlook. Wind is nil when the
// forecast has no wind for that day.
type ForecastDay struct {
	Date    time.Time        `json:"date"`
	Waves   WaveMeasurement  `json:"waves"`
	Wind    *WindMeasurement `json:"wind"`
	Tide    []TideEvent      `json:"tide"`
	Weather WeatherSummary   `json:"weather"`
	Rating  int              `json:"rating"`
}

// Conditions is the current state at a spot.
type Conditions struct {
	Waves WaveMeasurement  `json:"waves"`
	Swell []SwellComponent `json:"swell"`
	Wind  WindMeasurement  `json:"wind"`
	Tide  []TideEvent      `json:"tide"`
	Water WaterMeasurement `json:"water"`
}

// SurfReport is the aggregated, scored snapshot for one location.
type SurfReport struct {
	Location   Location      `json:"location"`
	Timestamp  time.Time     `json:"timestamp"`
	Conditions Conditions    `json:"conditions"`
	Forecast   []ForecastDay `json:"forecast"`
	Rating     int           `json:"rating"`
	Alerts     []string      `json:"alerts"`
}

// calmWind is substituted when the wind source is absent.
func calmWind() WindMeasurement {
	return WindMeasurement{
		Speed:            0,
		Gusts:            0,
		Direction:        0,
		CompassDirection: "N",
		Unit:             UnitMPH,
	}
}
