package surf

import "math"

const (
	feetPerMeter = 3.28084
	mphPerKmh    = 0.621371
	gustFactor   = 1.3
)

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// MetersToFeet converts meters to feet rounded to one decimal.
func MetersToFeet(m float64) float64 {
	return roundTo(m*feetPerMeter, 1)
}

// FeetToMeters is the inverse of MetersToFeet, without rounding.
func FeetToMeters(ft float64) float64 {
	return ft / feetPerMeter
}

// KmhToMph converts km/h to whole mph.
func KmhToMph(kmh float64) float64 {
	return math.Round(kmh * mphPerKmh)
}

// MphToKmh is the inverse of KmhToMph, without rounding.
func MphToKmh(mph float64) float64 {
	return mph / mphPerKmh
}

// CelsiusToFahrenheit converts and rounds to whole degrees.
func CelsiusToFahrenheit(c float64) float64 {
	return math.Round(c*9/5 + 32)
}

// DegreesToCompass maps a bearing to a 16-point compass label.
// 360 and 0 both map to N; negative bearings wrap.
func DegreesToCompass(deg float64) string {
	idx := int(math.Round(deg/22.5)) % 16
	if idx < 0 {
		idx += 16
	}
	return compassPoints[idx]
}

// EstimateGusts is used when a provider reports speed but no gusts.
func EstimateGusts(speedMph float64) float64 {
	return math.Round(speedMph * gustFactor)
}

// DailyHeightRange expands a single daily maximum (meters) into a range in
// feet: min is 70% and average 85% of the maximum.
func DailyHeightRange(maxMeters float64) HeightRange {
	return HeightRange{
		Min:     MetersToFeet(maxMeters * 0.7),
		Max:     MetersToFeet(maxMeters),
		Average: MetersToFeet(maxMeters * 0.85),
		Unit:    UnitFeet,
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
