package surf

const (
	AlertHighSurf   = "⚠️ High surf advisory - waves exceeding 8ft"
	AlertStrongWind = "💨 Strong wind warning - winds exceeding 25mph"
	AlertExcellent  = "🏄 Excellent conditions - get out there!"
)

const (
	highSurfFt    = 8
	strongWindMph = 25
)

// GenerateAlerts returns advisories in a fixed order: high surf, strong wind,
// excellent conditions. Absent wind never produces a wind alert.
func GenerateAlerts(waves WaveMeasurement, wind Optional[WindMeasurement]) []string {
	alerts := make([]string, 0, 3)

	if waves.Height.Max > highSurfFt {
		alerts = append(alerts, AlertHighSurf)
	}

	if w, ok := wind.Get(); ok && w.Speed > strongWindMph {
		alerts = append(alerts, AlertStrongWind)
	}

	if waves.Quality == QualityExcellent {
		alerts = append(alerts, AlertExcellent)
	}

	return alerts
}
