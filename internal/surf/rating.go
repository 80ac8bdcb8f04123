package surf

const (
	minRating  = 1
	maxRating  = 10
	baseRating = 5
)

// RateCurrent scores live conditions on a 1-10 scale. Wind and swell are
// optional; the rating is always computable from the waves alone.
func RateCurrent(waves WaveMeasurement, wind Optional[WindMeasurement], swell Optional[SwellComponent]) int {
	rating := baseRating + heightBonus(waves.Height.Average)

	if waves.Period >= 10 {
		rating += 2
	}

	if w, ok := wind.Get(); ok {
		rating += windAdjustment(w.Speed)
	}

	if s, ok := swell.Get(); ok && s.Period >= 12 {
		rating++
	}

	return clampRating(rating)
}

// RateForecast scores a forecast day. Its period tiers differ from
// RateCurrent: +2 at 10s and +1 at 8s, with no swell term. Unknown wind
// earns no wind adjustment.
func RateForecast(waves WaveMeasurement, wind Optional[WindMeasurement]) int {
	rating := baseRating + heightBonus(waves.Height.Average)

	switch {
	case waves.Period >= 10:
		rating += 2
	case waves.Period >= 8:
		rating++
	}

	if w, ok := wind.Get(); ok {
		rating += windAdjustment(w.Speed)
	}

	return clampRating(rating)
}

func heightBonus(avgFt float64) int {
	switch {
	case avgFt >= 4:
		return 2
	case avgFt >= 2:
		return 1
	default:
		return 0
	}
}

// windAdjustment favors light wind; speed is mph.
func windAdjustment(speed float64) int {
	switch {
	case speed < 10:
		return 1
	case speed > 20:
		return -1
	default:
		return 0
	}
}

func clampRating(r int) int {
	return min(maxRating, max(minRating, r))
}
