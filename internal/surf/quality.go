package surf

// ClassifyQuality grades a wave train from its height in feet and period in
// seconds. Callers must pass canonical units.
func ClassifyQuality(heightFt, periodSec float64) Quality {
	score := heightFt*0.5 + periodSec*0.5

	switch {
	case score >= 10:
		return QualityExcellent
	case score >= 7:
		return QualityGood
	case score >= 4:
		return QualityFair
	default:
		return QualityPoor
	}
}
