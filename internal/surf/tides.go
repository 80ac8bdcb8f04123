package surf

import (
	"time"
)

// MergeTides returns a copy of days where each day carries the tide events
// falling on the same civil date. Dates are compared in the zone each time
// already carries; no conversion happens here.
func MergeTides(days []ForecastDay, tides []TideEvent) []ForecastDay {
	merged := make([]ForecastDay, len(days))
	for i, day := range days {
		day.Tide = tidesOn(day.Date, tides)
		merged[i] = day
	}
	return merged
}

// UpcomingTides keeps events strictly inside (now, now+window).
func UpcomingTides(tides []TideEvent, now time.Time, window time.Duration) []TideEvent {
	end := now.Add(window)
	upcoming := make([]TideEvent, 0, len(tides))
	for _, t := range tides {
		if t.Time.After(now) && t.Time.Before(end) {
			upcoming = append(upcoming, t)
		}
	}
	return upcoming
}

func tidesOn(date time.Time, tides []TideEvent) []TideEvent {
	matched := make([]TideEvent, 0, 4)
	for _, t := range tides {
		if sameCivilDate(t.Time, date) {
			matched = append(matched, t)
		}
	}
	return matched
}

func sameCivilDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
