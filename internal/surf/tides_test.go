package surf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eastern = time.FixedZone("EST", -5*60*60)

func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.June, day, hour, minute, 0, 0, eastern)
}

func TestMergeTides(t *testing.T) {
	tides := []TideEvent{
		{Time: at(1, 3, 12), Height: 0.4, Type: TideLow},
		{Time: at(1, 9, 30), Height: 4.1, Type: TideHigh},
		{Time: at(1, 23, 30), Height: 0.2, Type: TideLow},
		{Time: at(2, 5, 45), Height: 4.3, Type: TideHigh},
		{Time: at(4, 1, 0), Height: 0.1, Type: TideLow},
	}
	days := []ForecastDay{
		{Date: at(1, 0, 0), Rating: 6},
		{Date: at(2, 0, 0), Rating: 7},
		{Date: at(3, 0, 0), Rating: 5},
	}

	merged := MergeTides(days, tides)
	require.Len(t, merged, 3)

	assert.Equal(t, tides[0:3], merged[0].Tide, "late evening local event stays on its civil date")
	assert.Equal(t, tides[3:4], merged[1].Tide)
	assert.NotNil(t, merged[2].Tide)
	assert.Empty(t, merged[2].Tide)

	assert.Equal(t, 7, merged[1].Rating)
	assert.Nil(t, days[0].Tide, "input days are not modified")
}

func TestMergeTidesNoTides(t *testing.T) {
	merged := MergeTides([]ForecastDay{{Date: at(1, 0, 0)}}, nil)
	require.Len(t, merged, 1)
	assert.Empty(t, merged[0].Tide)

	assert.Empty(t, MergeTides(nil, nil))
}

func TestUpcomingTides(t *testing.T) {
	now := at(1, 12, 0)
	tides := []TideEvent{
		{Time: at(1, 11, 0), Type: TideLow},
		{Time: at(1, 12, 0), Type: TideHigh},
		{Time: at(1, 18, 0), Type: TideLow},
		{Time: at(2, 11, 59), Type: TideHigh},
		{Time: at(2, 12, 0), Type: TideLow},
		{Time: at(2, 13, 0), Type: TideHigh},
	}

	upcoming := UpcomingTides(tides, now, 24*time.Hour)
	assert.Equal(t, []TideEvent{tides[2], tides[3]}, upcoming)
}
