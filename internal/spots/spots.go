// Package spots is the static registry of surf locations and the NOAA
// stations that serve them.
package spots

import (
	"github.com/i474232898/surf-report/internal/surf"
)

var registry = []surf.Location{
	{
		ID:          "smith-point",
		Name:        "Smith Point",
		Region:      "Long Island, NY",
		Coordinates: &surf.Coordinates{Latitude: 40.7273, Longitude: -72.8689},
		WebcamURL:   "https://thesurfersview.com/live-cams/new-york/fire-island-beach-cam-and-surf-report/",
		SpotInfo: &surf.SpotInfo{
			BestTide:   "Mid to high tide",
			BestWind:   "N, NW, W",
			SurfLevels: []string{"Beginner", "Intermediate", "Advanced"},
		},
	},
	{
		ID:          "long-beach",
		Name:        "Long Beach",
		Region:      "Long Island, NY",
		Coordinates: &surf.Coordinates{Latitude: 40.5885, Longitude: -73.6579},
		WebcamURL:   "https://thesurfersview.com/live-cams/new-york/long-beach-cam-and-surf-report/",
		SpotInfo: &surf.SpotInfo{
			BestTide:   "All tides",
			BestWind:   "N, NE, NW",
			SurfLevels: []string{"Beginner", "Intermediate"},
		},
	},
	{
		ID:          "montauk",
		Name:        "Montauk Point",
		Region:      "Long Island, NY",
		Coordinates: &surf.Coordinates{Latitude: 41.0715, Longitude: -71.8561},
		WebcamURL:   "https://www.surf-forecast.com/breaks/Montauk-Point-Turtles/webcams/latest",
		SpotInfo: &surf.SpotInfo{
			BestTide:   "Mid to high tide",
			BestWind:   "W, NW, SW",
			SurfLevels: []string{"Intermediate", "Advanced", "Expert"},
		},
	},
	{
		ID:          "brick-nj",
		Name:        "Brick Beach",
		Region:      "New Jersey",
		Coordinates: &surf.Coordinates{Latitude: 40.0584, Longitude: -74.0343},
		WebcamURL:   "https://njbeachcams.com/central-new-jersey/brick-weather-beach-cam-and-surf-report/",
		SpotInfo: &surf.SpotInfo{
			BestTide:   "Low to mid tide",
			BestWind:   "W, NW, SW",
			SurfLevels: []string{"Beginner", "Intermediate"},
		},
	},
}

// stations maps a location id to its NOAA CO-OPS station.
var stations = map[string]string{
	"smith-point": "8531680", // Fire Island Light, NY
	"long-beach":  "8516945", // Kings Point, NY
	"montauk":     "8510560", // Montauk, NY
	"brick-nj":    "8534720", // Atlantic City, NJ
}

// All returns a copy of every registered location.
func All() []surf.Location {
	out := make([]surf.Location, len(registry))
	copy(out, registry)
	return out
}

// ByID looks up a location.
func ByID(id string) (surf.Location, bool) {
	for _, loc := range registry {
		if loc.ID == id {
			return loc, true
		}
	}
	return surf.Location{}, false
}

// Stations returns a copy of the location → NOAA station table.
func Stations() map[string]string {
	out := make(map[string]string, len(stations))
	for k, v := range stations {
		out[k] = v
	}
	return out
}
