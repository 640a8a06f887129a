// Package geo provides great-circle distance math and geocoding against an
// external provider. Geocoding failures are never fatal to matching; callers
// treat them as "no coordinates available".
package geo

import (
	"fmt"
	"math"

	"github.com/jonathan/job-matcher/internal/types"
)

// earthRadiusKm is the mean earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two points in
// kilometers. It is symmetric and returns 0 for identical points. The asin
// argument is clamped so antipodal points never produce NaN from floating
// point drift.
func DistanceKm(a, b types.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	// Clamp for numerical safety near antipodes.
	if h > 1 {
		h = 1
	}
	if h < 0 {
		h = 0
	}

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// FormatDistance renders a distance for display. Distances under 1 km are
// collapsed to "<1 km", under 10 km keep one decimal, and anything larger
// is rounded to a whole number.
func FormatDistance(km float64) string {
	switch {
	case km < 0:
		return ""
	case km < 1:
		return "<1 km"
	case km < 10:
		return fmt.Sprintf("%.1f km", km)
	default:
		return fmt.Sprintf("%.0f km", math.Round(km))
	}
}
