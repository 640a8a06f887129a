package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/job-matcher/internal/types"
)

var (
	sanFrancisco = types.Coordinates{Lat: 37.7749, Lon: -122.4194}
	losAngeles   = types.Coordinates{Lat: 34.0522, Lon: -118.2437}
)

func TestDistanceKm_KnownPair(t *testing.T) {
	// SF to LA is roughly 559 km great-circle.
	d := DistanceKm(sanFrancisco, losAngeles)
	assert.InDelta(t, 559, d, 5)
}

func TestDistanceKm_Symmetric(t *testing.T) {
	assert.Equal(t, DistanceKm(sanFrancisco, losAngeles), DistanceKm(losAngeles, sanFrancisco))
}

func TestDistanceKm_ZeroForIdenticalPoints(t *testing.T) {
	assert.Equal(t, 0.0, DistanceKm(sanFrancisco, sanFrancisco))
}

func TestDistanceKm_AntipodesNotNaN(t *testing.T) {
	a := types.Coordinates{Lat: 0, Lon: 0}
	b := types.Coordinates{Lat: 0, Lon: 180}
	d := DistanceKm(a, b)
	assert.False(t, math.IsNaN(d))
	// Half the earth's circumference.
	assert.InDelta(t, 20015, d, 20)
}

func TestDistanceKm_PolesNotNaN(t *testing.T) {
	north := types.Coordinates{Lat: 90, Lon: 0}
	south := types.Coordinates{Lat: -90, Lon: 45}
	d := DistanceKm(north, south)
	assert.False(t, math.IsNaN(d))
	assert.InDelta(t, 20015, d, 20)
}

func TestDistanceKm_AntimeridianShortPath(t *testing.T) {
	// Two points straddling the antimeridian are close, not a world apart.
	a := types.Coordinates{Lat: 0, Lon: 179.9}
	b := types.Coordinates{Lat: 0, Lon: -179.9}
	d := DistanceKm(a, b)
	assert.False(t, math.IsNaN(d))
	assert.InDelta(t, 22.2, d, 1)
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		name string
		km   float64
		want string
	}{
		{"sub-kilometer", 0.4, "<1 km"},
		{"single decimal under ten", 3.21, "3.2 km"},
		{"rounded over ten", 150.4, "150 km"},
		{"exactly one", 1.0, "1.0 km"},
		{"negative is empty", -5, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDistance(tt.km))
		})
	}
}
