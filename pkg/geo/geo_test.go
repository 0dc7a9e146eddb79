package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Huanchaco plaza and a point roughly 1.1km up the coast.
var (
	plaza    = Point{Latitude: -8.0783, Longitude: -79.1180}
	coast    = Point{Latitude: -8.0690, Longitude: -79.1210}
	trujillo = Point{Latitude: -8.1120, Longitude: -78.9850}
)

func TestDistanceKm_ZeroForSamePoint(t *testing.T) {
	assert.Equal(t, 0.0, DistanceKm(plaza, plaza))
}

func TestDistanceKm_Symmetric(t *testing.T) {
	assert.InDelta(t, DistanceKm(plaza, trujillo), DistanceKm(trujillo, plaza), 1e-9)
}

func TestDistanceKm_KnownDistance(t *testing.T) {
	// Huanchaco to central Trujillo is on the order of 15km.
	d := DistanceKm(plaza, trujillo)
	assert.Greater(t, d, 10.0)
	assert.Less(t, d, 20.0)
}

func TestDistanceMeters_FloorsToWholeMeters(t *testing.T) {
	m := DistanceMeters(plaza, coast)
	km := DistanceKm(plaza, coast)
	assert.Equal(t, int(km*1000), m)
	assert.GreaterOrEqual(t, float64(m), km*1000-1)
}

func TestWithinRadius_Monotonic(t *testing.T) {
	points := []Point{plaza, coast, trujillo}
	locate := func(p Point) Point { return p }

	wide := WithinRadius(points, plaza, 3.0, locate)
	narrow := WithinRadius(points, plaza, 0.5, locate)

	assert.Len(t, wide, 2) // trujillo is out of range
	assert.Len(t, narrow, 1)
	for _, p := range narrow {
		assert.Contains(t, wide, p)
	}
}

func TestWithinRadius_ExcludesBeyondMax(t *testing.T) {
	points := []Point{coast, trujillo}
	kept := WithinRadius(points, plaza, 3.0, func(p Point) Point { return p })
	for _, p := range kept {
		assert.LessOrEqual(t, DistanceKm(plaza, p), 3.0)
	}
	assert.NotContains(t, kept, trujillo)
}
