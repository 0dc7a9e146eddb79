package geo

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// DefaultRadiusKm is the search radius applied when the caller does not
// configure one.
const DefaultRadiusKm = 3.0

// Point represents a pair of decimal-degree coordinates.
type Point struct {
	Latitude  float64
	Longitude float64
}

// ValidCoordinates reports whether lat and lng are within decimal-degree
// bounds.
func ValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// DistanceKm returns the great-circle distance in kilometers between two
// points on a spherical Earth.
func DistanceKm(from, to Point) float64 {
	lat1 := from.Latitude * math.Pi / 180
	lat2 := to.Latitude * math.Pi / 180
	dLat := (to.Latitude - from.Latitude) * math.Pi / 180
	dLon := (to.Longitude - from.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// DistanceMeters returns the floor of the distance in whole meters, the
// unit the client UI renders.
func DistanceMeters(from, to Point) int {
	return int(math.Floor(DistanceKm(from, to) * 1000))
}

// WithinRadius filters items to those whose location lies at most maxKm from
// origin. The location of each item is obtained through locate. Tightening
// maxKm can only shrink the result.
func WithinRadius[T any](items []T, origin Point, maxKm float64, locate func(T) Point) []T {
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if DistanceKm(origin, locate(item)) <= maxKm {
			kept = append(kept, item)
		}
	}
	return kept
}
