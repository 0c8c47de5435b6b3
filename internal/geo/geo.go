// Package geo provides great-circle distance helpers.
package geo

import (
	"math"

	"github.com/parkeasy/parkeasy-backend/internal/models"
)

// EarthRadiusKm is the mean Earth radius used for all distances
const EarthRadiusKm = 6371.0

// Distance calculates the haversine distance in kilometres between two lat/lng points
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Between returns the distance between two coordinates, or +Inf when either is missing
func Between(a, b *models.Coordinate) float64 {
	if a == nil || b == nil {
		return math.Inf(1)
	}
	return Distance(a.Lat, a.Lng, b.Lat, b.Lng)
}

// NearestCity returns the city closest to the given point.
// Ties keep the earlier city in the list. ok is false for an empty list.
func NearestCity(cities []models.City, lat, lng float64) (nearest models.City, ok bool) {
	minDist := math.Inf(1)
	for _, city := range cities {
		d := Distance(lat, lng, city.Coords.Lat, city.Coords.Lng)
		if d < minDist {
			minDist = d
			nearest = city
			ok = true
		}
	}
	return nearest, ok
}
