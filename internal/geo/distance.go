// Package geo holds the pure distance and ranking helpers. Everything here
// is deterministic and side-effect free so it can be unit tested without
// network or time dependencies.
package geo

import (
	"math"

	"github.com/distordia/nexgo/internal/domain/models"
)

const EarthRadiusKm = 6371.0

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// HaversineDistance calculates the great-circle distance in kilometers
// between two geographic points.
func HaversineDistance(from, to models.Position) float64 {
	lat1Rad := degreesToRadians(from.Latitude)
	lat2Rad := degreesToRadians(to.Latitude)

	deltaLat := degreesToRadians(to.Latitude - from.Latitude)
	deltaLon := degreesToRadians(to.Longitude - from.Longitude)

	a := math.Pow(math.Sin(deltaLat/2), 2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Pow(math.Sin(deltaLon/2), 2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// EstimateArrivalMinutes is the board's rough pickup estimate, derived
// from straight-line distance at city traffic speed.
func EstimateArrivalMinutes(distanceKm float64) int {
	return int(math.Ceil(distanceKm * 3))
}
