package geo

import (
	"sort"

	"github.com/distordia/nexgo/internal/domain/models"
)

// WithDistances annotates listings with their distance from the reference
// position. A nil reference leaves every distance nil: dependent features
// degrade instead of sorting on fabricated coordinates.
func WithDistances(ref *models.Position, listings []models.Listing) []models.BoardListing {
	out := make([]models.BoardListing, 0, len(listings))
	for _, l := range listings {
		bl := models.BoardListing{Listing: l}
		if ref != nil {
			d := HaversineDistance(*ref, l.Position())
			minutes := EstimateArrivalMinutes(d)
			bl.DistanceKm = &d
			bl.ArrivalMinutes = &minutes
		}
		out = append(out, bl)
	}
	return out
}

// Rank sorts listings ascending by distance. Listings with unknown
// distance go last; the sort is stable, ties keep their original order.
func Rank(listings []models.BoardListing) {
	sort.SliceStable(listings, func(i, j int) bool {
		di, dj := listings[i].DistanceKm, listings[j].DistanceKm
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return *di < *dj
	})
}
