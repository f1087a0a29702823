package models

import (
	"github.com/distordia/nexgo/internal/domain/types"
)

// Listing is a driver's broadcast record as decoded from the ledger.
// Address and Owner are assigned by the ledger and never change; the
// remaining attributes only change through owner update operations.
type Listing struct {
	Address string `json:"address"` // ledger register address, stable once created
	Owner   string `json:"owner"`   // owner genesis id
	Name    string `json:"name,omitempty"`

	VehicleID  string              `json:"vehicle_id"`
	Class      types.VehicleClass  `json:"vehicle_class"`
	Status     types.ListingStatus `json:"status"`
	Latitude   float64             `json:"latitude"`
	Longitude  float64             `json:"longitude"`
	PricePerKm float64             `json:"price_per_km"`
	Driver     string              `json:"driver,omitempty"` // display name

	Modified int64 `json:"modified,omitempty"` // ledger-assigned unix timestamp
}

// Position returns the listing coordinates as a Position value
func (l Listing) Position() Position {
	return Position{Latitude: l.Latitude, Longitude: l.Longitude}
}

// BoardListing is a listing enriched for presentation: distance from the
// viewer (nil when the viewer position is unknown) and rating aggregates.
type BoardListing struct {
	Listing

	DistanceKm     *float64      `json:"distance_km,omitempty"`
	ArrivalMinutes *int          `json:"arrival_minutes,omitempty"`
	Rating         *DriverRating `json:"rating,omitempty"`
	OwnRating      *RatingEntry  `json:"own_rating,omitempty"`
}
