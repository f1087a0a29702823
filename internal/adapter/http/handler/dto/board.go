package dto

import (
	"github.com/distordia/nexgo/internal/domain/models"
	"github.com/distordia/nexgo/pkg/validator"
)

type BoardQuery struct {
	Latitude  *float64
	Longitude *float64
}

func (q *BoardQuery) Validate(v *validator.Validator) {
	if q.Latitude != nil {
		v.Check(*q.Latitude >= -90 && *q.Latitude <= 90, "lat", "must be between -90 and 90")
	}
	if q.Longitude != nil {
		v.Check(*q.Longitude >= -180 && *q.Longitude <= 180, "lng", "must be between -180 and 180")
	}
	v.Check((q.Latitude == nil) == (q.Longitude == nil), "lat", "lat and lng must be provided together")
}

// Position returns the viewer position, or nil when not supplied
func (q *BoardQuery) Position() *models.Position {
	if q.Latitude == nil || q.Longitude == nil {
		return nil
	}
	return &models.Position{Latitude: *q.Latitude, Longitude: *q.Longitude}
}

type RatingSummary struct {
	Average    float64 `json:"average"`
	Count      int     `json:"count"`
	AvoidCount int     `json:"avoid_count"`
}

type BoardListingResponse struct {
	Address        string         `json:"address"`
	Owner          string         `json:"owner"`
	Name           string         `json:"name,omitempty"`
	VehicleID      string         `json:"vehicle_id"`
	VehicleClass   string         `json:"vehicle_class"`
	Status         string         `json:"status"`
	Latitude       float64        `json:"latitude"`
	Longitude      float64        `json:"longitude"`
	PricePerKm     float64        `json:"price_per_km"`
	Driver         string         `json:"driver,omitempty"`
	DistanceKm     *float64       `json:"distance_km,omitempty"`
	ArrivalMinutes *int           `json:"arrival_minutes,omitempty"`
	Rating         *RatingSummary `json:"rating,omitempty"`
	OwnScore       *int           `json:"own_score,omitempty"`
	OwnAvoid       *bool          `json:"own_avoid,omitempty"`
}

func NewBoardListingResponse(l models.BoardListing) BoardListingResponse {
	resp := BoardListingResponse{
		Address:        l.Address,
		Owner:          l.Owner,
		Name:           l.Name,
		VehicleID:      l.VehicleID,
		VehicleClass:   l.Class.String(),
		Status:         l.Status.String(),
		Latitude:       l.Latitude,
		Longitude:      l.Longitude,
		PricePerKm:     l.PricePerKm,
		Driver:         l.Driver,
		DistanceKm:     l.DistanceKm,
		ArrivalMinutes: l.ArrivalMinutes,
	}

	if l.Rating != nil {
		resp.Rating = &RatingSummary{
			Average:    l.Rating.Average,
			Count:      l.Rating.Count,
			AvoidCount: l.Rating.AvoidCount,
		}
	}
	if l.OwnRating != nil {
		score := l.OwnRating.Score
		avoid := l.OwnRating.Avoid
		resp.OwnScore = &score
		resp.OwnAvoid = &avoid
	}

	return resp
}

func NewBoardResponse(listings []models.BoardListing) []BoardListingResponse {
	out := make([]BoardListingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, NewBoardListingResponse(l))
	}
	return out
}
