package dto

import (
	"github.com/distordia/nexgo/internal/domain/models"
	"github.com/distordia/nexgo/internal/domain/types"
	"github.com/distordia/nexgo/pkg/validator"
)

type SettingsRequest struct {
	VehicleID    string  `json:"vehicle_id"`
	VehicleClass string  `json:"vehicle_class"`
	DriverName   string  `json:"driver_name"`
	PricePerKm   float64 `json:"price_per_km"`
	DistanceUnit string  `json:"distance_unit"`
}

func (r *SettingsRequest) Validate(v *validator.Validator) {
	v.Check(r.VehicleID != "", "vehicle_id", "must be provided")
	v.Check(len(r.VehicleID) < 64, "vehicle_id", "must be less than 64 characters")
	v.Check(len(r.DriverName) < 128, "driver_name", "must be less than 128 characters")
	v.Check(r.PricePerKm >= 0, "price_per_km", "must not be negative")
	if r.VehicleClass != "" {
		v.Check(types.VehicleClass(r.VehicleClass).Valid(), "vehicle_class", "must be one of sedan, suv, van, luxury")
	}
	if r.DistanceUnit != "" {
		v.Check(validator.In(r.DistanceUnit, "km", "mi"), "distance_unit", "must be km or mi")
	}
}

func (r *SettingsRequest) ToModel() models.DriverSettings {
	class := types.VehicleClass(r.VehicleClass)
	if !class.Valid() {
		class = types.DefaultVehicleClass
	}
	unit := r.DistanceUnit
	if unit == "" {
		unit = "km"
	}

	return models.DriverSettings{
		VehicleID:    r.VehicleID,
		VehicleClass: class,
		DriverName:   r.DriverName,
		PricePerKm:   r.PricePerKm,
		DistanceUnit: unit,
	}
}

type SettingsResponse struct {
	VehicleID    string  `json:"vehicle_id"`
	VehicleClass string  `json:"vehicle_class"`
	DriverName   string  `json:"driver_name"`
	PricePerKm   float64 `json:"price_per_km"`
	DistanceUnit string  `json:"distance_unit"`
}

func NewSettingsResponse(s models.DriverSettings) SettingsResponse {
	return SettingsResponse{
		VehicleID:    s.VehicleID,
		VehicleClass: s.VehicleClass.String(),
		DriverName:   s.DriverName,
		PricePerKm:   s.PricePerKm,
		DistanceUnit: s.DistanceUnit,
	}
}

type StatusRequest struct {
	Status string `json:"status"`
}

func (r *StatusRequest) Validate(v *validator.Validator) {
	v.Check(r.Status != "", "status", "must be provided")
	v.Check(types.ListingStatus(r.Status).Valid(), "status", "must be one of available, occupied, offline")
}

type PositionRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r *PositionRequest) Validate(v *validator.Validator) {
	v.Check(r.Latitude != nil, "latitude", "must be provided")
	v.Check(r.Longitude != nil, "longitude", "must be provided")
	if r.Latitude != nil {
		v.Check(*r.Latitude >= -90 && *r.Latitude <= 90, "latitude", "must be between -90 and 90")
	}
	if r.Longitude != nil {
		v.Check(*r.Longitude >= -180 && *r.Longitude <= 180, "longitude", "must be between -180 and 180")
	}
}
