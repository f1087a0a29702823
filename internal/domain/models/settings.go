package models

import (
	"time"

	"github.com/distordia/nexgo/internal/domain/types"
)

// DriverSettings is the small persisted slice of session state: vehicle
// identity, pricing and display preference that survive restarts.
type DriverSettings struct {
	Genesis      string             `json:"genesis"`
	VehicleID    string             `json:"vehicle_id"`
	VehicleClass types.VehicleClass `json:"vehicle_class"`
	DriverName   string             `json:"driver_name"`
	PricePerKm   float64            `json:"price_per_km"`
	DistanceUnit string             `json:"distance_unit"` // "km" or "mi"
	UpdatedAt    time.Time          `json:"updated_at"`
}

func DefaultDriverSettings(genesis string) DriverSettings {
	return DriverSettings{
		Genesis:      genesis,
		VehicleClass: types.DefaultVehicleClass,
		DistanceUnit: "km",
	}
}
