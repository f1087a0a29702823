// Package codec maps between in-memory entities and the wire shapes the
// ledger stores: ordered field lists for structured asset records and
// opaque JSON strings for raw records. Both carry a discriminator field
// so a flat register space can be queried by semantic type.
package codec

import (
	"fmt"
	"strconv"

	"github.com/distordia/nexgo/internal/domain/models"
	"github.com/distordia/nexgo/internal/domain/types"
)

const (
	// DiscriminatorField tags a record's semantic type within the flat register space
	DiscriminatorField = "distordia-type"

	// ListingType is the discriminator value for taxi listings
	ListingType = "nexgo-taxi"

	// ListingNamePrefix derives a listing's ledger name from the vehicle id
	ListingNamePrefix = "nexgo-taxi-"
)

// ListingName derives the ledger name for a vehicle's listing record
func ListingName(vehicleID string) string {
	return ListingNamePrefix + vehicleID
}

// AssetField is one entry of a structured asset schema. Mutable is advisory
// metadata: it decides which fields are sent on update requests, the ledger
// itself enforces immutability only for fields created as immutable.
type AssetField struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Value     string `json:"value"`
	Mutable   bool   `json:"mutable"`
	MaxLength int    `json:"maxlength,omitempty"`
}

// EncodeListing builds the ordered field list for a listing create request.
func EncodeListing(l models.Listing) []AssetField {
	return []AssetField{
		{Name: DiscriminatorField, Type: "string", Value: ListingType, Mutable: false, MaxLength: 64},
		{Name: "vehicle-id", Type: "string", Value: l.VehicleID, Mutable: true, MaxLength: 64},
		{Name: "vehicle-type", Type: "string", Value: l.Class.String(), Mutable: true, MaxLength: 64},
		{Name: "price-per-km", Type: "string", Value: formatFloat(l.PricePerKm), Mutable: true, MaxLength: 64},
		{Name: "status", Type: "string", Value: l.Status.String(), Mutable: true, MaxLength: 64},
		{Name: "latitude", Type: "string", Value: formatFloat(l.Latitude), Mutable: true, MaxLength: 64},
		{Name: "longitude", Type: "string", Value: formatFloat(l.Longitude), Mutable: true, MaxLength: 64},
		{Name: "driver", Type: "string", Value: l.Driver, Mutable: true, MaxLength: 128},
	}
}

// EncodeListingUpdate builds the changed-fields map for an update request.
// Only mutable fields are included; zero values are sent as-is because an
// update always carries the full current broadcast state.
func EncodeListingUpdate(l models.Listing) map[string]string {
	return map[string]string{
		"vehicle-id":   l.VehicleID,
		"vehicle-type": l.Class.String(),
		"price-per-km": formatFloat(l.PricePerKm),
		"status":       l.Status.String(),
		"latitude":     formatFloat(l.Latitude),
		"longitude":    formatFloat(l.Longitude),
		"driver":       l.Driver,
	}
}

// DecodeListing converts a raw ledger object into a Listing.
// Records carrying a foreign discriminator return ErrForeignRecord so the
// caller can skip them. Missing or malformed fields take documented
// defaults, decoding a well-discriminated record never fails.
func DecodeListing(obj map[string]any) (models.Listing, error) {
	if stringField(obj, DiscriminatorField) != ListingType {
		return models.Listing{}, fmt.Errorf("%q: %w", stringField(obj, DiscriminatorField), types.ErrForeignRecord)
	}

	l := models.Listing{
		Address:    stringField(obj, "address"),
		Owner:      stringField(obj, "owner"),
		Name:       stringField(obj, "name"),
		VehicleID:  stringField(obj, "vehicle-id"),
		Class:      types.VehicleClass(stringField(obj, "vehicle-type")),
		Status:     types.ListingStatus(stringField(obj, "status")),
		Latitude:   floatField(obj, "latitude"),
		Longitude:  floatField(obj, "longitude"),
		PricePerKm: floatField(obj, "price-per-km"),
		Driver:     stringField(obj, "driver"),
		Modified:   intField(obj, "modified"),
	}

	if !l.Class.Valid() {
		l.Class = types.DefaultVehicleClass
	}
	if !l.Status.Valid() {
		l.Status = types.DefaultListingStatus
	}

	return l, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func stringField(obj map[string]any, key string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}

// floatField parses string or numeric fields, defaulting to 0 on failure
func floatField(obj map[string]any, key string) float64 {
	switch v := obj[key].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func intField(obj map[string]any, key string) int64 {
	switch v := obj[key].(type) {
	case float64:
		return int64(v)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
