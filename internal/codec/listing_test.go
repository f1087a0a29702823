package codec

import (
	"errors"
	"testing"

	"github.com/distordia/nexgo/internal/domain/models"
	"github.com/distordia/nexgo/internal/domain/types"
)

func TestListingName(t *testing.T) {
	if got := ListingName("KZ-777"); got != "nexgo-taxi-KZ-777" {
		t.Fatalf("unexpected listing name: %s", got)
	}
}

func TestEncodeListing_CarriesDiscriminatorFirst(t *testing.T) {
	fields := EncodeListing(models.Listing{VehicleID: "v1"})

	if len(fields) == 0 {
		t.Fatal("no fields encoded")
	}
	if fields[0].Name != DiscriminatorField || fields[0].Value != ListingType {
		t.Fatalf("first field must be the discriminator, got %+v", fields[0])
	}
	if fields[0].Mutable {
		t.Fatal("the discriminator must be immutable")
	}
}

func TestEncodeListingUpdate_OmitsDiscriminator(t *testing.T) {
	update := EncodeListingUpdate(models.Listing{VehicleID: "v1", Status: types.StatusAvailable})

	if _, ok := update[DiscriminatorField]; ok {
		t.Fatal("updates must not touch the discriminator")
	}
	if update["status"] != "available" {
		t.Fatalf("status missing from update, got %v", update)
	}
}

func TestDecodeListing_RoundTrip(t *testing.T) {
	original := models.Listing{
		VehicleID:  "KZ-123",
		Class:      types.ClassVan,
		Status:     types.StatusOccupied,
		Latitude:   43.25,
		Longitude:  76.95,
		PricePerKm: 1.5,
		Driver:     "Aidar",
	}

	obj := map[string]any{
		"address": "8BqK...", "owner": "genesis-1", "name": ListingName(original.VehicleID),
		DiscriminatorField: ListingType,
	}
	for _, f := range EncodeListing(original) {
		obj[f.Name] = f.Value
	}

	decoded, err := DecodeListing(obj)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if decoded.VehicleID != original.VehicleID ||
		decoded.Class != original.Class ||
		decoded.Status != original.Status ||
		decoded.Latitude != original.Latitude ||
		decoded.Longitude != original.Longitude ||
		decoded.PricePerKm != original.PricePerKm ||
		decoded.Driver != original.Driver {
		t.Fatalf("round trip mismatch: %+v vs %+v", decoded, original)
	}
	if decoded.Owner != "genesis-1" {
		t.Fatalf("owner not decoded: %+v", decoded)
	}
}

func TestDecodeListing_ForeignDiscriminator(t *testing.T) {
	_, err := DecodeListing(map[string]any{DiscriminatorField: "something-else"})
	if !errors.Is(err, types.ErrForeignRecord) {
		t.Fatalf("expected ErrForeignRecord, got %v", err)
	}
}

func TestDecodeListing_MissingDiscriminator(t *testing.T) {
	_, err := DecodeListing(map[string]any{"vehicle-id": "v1"})
	if !errors.Is(err, types.ErrForeignRecord) {
		t.Fatalf("expected ErrForeignRecord, got %v", err)
	}
}

func TestDecodeListing_DefaultsOnMalformedFields(t *testing.T) {
	obj := map[string]any{
		DiscriminatorField: ListingType,
		"vehicle-type":     "zeppelin",
		"status":           "parked",
		"latitude":         "not-a-number",
		"price-per-km":     map[string]any{},
	}

	decoded, err := DecodeListing(obj)
	if err != nil {
		t.Fatalf("well-discriminated record must decode, got %v", err)
	}
	if decoded.Class != types.DefaultVehicleClass {
		t.Fatalf("unknown class must fall back to default, got %s", decoded.Class)
	}
	if decoded.Status != types.DefaultListingStatus {
		t.Fatalf("unknown status must fall back to default, got %s", decoded.Status)
	}
	if decoded.Latitude != 0 || decoded.PricePerKm != 0 {
		t.Fatalf("malformed numerics must decode as 0, got %+v", decoded)
	}
}

func TestDecodeListing_NumericFieldsAsStrings(t *testing.T) {
	obj := map[string]any{
		DiscriminatorField: ListingType,
		"latitude":         "43.25",
		"longitude":        float64(76.95),
		"modified":         float64(1700000000),
	}

	decoded, err := DecodeListing(obj)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Latitude != 43.25 || decoded.Longitude != 76.95 {
		t.Fatalf("coordinates not parsed: %+v", decoded)
	}
	if decoded.Modified != 1700000000 {
		t.Fatalf("modified not parsed: %d", decoded.Modified)
	}
}
