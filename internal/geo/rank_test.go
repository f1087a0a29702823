package geo

import (
	"testing"

	"github.com/distordia/nexgo/internal/domain/models"
)

func listingAt(id string, lat, lng float64) models.Listing {
	return models.Listing{VehicleID: id, Latitude: lat, Longitude: lng}
}

func TestWithDistances_NilReference(t *testing.T) {
	listings := []models.Listing{
		listingAt("a", 10, 10),
		listingAt("b", 20, 20),
	}

	board := WithDistances(nil, listings)
	if len(board) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(board))
	}
	for _, bl := range board {
		if bl.DistanceKm != nil {
			t.Fatalf("distance must be nil without a reference position")
		}
		if bl.ArrivalMinutes != nil {
			t.Fatalf("arrival estimate must be nil without a reference position")
		}
	}
}

func TestWithDistances_AnnotatesEveryListing(t *testing.T) {
	ref := &models.Position{Latitude: 0, Longitude: 0}
	listings := []models.Listing{
		listingAt("near", 0, 0.1),
		listingAt("far", 0, 1),
	}

	board := WithDistances(ref, listings)
	for _, bl := range board {
		if bl.DistanceKm == nil || bl.ArrivalMinutes == nil {
			t.Fatalf("listing %s missing distance annotation", bl.VehicleID)
		}
	}
	if *board[0].DistanceKm >= *board[1].DistanceKm {
		t.Fatalf("near listing should have the smaller distance")
	}
}

func TestRank_NullsLastStable(t *testing.T) {
	km := func(v float64) *float64 { return &v }

	board := []models.BoardListing{
		{Listing: models.Listing{VehicleID: "n1"}},
		{Listing: models.Listing{VehicleID: "d5"}, DistanceKm: km(5)},
		{Listing: models.Listing{VehicleID: "d2"}, DistanceKm: km(2)},
		{Listing: models.Listing{VehicleID: "n2"}},
		{Listing: models.Listing{VehicleID: "d1"}, DistanceKm: km(1)},
	}

	Rank(board)

	want := []string{"d1", "d2", "d5", "n1", "n2"}
	for i, id := range want {
		if board[i].VehicleID != id {
			t.Fatalf("position %d: got %s want %s", i, board[i].VehicleID, id)
		}
	}
}

func TestRank_TiesKeepOriginalOrder(t *testing.T) {
	km := func(v float64) *float64 { return &v }

	board := []models.BoardListing{
		{Listing: models.Listing{VehicleID: "first"}, DistanceKm: km(3)},
		{Listing: models.Listing{VehicleID: "second"}, DistanceKm: km(3)},
	}

	Rank(board)

	if board[0].VehicleID != "first" || board[1].VehicleID != "second" {
		t.Fatalf("equal distances must keep their original order")
	}
}
