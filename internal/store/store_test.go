package store

import (
	"testing"

	"github.com/distordia/nexgo/internal/domain/models"
	"github.com/distordia/nexgo/internal/domain/types"
)

func TestReduce_ListingFetchCycle(t *testing.T) {
	s := NewState()

	s = Reduce(s, ListingsFetchStarted{})
	if !s.Pending[types.OpListingFetch] {
		t.Fatal("fetch must be pending after start")
	}

	listings := []models.Listing{{VehicleID: "v1"}, {VehicleID: "v2"}}
	s = Reduce(s, ListingsFetchSucceeded{Listings: listings})

	if s.Pending[types.OpListingFetch] {
		t.Fatal("fetch must not be pending after success")
	}
	if len(s.Listings) != 2 {
		t.Fatalf("listings not replaced: %d", len(s.Listings))
	}

	// The set is replaced wholesale: a later success with fewer
	// listings drops everything not in it.
	s = Reduce(s, ListingsFetchSucceeded{Listings: []models.Listing{{VehicleID: "v3"}}})
	if len(s.Listings) != 1 || s.Listings[0].VehicleID != "v3" {
		t.Fatalf("replace semantics broken: %+v", s.Listings)
	}
}

func TestReduce_ListingFetchFailureKeepsOldSet(t *testing.T) {
	s := NewState()
	s = Reduce(s, ListingsFetchSucceeded{Listings: []models.Listing{{VehicleID: "v1"}}})
	s = Reduce(s, ListingsFetchFailed{Err: "node unreachable"})

	if len(s.Listings) != 1 {
		t.Fatal("a failed fetch must keep the previous listings")
	}
	if s.Errors[types.OpListingFetch] != "node unreachable" {
		t.Fatalf("error not recorded: %v", s.Errors)
	}
}

func TestReduce_RatingFetchFailureEmptiesRatings(t *testing.T) {
	s := NewState()
	s = Reduce(s, RatingsFetchSucceeded{Ratings: map[string]models.DriverRating{
		"g1": {Average: 4, Count: 2},
	}})
	s = Reduce(s, RatingsFetchFailed{Err: "scan failed"})

	if len(s.Ratings) != 0 {
		t.Fatal("a failed scan must leave every driver unrated")
	}
}

func TestReduce_OperationClassesInterleave(t *testing.T) {
	s := NewState()

	s = Reduce(s, AssetOpStarted{})
	s = Reduce(s, RatingOpStarted{})
	s = Reduce(s, AssetOpFailed{Err: "write rejected"})

	if !s.Pending[types.OpRating] {
		t.Fatal("rating op must still be pending")
	}
	if s.Pending[types.OpAsset] {
		t.Fatal("asset op must have settled")
	}
	if s.Errors[types.OpAsset] != "write rejected" {
		t.Fatalf("asset error lost: %v", s.Errors)
	}
	if _, ok := s.Errors[types.OpRating]; ok {
		t.Fatal("rating error slot must be untouched")
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	before := NewState()
	before = Reduce(before, AssetOpStarted{})

	snapshot := before
	_ = Reduce(before, AssetOpSucceeded{})

	if !snapshot.Pending[types.OpAsset] {
		t.Fatal("reducing must not mutate a previous snapshot")
	}
}

func TestReduce_SessionFlags(t *testing.T) {
	s := NewState()

	s = Reduce(s, PositionResolved{Position: models.Position{Latitude: 1, Longitude: 2}})
	if s.Position == nil || s.Position.Latitude != 1 {
		t.Fatalf("position not stored: %+v", s.Position)
	}

	s = Reduce(s, BroadcastingSet{On: true})
	if !s.Broadcasting {
		t.Fatal("broadcasting flag not set")
	}

	s = Reduce(s, DriverStatusSet{Status: types.StatusOccupied})
	if s.DriverStatus != types.StatusOccupied {
		t.Fatalf("status not stored: %s", s.DriverStatus)
	}
}

func TestReduce_ReplayIsDeterministic(t *testing.T) {
	events := []Event{
		ListingsFetchStarted{},
		ListingsFetchSucceeded{Listings: []models.Listing{{VehicleID: "v1"}}},
		PositionResolved{Position: models.Position{Latitude: 5, Longitude: 6}},
		RatingOpStarted{},
		RatingOpFailed{Err: "too large"},
		BroadcastingSet{On: true},
		BroadcastingSet{On: false},
	}

	replay := func() State {
		s := NewState()
		for _, e := range events {
			s = Reduce(s, e)
		}
		return s
	}

	a, b := replay(), replay()

	if a.Broadcasting != b.Broadcasting ||
		len(a.Listings) != len(b.Listings) ||
		a.Errors[types.OpRating] != b.Errors[types.OpRating] ||
		*a.Position != *b.Position {
		t.Fatalf("replays diverged: %+v vs %+v", a, b)
	}
}

func TestStore_DispatchNotifiesSubscribers(t *testing.T) {
	st := New()

	var seen []State
	st.Subscribe(func(s State) { seen = append(seen, s) })

	st.Dispatch(BroadcastingSet{On: true})
	st.Dispatch(BroadcastingSet{On: false})

	if len(seen) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(seen))
	}
	if !seen[0].Broadcasting || seen[1].Broadcasting {
		t.Fatalf("notifications out of order: %v %v", seen[0].Broadcasting, seen[1].Broadcasting)
	}

	if st.Snapshot().Broadcasting {
		t.Fatal("snapshot must reflect the last dispatch")
	}
}
