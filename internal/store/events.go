package store

import (
	"github.com/distordia/nexgo/internal/domain/models"
	"github.com/distordia/nexgo/internal/domain/types"
)

// Event is the closed set of state transitions. Every mutation of session
// state goes through exactly one of these variants; there is no other
// mutation path, which keeps transitions replayable in tests.
type Event interface {
	isEvent()
}

type (
	// Listing refresh cycle (bulk, authoritative for visible listings)
	ListingsFetchStarted   struct{}
	ListingsFetchSucceeded struct{ Listings []models.Listing }
	ListingsFetchFailed    struct{ Err string }

	// Rating refresh cycle (bulk aggregate recompute)
	RatingsFetchStarted   struct{}
	RatingsFetchSucceeded struct {
		Ratings map[string]models.DriverRating
	}
	RatingsFetchFailed struct{ Err string }

	// Own records, set only from write results or dedicated re-fetches
	OwnListingLoaded struct{ Listing *models.Listing }
	OwnRatingsLoaded struct{ Ratings models.RatingCollection }

	// Asset operation class (create/update/broadcast push)
	AssetOpStarted   struct{}
	AssetOpSucceeded struct{}
	AssetOpFailed    struct{ Err string }

	// Rating operation class (submit)
	RatingOpStarted   struct{}
	RatingOpSucceeded struct{}
	RatingOpFailed    struct{ Err string }

	// Session flags
	PositionResolved struct{ Position models.Position }
	BroadcastingSet  struct{ On bool }
	DriverStatusSet  struct{ Status types.ListingStatus }
	SettingsLoaded   struct{ Settings models.DriverSettings }
)

func (ListingsFetchStarted) isEvent()   {}
func (ListingsFetchSucceeded) isEvent() {}
func (ListingsFetchFailed) isEvent()    {}
func (RatingsFetchStarted) isEvent()    {}
func (RatingsFetchSucceeded) isEvent()  {}
func (RatingsFetchFailed) isEvent()     {}
func (OwnListingLoaded) isEvent()       {}
func (OwnRatingsLoaded) isEvent()       {}
func (AssetOpStarted) isEvent()         {}
func (AssetOpSucceeded) isEvent()       {}
func (AssetOpFailed) isEvent()          {}
func (RatingOpStarted) isEvent()        {}
func (RatingOpSucceeded) isEvent()      {}
func (RatingOpFailed) isEvent()         {}
func (PositionResolved) isEvent()       {}
func (BroadcastingSet) isEvent()        {}
func (DriverStatusSet) isEvent()        {}
func (SettingsLoaded) isEvent()         {}
