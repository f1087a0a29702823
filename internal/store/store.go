// Package store holds the UI-visible session state behind an explicit
// event dispatcher. Reduce is a pure function of (state, event), the Store
// only adds locking and subscriber notification on top.
package store

import (
	"sync"

	"github.com/distordia/nexgo/internal/domain/models"
	"github.com/distordia/nexgo/internal/domain/types"
)

// State is the whole session state. Ephemeral, process-lifetime only;
// the settings slice is the one part loaded from persistent storage.
type State struct {
	Listings   []models.Listing
	OwnListing *models.Listing
	Ratings    map[string]models.DriverRating
	OwnRatings models.RatingCollection

	Position     *models.Position
	Broadcasting bool
	DriverStatus types.ListingStatus
	Settings     models.DriverSettings

	Pending map[types.OpClass]bool
	Errors  map[types.OpClass]string
}

// NewState returns the initial session state
func NewState() State {
	return State{
		Ratings:      map[string]models.DriverRating{},
		OwnRatings:   models.RatingCollection{},
		DriverStatus: types.StatusAvailable,
		Pending:      map[types.OpClass]bool{},
		Errors:       map[types.OpClass]string{},
	}
}

// Reduce applies one event to the state and returns the next state.
// It never mutates its input: maps are copied on write so a previous
// snapshot stays valid after later dispatches.
func Reduce(s State, e Event) State {
	switch ev := e.(type) {
	case ListingsFetchStarted:
		s.Pending = withPending(s.Pending, types.OpListingFetch, true)
		s.Errors = withoutError(s.Errors, types.OpListingFetch)
	case ListingsFetchSucceeded:
		s.Listings = ev.Listings
		s.Pending = withPending(s.Pending, types.OpListingFetch, false)
		s.Errors = withoutError(s.Errors, types.OpListingFetch)
	case ListingsFetchFailed:
		s.Pending = withPending(s.Pending, types.OpListingFetch, false)
		s.Errors = withError(s.Errors, types.OpListingFetch, ev.Err)

	case RatingsFetchStarted:
		s.Pending = withPending(s.Pending, types.OpRatingFetch, true)
	case RatingsFetchSucceeded:
		s.Ratings = ev.Ratings
		s.Pending = withPending(s.Pending, types.OpRatingFetch, false)
	case RatingsFetchFailed:
		// A failed scan leaves every driver unrated rather than stale.
		s.Ratings = map[string]models.DriverRating{}
		s.Pending = withPending(s.Pending, types.OpRatingFetch, false)
		s.Errors = withError(s.Errors, types.OpRatingFetch, ev.Err)

	case OwnListingLoaded:
		s.OwnListing = ev.Listing
	case OwnRatingsLoaded:
		s.OwnRatings = ev.Ratings

	case AssetOpStarted:
		s.Pending = withPending(s.Pending, types.OpAsset, true)
		s.Errors = withoutError(s.Errors, types.OpAsset)
	case AssetOpSucceeded:
		s.Pending = withPending(s.Pending, types.OpAsset, false)
	case AssetOpFailed:
		s.Pending = withPending(s.Pending, types.OpAsset, false)
		s.Errors = withError(s.Errors, types.OpAsset, ev.Err)

	case RatingOpStarted:
		s.Pending = withPending(s.Pending, types.OpRating, true)
		s.Errors = withoutError(s.Errors, types.OpRating)
	case RatingOpSucceeded:
		s.Pending = withPending(s.Pending, types.OpRating, false)
	case RatingOpFailed:
		s.Pending = withPending(s.Pending, types.OpRating, false)
		s.Errors = withError(s.Errors, types.OpRating, ev.Err)

	case PositionResolved:
		pos := ev.Position
		s.Position = &pos
	case BroadcastingSet:
		s.Broadcasting = ev.On
	case DriverStatusSet:
		s.DriverStatus = ev.Status
	case SettingsLoaded:
		s.Settings = ev.Settings
	}

	return s
}

func withPending(m map[types.OpClass]bool, op types.OpClass, v bool) map[types.OpClass]bool {
	out := make(map[types.OpClass]bool, len(m)+1)
	for k, val := range m {
		out[k] = val
	}
	out[op] = v
	return out
}

func withError(m map[types.OpClass]string, op types.OpClass, msg string) map[types.OpClass]string {
	out := make(map[types.OpClass]string, len(m)+1)
	for k, val := range m {
		out[k] = val
	}
	out[op] = msg
	return out
}

func withoutError(m map[types.OpClass]string, op types.OpClass) map[types.OpClass]string {
	out := make(map[types.OpClass]string, len(m))
	for k, val := range m {
		if k == op {
			continue
		}
		out[k] = val
	}
	return out
}

// Subscriber observes every state transition. Called synchronously after
// the transition is applied, one event at a time.
type Subscriber func(State)

// Store serializes event dispatch over the session state.
type Store struct {
	mu    sync.Mutex
	state State
	subs  []Subscriber
}

func New() *Store {
	return &Store{state: NewState()}
}

// Dispatch applies the event and notifies subscribers. Each reducer step
// runs to completion before the next dispatched event is processed.
func (s *Store) Dispatch(e Event) {
	s.mu.Lock()
	s.state = Reduce(s.state, e)
	next := s.state
	subs := s.subs
	s.mu.Unlock()

	for _, sub := range subs {
		sub(next)
	}
}

// Snapshot returns the current state. Slices and maps inside are treated
// as immutable by convention: reducers replace, never modify in place.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a transition observer
func (s *Store) Subscribe(sub Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, sub)
}
