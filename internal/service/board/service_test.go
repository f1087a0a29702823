package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/distordia/nexgo/internal/codec"
	"github.com/distordia/nexgo/internal/domain/models"
	"github.com/distordia/nexgo/internal/domain/types"
	"github.com/distordia/nexgo/internal/store"
	"github.com/distordia/nexgo/pkg/logger"
)

type fakeLedger struct {
	listings   []map[string]any
	listErr    error
	rawRecords []string
	rawErr     error

	records   map[string]string
	getErr    error
	updateErr error
	createErr error

	updates int
	creates int
}

func (f *fakeLedger) ListListings(_ context.Context, _ int) ([]map[string]any, error) {
	return f.listings, f.listErr
}

func (f *fakeLedger) ListRawRecords(_ context.Context, _ int) ([]string, error) {
	return f.rawRecords, f.rawErr
}

func (f *fakeLedger) GetRawRecord(_ context.Context, name string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	data, ok := f.records[name]
	if !ok {
		return "", types.ErrRecordNotFound
	}
	return data, nil
}

func (f *fakeLedger) CreateRawRecord(_ context.Context, name, data string) (models.Receipt, error) {
	f.creates++
	if f.createErr != nil {
		return models.Receipt{}, f.createErr
	}
	if f.records == nil {
		f.records = map[string]string{}
	}
	f.records[name] = data
	return models.Receipt{Address: "addr-" + name}, nil
}

func (f *fakeLedger) UpdateRawRecord(_ context.Context, name, data string) (models.Receipt, error) {
	f.updates++
	if f.updateErr != nil {
		return models.Receipt{}, f.updateErr
	}
	if _, ok := f.records[name]; !ok {
		return models.Receipt{}, types.ErrRecordNotFound
	}
	f.records[name] = data
	return models.Receipt{Address: "addr-" + name}, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	boards [][]models.BoardListing
}

func (f *fakeNotifier) BroadcastBoard(listings []models.BoardListing) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.boards = append(f.boards, listings)
}

func (f *fakeNotifier) pushes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.boards)
}

func (f *fakeNotifier) last() []models.BoardListing {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.boards) == 0 {
		return nil
	}
	return f.boards[len(f.boards)-1]
}

func listingRecord(vehicleID, owner string) map[string]any {
	return map[string]any{
		codec.DiscriminatorField: codec.ListingType,
		"owner":                  owner,
		"vehicle-id":             vehicleID,
		"vehicle-type":           "sedan",
		"status":                 "available",
		"latitude":               "10",
		"longitude":              "10",
	}
}

func newTestService(ledger *fakeLedger) (*Service, *store.Store) {
	st := store.New()
	log := logger.InitLogger("test", logger.LevelError)
	svc := New(ledger, st, nil, nil, Config{
		ListingLimit:    100,
		RatingScanLimit: 500,
		ListingRefresh:  10 * time.Millisecond,
		RatingRefresh:   10 * time.Millisecond,
	}, "viewer-genesis", log)
	return svc, st
}

func TestRefreshListings_ReplacesWholesale(t *testing.T) {
	ledger := &fakeLedger{listings: []map[string]any{
		listingRecord("v1", "g1"),
		listingRecord("v2", "g2"),
	}}
	svc, st := newTestService(ledger)

	if err := svc.RefreshListings(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if got := len(st.Snapshot().Listings); got != 2 {
		t.Fatalf("expected 2 listings, got %d", got)
	}

	ledger.listings = []map[string]any{listingRecord("v3", "g3")}
	if err := svc.RefreshListings(context.Background()); err != nil {
		t.Fatalf("second refresh failed: %v", err)
	}

	listings := st.Snapshot().Listings
	if len(listings) != 1 || listings[0].VehicleID != "v3" {
		t.Fatalf("listings must be replaced wholesale: %+v", listings)
	}
}

func TestRefreshListings_SkipsUndecodableRecords(t *testing.T) {
	ledger := &fakeLedger{listings: []map[string]any{
		listingRecord("v1", "g1"),
		{codec.DiscriminatorField: "foreign-thing"},
	}}
	svc, st := newTestService(ledger)

	if err := svc.RefreshListings(context.Background()); err != nil {
		t.Fatalf("one bad record must not fail the refresh: %v", err)
	}
	if got := len(st.Snapshot().Listings); got != 1 {
		t.Fatalf("expected the bad record skipped, got %d listings", got)
	}
}

func TestRefreshListings_FetchFailureKeepsOldSet(t *testing.T) {
	ledger := &fakeLedger{listings: []map[string]any{listingRecord("v1", "g1")}}
	svc, st := newTestService(ledger)

	if err := svc.RefreshListings(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	ledger.listErr = errors.New("node unreachable")
	if err := svc.RefreshListings(context.Background()); err == nil {
		t.Fatal("expected an error from a failed fetch")
	}

	if got := len(st.Snapshot().Listings); got != 1 {
		t.Fatalf("a failed fetch must keep the previous listings, got %d", got)
	}
}

func TestRefreshRatings_AggregatesPerDriver(t *testing.T) {
	ledger := &fakeLedger{rawRecords: []string{
		`{"distordia-type":"nexgo-rating","ratings":{"g1":{"score":4},"g2":{"score":2,"avoid":true}}}`,
		`{"distordia-type":"nexgo-rating","ratings":{"g1":{"score":2}}}`,
	}}
	svc, st := newTestService(ledger)

	if err := svc.RefreshRatings(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	ratings := st.Snapshot().Ratings
	if ratings["g1"].Average != 3 || ratings["g1"].Count != 2 {
		t.Fatalf("g1 wrong: %+v", ratings["g1"])
	}
	if ratings["g2"].AvoidCount != 1 {
		t.Fatalf("g2 wrong: %+v", ratings["g2"])
	}
}

func TestRefreshRatings_ScanFailureShowsUnrated(t *testing.T) {
	ledger := &fakeLedger{rawRecords: []string{
		`{"distordia-type":"nexgo-rating","ratings":{"g1":{"score":4}}}`,
	}}
	svc, st := newTestService(ledger)

	if err := svc.RefreshRatings(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	ledger.rawErr = errors.New("scan failed")
	_ = svc.RefreshRatings(context.Background())

	if got := len(st.Snapshot().Ratings); got != 0 {
		t.Fatalf("a failed scan must leave every driver unrated, got %d", got)
	}
}

func TestSubmitRating_ValidatesBeforeNetwork(t *testing.T) {
	ledger := &fakeLedger{}
	svc, _ := newTestService(ledger)

	if err := svc.SubmitRating(context.Background(), "g1", 0, false); !errors.Is(err, types.ErrInvalidScore) {
		t.Fatalf("expected ErrInvalidScore, got %v", err)
	}
	if err := svc.SubmitRating(context.Background(), "g1", 6, false); !errors.Is(err, types.ErrInvalidScore) {
		t.Fatalf("expected ErrInvalidScore, got %v", err)
	}
	if err := svc.SubmitRating(context.Background(), "", 3, false); !errors.Is(err, types.ErrDriverRequired) {
		t.Fatalf("expected ErrDriverRequired, got %v", err)
	}

	if ledger.updates != 0 || ledger.creates != 0 {
		t.Fatal("invalid input must not reach the ledger")
	}
}

func TestSubmitRating_CreatesOnFirstWrite(t *testing.T) {
	ledger := &fakeLedger{}
	svc, st := newTestService(ledger)

	if err := svc.SubmitRating(context.Background(), "g1", 5, false); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if ledger.updates != 1 || ledger.creates != 1 {
		t.Fatalf("expected update then create, got %d updates %d creates", ledger.updates, ledger.creates)
	}

	own := st.Snapshot().OwnRatings
	if own["g1"].Score != 5 {
		t.Fatalf("own ratings not updated from the write: %+v", own)
	}
}

func TestSubmitRating_MergesByDriver(t *testing.T) {
	ledger := &fakeLedger{}
	svc, st := newTestService(ledger)

	if err := svc.SubmitRating(context.Background(), "g1", 2, true); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if err := svc.SubmitRating(context.Background(), "g1", 5, false); err != nil {
		t.Fatalf("second submit failed: %v", err)
	}
	if err := svc.SubmitRating(context.Background(), "g2", 3, false); err != nil {
		t.Fatalf("third submit failed: %v", err)
	}

	own := st.Snapshot().OwnRatings
	if len(own) != 2 {
		t.Fatalf("re-rating must overwrite, not append: %+v", own)
	}
	if own["g1"].Score != 5 || own["g1"].Avoid {
		t.Fatalf("g1 entry not overwritten: %+v", own["g1"])
	}

	// The stored record reflects the merged collection.
	decoded, err := codec.DecodeRatingCollection(ledger.records[codec.RatingAssetName])
	if err != nil {
		t.Fatalf("stored record undecodable: %v", err)
	}
	if decoded["g1"].Score != 5 || decoded["g2"].Score != 3 {
		t.Fatalf("stored collection wrong: %+v", decoded)
	}
}

func TestLoadOwnRatings_MissingRecordIsEmpty(t *testing.T) {
	ledger := &fakeLedger{}
	svc, st := newTestService(ledger)

	if err := svc.LoadOwnRatings(context.Background()); err != nil {
		t.Fatalf("a missing record is not an error: %v", err)
	}
	if got := len(st.Snapshot().OwnRatings); got != 0 {
		t.Fatalf("expected empty collection, got %d entries", got)
	}
}

func TestBoard_RanksAndAttachesRatings(t *testing.T) {
	ledger := &fakeLedger{
		listings: []map[string]any{
			{
				codec.DiscriminatorField: codec.ListingType,
				"owner":                  "far-genesis",
				"vehicle-id":             "far",
				"latitude":               "0",
				"longitude":              "1",
			},
			{
				codec.DiscriminatorField: codec.ListingType,
				"owner":                  "near-genesis",
				"vehicle-id":             "near",
				"latitude":               "0",
				"longitude":              "0.1",
			},
		},
		rawRecords: []string{
			`{"distordia-type":"nexgo-rating","ratings":{"near-genesis":{"score":5}}}`,
		},
	}
	svc, _ := newTestService(ledger)

	if err := svc.RefreshListings(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if err := svc.RefreshRatings(context.Background()); err != nil {
		t.Fatalf("rating refresh failed: %v", err)
	}

	board := svc.Board(&models.Position{Latitude: 0, Longitude: 0})
	if len(board) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(board))
	}
	if board[0].VehicleID != "near" {
		t.Fatalf("nearest listing must rank first, got %s", board[0].VehicleID)
	}
	if board[0].Rating == nil || board[0].Rating.Average != 5 {
		t.Fatalf("rating not attached: %+v", board[0].Rating)
	}
	if board[1].Rating != nil {
		t.Fatal("unrated driver must have nil rating")
	}
}

func TestBoard_NilViewerLeavesDistancesUnset(t *testing.T) {
	ledger := &fakeLedger{listings: []map[string]any{listingRecord("v1", "g1")}}
	svc, _ := newTestService(ledger)

	if err := svc.RefreshListings(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	board := svc.Board(nil)
	if len(board) != 1 || board[0].DistanceKm != nil {
		t.Fatalf("distances must be nil without a viewer position: %+v", board)
	}
}

func TestStoreTransitionsStreamTheBoard(t *testing.T) {
	ledger := &fakeLedger{listings: []map[string]any{listingRecord("v1", "g1")}}
	st := store.New()
	notifier := &fakeNotifier{}
	log := logger.InitLogger("test", logger.LevelError)
	svc := New(ledger, st, nil, notifier, Config{
		ListingLimit:    100,
		RatingScanLimit: 500,
	}, "viewer-genesis", log)

	if err := svc.RefreshListings(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	if notifier.pushes() == 0 {
		t.Fatal("a refresh transition must reach live subscribers")
	}
	board := notifier.last()
	if len(board) != 1 || board[0].VehicleID != "v1" {
		t.Fatalf("pushed board wrong: %+v", board)
	}

	// Transitions dispatched outside the refresh path stream too.
	before := notifier.pushes()
	own := models.Listing{VehicleID: "v1", Owner: "viewer-genesis"}
	st.Dispatch(store.OwnListingLoaded{Listing: &own})
	if notifier.pushes() != before+1 {
		t.Fatalf("expected one push per transition, got %d then %d", before, notifier.pushes())
	}
}

func TestRun_RefreshesOnCadenceAndStops(t *testing.T) {
	ledger := &fakeLedger{listings: []map[string]any{listingRecord("v1", "g1")}}
	svc, st := newTestService(ledger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for len(st.Snapshot().Listings) == 0 {
		select {
		case <-deadline:
			t.Fatal("board never populated")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sync loop did not stop on cancel")
	}
}
