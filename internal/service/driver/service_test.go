package driver

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
	mu sync.Mutex

	ownListings []map[string]any
	ownErr      error
	profileErr  error

	updateErr error
	createErr error

	updates int
	creates int

	lastCreateFields []codec.AssetField
	lastUpdateFields map[string]string
}

func (f *fakeLedger) GetAsset(_ context.Context, name string) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.ownListings {
		if n, _ := record["name"].(string); n == name {
			return record, nil
		}
	}
	return nil, types.ErrRecordNotFound
}

func (f *fakeLedger) ListOwnListings(_ context.Context) ([]map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ownListings, f.ownErr
}

func (f *fakeLedger) CreateListingAsset(_ context.Context, name string, fields []codec.AssetField) (models.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	f.lastCreateFields = fields
	if f.createErr != nil {
		return models.Receipt{}, f.createErr
	}
	return models.Receipt{Address: "addr-" + name}, nil
}

func (f *fakeLedger) UpdateListingAsset(_ context.Context, name string, fields map[string]string) (models.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	f.lastUpdateFields = fields
	if f.updateErr != nil {
		return models.Receipt{}, f.updateErr
	}
	return models.Receipt{Address: "addr-" + name}, nil
}

func (f *fakeLedger) ProfileStatus(_ context.Context) (models.Profile, error) {
	if f.profileErr != nil {
		return models.Profile{}, f.profileErr
	}
	return models.Profile{Genesis: "driver-genesis", Username: "driver"}, nil
}

func (f *fakeLedger) writeCounts() (updates, creates int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates, f.creates
}

type fakeLocator struct {
	pos models.Position
	err error
}

func (f fakeLocator) Locate(_ context.Context) (models.Position, error) {
	return f.pos, f.err
}

type fakeSettingsRepo struct {
	settings  map[string]models.DriverSettings
	getErr    error
	upsertErr error
}

func (f *fakeSettingsRepo) Get(_ context.Context, genesis string) (models.DriverSettings, error) {
	if f.getErr != nil {
		return models.DriverSettings{}, f.getErr
	}
	s, ok := f.settings[genesis]
	if !ok {
		return models.DriverSettings{}, types.ErrSettingsNotFound
	}
	return s, nil
}

func (f *fakeSettingsRepo) Upsert(_ context.Context, settings models.DriverSettings) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if f.settings == nil {
		f.settings = map[string]models.DriverSettings{}
	}
	f.settings[settings.Genesis] = settings
	return nil
}

func newTestService(ledger *fakeLedger, locators []Locator) (*Service, *store.Store) {
	st := store.New()
	log := logger.InitLogger("test", logger.LevelError)
	svc := New(ledger, locators, &fakeSettingsRepo{}, nil, st, Config{
		BroadcastInterval: 10 * time.Millisecond,
	}, "driver-genesis", log)
	return svc, st
}

func preparedService(ledger *fakeLedger) (*Service, *store.Store) {
	svc, st := newTestService(ledger, nil)
	st.Dispatch(store.SettingsLoaded{Settings: models.DriverSettings{
		Genesis:      "driver-genesis",
		VehicleID:    "KZ123",
		VehicleClass: types.ClassSedan,
		DriverName:   "Aibek",
		PricePerKm:   120,
	}})
	st.Dispatch(store.PositionResolved{Position: models.Position{Latitude: 43.2, Longitude: 76.9}})
	return svc, st
}

func TestBootstrap_ProfileFailureIsFatal(t *testing.T) {
	ledger := &fakeLedger{profileErr: errors.New("session expired")}
	svc, _ := newTestService(ledger, nil)

	if err := svc.Bootstrap(context.Background()); err == nil {
		t.Fatal("an unresolvable session must fail bootstrap")
	}
}

func TestBootstrap_MissingSettingsUseDefaults(t *testing.T) {
	ledger := &fakeLedger{}
	svc, st := newTestService(ledger, []Locator{fakeLocator{pos: models.Position{Latitude: 1, Longitude: 2}}})

	if err := svc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	state := st.Snapshot()
	if state.Settings.Genesis != "driver-genesis" {
		t.Fatalf("defaults not loaded: %+v", state.Settings)
	}
	if state.Position == nil || state.Position.Latitude != 1 {
		t.Fatalf("position not acquired: %+v", state.Position)
	}
}

func TestAcquirePosition_WalksChain(t *testing.T) {
	ledger := &fakeLedger{}
	svc, st := newTestService(ledger, []Locator{
		fakeLocator{err: errors.New("no gps fix")},
		fakeLocator{pos: models.Position{Latitude: 51.1, Longitude: 71.4}},
	})

	if err := svc.AcquirePosition(context.Background()); err != nil {
		t.Fatalf("second locator should have served: %v", err)
	}
	if pos := st.Snapshot().Position; pos == nil || pos.Latitude != 51.1 {
		t.Fatalf("position wrong: %+v", pos)
	}
}

func TestAcquirePosition_AllSourcesFailing(t *testing.T) {
	ledger := &fakeLedger{}
	svc, st := newTestService(ledger, []Locator{
		fakeLocator{err: errors.New("no gps fix")},
		fakeLocator{err: errors.New("geoip down")},
	})
	st.Dispatch(store.PositionResolved{Position: models.Position{Latitude: 9, Longitude: 9}})

	if err := svc.AcquirePosition(context.Background()); err == nil {
		t.Fatal("expected an error when every source fails")
	}
	if pos := st.Snapshot().Position; pos == nil || pos.Latitude != 9 {
		t.Fatalf("a failed acquire must keep the previous position: %+v", pos)
	}
}

func TestSaveSettings_NormalizesInput(t *testing.T) {
	ledger := &fakeLedger{}
	svc, st := newTestService(ledger, nil)

	err := svc.SaveSettings(context.Background(), models.DriverSettings{
		VehicleID:    "KZ123",
		VehicleClass: "spaceship",
		DistanceUnit: "furlongs",
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	settings := st.Snapshot().Settings
	if settings.Genesis != "driver-genesis" {
		t.Fatalf("genesis not stamped: %+v", settings)
	}
	if settings.VehicleClass != types.DefaultVehicleClass {
		t.Fatalf("class not normalized: %q", settings.VehicleClass)
	}
	if settings.DistanceUnit != "km" {
		t.Fatalf("unit not normalized: %q", settings.DistanceUnit)
	}
}

func TestUpsertListing_Validation(t *testing.T) {
	ledger := &fakeLedger{}
	svc, st := newTestService(ledger, nil)

	if err := svc.UpsertListing(context.Background()); !errors.Is(err, types.ErrVehicleIDRequired) {
		t.Fatalf("expected ErrVehicleIDRequired, got %v", err)
	}

	st.Dispatch(store.SettingsLoaded{Settings: models.DriverSettings{VehicleID: "KZ123"}})
	if err := svc.UpsertListing(context.Background()); !errors.Is(err, types.ErrPositionUnknown) {
		t.Fatalf("expected ErrPositionUnknown, got %v", err)
	}

	if updates, creates := ledger.writeCounts(); updates != 0 || creates != 0 {
		t.Fatal("invalid state must not reach the ledger")
	}
}

func TestUpsertListing_FallsBackToCreate(t *testing.T) {
	ledger := &fakeLedger{updateErr: errors.New("record not found")}
	svc, _ := preparedService(ledger)

	if err := svc.UpsertListing(context.Background()); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	updates, creates := ledger.writeCounts()
	if updates != 1 || creates != 1 {
		t.Fatalf("expected update then create, got %d updates %d creates", updates, creates)
	}

	if len(ledger.lastCreateFields) == 0 || ledger.lastCreateFields[0].Name != codec.DiscriminatorField {
		t.Fatalf("create must lead with the discriminator field: %+v", ledger.lastCreateFields)
	}
}

func TestUpsertListing_ReReadFailureKeepsLocalListing(t *testing.T) {
	ledger := &fakeLedger{}
	svc, st := preparedService(ledger)

	if err := svc.UpsertListing(context.Background()); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	own := st.Snapshot().OwnListing
	if own == nil || own.VehicleID != "KZ123" {
		t.Fatalf("own listing must fall back to the composed one: %+v", own)
	}
	if own.Driver != "Aibek" {
		t.Fatalf("driver display name not carried: %+v", own)
	}
}

func TestStartBroadcast_PushesOnCadence(t *testing.T) {
	ledger := &fakeLedger{}
	svc, st := preparedService(ledger)
	defer svc.Close()

	if err := svc.StartBroadcast(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if !svc.Broadcasting() || !st.Snapshot().Broadcasting {
		t.Fatal("broadcasting flag must be set after a successful start")
	}

	// The initial write lands synchronously, then the timer keeps pushing.
	deadline := time.After(2 * time.Second)
	for {
		if updates, _ := ledger.writeCounts(); updates >= 3 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("push timer never fired")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestStopBroadcast_NoPushAfterStop(t *testing.T) {
	ledger := &fakeLedger{}
	svc, st := preparedService(ledger)

	if err := svc.StartBroadcast(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if err := svc.StopBroadcast(context.Background()); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if svc.Broadcasting() || st.Snapshot().Broadcasting {
		t.Fatal("broadcasting flag must clear immediately on stop")
	}

	// Allow the trailing offline write to land, then confirm the timer
	// is silent.
	time.Sleep(50 * time.Millisecond)
	before, _ := ledger.writeCounts()
	time.Sleep(50 * time.Millisecond)
	after, _ := ledger.writeCounts()
	if after != before {
		t.Fatalf("pushes observed after stop: %d -> %d", before, after)
	}
}

func TestStopBroadcast_WhenIdle(t *testing.T) {
	ledger := &fakeLedger{}
	svc, _ := preparedService(ledger)

	if err := svc.StopBroadcast(context.Background()); !errors.Is(err, types.ErrNotBroadcasting) {
		t.Fatalf("expected ErrNotBroadcasting, got %v", err)
	}
}

func TestStartBroadcast_FailedWriteStaysInvisible(t *testing.T) {
	ledger := &fakeLedger{
		updateErr: errors.New("node down"),
		createErr: errors.New("node down"),
	}
	svc, st := preparedService(ledger)

	if err := svc.StartBroadcast(context.Background()); err == nil {
		t.Fatal("a failed initial write must fail the start")
	}
	if svc.Broadcasting() || st.Snapshot().Broadcasting {
		t.Fatal("a failed start must leave the driver invisible")
	}
}

func TestSetStatus_RejectsUnknown(t *testing.T) {
	ledger := &fakeLedger{}
	svc, st := preparedService(ledger)

	if err := svc.SetStatus(context.Background(), "parked"); err == nil {
		t.Fatal("unknown status must be rejected")
	}
	if err := svc.SetStatus(context.Background(), types.StatusOccupied); err != nil {
		t.Fatalf("valid status rejected: %v", err)
	}
	if got := st.Snapshot().DriverStatus; got != types.StatusOccupied {
		t.Fatalf("status not applied: %q", got)
	}
}
