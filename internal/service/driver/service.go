package driver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/distordia/nexgo/internal/codec"
	"github.com/distordia/nexgo/internal/domain/models"
	"github.com/distordia/nexgo/internal/domain/types"
	"github.com/distordia/nexgo/internal/store"
	"github.com/distordia/nexgo/pkg/logger"
	wrap "github.com/distordia/nexgo/pkg/logger/wrapper"
)

// Config carries the broadcast cadence of the driver side
type Config struct {
	BroadcastInterval time.Duration
}

// Service owns the driver's side of the board: the on-chain listing
// record, the periodic position broadcast and the persisted settings.
type Service struct {
	ledger   LedgerAPI
	locators []Locator
	settings SettingsRepo
	producer Publisher
	store    *store.Store
	cfg      Config
	genesis  string
	logger   logger.Logger

	mu         sync.Mutex
	cancelPush context.CancelFunc
	pushDone   chan struct{}
}

func New(ledger LedgerAPI, locators []Locator, settings SettingsRepo, producer Publisher, st *store.Store, cfg Config, genesis string, log logger.Logger) *Service {
	return &Service{
		ledger:   ledger,
		locators: locators,
		settings: settings,
		producer: producer,
		store:    st,
		cfg:      cfg,
		genesis:  genesis,
		logger:   log,
	}
}

// Bootstrap brings the driver side up to date after a restart: confirm
// the session identity, load persisted settings, pull the own listing
// and try to resolve a position. Only the identity check is fatal.
func (s *Service) Bootstrap(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, "driver_bootstrap")

	profile, err := s.ledger.ProfileStatus(ctx)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("could not resolve session profile: %w", err))
	}
	if s.genesis == "" {
		s.genesis = profile.Genesis
	}
	ctx = wrap.WithGenesis(ctx, s.genesis)

	settings, err := s.settings.Get(ctx, s.genesis)
	if err != nil {
		if !errors.Is(err, types.ErrSettingsNotFound) {
			s.logger.Warn(ctx, "could not load driver settings, using defaults", "error", err.Error())
		}
		settings = models.DefaultDriverSettings(s.genesis)
	}
	s.store.Dispatch(store.SettingsLoaded{Settings: settings})

	if err := s.LoadOwnListing(ctx); err != nil {
		s.logger.Warn(ctx, "could not load own listing", "error", err.Error())
	}

	if err := s.AcquirePosition(ctx); err != nil {
		s.logger.Warn(ctx, "position unresolved, driver features stay blocked", "error", err.Error())
	}

	return nil
}

// AcquirePosition walks the locator chain until one source yields a
// position. All sources failing leaves the previous position in place.
func (s *Service) AcquirePosition(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, "acquire_position")

	var lastErr error
	for _, locator := range s.locators {
		pos, err := locator.Locate(ctx)
		if err != nil {
			lastErr = err
			continue
		}
		s.store.Dispatch(store.PositionResolved{Position: pos})
		return nil
	}

	if lastErr == nil {
		lastErr = types.ErrPositionUnknown
	}
	return wrap.Error(ctx, fmt.Errorf("no position source succeeded: %w", lastErr))
}

// SetPosition pins the vehicle position manually, bypassing the
// locator chain.
func (s *Service) SetPosition(ctx context.Context, pos models.Position) {
	s.store.Dispatch(store.PositionResolved{Position: pos})
	s.logger.Debug(ctx, "position pinned", "latitude", pos.Latitude, "longitude", pos.Longitude)
}

// Settings returns the persisted driver settings from local state
func (s *Service) Settings() models.DriverSettings {
	return s.store.Snapshot().Settings
}

// SaveSettings validates and persists driver settings, then reflects
// them in local state.
func (s *Service) SaveSettings(ctx context.Context, settings models.DriverSettings) error {
	ctx = wrap.WithAction(ctx, "save_settings")

	settings.Genesis = s.genesis
	if !settings.VehicleClass.Valid() {
		settings.VehicleClass = types.DefaultVehicleClass
	}
	if settings.DistanceUnit != "mi" {
		settings.DistanceUnit = "km"
	}

	if err := s.settings.Upsert(ctx, settings); err != nil {
		return wrap.Error(ctx, fmt.Errorf("could not persist settings: %w", err))
	}

	s.store.Dispatch(store.SettingsLoaded{Settings: settings})
	return nil
}

// LoadOwnListing pulls the session's listing records and keeps the
// first one as the own listing. Duplicates are possible on-chain and
// are tolerated, not treated as corruption.
func (s *Service) LoadOwnListing(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, "load_own_listing")

	records, err := s.ledger.ListOwnListings(ctx)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("could not list own records: %w", err))
	}

	for _, record := range records {
		listing, err := codec.DecodeListing(record)
		if err != nil {
			continue
		}
		s.store.Dispatch(store.OwnListingLoaded{Listing: &listing})
		return nil
	}

	s.store.Dispatch(store.OwnListingLoaded{Listing: nil})
	return nil
}

// SetStatus switches the advertised driver status. While broadcasting
// the new status rides along with the next position push.
func (s *Service) SetStatus(ctx context.Context, status types.ListingStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%q: invalid status", status)
	}
	s.store.Dispatch(store.DriverStatusSet{Status: status})
	return nil
}

// UpsertListing writes the current listing state on-chain: update
// first, and when the record does not exist yet fall back to create.
// On success the own listing is re-read from the ledger so local state
// reflects what was actually written.
func (s *Service) UpsertListing(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, "upsert_listing")

	listing, err := s.composeListing()
	if err != nil {
		return err
	}

	s.store.Dispatch(store.AssetOpStarted{})

	if err := s.writeListing(ctx, listing); err != nil {
		s.store.Dispatch(store.AssetOpFailed{Err: err.Error()})
		return wrap.Error(ctx, err)
	}

	if err := s.refetchOwnListing(ctx, listing.Name); err != nil {
		s.logger.Warn(ctx, "listing written but re-read failed", "error", err.Error())
		s.store.Dispatch(store.OwnListingLoaded{Listing: &listing})
	}
	s.store.Dispatch(store.AssetOpSucceeded{})

	return nil
}

// composeListing assembles the listing to write from settings, status
// and the last resolved position.
func (s *Service) composeListing() (models.Listing, error) {
	state := s.store.Snapshot()

	if state.Settings.VehicleID == "" {
		return models.Listing{}, types.ErrVehicleIDRequired
	}
	if state.Position == nil {
		return models.Listing{}, types.ErrPositionUnknown
	}

	return models.Listing{
		Name:       codec.ListingName(state.Settings.VehicleID),
		VehicleID:  state.Settings.VehicleID,
		Class:      state.Settings.VehicleClass,
		Status:     state.DriverStatus,
		Latitude:   state.Position.Latitude,
		Longitude:  state.Position.Longitude,
		PricePerKm: state.Settings.PricePerKm,
		Driver:     state.Settings.DriverName,
	}, nil
}

// writeListing updates the record, falling back to create when the
// update is rejected. The fallback covers the first broadcast of a new
// vehicle, where no record exists to update.
func (s *Service) writeListing(ctx context.Context, listing models.Listing) error {
	if _, err := s.ledger.UpdateListingAsset(ctx, listing.Name, codec.EncodeListingUpdate(listing)); err != nil {
		s.logger.Info(ctx, "listing update failed, creating the record", "name", listing.Name, "error", err.Error())
		if _, err := s.ledger.CreateListingAsset(ctx, listing.Name, codec.EncodeListing(listing)); err != nil {
			return fmt.Errorf("could not write listing %q: %w", listing.Name, err)
		}
	}
	return nil
}

func (s *Service) refetchOwnListing(ctx context.Context, name string) error {
	record, err := s.ledger.GetAsset(ctx, name)
	if err != nil {
		return err
	}
	listing, err := codec.DecodeListing(record)
	if err != nil {
		return err
	}
	s.store.Dispatch(store.OwnListingLoaded{Listing: &listing})
	return nil
}
