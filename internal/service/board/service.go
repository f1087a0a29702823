package board

import (
	"context"
	"fmt"
	"time"

	"github.com/distordia/nexgo/internal/adapter/nexus"
	"github.com/distordia/nexgo/internal/adapter/rabbit"
	"github.com/distordia/nexgo/internal/aggregate"
	"github.com/distordia/nexgo/internal/codec"
	"github.com/distordia/nexgo/internal/domain/models"
	"github.com/distordia/nexgo/internal/domain/types"
	"github.com/distordia/nexgo/internal/geo"
	"github.com/distordia/nexgo/internal/store"
	"github.com/distordia/nexgo/pkg/logger"
	wrap "github.com/distordia/nexgo/pkg/logger/wrapper"
	"github.com/distordia/nexgo/pkg/metrics"
)

// Config carries the scan limits and refresh cadence of the board side
type Config struct {
	ListingLimit    int
	RatingScanLimit int

	ListingRefresh time.Duration
	RatingRefresh  time.Duration
}

// Service keeps the public board fresh: it periodically pulls listing
// and rating records from the ledger, folds ratings per driver, and
// serves ranked views of the result out of the local store.
type Service struct {
	ledger   LedgerAPI
	store    *store.Store
	producer Publisher
	notifier Notifier
	cfg      Config
	genesis  string
	logger   logger.Logger
}

func New(ledger LedgerAPI, st *store.Store, producer Publisher, notifier Notifier, cfg Config, genesis string, log logger.Logger) *Service {
	s := &Service{
		ledger:   ledger,
		store:    st,
		producer: producer,
		notifier: notifier,
		cfg:      cfg,
		genesis:  genesis,
		logger:   log,
	}

	// Live subscribers follow the store, not the refresh cadence: any
	// transition (bulk refresh, own write, broadcast push) streams a
	// fresh board.
	st.Subscribe(s.pushBoard)

	return s
}

// RefreshListings replaces the visible listing set with the current
// ledger view. Records that fail to decode are skipped individually,
// a failed fetch leaves the previous set in place.
func (s *Service) RefreshListings(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, "refresh_listings")

	s.store.Dispatch(store.ListingsFetchStarted{})

	records, err := s.ledger.ListListings(ctx, s.cfg.ListingLimit)
	if err != nil {
		metrics.RefreshesTotal.WithLabelValues("listings", "error").Inc()
		s.store.Dispatch(store.ListingsFetchFailed{Err: err.Error()})
		s.logger.Error(ctx, "listing refresh failed", wrap.Error(ctx, err))
		return fmt.Errorf("could not list listings: %w", err)
	}

	listings := make([]models.Listing, 0, len(records))
	for _, record := range records {
		listing, err := codec.DecodeListing(record)
		if err != nil {
			metrics.RecordsSkippedTotal.WithLabelValues("listing").Inc()
			s.logger.Warn(ctx, "skipping undecodable listing record", "error", err.Error())
			continue
		}
		listings = append(listings, listing)
	}

	metrics.RefreshesTotal.WithLabelValues("listings", "ok").Inc()
	metrics.ListingsVisibleGauge.Set(float64(len(listings)))
	s.store.Dispatch(store.ListingsFetchSucceeded{Listings: listings})

	return nil
}

// RefreshRatings rescans raw records and folds them into per-driver
// aggregates. A failed scan is a warning condition: the board falls
// back to showing every driver as unrated until the next pass.
func (s *Service) RefreshRatings(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, "refresh_ratings")

	s.store.Dispatch(store.RatingsFetchStarted{})

	records, err := s.ledger.ListRawRecords(ctx, s.cfg.RatingScanLimit)
	if err != nil {
		metrics.RefreshesTotal.WithLabelValues("ratings", "error").Inc()
		s.store.Dispatch(store.RatingsFetchFailed{Err: err.Error()})
		s.logger.Warn(ctx, "rating scan failed, showing drivers as unrated", "error", err.Error())
		return fmt.Errorf("could not list raw records: %w", err)
	}

	ratings, skipped := aggregate.AggregateCounting(records)
	if skipped > 0 {
		metrics.RecordsSkippedTotal.WithLabelValues("rating").Add(float64(skipped))
	}

	metrics.RefreshesTotal.WithLabelValues("ratings", "ok").Inc()
	metrics.RatedDriversGauge.Set(float64(len(ratings)))
	s.store.Dispatch(store.RatingsFetchSucceeded{Ratings: ratings})

	return nil
}

// LoadOwnRatings pulls the caller's private rating collection. A
// missing record is the empty collection, not an error.
func (s *Service) LoadOwnRatings(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, "load_own_ratings")

	data, err := s.ledger.GetRawRecord(ctx, codec.RatingAssetName)
	if err != nil {
		if nexus.IsNotFound(err) {
			s.store.Dispatch(store.OwnRatingsLoaded{Ratings: models.RatingCollection{}})
			return nil
		}
		return wrap.Error(ctx, fmt.Errorf("could not fetch own ratings: %w", err))
	}

	ratings, err := codec.DecodeRatingCollection(data)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("could not decode own ratings: %w", err))
	}

	s.store.Dispatch(store.OwnRatingsLoaded{Ratings: ratings})
	return nil
}

// SubmitRating records one score for a driver in the caller's rating
// collection. The entry is merged by driver genesis, so re-rating the
// same driver overwrites the previous entry instead of appending.
func (s *Service) SubmitRating(ctx context.Context, driver string, score int, avoid bool) error {
	ctx = wrap.WithAction(ctx, "submit_rating")

	if driver == "" {
		return types.ErrDriverRequired
	}
	if score < 1 || score > 5 {
		return types.ErrInvalidScore
	}

	s.store.Dispatch(store.RatingOpStarted{})

	merged := s.store.Snapshot().OwnRatings.Clone()
	merged[driver] = models.RatingEntry{Score: score, Avoid: avoid}

	payload, err := codec.EncodeRatingCollection(merged)
	if err != nil {
		s.store.Dispatch(store.RatingOpFailed{Err: err.Error()})
		return wrap.Error(ctx, fmt.Errorf("could not encode rating collection: %w", err))
	}
	if err := codec.CheckRatingPayloadSize(payload); err != nil {
		s.store.Dispatch(store.RatingOpFailed{Err: err.Error()})
		return err
	}

	if _, err := s.ledger.UpdateRawRecord(ctx, codec.RatingAssetName, payload); err != nil {
		// First write for this identity: the record does not exist yet.
		s.logger.Info(ctx, "rating update failed, creating the record", "error", err.Error())
		if _, err := s.ledger.CreateRawRecord(ctx, codec.RatingAssetName, payload); err != nil {
			s.store.Dispatch(store.RatingOpFailed{Err: err.Error()})
			return wrap.Error(ctx, fmt.Errorf("could not write rating collection: %w", err))
		}
	}

	// Own state comes straight from the successful write, the global
	// aggregate catches up on the next scan.
	s.store.Dispatch(store.OwnRatingsLoaded{Ratings: merged})
	s.store.Dispatch(store.RatingOpSucceeded{})

	if s.producer != nil {
		event := rabbit.BoardEvent{
			Kind:      "rating_submitted",
			Genesis:   s.genesis,
			Detail:    driver,
			Timestamp: time.Now().UTC(),
		}
		if err := s.producer.PublishEvent(ctx, event); err != nil {
			s.logger.Warn(ctx, "failed to publish rating event", "error", err.Error())
		}
	}

	return nil
}

// Board returns the current listing set ranked by distance from the
// viewer. A nil viewer position yields the unranked set with distances
// unset. Own listings are not filtered out, the caller decides.
func (s *Service) Board(viewer *models.Position) []models.BoardListing {
	return boardFrom(s.store.Snapshot(), viewer)
}

func boardFrom(state store.State, viewer *models.Position) []models.BoardListing {
	ref := viewer
	if ref == nil {
		ref = state.Position
	}

	// Ratings are keyed by the owning genesis, not the display name.
	board := geo.WithDistances(ref, state.Listings)
	for i := range board {
		if rating, ok := state.Ratings[board[i].Owner]; ok {
			r := rating
			board[i].Rating = &r
		}
		if own, ok := state.OwnRatings[board[i].Owner]; ok {
			o := own
			board[i].OwnRating = &o
		}
	}
	geo.Rank(board)

	return board
}

// pushBoard fans the board out to live subscribers after a transition
func (s *Service) pushBoard(state store.State) {
	if s.notifier == nil {
		return
	}

	s.notifier.BroadcastBoard(boardFrom(state, nil))
}
