package board

import (
	"context"
	"time"

	wrap "github.com/distordia/nexgo/pkg/logger/wrapper"
)

// Run drives the periodic refresh of the board until ctx is cancelled.
// Both sets are pulled once up front so the board is populated before
// the first tick. Refresh failures are already reported through the
// store and the logger, the loop never stops on them.
func (s *Service) Run(ctx context.Context) {
	ctx = wrap.WithAction(ctx, "board_sync")

	_ = s.RefreshListings(ctx)
	_ = s.RefreshRatings(ctx)
	_ = s.LoadOwnRatings(ctx)

	listingTicker := time.NewTicker(s.cfg.ListingRefresh)
	defer listingTicker.Stop()

	ratingTicker := time.NewTicker(s.cfg.RatingRefresh)
	defer ratingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "board sync stopped")
			return
		case <-listingTicker.C:
			_ = s.RefreshListings(ctx)
		case <-ratingTicker.C:
			_ = s.RefreshRatings(ctx)
		}
	}
}
