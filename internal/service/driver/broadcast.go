package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/distordia/nexgo/internal/adapter/rabbit"
	"github.com/distordia/nexgo/internal/domain/types"
	"github.com/distordia/nexgo/internal/store"
	wrap "github.com/distordia/nexgo/pkg/logger/wrapper"
	"github.com/distordia/nexgo/pkg/metrics"
)

// StartBroadcast writes the listing on-chain and starts the periodic
// position push. The broadcasting flag only flips after the initial
// write succeeds, so a failed start leaves the driver invisible.
func (s *Service) StartBroadcast(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, "start_broadcast")

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelPush != nil {
		return nil // already broadcasting
	}

	listing, err := s.composeListing()
	if err != nil {
		return err
	}

	s.store.Dispatch(store.AssetOpStarted{})
	if err := s.writeListing(ctx, listing); err != nil {
		s.store.Dispatch(store.AssetOpFailed{Err: err.Error()})
		return wrap.Error(ctx, err)
	}
	s.store.Dispatch(store.OwnListingLoaded{Listing: &listing})
	s.store.Dispatch(store.AssetOpSucceeded{})
	s.store.Dispatch(store.BroadcastingSet{On: true})

	pushCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancelPush = cancel
	s.pushDone = make(chan struct{})
	go s.pushLoop(pushCtx, s.pushDone)

	s.publishEvent(ctx, "broadcast_started", listing.VehicleID)
	s.logger.Info(ctx, "broadcasting started", "vehicle_id", listing.VehicleID)

	return nil
}

// StopBroadcast stops the push timer and flips the flag immediately.
// The trailing offline write is best effort: the board converges on the
// next refresh even if it never lands, so its failure is reported as a
// diagnostic instead of surfacing to the caller.
func (s *Service) StopBroadcast(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, "stop_broadcast")

	s.mu.Lock()
	if s.cancelPush == nil {
		s.mu.Unlock()
		return types.ErrNotBroadcasting
	}
	s.cancelPush()
	<-s.pushDone
	s.cancelPush = nil
	s.pushDone = nil
	s.mu.Unlock()

	s.store.Dispatch(store.BroadcastingSet{On: false})
	s.publishEvent(ctx, "broadcast_stopped", "")
	s.logger.Info(ctx, "broadcasting stopped")

	go s.writeOffline(context.WithoutCancel(ctx))

	return nil
}

// Close tears the push timer down on shutdown without the offline write
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelPush != nil {
		s.cancelPush()
		<-s.pushDone
		s.cancelPush = nil
		s.pushDone = nil
	}
}

// Broadcasting reports whether the push timer is active
func (s *Service) Broadcasting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelPush != nil
}

// pushLoop re-publishes status and position at the configured cadence.
// Push failures are a background condition: logged and counted, never
// surfaced, the next tick simply tries again.
func (s *Service) pushLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ctx = wrap.WithAction(ctx, "broadcast_push")

	ticker := time.NewTicker(s.cfg.BroadcastInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.push(ctx); err != nil {
				metrics.BroadcastPushesTotal.WithLabelValues("error").Inc()
				s.logger.Warn(ctx, "broadcast push failed", "error", err.Error())
				continue
			}
			metrics.BroadcastPushesTotal.WithLabelValues("ok").Inc()
		}
	}
}

func (s *Service) push(ctx context.Context) error {
	if !s.store.Snapshot().Broadcasting {
		return nil
	}

	listing, err := s.composeListing()
	if err != nil {
		return err
	}
	if err := s.writeListing(ctx, listing); err != nil {
		return err
	}

	s.store.Dispatch(store.OwnListingLoaded{Listing: &listing})
	return nil
}

// writeOffline marks the listing offline on-chain after a stop
func (s *Service) writeOffline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	listing, err := s.composeListing()
	if err != nil {
		return // nothing was ever broadcast
	}
	listing.Status = types.StatusOffline

	if err := s.writeListing(ctx, listing); err != nil {
		s.logger.Warn(ctx, "offline write failed, board converges on next refresh", "error", err.Error())
		if s.producer != nil {
			detail := fmt.Sprintf("offline write failed for %s: %v", listing.Name, err)
			if perr := s.producer.PublishDiagnostic(ctx, s.genesis, detail); perr != nil {
				s.logger.Warn(ctx, "failed to publish diagnostic", "error", perr.Error())
			}
		}
		return
	}

	s.store.Dispatch(store.OwnListingLoaded{Listing: &listing})
}

func (s *Service) publishEvent(ctx context.Context, kind, detail string) {
	if s.producer == nil {
		return
	}
	event := rabbit.BoardEvent{
		Kind:      kind,
		Genesis:   s.genesis,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	}
	if err := s.producer.PublishEvent(ctx, event); err != nil {
		s.logger.Warn(ctx, "failed to publish board event", "error", err.Error())
	}
}
