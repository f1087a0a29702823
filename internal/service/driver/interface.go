package driver

import (
	"context"

	"github.com/distordia/nexgo/internal/adapter/rabbit"
	"github.com/distordia/nexgo/internal/codec"
	"github.com/distordia/nexgo/internal/domain/models"
)

// LedgerAPI is the slice of the node client the driver side needs:
// session-scoped listing reads and the structured asset writes.
type LedgerAPI interface {
	GetAsset(ctx context.Context, name string) (map[string]any, error)
	ListOwnListings(ctx context.Context) ([]map[string]any, error)
	CreateListingAsset(ctx context.Context, name string, fields []codec.AssetField) (models.Receipt, error)
	UpdateListingAsset(ctx context.Context, name string, fields map[string]string) (models.Receipt, error)
	ProfileStatus(ctx context.Context) (models.Profile, error)
}

// Locator resolves the vehicle's current position. Implementations are
// tried in order until one succeeds.
type Locator interface {
	Locate(ctx context.Context) (models.Position, error)
}

// SettingsRepo persists driver settings across restarts
type SettingsRepo interface {
	Get(ctx context.Context, genesis string) (models.DriverSettings, error)
	Upsert(ctx context.Context, settings models.DriverSettings) error
}

// Publisher pushes driver lifecycle events and diagnostics to the broker
type Publisher interface {
	PublishEvent(ctx context.Context, event rabbit.BoardEvent) error
	PublishDiagnostic(ctx context.Context, genesis, detail string) error
}
