package board

import (
	"context"

	"github.com/distordia/nexgo/internal/adapter/rabbit"
	"github.com/distordia/nexgo/internal/domain/models"
)

// LedgerAPI is the slice of the node client the board side needs:
// global reads plus the raw-record writes that carry rating collections.
type LedgerAPI interface {
	ListListings(ctx context.Context, limit int) ([]map[string]any, error)
	ListRawRecords(ctx context.Context, limit int) ([]string, error)
	GetRawRecord(ctx context.Context, name string) (string, error)
	CreateRawRecord(ctx context.Context, name, data string) (models.Receipt, error)
	UpdateRawRecord(ctx context.Context, name, data string) (models.Receipt, error)
}

// Publisher pushes board lifecycle events to the message broker
type Publisher interface {
	PublishEvent(ctx context.Context, event rabbit.BoardEvent) error
}

// Notifier fans a refreshed board out to connected subscribers
type Notifier interface {
	BroadcastBoard(listings []models.BoardListing)
}
