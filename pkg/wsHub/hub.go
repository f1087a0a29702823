package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/distordia/nexgo/pkg/logger"
	wrap "github.com/distordia/nexgo/pkg/logger/wrapper"
	"github.com/distordia/nexgo/pkg/uuid"
)

var (
	ErrEmptyConn      = errors.New("connection is empty")
	ErrConnIsNotFound = errors.New("connection not found")
)

// SubscriberHub holds every active WebSocket subscriber of the board feed.
type SubscriberHub struct {
	clients map[uuid.UUID]*Conn
	l       logger.Logger
	mu      sync.Mutex
}

func NewSubscriberHub(l logger.Logger) *SubscriberHub {
	return &SubscriberHub{
		clients: make(map[uuid.UUID]*Conn),
		l:       l,
	}
}

// Add registers a new subscriber connection in the hub.
func (h *SubscriberHub) Add(newConn *Conn) error {
	if newConn == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[newConn.id] = newConn

	return nil
}

// Delete removes and closes the connection with the given ID
func (h *SubscriberHub) Delete(id uuid.UUID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := wrap.WithAction(context.Background(), "ws_connection_delete")

	conn, ok := h.clients[id]
	if !ok {
		h.l.Warn(ctx, "delete called for unknown subscriber", "subscriber_id", id)
		return ErrConnIsNotFound
	}

	if err := conn.Close(); err != nil {
		h.l.Warn(ctx,
			"failed to close conn",
			"subscriber_id", conn.id,
			"err", err.Error(),
		)
	}

	delete(h.clients, id)

	return nil
}

// Broadcast sends the message to every subscriber. Dead connections are
// dropped from the hub instead of failing the whole broadcast.
func (h *SubscriberHub) Broadcast(msg map[string]any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := wrap.WithAction(context.Background(), "ws_broadcast")

	for id, conn := range h.clients {
		if err := conn.Send(msg); err != nil {
			h.l.Debug(ctx, "dropping dead subscriber", "subscriber_id", id, "err", err.Error())
			_ = conn.Close()
			delete(h.clients, id)
		}
	}
}

// Len returns the number of active subscribers
func (h *SubscriberHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// CloseAll closes all connections, used on shutdown
func (h *SubscriberHub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := wrap.WithAction(context.Background(), "ws_close_all")

	for id, conn := range h.clients {
		if err := conn.Close(); err != nil {
			h.l.Warn(ctx, "failed to close conn", "subscriber_id", id, "err", err.Error())
		}
		delete(h.clients, id)
	}
}
