package wshandler

import (
	"net/http"

	"github.com/distordia/nexgo/internal/adapter/http/handler/dto"
	"github.com/distordia/nexgo/internal/domain/models"
	"github.com/distordia/nexgo/pkg/logger"
	wrap "github.com/distordia/nexgo/pkg/logger/wrapper"
	"github.com/distordia/nexgo/pkg/metrics"
	"github.com/distordia/nexgo/pkg/uuid"
	ws "github.com/distordia/nexgo/pkg/wsHub"
	"github.com/gorilla/websocket"
)

// BoardHub serves live board subscriptions: every connected client
// receives the full ranked board after each refresh pass.
type BoardHub struct {
	hub      *ws.SubscriberHub
	snapshot func() []models.BoardListing
	l        logger.Logger
}

func NewBoardHub(hub *ws.SubscriberHub, snapshot func() []models.BoardListing, l logger.Logger) *BoardHub {
	return &BoardHub{
		hub:      hub,
		snapshot: snapshot,
		l:        l,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// BroadcastBoard pushes a refreshed board to every subscriber
func (h *BoardHub) BroadcastBoard(listings []models.BoardListing) {
	if h.hub.Len() == 0 {
		return
	}
	h.hub.Broadcast(map[string]any{
		"type":     "board",
		"listings": dto.NewBoardResponse(listings),
	})
}

// HandleWS upgrades the connection, pushes the current board once and
// keeps the subscriber registered until the peer goes away.
func (h *BoardHub) HandleWS(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "board_ws")

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "websocket upgrade failed", err)
		return
	}

	conn := ws.NewConn(ctx, uuid.MustNew(), wsConn)
	h.hub.Add(conn)
	metrics.WebSocketConnectionsGauge.Inc()

	defer func() {
		h.hub.Delete(conn.ID())
		conn.Close()
		metrics.WebSocketConnectionsGauge.Dec()
	}()

	h.l.Info(ctx, "board subscriber connected", "conn_id", conn.ID().String())

	if err := conn.Send(map[string]any{
		"type":     "board",
		"listings": dto.NewBoardResponse(h.snapshot()),
	}); err != nil {
		h.l.Warn(ctx, "initial board push failed", "error", err.Error())
		return
	}

	conn.Wait()
	h.l.Info(ctx, "board subscriber disconnected", "conn_id", conn.ID().String())
}
