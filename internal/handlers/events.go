package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/assessment-report-agent/api/v1"
	"github.com/kubev2v/assessment-report-agent/internal/models"
)

const (
	eventsWriteWait  = 10 * time.Second
	eventsPongWait   = 60 * time.Second
	eventsPingPeriod = 54 * time.Second
	eventsBuffer     = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024 * 16,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ExportEvents streams export state transitions over a websocket. The current
// state is sent first.
// (GET /exports/events)
func (h *Handler) ExportEvents(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.S().Named("events_handler").Warnw("websocket upgrade failed", "error", err)
		return
	}

	log := zap.S().Named("events_handler").With("remote", c.Request.RemoteAddr)
	log.Debug("events client connected")

	events := make(chan models.ExportState, eventsBuffer)
	overflow := make(chan struct{})
	closed := false

	// the listener runs under the orchestrator publish lock and must not block
	unsubscribe := h.exportSrv.Subscribe(func(s models.ExportState) {
		if closed {
			return
		}
		select {
		case events <- s:
		default:
			closed = true
			close(overflow)
		}
	})
	defer unsubscribe()

	done := make(chan struct{})
	go readEvents(conn, done)

	ticker := time.NewTicker(eventsPingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
		log.Debug("events client disconnected")
	}()

	if err := writeEvent(conn, h.exportSrv.GetSnapshot()); err != nil {
		return
	}

	for {
		select {
		case s := <-events:
			if err := writeEvent(conn, s); err != nil {
				log.Debugw("failed to write event", "error", err)
				return
			}
		case <-overflow:
			log.Warn("events client too slow, closing")
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too slow"),
				time.Now().Add(eventsWriteWait))
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}

func writeEvent(conn *websocket.Conn, s models.ExportState) error {
	_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
	return conn.WriteJSON(v1.NewExportEvent(s))
}

// readEvents consumes client frames so pongs and close frames are handled.
func readEvents(conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	_ = conn.SetReadDeadline(time.Now().Add(eventsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(eventsPongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.S().Named("events_handler").Debugw("websocket read error", "error", err)
			}
			return
		}
	}
}
