package api

import (
	"net/http"
	"sync"

	models "SolPulse/internal/domain/models"
	xlogger "SolPulse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// StreamHub pushes every prediction state replacement to connected
// WebSocket clients. Clients receive the current state on connect and a
// full state on each update; the hub never reads application frames.
type StreamHub struct {
	logger   *xlogger.Logger
	state    func() models.PredictionState
	upgrader websocket.Upgrader

	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	closed bool
}

// NewStreamHub creates a hub; state supplies the snapshot sent to every
// client on connect.
func NewStreamHub(logger *xlogger.Logger, state func() models.PredictionState) *StreamHub {
	return &StreamHub{
		logger: logger,
		state:  state,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

func (h *StreamHub) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.Serve)
}

// Serve upgrades the connection and keeps it registered until the peer
// disconnects.
func (h *StreamHub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	// The snapshot write happens under the hub lock: Broadcast writes under
	// the same lock, and gorilla connections allow one writer at a time.
	snapshot := h.state()
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return nil
	}
	if err := conn.WriteJSON(snapshot); err != nil {
		h.mu.Unlock()
		_ = conn.Close()
		return nil
	}
	h.conns[conn] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("ws client connected", xlogger.String("remote", conn.RemoteAddr().String()))

	// Drain control frames; an error means the peer went away.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return nil
}

// Broadcast sends the state to every client, dropping the ones that fail.
func (h *StreamHub) Broadcast(st models.PredictionState) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		if err := conn.WriteJSON(st); err != nil {
			h.logger.Debug("ws write failed, dropping client", xlogger.Error(err))
			_ = conn.Close()
			delete(h.conns, conn)
		}
	}
}

// Close disconnects all clients and rejects future ones.
func (h *StreamHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for conn := range h.conns {
		_ = conn.Close()
		delete(h.conns, conn)
	}
}

func (h *StreamHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	_ = conn.Close()
	delete(h.conns, conn)
}
