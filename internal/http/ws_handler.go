package http

import (
	"net/http"

	"web-analytics/internal/realtime"
	"web-analytics/internal/shared/loggers"

	"github.com/gorilla/websocket"
)

type wsHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(hub *realtime.Hub) AppHttpHandler {
	return &wsHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Dashboards are served from arbitrary origins.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handle processes GET /api/analytics/ws requests.
func (h *wsHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the handshake failure response.
		loggers.Ctx(r.Context()).Debug().Err(err).Msg("websocket upgrade failed")
		return nil
	}

	h.hub.Register(conn)
	return nil
}
