package websocket

import (
	"github.com/gorilla/websocket"
	"github.com/jadwalin/realtime-gateway/internal/pkg/logger"
	"github.com/jadwalin/realtime-gateway/internal/pkg/models"
	pkgws "github.com/jadwalin/realtime-gateway/internal/pkg/websocket"
	"github.com/jadwalin/realtime-gateway/services/gateway/hub"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
)

// GatewayHandler runs the per-connection protocol loop against the hub.
type GatewayHandler struct {
	hub     *hub.Hub
	manager *pkgws.Manager
	clock   clockwork.Clock
}

// NewGatewayHandler creates the WebSocket handler for the gateway.
func NewGatewayHandler(h *hub.Hub, manager *pkgws.Manager) *GatewayHandler {
	return &GatewayHandler{
		hub:     h,
		manager: manager,
		clock:   clockwork.NewRealClock(),
	}
}

// HandleWebSocket handles new WebSocket connections.
func (g *GatewayHandler) HandleWebSocket(c echo.Context) error {
	return g.manager.HandleConnection(c, g.handleClient)
}

// handleClient registers the authenticated connection and runs its
// message loop until the transport closes.
func (g *GatewayHandler) handleClient(auth models.AuthContext, ws *websocket.Conn) error {
	conn := g.hub.Register(auth, ws)
	defer g.hub.Close(conn.ID)

	if err := g.sendConnected(conn); err != nil {
		return err
	}

	return g.messageLoop(conn, ws)
}

// messageLoop processes inbound frames in receipt order. Rate limiting
// applies to every inbound frame; a limited frame is rejected without
// performing its action but the connection stays open.
func (g *GatewayHandler) messageLoop(conn *hub.Connection, ws *websocket.Conn) error {
	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket read failed",
					logger.Uint64("connection_id", conn.ID),
					logger.Err(err))
			}
			return nil
		}

		g.hub.Touch(conn)

		if err := g.handleMessage(conn, msg); err != nil {
			logger.Warn("failed to answer client frame",
				logger.Uint64("connection_id", conn.ID),
				logger.Err(err))
			return nil
		}
	}
}
