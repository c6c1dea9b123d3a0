package websocket

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jadwalin/realtime-gateway/internal/pkg/constants"
	"github.com/jadwalin/realtime-gateway/internal/pkg/jwt"
	"github.com/jadwalin/realtime-gateway/internal/pkg/logger"
	"github.com/jadwalin/realtime-gateway/internal/pkg/models"
	"github.com/labstack/echo/v4"
)

// Manager upgrades HTTP requests to WebSocket connections and runs
// token verification before handing the connection to the caller.
type Manager struct {
	verifier *jwt.Verifier
	upgrader websocket.Upgrader
}

// NewManager creates a new WebSocket manager.
func NewManager(verifier *jwt.Verifier) *Manager {
	return &Manager{
		verifier: verifier,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleConnection upgrades the request and authenticates the client.
// The token travels as a query parameter because browser WebSocket
// clients cannot set request headers. Authentication failures are
// reported to the peer as one typed error frame before the transport
// closes; a rejected connection never reaches the registration path.
func (m *Manager) HandleConnection(c echo.Context, handleClient func(auth models.AuthContext, ws *websocket.Conn) error) error {
	ws, err := m.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	auth, err := m.verifier.Verify(c.QueryParam("token"), time.Now())
	if err != nil {
		logger.Warn("connection rejected",
			logger.String("remote", c.RealIP()),
			logger.Err(err))
		m.sendError(ws, AuthErrorCode(err), err.Error())
		return nil
	}

	return handleClient(*auth, ws)
}

// AuthErrorCode maps a verification error onto its wire error code.
func AuthErrorCode(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenRequired):
		return constants.ErrorAuthRequired
	case errors.Is(err, jwt.ErrTokenExpired):
		return constants.ErrorTokenExpired
	default:
		return constants.ErrorAuthFailed
	}
}

// sendError writes an error frame directly to a raw transport, used
// only before a connection is registered.
func (m *Manager) sendError(ws *websocket.Conn, code, message string) {
	_ = ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
	_ = ws.WriteJSON(models.ErrorMessage{
		Type:    constants.TypeError,
		Code:    code,
		Message: message,
	})
}
