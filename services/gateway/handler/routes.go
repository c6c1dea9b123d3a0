package handler

import (
	nethttp "net/http"

	"github.com/labstack/echo/v4"

	"github.com/jadwalin/realtime-gateway/internal/pkg/middleware"
	"github.com/jadwalin/realtime-gateway/internal/pkg/models"
	"github.com/jadwalin/realtime-gateway/services/gateway/handler/http"
	"github.com/jadwalin/realtime-gateway/services/gateway/handler/websocket"
)

// Handler coordinates the protocol handlers for the gateway service
type Handler struct {
	gatewayHandler *websocket.GatewayHandler
	controlHandler *http.ControlHandler
	cfg            *models.Config
}

// NewHandler creates and initializes all handlers
func NewHandler(
	gatewayHandler *websocket.GatewayHandler,
	controlHandler *http.ControlHandler,
	cfg *models.Config,
) *Handler {
	return &Handler{
		gatewayHandler: gatewayHandler,
		controlHandler: controlHandler,
		cfg:            cfg,
	}
}

// RegisterPublicRoutes registers the client-facing WebSocket endpoint.
// Authentication happens after the upgrade so rejections can be
// delivered as WebSocket frames instead of opaque HTTP errors.
func (h *Handler) RegisterPublicRoutes(e *echo.Echo) {
	e.GET("/ws", h.gatewayHandler.HandleWebSocket)
}

// RegisterControlRoutes registers the loopback-only control plane.
// Anything other than the two known endpoints answers 404, including
// a known path hit with the wrong method.
func (h *Handler) RegisterControlRoutes(e *echo.Echo) {
	g := e.Group("", middleware.ValidateAPIKey(h.cfg.Server.ControlAPIKey))
	g.POST("/broadcast", h.controlHandler.HandleBroadcast)
	g.GET("/health", h.controlHandler.HandleHealth)

	e.RouteNotFound("/*", h.controlHandler.HandleNotFound)

	defaultHandler := e.HTTPErrorHandler
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if he, ok := err.(*echo.HTTPError); ok && he.Code == nethttp.StatusMethodNotAllowed {
			_ = h.controlHandler.HandleNotFound(c)
			return
		}
		defaultHandler(err, c)
	}
}
