package http

import (
	"encoding/json"
	"net/http"

	"github.com/jadwalin/realtime-gateway/internal/pkg/logger"
	"github.com/jadwalin/realtime-gateway/internal/pkg/models"
	"github.com/jadwalin/realtime-gateway/internal/utils"
	"github.com/jadwalin/realtime-gateway/services/gateway/hub"
	"github.com/labstack/echo/v4"
)

// Broadcaster is what the control plane needs from the hub.
type Broadcaster interface {
	Broadcast(event string, data json.RawMessage, rooms []string) int
	Stats() hub.Stats
}

// ControlHandler exposes the loopback-only control plane to the
// booking backend and the notification worker. Those processes never
// hold a connection reference; all fan-out goes through here (or the
// NATS subject), which keeps the request-handling backend and the
// long-lived socket process independently restartable.
type ControlHandler struct {
	broadcaster Broadcaster
	serviceName string
	version     string
}

// NewControlHandler creates the control-plane handler. The hub is the
// production Broadcaster.
func NewControlHandler(broadcaster Broadcaster, serviceName, version string) *ControlHandler {
	return &ControlHandler{
		broadcaster: broadcaster,
		serviceName: serviceName,
		version:     version,
	}
}

// BroadcastResponse is the /broadcast reply body.
type BroadcastResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Recipients int    `json:"recipients"`
}

// HealthResponse is the /health reply body.
type HealthResponse struct {
	Status  string    `json:"status"`
	Service string    `json:"service"`
	Version string    `json:"version"`
	Stats   hub.Stats `json:"stats"`
}

// HandleBroadcast validates a broadcast request and fans it out.
// Malformed JSON or missing fields reply 400 without side effects.
func (h *ControlHandler) HandleBroadcast(c echo.Context) error {
	var req models.BroadcastRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, BroadcastResponse{
			Success: false,
			Message: "Request body must be valid JSON",
		})
	}

	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, BroadcastResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	recipients := h.broadcaster.Broadcast(req.Event, req.Data, req.Rooms)

	logger.Info("control-plane broadcast",
		logger.String("event", req.Event),
		logger.Strings("rooms", req.Rooms),
		logger.Int("recipients", recipients))

	return c.JSON(http.StatusOK, BroadcastResponse{
		Success:    true,
		Recipients: recipients,
	})
}

// HandleHealth reports a snapshot of the gateway's state.
func (h *ControlHandler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: h.serviceName,
		Version: h.version,
		Stats:   h.broadcaster.Stats(),
	})
}

// HandleNotFound answers every unrecognized control-plane path.
func (h *ControlHandler) HandleNotFound(c echo.Context) error {
	return utils.NotFoundResponse(c, "")
}
