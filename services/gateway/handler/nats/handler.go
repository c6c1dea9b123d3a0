package nats

import (
	"encoding/json"
	"fmt"

	"github.com/jadwalin/realtime-gateway/internal/pkg/constants"
	"github.com/jadwalin/realtime-gateway/internal/pkg/logger"
	"github.com/jadwalin/realtime-gateway/internal/pkg/models"
	natspkg "github.com/jadwalin/realtime-gateway/internal/pkg/nats"
	"github.com/nats-io/nats.go"
)

// Broadcaster is what the NATS ingest needs from the hub.
type Broadcaster interface {
	Broadcast(event string, data json.RawMessage, rooms []string) int
}

// Handler consumes broadcast requests from the message bus. It is the
// fire-and-forget alternative to the HTTP control plane: producers
// publish to gateway.broadcast with the same payload they would POST.
type Handler struct {
	broadcaster Broadcaster
	natsClient  *natspkg.Client
	subs        []*nats.Subscription
}

// NewHandler creates a NATS handler and starts its consumers.
func NewHandler(broadcaster Broadcaster, natsClient *natspkg.Client) (*Handler, error) {
	h := &Handler{
		broadcaster: broadcaster,
		natsClient:  natsClient,
	}

	if err := h.initConsumers(); err != nil {
		return nil, fmt.Errorf("failed to initialize NATS consumers: %w", err)
	}

	return h, nil
}

// initConsumers initializes all NATS consumers
func (h *Handler) initConsumers() error {
	sub, err := h.natsClient.Subscribe(constants.SubjectBroadcast, func(msg *nats.Msg) {
		h.handleBroadcast(msg.Data)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", constants.SubjectBroadcast, err)
	}
	h.subs = append(h.subs, sub)

	return nil
}

// handleBroadcast validates a published broadcast request and fans it
// out. A malformed message is logged and dropped; the bus gives us no
// caller to answer.
func (h *Handler) handleBroadcast(data []byte) {
	var req models.BroadcastRequest
	if err := json.Unmarshal(data, &req); err != nil {
		logger.Warn("dropping malformed broadcast message",
			logger.String("subject", constants.SubjectBroadcast),
			logger.Err(err))
		return
	}

	if err := req.Validate(); err != nil {
		logger.Warn("dropping invalid broadcast message",
			logger.String("subject", constants.SubjectBroadcast),
			logger.Err(err))
		return
	}

	recipients := h.broadcaster.Broadcast(req.Event, req.Data, req.Rooms)

	logger.Debug("bus broadcast delivered",
		logger.String("event", req.Event),
		logger.Strings("rooms", req.Rooms),
		logger.Int("recipients", recipients))
}

// Close unsubscribes from all NATS subscriptions
func (h *Handler) Close() {
	for _, sub := range h.subs {
		_ = sub.Unsubscribe()
	}
}
