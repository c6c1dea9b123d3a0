package websocket

import (
	"encoding/json"
	"time"

	"github.com/jadwalin/realtime-gateway/internal/pkg/constants"
	"github.com/jadwalin/realtime-gateway/internal/pkg/models"
	"github.com/jadwalin/realtime-gateway/services/gateway/hub"
)

// handleMessage translates one inbound frame into a hub action. Frames
// that are not valid JSON, or that lack an action, are rejected with
// INVALID_MESSAGE and no side effects. The returned error is a write
// error on the reply; protocol violations never tear the loop down.
func (g *GatewayHandler) handleMessage(conn *hub.Connection, msg []byte) error {
	if !g.hub.Allow(conn) {
		return g.sendError(conn, constants.ErrorRateLimited, "Message rate limit exceeded, retry next minute")
	}

	var req models.ClientMessage
	if err := json.Unmarshal(msg, &req); err != nil || req.Action == "" {
		return g.sendError(conn, constants.ErrorInvalidMessage, "Message must be JSON with an action field")
	}

	switch req.Action {
	case constants.ActionPing:
		return g.handlePing(conn)
	case constants.ActionSubscribe:
		return g.handleSubscribe(conn, req.Room)
	case constants.ActionUnsubscribe:
		return g.handleUnsubscribe(conn, req.Room)
	case constants.ActionListRooms:
		return g.handleListRooms(conn)
	default:
		return g.sendError(conn, constants.ErrorUnknownAction, "Unknown action: "+req.Action)
	}
}

func (g *GatewayHandler) handlePing(conn *hub.Connection) error {
	return conn.WriteJSON(models.PongMessage{
		Type:      constants.TypePong,
		Timestamp: g.clock.Now().UTC().Format(time.RFC3339),
	})
}

func (g *GatewayHandler) handleSubscribe(conn *hub.Connection, room string) error {
	switch g.hub.Subscribe(conn, room) {
	case hub.SubscribeOK:
		return conn.WriteJSON(models.RoomEventMessage{
			Type: constants.TypeSubscribed,
			Room: room,
		})
	case hub.SubscribeInvalidRoom:
		return g.sendError(conn, constants.ErrorInvalidRoom, "Room name is required")
	default:
		return g.sendError(conn, constants.ErrorAccessDenied, "Not allowed to join room: "+room)
	}
}

func (g *GatewayHandler) handleUnsubscribe(conn *hub.Connection, room string) error {
	if room == "" {
		return g.sendError(conn, constants.ErrorInvalidRoom, "Room name is required")
	}

	g.hub.Unsubscribe(conn, room)
	return conn.WriteJSON(models.RoomEventMessage{
		Type: constants.TypeUnsubscribed,
		Room: room,
	})
}

func (g *GatewayHandler) handleListRooms(conn *hub.Connection) error {
	return conn.WriteJSON(models.RoomsListMessage{
		Type:  constants.TypeRoomsList,
		Rooms: conn.Rooms(),
	})
}

func (g *GatewayHandler) sendConnected(conn *hub.Connection) error {
	return conn.WriteJSON(models.ConnectedMessage{
		Type:         constants.TypeConnected,
		ConnectionID: conn.ID,
	})
}

func (g *GatewayHandler) sendError(conn *hub.Connection, code, message string) error {
	return conn.WriteJSON(models.ErrorMessage{
		Type:    constants.TypeError,
		Code:    code,
		Message: message,
	})
}
