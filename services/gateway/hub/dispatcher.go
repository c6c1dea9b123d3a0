package hub

import (
	"encoding/json"

	"github.com/jadwalin/realtime-gateway/internal/pkg/logger"
	"github.com/jadwalin/realtime-gateway/internal/pkg/models"
)

// Broadcast fans an envelope out to the union of the named rooms, or to
// every connection when rooms is empty. Each connection receives the
// envelope exactly once even when it sits in several targeted rooms.
// Unknown room names deliver to nobody; broadcasting into a room with
// no members online is a normal event, not an error. Delivery is best
// effort: a failed write schedules that connection for close and the
// loop continues. Returns the number of successful deliveries.
func (h *Hub) Broadcast(event string, data json.RawMessage, rooms []string) int {
	envelope := models.NewBroadcastEnvelope(event, data, h.clock.Now())
	targets := h.collectTargets(rooms)

	delivered := 0
	var failed []uint64
	for _, conn := range targets {
		if err := conn.WriteJSON(envelope); err != nil {
			logger.Warn("broadcast write failed, scheduling close",
				logger.Uint64("connection_id", conn.ID),
				logger.String("event", event),
				logger.Err(err))
			failed = append(failed, conn.ID)
			continue
		}
		delivered++
	}

	// Dead connections are reaped outside the delivery loop so a close
	// never shrinks the set being iterated.
	for _, id := range failed {
		h.Close(id)
	}

	h.totalBroadcasts.Add(1)

	logger.Debug("broadcast delivered",
		logger.String("event", event),
		logger.Strings("rooms", rooms),
		logger.Int("recipients", delivered))

	return delivered
}

// collectTargets snapshots the recipient set under the read lock, so a
// concurrent subscribe or close cannot corrupt the iteration.
func (h *Hub) collectTargets(rooms []string) []*Connection {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(rooms) == 0 {
		all := make([]*Connection, 0, len(h.conns))
		for _, conn := range h.conns {
			all = append(all, conn)
		}
		return all
	}

	seen := make(map[uint64]struct{})
	targets := make([]*Connection, 0)
	for _, room := range rooms {
		for id, conn := range h.rooms[room] {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			targets = append(targets, conn)
		}
	}
	return targets
}
