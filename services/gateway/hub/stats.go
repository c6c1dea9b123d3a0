package hub

import "time"

// Stats is the health snapshot exposed on the control plane.
type Stats struct {
	ActiveConnections int            `json:"active_connections"`
	ActiveRooms       int            `json:"active_rooms"`
	Rooms             map[string]int `json:"rooms"`
	TotalConnections  uint64         `json:"total_connections"`
	TotalMessages     uint64         `json:"total_messages"`
	TotalBroadcasts   uint64         `json:"total_broadcasts"`
	StartedAt         string         `json:"started_at"`
	UptimeSeconds     float64        `json:"uptime_seconds"`
}

// Stats returns a point-in-time snapshot of the hub.
func (h *Hub) Stats() Stats {
	h.mu.RLock()
	rooms := make(map[string]int, len(h.rooms))
	for name, members := range h.rooms {
		rooms[name] = len(members)
	}
	active := len(h.conns)
	h.mu.RUnlock()

	now := h.clock.Now()
	return Stats{
		ActiveConnections: active,
		ActiveRooms:       len(rooms),
		Rooms:             rooms,
		TotalConnections:  h.totalConnections.Load(),
		TotalMessages:     h.totalMessages.Load(),
		TotalBroadcasts:   h.totalBroadcasts.Load(),
		StartedAt:         h.startedAt.UTC().Format(time.RFC3339),
		UptimeSeconds:     now.Sub(h.startedAt).Seconds(),
	}
}
