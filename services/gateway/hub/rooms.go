package hub

// Subscribe status values.
type SubscribeStatus int

const (
	SubscribeOK SubscribeStatus = iota
	SubscribeDenied
	SubscribeInvalidRoom
)

// Subscribe adds the connection to a room after the authorization
// policy clears it. Rooms are created lazily on first subscribe.
// Subscribing twice is a no-op success.
func (h *Hub) Subscribe(conn *Connection, room string) SubscribeStatus {
	if room == "" {
		return SubscribeInvalidRoom
	}
	if !Authorized(conn.Auth, room) {
		return SubscribeDenied
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	conn.mu.Lock()
	closed := conn.closed
	conn.mu.Unlock()
	if closed {
		return SubscribeDenied
	}

	h.joinLocked(conn, room)
	return SubscribeOK
}

// Unsubscribe removes the connection from a room. Leaving a room the
// connection is not in is a no-op success; idempotence keeps client
// retry logic trivial.
func (h *Hub) Unsubscribe(conn *Connection, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(conn, room)
}

// joinLocked updates both membership indices. Callers hold h.mu.
func (h *Hub) joinLocked(conn *Connection, room string) {
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[uint64]*Connection)
		h.rooms[room] = members
	}
	members[conn.ID] = conn

	conn.mu.Lock()
	conn.rooms[room] = struct{}{}
	conn.mu.Unlock()
}

// leaveLocked updates both membership indices and garbage-collects the
// room the moment it empties. Callers hold h.mu.
func (h *Hub) leaveLocked(conn *Connection, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, conn.ID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}

	conn.mu.Lock()
	delete(conn.rooms, room)
	conn.mu.Unlock()
}

// RoomMembers returns the member count of a room; zero when the room
// does not exist.
func (h *Hub) RoomMembers(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
