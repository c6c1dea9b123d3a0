package hub

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jadwalin/realtime-gateway/internal/pkg/constants"
	"github.com/jadwalin/realtime-gateway/internal/pkg/logger"
	"github.com/jadwalin/realtime-gateway/internal/pkg/models"
	"github.com/jonboulle/clockwork"
)

// PresenceStore marks users online/offline in an external store so the
// booking backend can check presence without calling the control plane.
// Implementations must tolerate being called for anonymous connections.
type PresenceStore interface {
	MarkOnline(ctx context.Context, role string, userID int64) error
	MarkOffline(ctx context.Context, role string, userID int64) error
	// Refresh extends the liveness of an online marker without
	// changing its connection count.
	Refresh(ctx context.Context, role string, userID int64) error
}

// Hub owns every live connection and the room directory. It is the only
// shared mutable state in the process; all membership mutation and
// iteration happens under mu. Lock order: Hub.mu before Connection.mu.
type Hub struct {
	mu     sync.RWMutex
	conns  map[uint64]*Connection
	rooms  map[string]map[uint64]*Connection
	nextID uint64

	clock    clockwork.Clock
	limit    int
	presence PresenceStore

	startedAt        time.Time
	totalConnections atomic.Uint64
	totalMessages    atomic.Uint64
	totalBroadcasts  atomic.Uint64
}

// Option configures a Hub.
type Option func(*Hub)

// WithClock substitutes the wall clock, for tests.
func WithClock(clock clockwork.Clock) Option {
	return func(h *Hub) { h.clock = clock }
}

// WithPresence attaches an external presence store.
func WithPresence(p PresenceStore) Option {
	return func(h *Hub) { h.presence = p }
}

// New creates a Hub. messagesPerMinute is the per-connection inbound
// rate ceiling.
func New(messagesPerMinute int, opts ...Option) *Hub {
	h := &Hub{
		conns: make(map[uint64]*Connection),
		rooms: make(map[string]map[uint64]*Connection),
		clock: clockwork.NewRealClock(),
		limit: messagesPerMinute,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.startedAt = h.clock.Now()
	return h
}

// Register adds an authenticated connection, assigns it an id that is
// never reused while the process runs, and auto-subscribes it to the
// rooms implied by its role. The caller has already run verification;
// rejected connections never reach the hub.
func (h *Hub) Register(auth models.AuthContext, transport Transport) *Connection {
	now := h.clock.Now()

	h.mu.Lock()
	h.nextID++
	conn := &Connection{
		ID:           h.nextID,
		Auth:         auth,
		CreatedAt:    now,
		transport:    transport,
		lastActivity: now,
		rooms:        make(map[string]struct{}),
	}
	h.conns[conn.ID] = conn
	for _, room := range impliedRooms(auth) {
		h.joinLocked(conn, room)
	}
	h.mu.Unlock()

	h.totalConnections.Add(1)
	h.markPresence(conn, true)

	logger.Info("connection registered",
		logger.Uint64("connection_id", conn.ID),
		logger.Int64("user_id", auth.UserID),
		logger.String("role", auth.Role))

	return conn
}

// Close removes a connection from every room, garbage-collects empty
// rooms, and closes the transport. Idempotent and safe to call
// concurrently from the protocol handler and any error path.
func (h *Hub) Close(id uint64) {
	h.mu.Lock()
	conn, ok := h.conns[id]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(h.conns, id)

	conn.mu.Lock()
	conn.closed = true
	memberOf := make([]string, 0, len(conn.rooms))
	for room := range conn.rooms {
		memberOf = append(memberOf, room)
	}
	conn.mu.Unlock()

	for _, room := range memberOf {
		h.leaveLocked(conn, room)
	}
	h.mu.Unlock()

	_ = conn.transport.Close()
	h.markPresence(conn, false)

	logger.Info("connection closed", logger.Uint64("connection_id", id))
}

// Touch updates the connection's last-activity timestamp.
func (h *Hub) Touch(conn *Connection) {
	conn.mu.Lock()
	conn.lastActivity = h.clock.Now()
	conn.mu.Unlock()
	h.totalMessages.Add(1)
}

// Get returns a live connection by id.
func (h *Hub) Get(id uint64) (*Connection, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	conn, ok := h.conns[id]
	return conn, ok
}

// impliedRooms lists the auto-subscriptions for a role. Anonymous
// connections (insecure mode) get none.
func impliedRooms(auth models.AuthContext) []string {
	switch auth.Role {
	case constants.RoleAdmin:
		return []string{constants.RoomAdmin, constants.RoomCalendar}
	case constants.RoleProvider, constants.RoleSecretary:
		return []string{PersonalRoom(auth.Role, auth.UserID), constants.RoomCalendar}
	case constants.RoleCustomer:
		return []string{PersonalRoom(auth.Role, auth.UserID)}
	}
	return nil
}

// markPresence reports online/offline transitions to the presence
// store, best effort.
func (h *Hub) markPresence(conn *Connection, online bool) {
	if h.presence == nil || conn.Auth.Anonymous {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var err error
	if online {
		err = h.presence.MarkOnline(ctx, conn.Auth.Role, conn.Auth.UserID)
	} else {
		err = h.presence.MarkOffline(ctx, conn.Auth.Role, conn.Auth.UserID)
	}
	if err != nil {
		logger.Warn("presence update failed",
			logger.Uint64("connection_id", conn.ID),
			logger.Bool("online", online),
			logger.Err(err))
	}
}

// RefreshPresence re-announces every online user. Run periodically so
// presence keys outlive their TTL while the user stays connected.
func (h *Hub) RefreshPresence(ctx context.Context) {
	if h.presence == nil {
		return
	}

	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if c.Auth.Anonymous {
			continue
		}
		if err := h.presence.Refresh(ctx, c.Auth.Role, c.Auth.UserID); err != nil {
			logger.Warn("presence refresh failed",
				logger.Uint64("connection_id", c.ID),
				logger.Err(err))
		}
	}
}

// CloseAll closes every live connection, used during shutdown.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	ids := make([]uint64, 0, len(h.conns))
	for id := range h.conns {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	for _, id := range ids {
		h.Close(id)
	}
}
