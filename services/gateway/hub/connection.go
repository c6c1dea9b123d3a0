package hub

import (
	"sync"
	"time"

	"github.com/jadwalin/realtime-gateway/internal/pkg/models"
)

// writeTimeout bounds a single frame write so one dead peer cannot
// stall a broadcast loop.
const writeTimeout = 5 * time.Second

// Transport is the subset of a websocket connection the hub writes to.
// *websocket.Conn satisfies it; tests substitute fakes.
type Transport interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// rateState tracks the fixed-window message counter for a connection.
type rateState struct {
	windowMinute int64
	count        int
}

// Connection is one live client session. It is owned by the Hub; the
// protocol handler borrows it to write frames. Writes are serialized
// through writeMu because gorilla/websocket allows one concurrent
// writer only.
type Connection struct {
	ID        uint64
	Auth      models.AuthContext
	CreatedAt time.Time

	transport Transport

	writeMu sync.Mutex

	mu           sync.Mutex
	lastActivity time.Time
	rooms        map[string]struct{}
	rate         rateState
	closed       bool
}

// WriteJSON writes a frame to the peer with a write deadline.
func (c *Connection) WriteJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.transport.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.transport.WriteJSON(v)
}

// Rooms returns a snapshot of the connection's subscribed room names,
// in no particular order.
func (c *Connection) Rooms() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.rooms))
	for name := range c.rooms {
		names = append(names, name)
	}
	return names
}

// LastActivity returns the time of the last inbound frame.
func (c *Connection) LastActivity() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActivity
}
