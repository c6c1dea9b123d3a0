package websocket

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/jadwalin/realtime-gateway/internal/pkg/constants"
	jwtpkg "github.com/jadwalin/realtime-gateway/internal/pkg/jwt"
	"github.com/jadwalin/realtime-gateway/internal/pkg/models"
	pkgws "github.com/jadwalin/realtime-gateway/internal/pkg/websocket"
	"github.com/jadwalin/realtime-gateway/services/gateway/hub"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport captures frames the handler writes.
type fakeTransport struct {
	mu     sync.Mutex
	frames []interface{}
}

func (f *fakeTransport) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, v)
	return nil
}

func (f *fakeTransport) SetWriteDeadline(time.Time) error { return nil }
func (f *fakeTransport) Close() error                     { return nil }

func (f *fakeTransport) lastFrame(t *testing.T) interface{} {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.frames)
	return f.frames[len(f.frames)-1]
}

func newTestHandler(t *testing.T) (*GatewayHandler, *hub.Hub) {
	t.Helper()
	h := hub.New(50)
	verifier := jwtpkg.NewVerifier(models.JWTConfig{Secret: "test-secret"})
	handler := NewGatewayHandler(h, pkgws.NewManager(verifier))
	handler.clock = clockwork.NewFakeClockAt(time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC))
	return handler, h
}

func register(h *hub.Hub, role string, userID int64) (*hub.Connection, *fakeTransport) {
	tr := &fakeTransport{}
	conn := h.Register(models.AuthContext{UserID: userID, Role: role}, tr)
	return conn, tr
}

func TestHandlePing(t *testing.T) {
	handler, h := newTestHandler(t)
	conn, tr := register(h, "customer", 5)

	require.NoError(t, handler.handleMessage(conn, []byte(`{"action":"ping"}`)))

	pong, ok := tr.lastFrame(t).(models.PongMessage)
	require.True(t, ok)
	assert.Equal(t, constants.TypePong, pong.Type)
	assert.Equal(t, "2026-03-09T10:00:00Z", pong.Timestamp)
}

func TestHandleInvalidJSON(t *testing.T) {
	handler, h := newTestHandler(t)
	conn, tr := register(h, "customer", 5)

	require.NoError(t, handler.handleMessage(conn, []byte(`{not json`)))

	errFrame, ok := tr.lastFrame(t).(models.ErrorMessage)
	require.True(t, ok)
	assert.Equal(t, constants.ErrorInvalidMessage, errFrame.Code)
}

func TestHandleMissingAction(t *testing.T) {
	handler, h := newTestHandler(t)
	conn, tr := register(h, "customer", 5)

	require.NoError(t, handler.handleMessage(conn, []byte(`{"room":"calendar"}`)))

	errFrame, ok := tr.lastFrame(t).(models.ErrorMessage)
	require.True(t, ok)
	assert.Equal(t, constants.ErrorInvalidMessage, errFrame.Code)
}

func TestHandleUnknownAction(t *testing.T) {
	handler, h := newTestHandler(t)
	conn, tr := register(h, "customer", 5)

	require.NoError(t, handler.handleMessage(conn, []byte(`{"action":"dance"}`)))

	errFrame, ok := tr.lastFrame(t).(models.ErrorMessage)
	require.True(t, ok)
	assert.Equal(t, constants.ErrorUnknownAction, errFrame.Code)
}

func TestHandleSubscribeAllowed(t *testing.T) {
	handler, h := newTestHandler(t)
	conn, tr := register(h, "customer", 42)

	require.NoError(t, handler.handleMessage(conn, []byte(`{"action":"subscribe","room":"customer_42"}`)))

	confirm, ok := tr.lastFrame(t).(models.RoomEventMessage)
	require.True(t, ok)
	assert.Equal(t, constants.TypeSubscribed, confirm.Type)
	assert.Equal(t, "customer_42", confirm.Room)
}

func TestHandleSubscribeDenied(t *testing.T) {
	handler, h := newTestHandler(t)
	conn, tr := register(h, "customer", 43)

	require.NoError(t, handler.handleMessage(conn, []byte(`{"action":"subscribe","room":"customer_42"}`)))

	errFrame, ok := tr.lastFrame(t).(models.ErrorMessage)
	require.True(t, ok)
	assert.Equal(t, constants.ErrorAccessDenied, errFrame.Code)
	assert.Equal(t, 0, h.RoomMembers("customer_42"))
}

func TestHandleSubscribeMissingRoom(t *testing.T) {
	handler, h := newTestHandler(t)
	conn, tr := register(h, "customer", 5)

	require.NoError(t, handler.handleMessage(conn, []byte(`{"action":"subscribe"}`)))

	errFrame, ok := tr.lastFrame(t).(models.ErrorMessage)
	require.True(t, ok)
	assert.Equal(t, constants.ErrorInvalidRoom, errFrame.Code)
}

func TestHandleUnsubscribe(t *testing.T) {
	handler, h := newTestHandler(t)
	conn, tr := register(h, "provider", 7)

	require.NoError(t, handler.handleMessage(conn, []byte(`{"action":"unsubscribe","room":"calendar"}`)))

	confirm, ok := tr.lastFrame(t).(models.RoomEventMessage)
	require.True(t, ok)
	assert.Equal(t, constants.TypeUnsubscribed, confirm.Type)
	assert.Equal(t, 0, h.RoomMembers("calendar"))

	// Unsubscribing again still succeeds.
	require.NoError(t, handler.handleMessage(conn, []byte(`{"action":"unsubscribe","room":"calendar"}`)))
	confirm, ok = tr.lastFrame(t).(models.RoomEventMessage)
	require.True(t, ok)
	assert.Equal(t, constants.TypeUnsubscribed, confirm.Type)
}

func TestHandleListRooms(t *testing.T) {
	handler, h := newTestHandler(t)
	conn, tr := register(h, "provider", 7)

	require.NoError(t, handler.handleMessage(conn, []byte(`{"action":"list_rooms"}`)))

	list, ok := tr.lastFrame(t).(models.RoomsListMessage)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"provider_7", "calendar"}, list.Rooms)

	raw, err := json.Marshal(list)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"rooms":[`)
}

func TestRateLimitedFrameRejectedWithoutAction(t *testing.T) {
	h := hub.New(1)
	verifier := jwtpkg.NewVerifier(models.JWTConfig{Secret: "test-secret"})
	handler := NewGatewayHandler(h, pkgws.NewManager(verifier))
	conn, tr := register(h, "customer", 42)

	require.NoError(t, handler.handleMessage(conn, []byte(`{"action":"subscribe","room":"customer_42"}`)))
	require.NoError(t, handler.handleMessage(conn, []byte(`{"action":"unsubscribe","room":"customer_42"}`)))

	errFrame, ok := tr.lastFrame(t).(models.ErrorMessage)
	require.True(t, ok)
	assert.Equal(t, constants.ErrorRateLimited, errFrame.Code)
	// The rejected unsubscribe must not have run.
	assert.Equal(t, 1, h.RoomMembers("customer_42"))
}

func TestSendConnected(t *testing.T) {
	handler, h := newTestHandler(t)
	conn, tr := register(h, "customer", 5)

	require.NoError(t, handler.sendConnected(conn))

	frame, ok := tr.lastFrame(t).(models.ConnectedMessage)
	require.True(t, ok)
	assert.Equal(t, constants.TypeConnected, frame.Type)
	assert.Equal(t, conn.ID, frame.ConnectionID)
}
