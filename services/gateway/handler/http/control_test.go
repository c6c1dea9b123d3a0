package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jadwalin/realtime-gateway/services/gateway/hub"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBroadcaster records broadcast calls.
type fakeBroadcaster struct {
	calls []broadcastCall
	stats hub.Stats
}

type broadcastCall struct {
	event string
	data  string
	rooms []string
}

func (f *fakeBroadcaster) Broadcast(event string, data json.RawMessage, rooms []string) int {
	f.calls = append(f.calls, broadcastCall{event: event, data: string(data), rooms: rooms})
	return 3
}

func (f *fakeBroadcaster) Stats() hub.Stats { return f.stats }

func postBroadcast(t *testing.T, handler *ControlHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/broadcast", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, handler.HandleBroadcast(e.NewContext(req, rec)))
	return rec
}

func TestHandleBroadcastSuccess(t *testing.T) {
	fake := &fakeBroadcaster{}
	handler := NewControlHandler(fake, "realtime-gateway", "test")

	rec := postBroadcast(t, handler, `{"event":"appointment_created","data":{"id":10},"rooms":["calendar"]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"recipients":3}`, rec.Body.String())

	require.Len(t, fake.calls, 1)
	assert.Equal(t, "appointment_created", fake.calls[0].event)
	assert.JSONEq(t, `{"id":10}`, fake.calls[0].data)
	assert.Equal(t, []string{"calendar"}, fake.calls[0].rooms)
}

func TestHandleBroadcastGlobalWhenRoomsOmitted(t *testing.T) {
	fake := &fakeBroadcaster{}
	handler := NewControlHandler(fake, "realtime-gateway", "test")

	rec := postBroadcast(t, handler, `{"event":"maintenance","data":"soon"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, fake.calls, 1)
	assert.Empty(t, fake.calls[0].rooms)
}

func TestHandleBroadcastMalformedJSON(t *testing.T) {
	fake := &fakeBroadcaster{}
	handler := NewControlHandler(fake, "realtime-gateway", "test")

	rec := postBroadcast(t, handler, `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, fake.calls, "malformed request must have no side effects")
}

func TestHandleBroadcastMissingEvent(t *testing.T) {
	fake := &fakeBroadcaster{}
	handler := NewControlHandler(fake, "realtime-gateway", "test")

	rec := postBroadcast(t, handler, `{"data":{"id":10}}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "event is required")
	assert.Empty(t, fake.calls)
}

func TestHandleBroadcastMissingData(t *testing.T) {
	fake := &fakeBroadcaster{}
	handler := NewControlHandler(fake, "realtime-gateway", "test")

	rec := postBroadcast(t, handler, `{"event":"appointment_created"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "data is required")
	assert.Empty(t, fake.calls)
}

func TestHandleHealth(t *testing.T) {
	fake := &fakeBroadcaster{stats: hub.Stats{
		ActiveConnections: 2,
		ActiveRooms:       1,
		Rooms:             map[string]int{"calendar": 2},
		TotalConnections:  5,
	}}
	handler := NewControlHandler(fake, "realtime-gateway", "test")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, handler.HandleHealth(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, 2, resp.Stats.ActiveConnections)
	assert.Equal(t, map[string]int{"calendar": 2}, resp.Stats.Rooms)
}

func TestHealthWithLiveHub(t *testing.T) {
	h := hub.New(50)
	handler := NewControlHandler(h, "realtime-gateway", "test")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, handler.HandleHealth(e.NewContext(req, rec)))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Zero(t, resp.Stats.ActiveConnections)
	assert.NotEmpty(t, resp.Stats.StartedAt)
}
