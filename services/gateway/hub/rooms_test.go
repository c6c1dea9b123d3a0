package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeUnsubscribeRoundTrip(t *testing.T) {
	h := New(50)
	admin := h.Register(authFor("admin", 1), &fakeTransport{})
	provider := h.Register(authFor("provider", 7), &fakeTransport{})

	before := h.RoomMembers("provider_7")

	require.Equal(t, SubscribeOK, h.Subscribe(admin, "provider_7"))
	require.Equal(t, before+1, h.RoomMembers("provider_7"))

	h.Unsubscribe(admin, "provider_7")
	assert.Equal(t, before, h.RoomMembers("provider_7"))
	assert.ElementsMatch(t, []string{"provider_7", "calendar"}, provider.Rooms())
}

func TestSubscribeEmptyRoomInvalid(t *testing.T) {
	h := New(50)
	conn := h.Register(authFor("admin", 1), &fakeTransport{})

	assert.Equal(t, SubscribeInvalidRoom, h.Subscribe(conn, ""))
}

func TestSubscribeDeniedLeavesNoTrace(t *testing.T) {
	h := New(50)
	conn := h.Register(authFor("customer", 42), &fakeTransport{})

	require.Equal(t, SubscribeDenied, h.Subscribe(conn, "customer_43"))
	assert.Equal(t, 0, h.RoomMembers("customer_43"))
	assert.ElementsMatch(t, []string{"customer_42"}, conn.Rooms())
}

func TestSubscribeTwiceIsNoop(t *testing.T) {
	h := New(50)
	conn := h.Register(authFor("provider", 7), &fakeTransport{})

	require.Equal(t, SubscribeOK, h.Subscribe(conn, "calendar"))
	assert.Equal(t, 1, h.RoomMembers("calendar"))
}

func TestUnsubscribeNonMemberIsNoop(t *testing.T) {
	h := New(50)
	conn := h.Register(authFor("customer", 5), &fakeTransport{})

	h.Unsubscribe(conn, "calendar")
	h.Unsubscribe(conn, "never_existed")
	assert.ElementsMatch(t, []string{"customer_5"}, conn.Rooms())
}

func TestNoOrphanRoomsAfterChurn(t *testing.T) {
	h := New(50)
	a := h.Register(authFor("admin", 1), &fakeTransport{})
	b := h.Register(authFor("provider", 2), &fakeTransport{})

	require.Equal(t, SubscribeOK, h.Subscribe(a, "provider_2"))
	h.Unsubscribe(b, "provider_2")
	h.Unsubscribe(a, "provider_2")
	h.Close(b.ID)
	h.Close(a.ID)

	stats := h.Stats()
	assert.Zero(t, stats.ActiveRooms, "every room must be garbage-collected once empty")
}

func TestSubscribeAfterCloseDenied(t *testing.T) {
	h := New(50)
	conn := h.Register(authFor("admin", 1), &fakeTransport{})
	h.Close(conn.ID)

	assert.Equal(t, SubscribeDenied, h.Subscribe(conn, "calendar"))
	assert.Equal(t, 0, h.RoomMembers("calendar"))
}
