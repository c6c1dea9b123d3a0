package hub

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitCeilingWithinOneMinute(t *testing.T) {
	// Pin the clock to the start of a minute so the window cannot roll
	// mid-test.
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC))
	h := New(50, WithClock(clock))
	conn := h.Register(authFor("customer", 1), &fakeTransport{})

	for i := 0; i < 50; i++ {
		require.True(t, h.Allow(conn), "message %d should pass", i+1)
	}
	assert.False(t, h.Allow(conn), "51st message within the minute must be rejected")
	assert.False(t, h.Allow(conn))
}

func TestRateLimitResetsOnMinuteBoundary(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 9, 10, 0, 30, 0, time.UTC))
	h := New(50, WithClock(clock))
	conn := h.Register(authFor("customer", 1), &fakeTransport{})

	for i := 0; i < 50; i++ {
		require.True(t, h.Allow(conn))
	}
	require.False(t, h.Allow(conn))

	// Crossing into the next wall-clock minute clears the counter even
	// though less than a full minute has elapsed. That boundary
	// behavior is part of the limiter's contract.
	clock.Advance(30 * time.Second)
	assert.True(t, h.Allow(conn))
}

func TestRateLimitTracksConnectionsIndependently(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC))
	h := New(1, WithClock(clock))
	a := h.Register(authFor("customer", 1), &fakeTransport{})
	b := h.Register(authFor("customer", 2), &fakeTransport{})

	require.True(t, h.Allow(a))
	require.False(t, h.Allow(a))
	assert.True(t, h.Allow(b), "b has its own window")
}
