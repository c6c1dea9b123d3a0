package hub

// Allow applies the per-connection fixed-window rate limit: the counter
// resets whenever the wall-clock minute changes, so bursts straddling a
// boundary can momentarily reach twice the nominal rate. The limiter
// never closes the connection; a limited client resumes when the
// window rolls.
func (h *Hub) Allow(conn *Connection) bool {
	minute := h.clock.Now().Unix() / 60

	conn.mu.Lock()
	defer conn.mu.Unlock()

	if conn.rate.windowMinute != minute {
		conn.rate.windowMinute = minute
		conn.rate.count = 0
	}

	conn.rate.count++
	return conn.rate.count <= h.limit
}
