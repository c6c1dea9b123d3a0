package constants

import "time"

// Redis key formats
const (
	// Presence keys let the booking backend check whether a user is
	// currently connected without going through the control plane.
	KeyPresence = "gateway:presence:%s:%d" // Format: gateway:presence:{role}:{user_id}
)

// PresenceTTL bounds how stale a presence key can get if the gateway
// dies without cleaning up.
const PresenceTTL = 90 * time.Second
