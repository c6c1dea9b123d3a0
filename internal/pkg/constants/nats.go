package constants

// NATS Subjects
const (
	// Broadcast requests published by the booking backend and the
	// notification worker. Payload matches the control-plane body.
	// Subscribed without a queue group: every gateway instance must
	// fan out to its own set of connections.
	SubjectBroadcast = "gateway.broadcast"
)
