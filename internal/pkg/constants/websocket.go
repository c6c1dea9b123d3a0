package constants

// Client actions
const (
	ActionPing        = "ping"
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
	ActionListRooms   = "list_rooms"
)

// Server message types
const (
	TypeConnected    = "connected"
	TypePong         = "pong"
	TypeSubscribed   = "subscribed"
	TypeUnsubscribed = "unsubscribed"
	TypeRoomsList    = "rooms_list"
	TypeError        = "error"
)

// WebSocket error codes
const (
	ErrorAuthRequired   = "AUTH_REQUIRED"
	ErrorTokenExpired   = "TOKEN_EXPIRED"
	ErrorAuthFailed     = "AUTH_FAILED"
	ErrorRateLimited    = "RATE_LIMITED"
	ErrorInvalidMessage = "INVALID_MESSAGE"
	ErrorInvalidRoom    = "INVALID_ROOM"
	ErrorAccessDenied   = "ACCESS_DENIED"
	ErrorUnknownAction  = "UNKNOWN_ACTION"
)

// Shared room names
const (
	RoomCalendar = "calendar"
	RoomAdmin    = "admin"
)

// Roles carried in the auth token
const (
	RoleAdmin     = "admin"
	RoleProvider  = "provider"
	RoleSecretary = "secretary"
	RoleCustomer  = "customer"
)
