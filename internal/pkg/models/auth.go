package models

import "time"

// AuthContext is the authenticated identity bound to a connection for
// its lifetime. Anonymous is true only in insecure development mode
// (empty signing secret); anonymous connections carry no user id or
// role and can never pass a room authorization check.
type AuthContext struct {
	UserID          int64
	Email           string
	Role            string
	Anonymous       bool
	AuthenticatedAt time.Time
}
