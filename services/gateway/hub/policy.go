package hub

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/jadwalin/realtime-gateway/internal/pkg/constants"
	"github.com/jadwalin/realtime-gateway/internal/pkg/models"
)

// personalRoomPattern matches "{role}_{user_id}" rooms.
var personalRoomPattern = regexp.MustCompile(`^(provider|secretary|customer)_(\d+)$`)

// PersonalRoom builds the personal room name for a role and user id.
func PersonalRoom(role string, userID int64) string {
	return fmt.Sprintf("%s_%d", role, userID)
}

// Authorized decides whether an identity may join a room. The room
// namespace is a closed world: anything that is not a personal room or
// one of the shared rooms is denied. Admins pass every check.
func Authorized(auth models.AuthContext, room string) bool {
	if auth.Anonymous {
		return false
	}
	if auth.Role == constants.RoleAdmin {
		return true
	}

	if m := personalRoomPattern.FindStringSubmatch(room); m != nil {
		id, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return false
		}
		return auth.Role == m[1] && auth.UserID == id
	}

	switch room {
	case constants.RoomCalendar:
		return auth.Role == constants.RoleProvider || auth.Role == constants.RoleSecretary
	case constants.RoomAdmin:
		return false
	}

	return false
}
