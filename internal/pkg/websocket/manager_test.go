package websocket

import (
	"testing"

	"github.com/jadwalin/realtime-gateway/internal/pkg/constants"
	"github.com/jadwalin/realtime-gateway/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
)

func TestAuthErrorCode(t *testing.T) {
	assert.Equal(t, constants.ErrorAuthRequired, AuthErrorCode(jwt.ErrTokenRequired))
	assert.Equal(t, constants.ErrorTokenExpired, AuthErrorCode(jwt.ErrTokenExpired))
	assert.Equal(t, constants.ErrorAuthFailed, AuthErrorCode(jwt.ErrTokenInvalid))
	assert.Equal(t, constants.ErrorAuthFailed, AuthErrorCode(assert.AnError))
}
