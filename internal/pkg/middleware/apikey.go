package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/jadwalin/realtime-gateway/internal/utils"
	"github.com/labstack/echo/v4"
)

const APIKeyHeader = "X-API-Key"

// ValidateAPIKey guards control-plane routes with a shared key. The
// control listener already binds to loopback; the key is a second layer
// for hosts where other processes share the loopback interface. An
// empty configured key disables the check.
func ValidateAPIKey(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if key == "" {
				return next(c)
			}

			presented := c.Request().Header.Get(APIKeyHeader)
			if presented == "" {
				return utils.UnauthorizedResponse(c, "API key is required")
			}

			if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
				return utils.ErrorResponseHandler(c, http.StatusUnauthorized, "Invalid API key")
			}

			return next(c)
		}
	}
}
