package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitConfigDefaults(t *testing.T) {
	cfg := InitConfig("")

	assert.Equal(t, "realtime-gateway", cfg.App.Name)
	assert.Equal(t, 8077, cfg.Server.Port)
	assert.Equal(t, 8078, cfg.Server.ControlPort)
	assert.Equal(t, 50, cfg.RateLimit.MessagesPerMinute)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestControlPortFollowsPublicPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "9100")

	cfg := InitConfig("")

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 9101, cfg.Server.ControlPort)
}

func TestControlPortOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("CONTROL_PORT", "9555")

	cfg := InitConfig("")

	assert.Equal(t, 9555, cfg.Server.ControlPort)
}

func TestGetEnvAsIntInvalidFallsBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")

	cfg := InitConfig("")

	assert.Equal(t, 50, cfg.RateLimit.MessagesPerMinute)
}
