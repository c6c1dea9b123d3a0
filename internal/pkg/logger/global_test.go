package logger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jadwalin/realtime-gateway/internal/pkg/models"
)

func TestGetGlobalLoggerLazyInitIsConcurrencySafe(t *testing.T) {
	SetGlobalLogger(nil)

	got := make([]*ZapLogger, 16)
	var wg sync.WaitGroup
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = GetGlobalLogger()
		}(i)
	}
	wg.Wait()

	require.NotNil(t, got[0])
	for _, l := range got {
		assert.Same(t, got[0], l)
	}
}

func TestSetGlobalLoggerWins(t *testing.T) {
	zl, err := NewZapLogger(models.LoggerConfig{Level: "error"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = zl.Close() })

	SetGlobalLogger(zl)
	assert.Same(t, zl, GetGlobalLogger())
}
