// AngelaMos | 2026
// logging_test.go

package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ploteasy/ploteasy-api/internal/config"
)

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "joh***@example.com", MaskEmail("john.doe@example.com"))
	assert.Equal(t, "al***@example.com", MaskEmail("al@example.com"))
	assert.Equal(t, "***", MaskEmail("nope"))
	assert.Empty(t, MaskEmail(""))
}

func TestMaskIP(t *testing.T) {
	assert.Equal(t, "192.168.*.*", MaskIP("192.168.1.100"))
	assert.Equal(t, "2001:0db8:85a3:0000:*:*:*:*", MaskIP("2001:0db8:85a3:0000:0000:8a2e:0370:7334"))
	assert.Equal(t, "***", MaskIP("localhost"))
}

func TestLoggerFromContext(t *testing.T) {
	l := zaptest.NewLogger(t)
	ctx := ContextWithLogger(context.Background(), l)

	assert.Same(t, l, LoggerFromContext(ctx))
	assert.NotNil(t, LoggerFromContext(context.Background()))
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger(config.LogConfig{Level: "debug", Format: "console"}, "development")
	require.NoError(t, err)
	assert.NotNil(t, l)

	_, err = NewLogger(config.LogConfig{Level: "loud"}, "production")
	assert.Error(t, err)
}
