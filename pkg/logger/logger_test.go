package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewZapLogger_Level(t *testing.T) {
	log, err := NewZapLogger(Config{Level: "warn", Encoding: "json"})
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestNewZapLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	log, err := NewZapLogger(Config{Level: "loud"})
	require.NoError(t, err)

	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNewZapLogger_Development(t *testing.T) {
	log, err := NewZapLogger(Config{Development: true, Level: "debug", Encoding: "console"})
	require.NoError(t, err)

	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}
