package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{" error ", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestComponentLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := Wrap(zap.New(core))

	log.Info("ledger", "projected %d notes", 3)
	log.Warn("", "plain message")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "projected 3 notes", entries[0].Message)
	assert.Equal(t, "ledger", entries[0].LoggerName)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)

	assert.Equal(t, "plain message", entries[1].Message)
	assert.Empty(t, entries[1].LoggerName)
}

func TestSetLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output = "stderr"
	log, err := New(cfg)
	require.NoError(t, err)

	assert.False(t, log.Zap().Core().Enabled(zap.DebugLevel))

	log.SetLogLevel(LevelDebug)
	assert.True(t, log.Zap().Core().Enabled(zap.DebugLevel))

	log.SetLogLevel(LevelError)
	assert.False(t, log.Zap().Core().Enabled(zap.WarnLevel))
}

func TestNewInvalidOutput(t *testing.T) {
	_, err := New(Config{Output: t.TempDir()})
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	log := NewNop()
	log.Debug("x", "ignored %s", "value")
	log.Error("x", "ignored")
}
