package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "cropdesk.log")

	require.NoError(t, Init(Config{Level: "debug", File: file}))
	require.NotNil(t, Logger)

	Info("hello", "k", "v")

	_, err := os.Stat(filepath.Dir(file))
	assert.NoError(t, err)
	assert.Equal(t, log.DebugLevel, Logger.GetLevel())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"WARN", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"", log.InfoLevel},
		{"nonsense", log.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestHelpersWithoutInit(t *testing.T) {
	prev := Logger
	Logger = nil
	t.Cleanup(func() { Logger = prev })

	assert.NotPanics(t, func() {
		Debug("d")
		Info("i")
		Warn("w")
		Error("e")
	})
}
