package logger

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf)
	defer SetOutput(os.Stderr)

	log := Logger("test")
	log.Info("test message", "key", "value")

	output := buf.String()
	assert.Contains(t, output, "test message")
	assert.Contains(t, output, "key=value")
	assert.Contains(t, output, "subsystem=test")
}

func TestSetOutput_ExistingLogger(t *testing.T) {
	log := Logger("test2")

	// logger 在切换输出之前创建
	buf := &bytes.Buffer{}
	SetOutput(buf)
	defer SetOutput(os.Stderr)

	log.Info("after switch", "key", "value")

	output := buf.String()
	assert.Contains(t, output, "after switch")
	assert.Contains(t, output, "key=value")
}

func TestSetLevel_AppliesToDerivedLoggers(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf)
	defer SetOutput(os.Stderr)

	derived := With("test3", "run", "abc")
	SetLevel("test3", slog.LevelError)

	derived.Warn("suppressed")
	assert.NotContains(t, buf.String(), "suppressed")

	SetLevel("test3", slog.LevelDebug)
	derived.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
	assert.Contains(t, buf.String(), "run=abc")
	assert.Contains(t, buf.String(), "level=debug")
}

func TestParseConfig(t *testing.T) {
	t.Run("默认配置", func(t *testing.T) {
		cfg := parseConfig("", "", "")
		assert.Equal(t, slog.LevelInfo, cfg.DefaultLevel)
		assert.Equal(t, FormatText, cfg.Format)
		assert.False(t, cfg.AddSource)
	})

	t.Run("子系统级别", func(t *testing.T) {
		cfg := parseConfig("globaladdr=debug, localaddr=warn ,error", "json", "1")
		assert.Equal(t, slog.LevelError, cfg.DefaultLevel)
		assert.Equal(t, slog.LevelDebug, cfg.LevelForSubsystem("globaladdr"))
		assert.Equal(t, slog.LevelWarn, cfg.LevelForSubsystem("localaddr"))
		assert.Equal(t, slog.LevelError, cfg.LevelForSubsystem("publicaddr"))
		assert.Equal(t, FormatJSON, cfg.Format)
		assert.True(t, cfg.AddSource)
	})

	t.Run("无效级别被忽略", func(t *testing.T) {
		cfg := parseConfig("globaladdr=loud,verbose", "", "false")
		assert.Equal(t, slog.LevelInfo, cfg.DefaultLevel)
		assert.Empty(t, cfg.SubsystemLevels)
		assert.False(t, cfg.AddSource)
	})
}

func TestDiscard(t *testing.T) {
	log := Discard()
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
}
