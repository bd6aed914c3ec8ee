package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, slog.LevelWarn, cfg.Level)
	assert.False(t, cfg.JSON)
}

func TestDebugConfig(t *testing.T) {
	cfg := DebugConfig()
	assert.Equal(t, slog.LevelDebug, cfg.Level)
	assert.True(t, cfg.JSON)
	assert.True(t, cfg.AddSource)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"loud":    slog.LevelWarn,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in, slog.LevelWarn), in)
	}
}

func TestInit(t *testing.T) {
	t.Run("json_debug", func(t *testing.T) {
		var buf bytes.Buffer
		Init(Config{Level: slog.LevelDebug, JSON: true, Output: &buf})
		assert.True(t, Debug)
		DebugLog("hello", "k", "v")
		assert.Contains(t, buf.String(), `"msg":"hello"`)
	})

	t.Run("nil_output_uses_stderr", func(t *testing.T) {
		Init(Config{Level: slog.LevelInfo})
		assert.NotNil(t, Logger())
		assert.False(t, Debug)
	})
}

func TestLoggingFunctions(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: slog.LevelDebug, JSON: true, Output: &buf})

	t.Run("info", func(t *testing.T) {
		buf.Reset()
		Info("info message", KeyCount, 3)
		assert.Contains(t, buf.String(), "info message")
		assert.Contains(t, buf.String(), `"count":3`)
	})

	t.Run("warn_masks_token", func(t *testing.T) {
		buf.Reset()
		Warn("mirror push failed", "token", "ghp_supersecret")
		assert.Contains(t, buf.String(), "mirror push failed")
		assert.NotContains(t, buf.String(), "ghp_supersecret")
	})

	t.Run("error", func(t *testing.T) {
		buf.Reset()
		Error("error message")
		assert.Contains(t, buf.String(), "error message")
	})

	t.Run("log_operation", func(t *testing.T) {
		buf.Reset()
		LogOperation("sanitize", KeyCount, 2)
		assert.Contains(t, buf.String(), `"op":"sanitize"`)
	})
}

func TestContextLogging(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: slog.LevelDebug, JSON: true, Output: &buf})

	ctx := WithCommandID(context.Background(), "cmd-123")
	InfoContext(ctx, "loaded")
	assert.Contains(t, buf.String(), `"command_id":"cmd-123"`)

	buf.Reset()
	WarnContext(context.Background(), "no id")
	assert.NotContains(t, buf.String(), "command_id")
}

func TestCommandID(t *testing.T) {
	id1 := GenerateCommandID()
	id2 := GenerateCommandID()
	assert.Len(t, id1, 16)
	assert.NotEqual(t, id1, id2)

	ctx := NewCommandContext(nil)
	assert.Len(t, CommandIDFromContext(ctx), 16)
	assert.Empty(t, CommandIDFromContext(nil))
	assert.Empty(t, CommandIDFromContext(context.Background()))
}

func TestMasking(t *testing.T) {
	assert.Equal(t, "", MaskValue(""))
	assert.Equal(t, "***", MaskValue("abc"))
	assert.Equal(t, "********", MaskValue("a-very-long-secret"))
	assert.Equal(t, "ghp***", MaskPartial("ghp_abcdef", 3))
	assert.Equal(t, "**", MaskPartial("ab", 3))

	assert.True(t, IsSensitiveField("Token"))
	assert.True(t, IsSensitiveField("github_token"))
	assert.True(t, IsSensitiveField("key_hash"))
	assert.False(t, IsSensitiveField("entry_id"))
	assert.False(t, IsSensitiveField("path"))

	args := MaskArgs([]any{"path", "data/agenda.csv", "token", "abc123", "secret", 42})
	assert.Equal(t, "data/agenda.csv", args[1])
	assert.Equal(t, "******", args[3])
	assert.Equal(t, "********", args[5])

	m := MaskMap(map[string]any{
		"mirror": map[string]any{"token": "abcdef", "owner": "studio"},
		"access": map[string]any{"key": "open-sesame"},
		"debug":  true,
	})
	assert.Equal(t, "******", m["mirror"].(map[string]any)["token"])
	assert.Equal(t, "studio", m["mirror"].(map[string]any)["owner"])
	assert.Equal(t, "********", m["access"].(map[string]any)["key"])
	assert.Equal(t, true, m["debug"])
}
