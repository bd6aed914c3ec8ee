package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
)

type contextKey int

const (
	commandIDKey contextKey = iota
)

// GenerateCommandID creates a new id that tags every log line of one
// CLI invocation. Format: 16 character hex string (8 random bytes).
func GenerateCommandID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "00000000"
	}
	return hex.EncodeToString(b)
}

// WithCommandID returns a new context with the given command id.
func WithCommandID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, commandIDKey, id)
}

// NewCommandContext creates a context carrying a generated command id.
func NewCommandContext(parent context.Context) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	return WithCommandID(parent, GenerateCommandID())
}

// CommandIDFromContext extracts the command id from the context.
// Returns empty string if none is set.
func CommandIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(commandIDKey).(string); ok {
		return id
	}
	return ""
}

// LoggerFromContext returns a logger tagged with the command id from ctx.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := Logger()
	if id := CommandIDFromContext(ctx); id != "" {
		logger = logger.With(KeyCommandID, id)
	}
	return logger
}
