package helpers

import (
	"context"
	"log/slog"

	"github.com/GregMSThompson/viz-backend/pkg/logger"
)

// TestLogger returns a logger that discards its output.
func TestLogger() *slog.Logger {
	return slog.New(logger.NewTestHandler(slog.LevelInfo))
}

// TestCtx returns a context carrying a test logger.
func TestCtx() context.Context {
	return logger.ToContext(context.Background(), TestLogger())
}
