package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

const originService = "customs-crm"

type handler struct {
	slog.Handler
}

func (h *handler) Handle(ctx context.Context, record slog.Record) error {
	record.Add("origin_service", originService)
	return h.Handler.Handle(ctx, record)
}

func New(level slog.Level) *slog.Logger {
	return slog.New(&handler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
	})
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
