package testutil

import (
	"io"
	"log/slog"

	"github.com/avinashg0y4l/lighthouse-chatbot/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return &logger.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))}
}
