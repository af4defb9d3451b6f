package logger

import (
	"io"
	"log"
	"log/slog"
	"moviehub/proj/internal/lib/logger/handlers/slogpretty"
	"os"
	"strings"
)

func SetupLogger(debug bool) *slog.Logger {
	return newLogger(os.Stdout, debug)
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	var handler slog.Handler
	if debug {
		handler = slogpretty.NewPrettyHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.New(handler)
}

type out struct {
	stdLog *slog.Logger
}

func (l out) Write(p []byte) (n int, err error) {
	l.stdLog.Warn(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// LogAdapter routes http.Server internal errors into slog.
func LogAdapter(logger *slog.Logger) *log.Logger {
	return log.New(&out{logger.With("source", "http.Server")}, "", 0)
}
