package log

import (
	"io"
	"log/slog"

	"github.com/amanthanvi/assetvault/internal/config"
)

// New builds the registry logger: a text handler wrapped in the redacting
// handler so credentials never reach the log file. When cfg.File is set the
// output goes through the rotating writer instead of fallback.
func New(cfg config.LoggingConfig, fallback io.Writer) (*slog.Logger, io.Closer, error) {
	var (
		out    io.Writer = fallback
		closer io.Closer
	)
	if cfg.File != "" {
		writer, err := NewRotatingWriter(RotationConfig{
			File:      cfg.File,
			MaxSizeMB: cfg.MaxSizeMB,
			MaxFiles:  cfg.MaxFiles,
		})
		if err != nil {
			return nil, nil, err
		}
		out = writer
		closer = writer
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	})
	return slog.New(NewRedactingHandler(handler)), closer, nil
}

func parseLevel(raw string) slog.Level {
	switch raw {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
