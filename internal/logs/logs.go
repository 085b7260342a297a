package logs

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"

	"github.com/adwikataware/Hackcrypt/pkg/utils"
)

const logFile = "hackcrypt.log"

// FileLogger returns a JSON logger appending to the log file in the
// output directory. Used for request/response traces that are too noisy
// for the console.
func FileLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug,
	}

	path, err := utils.CreateOutputPath(logFile)
	if err != nil {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		// Fall back to stderr rather than losing the log entirely
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}

	return slog.New(slog.NewJSONHandler(f, opts))
}

// ConsoleLogger configures the global slog default with a tint handler
// and returns it. Level defaults to info; "debug"/"warn"/"error" accepted.
func ConsoleLogger(level string) *slog.Logger {
	w := os.Stderr

	logger := slog.New(tint.NewHandler(w, &tint.Options{
		Level:      parseLevel(level),
		TimeFormat: time.Kitchen,
		NoColor:    !isatty.IsTerminal(w.Fd()),
	}))

	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
