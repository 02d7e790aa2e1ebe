package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"

	"github.com/plipplupp/forecast-to-clothing/internal/config"
)

// Sink owns the process-wide logger and the append-only diagnostic file
// behind it. Open it once at startup and Close it on exit.
type Sink struct {
	Logger *slog.Logger
	file   *os.File
}

func Open(cfg config.Config, version string, appName string) (*Sink, error) {
	return open(cfg, version, appName, os.Stdout)
}

func open(cfg config.Config, version string, appName string, console io.Writer) (*Sink, error) {
	handlers := []slog.Handler{consoleHandler(cfg, version, console)}

	var file *os.File
	if cfg.LogFile != "" {
		if dir := filepath.Dir(cfg.LogFile); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", cfg.LogFile, err)
		}
		file = f
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{
			Level: cfg.LogLevel,
		}))
	}

	logger := slog.New(fanout(handlers)).With("app", appName)
	if version != "dev" {
		logger = logger.With("version", version, "env", cfg.AppEnv)
	}
	return &Sink{Logger: logger, file: file}, nil
}

func consoleHandler(cfg config.Config, version string, w io.Writer) slog.Handler {
	if version == "dev" {
		return tint.NewHandler(w, &tint.Options{
			Level:      cfg.LogLevel,
			AddSource:  true,
			TimeFormat: time.Kitchen,
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})
}

// Close flushes and closes the diagnostic file. Safe to call more than once.
func (s *Sink) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	f := s.file
	s.file = nil
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync log file: %w", err)
	}
	return f.Close()
}
