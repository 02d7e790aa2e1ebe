package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/plipplupp/forecast-to-clothing/internal/config"
	"github.com/plipplupp/forecast-to-clothing/internal/logging"
)

const appName = "forecast-to-clothing"

// Default version is "dev" if not set with -ldflags "-X main.version=...".
var version = "dev"

// appEnv is shared by the subcommands once main has loaded it.
type appEnv struct {
	cfg    config.Config
	logger *slog.Logger
}

var env appEnv

var rootCmd = &cobra.Command{
	Use:   "forecast-to-clothing",
	Short: "Daily clothing advice from the met.no forecast",
	Long: `Fetches today's met.no forecast, turns it into clothing advice,
stores it in SQLite and sends it as a push notification.

Without a subcommand it performs a single run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runOnce,
}

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	sink, err := logging.Open(cfg, version, appName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(sink.Logger)
	env = appEnv{cfg: cfg, logger: sink.Logger}

	slog.Info("program starting",
		"version", version,
		"env", cfg.AppEnv,
		"log_level", cfg.LogLevel.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err = rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("program failed", "error", err)
		_ = sink.Close()
		os.Exit(1)
	}

	slog.Info("program finished")
	if err := sink.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close log file: %v\n", err)
	}
}
