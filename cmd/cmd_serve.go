package main

import (
	"github.com/spf13/cobra"

	"github.com/plipplupp/forecast-to-clothing/internal/app"
	"github.com/plipplupp/forecast-to-clothing/internal/db"
	"github.com/plipplupp/forecast-to-clothing/internal/migrate"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the recommendation history API",
	Long: `Serves GET /api/v1/recommendations, GET /api/v1/recommendations/{date},
POST /api/v1/run, /healthz and /metrics until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides HTTP_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := env.cfg
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.HTTPAddr = addr
	}

	dbConn, err := db.Open(cfg, env.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(dbConn); err != nil {
			env.logger.Error("db close", "error", err)
		}
	}()
	if _, err := migrate.Run(ctx, dbConn, env.logger); err != nil {
		return err
	}

	deps, cleanup := app.NewDeps(cfg, dbConn, env.logger)
	defer cleanup()

	return app.Serve(ctx, cfg, dbConn, deps)
}
