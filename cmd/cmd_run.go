package main

import (
	"github.com/spf13/cobra"

	"github.com/plipplupp/forecast-to-clothing/internal/app"
	"github.com/plipplupp/forecast-to-clothing/internal/db"
	"github.com/plipplupp/forecast-to-clothing/internal/migrate"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, summarize, store and notify once",
	RunE:  runOnce,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runOnce(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	dbConn, err := db.Open(env.cfg, env.logger)
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

	deps, cleanup := app.NewDeps(env.cfg, dbConn, env.logger)
	defer cleanup()

	_, err = app.Run(ctx, env.cfg, deps)
	return err
}
