package main

import (
	"github.com/spf13/cobra"

	"github.com/plipplupp/forecast-to-clothing/internal/db"
	"github.com/plipplupp/forecast-to-clothing/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	dbConn, err := db.Open(env.cfg, env.logger)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(dbConn) }()

	applied, err := migrate.Run(cmd.Context(), dbConn, env.logger)
	if err != nil {
		return err
	}
	env.logger.Info("migrations complete", "applied", len(applied))
	return nil
}
