package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"skill-alert/internal/database/migration"
	dbpostgres "skill-alert/internal/database/postgres"
	"skill-alert/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		db, err := dbpostgres.Connect(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := migration.Runner{FS: migrations.FS, Logger: logger.Named("migration")}.Run(cmd.Context(), db.SQLDB())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
		return nil
	},
}
