package main

import (
	"github.com/spf13/cobra"

	dbpostgres "skill-alert/internal/database/postgres"
	"skill-alert/internal/database/seeder"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the built-in skill list into the skills table",
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

		return seeder.Defaults(logger.Named("seeder")).Run(cmd.Context(), db)
	},
}
