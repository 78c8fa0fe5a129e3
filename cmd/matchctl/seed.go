package main

import (
	"fmt"

	"expert-match/internal/config"
	"expert-match/internal/database/seeder"
	"expert-match/internal/database/sqldb"

	"github.com/spf13/cobra"
)

func newSeedCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo experts and demands for local runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbCfg, err := config.LoadDatabase()
			if err != nil {
				return err
			}

			ctx, cancel := c.context(cmd)
			defer cancel()

			db, err := sqldb.Open(ctx, dbCfg)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			results, err := (seeder.Runner{Seeders: seeder.Defaults(), Logger: c.logger}).Run(ctx, db)
			for _, r := range results {
				fmt.Fprintf(out(cmd), "seeded %s: %d new rows\n", r.Name, r.Inserted)
			}
			return err
		},
	}
}
