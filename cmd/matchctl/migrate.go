package main

import (
	"fmt"

	"expert-match/internal/app"
	"expert-match/internal/config"
	"expert-match/internal/database/sqldb"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd(c *cli) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbCfg, err := config.LoadDatabase()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = dbCfg.MigrationsDir
			}

			ctx, cancel := c.context(cmd)
			defer cancel()

			db, err := sqldb.Open(ctx, dbCfg)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			applied, err := app.MigrationRunner(dir, c.logger).Run(ctx, db.SQLDB())
			if err != nil {
				return err
			}
			for _, m := range applied {
				fmt.Fprintf(out(cmd), "applied V%d %s\n", m.Version, m.Name)
			}
			c.logger.Info("migrations up to date", zap.Int("applied", len(applied)))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "read migrations from this directory instead of the embedded set")
	return cmd
}
