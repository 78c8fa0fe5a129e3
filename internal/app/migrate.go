package app

import (
	"context"
	"fmt"
	"strings"

	"expert-match/internal/database/migration"
	"expert-match/migrations"

	"go.uber.org/zap"
)

// MigrationRunner reads from dir when given, otherwise from the migrations
// embedded in the binary.
func MigrationRunner(dir string, logger *zap.Logger) migration.Runner {
	if strings.TrimSpace(dir) != "" {
		return migration.Runner{Dir: dir, Logger: logger}
	}
	return migration.Runner{FS: migrations.FS, Logger: logger}
}

func (c *Container) Migrate(ctx context.Context) error {
	if c == nil || c.DB == nil {
		return fmt.Errorf("nil db")
	}
	applied, err := MigrationRunner(c.Config.Database.MigrationsDir, c.Logger.Named("migration")).Run(ctx, c.DB.SQLDB())
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	c.Logger.Info("migrations up to date", zap.Int("applied", len(applied)))
	return nil
}
