package seeder

import (
	"context"

	"expert-match/internal/database"
)

// Seeder inserts demo rows for local runs. Run is idempotent and reports how
// many expert or demand rows it added; rows that already exist are left
// alone and not counted.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) (int, error)
}

type Result struct {
	Name     string
	Inserted int
}
