package seeder

import (
	"context"
	"fmt"

	"expert-match/internal/database"

	"go.uber.org/zap"
)

type Runner struct {
	Seeders []Seeder
	Logger  *zap.Logger
}

// Run executes the seeders in order and stops at the first failure. Results
// of the seeders that completed are returned either way.
func (r Runner) Run(ctx context.Context, db database.DB) ([]Result, error) {
	if db == nil {
		return nil, fmt.Errorf("nil db")
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([]Result, 0, len(r.Seeders))
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		n, err := s.Run(ctx, db)
		if err != nil {
			return results, fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		logger.Info("seeder finished", zap.String("seeder", s.Name()), zap.Int("inserted", n))
		results = append(results, Result{Name: s.Name(), Inserted: n})
	}
	return results, nil
}
