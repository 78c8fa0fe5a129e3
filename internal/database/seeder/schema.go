package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"expert-match/internal/database"
)

var ErrSchemaMismatch = errors.New("schema mismatch")

// Requirement lists the columns a seeder writes in one table.
type Requirement struct {
	Table   string
	Columns []string
}

// EnsureSchema checks every requirement and reports all missing columns in
// one error, so a stale database is fixed in one migration run.
func EnsureSchema(ctx context.Context, db database.DB, reqs ...Requirement) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}

	var missing []string
	for _, req := range reqs {
		m, err := missingColumns(ctx, db, req)
		if err != nil {
			return err
		}
		missing = append(missing, m...)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return nil
}

func missingColumns(ctx context.Context, db database.DB, req Requirement) ([]string, error) {
	if req.Table == "" {
		return nil, fmt.Errorf("empty table")
	}
	for _, col := range req.Columns {
		if col == "" {
			return nil, fmt.Errorf("empty column in %s", req.Table)
		}
	}

	rows, err := db.Query(
		ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema='public' AND table_name=$1`,
		req.Table,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	existing := map[string]struct{}{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		existing[c] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []string
	for _, col := range req.Columns {
		if _, ok := existing[col]; !ok {
			missing = append(missing, req.Table+"."+col)
		}
	}
	return missing, nil
}
