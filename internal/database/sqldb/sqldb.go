package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"expert-match/internal/config"
	"expert-match/internal/database"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB adapts *sql.DB to database.DB. It backs the CLI and every repository
// test that runs against go-sqlmock.
type DB struct {
	db *sql.DB
}

func Open(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, err
	}
	if cfg.PoolMaxConns > 0 {
		db.SetMaxOpenConns(int(cfg.PoolMaxConns))
	}
	if cfg.PoolMaxConnLifetime > 0 {
		db.SetConnMaxLifetime(cfg.PoolMaxConnLifetime)
	}
	if cfg.PoolMaxConnIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.PoolMaxConnIdleTime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &DB{db: db}, nil
}

func New(db *sql.DB) *DB {
	return &DB{db: db}
}

func (d *DB) Ping(ctx context.Context) error {
	if d == nil || d.db == nil {
		return fmt.Errorf("nil db")
	}
	return d.db.PingContext(ctx)
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return rowsAffected(res), nil
}

func (d *DB) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	r, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows{r: r}, nil
}

func (d *DB) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return row{r: d.db.QueryRowContext(ctx, query, args...)}
}

func (d *DB) Begin(ctx context.Context) (database.Tx, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return txAdapter{tx: tx}, nil
}

func (d *DB) SQLDB() *sql.DB {
	if d == nil {
		return nil
	}
	return d.db
}

type txAdapter struct {
	tx *sql.Tx
}

func (t txAdapter) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return rowsAffected(res), nil
}

func (t txAdapter) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	r, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows{r: r}, nil
}

func (t txAdapter) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return row{r: t.tx.QueryRowContext(ctx, query, args...)}
}

func (t txAdapter) Commit(_ context.Context) error {
	return t.tx.Commit()
}

func (t txAdapter) Rollback(_ context.Context) error {
	return t.tx.Rollback()
}

type rows struct {
	r *sql.Rows
}

func (r rows) Close()                 { _ = r.r.Close() }
func (r rows) Next() bool             { return r.r.Next() }
func (r rows) Scan(dest ...any) error { return r.r.Scan(dest...) }
func (r rows) Err() error             { return r.r.Err() }

type row struct {
	r *sql.Row
}

func (r row) Scan(dest ...any) error {
	if err := r.r.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return database.ErrNoRows
		}
		return err
	}
	return nil
}

func rowsAffected(res sql.Result) int64 {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}
