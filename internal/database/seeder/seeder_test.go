package seeder

import (
	"context"
	"errors"
	"testing"

	"expert-match/internal/database"
	"expert-match/internal/database/sqldb"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func columns(names ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"column_name"})
	for _, n := range names {
		rows.AddRow(n)
	}
	return rows
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("demands").
		WillReturnRows(columns("id", "title"))

	ctx := context.Background()
	require.NoError(t, EnsureSchema(ctx, sqldb.New(db), Requirement{Table: "demands", Columns: []string{"id", "title"}}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema_ReportsEveryMissingColumn(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM information_schema.columns").WithArgs("experts").
		WillReturnRows(columns("id"))
	mock.ExpectQuery("FROM information_schema.columns").WithArgs("demands").
		WillReturnRows(columns("id"))

	err = EnsureSchema(context.Background(), sqldb.New(db),
		Requirement{Table: "experts", Columns: []string{"id", "specialties"}},
		Requirement{Table: "demands", Columns: []string{"id", "title", "priority"}},
	)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	assert.ErrorContains(t, err, "missing experts.specialties, demands.title, demands.priority")
	assert.NoError(t, mock.ExpectationsWereMet())
}

type fakeSeeder struct {
	name     string
	inserted int
	err      error
}

func (s fakeSeeder) Name() string { return s.name }

func (s fakeSeeder) Run(context.Context, database.DB) (int, error) { return s.inserted, s.err }

func TestRunner_ReportsInsertedRows(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	results, err := Runner{Seeders: []Seeder{
		fakeSeeder{name: "experts", inserted: 6},
		nil,
		fakeSeeder{name: "demands"},
	}}.Run(context.Background(), sqldb.New(db))
	require.NoError(t, err)
	assert.Equal(t, []Result{{Name: "experts", Inserted: 6}, {Name: "demands", Inserted: 0}}, results)
}

func TestRunner_WrapsSeederName(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("boom")
	results, err := Runner{Seeders: []Seeder{
		fakeSeeder{name: "experts", inserted: 2},
		fakeSeeder{name: "failing", err: boom},
	}}.Run(context.Background(), sqldb.New(db))
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "seed failing")
	assert.Equal(t, []Result{{Name: "experts", Inserted: 2}}, results)
}

func TestDemandsSeeder_InsertsInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM information_schema.columns").WithArgs("companies").
		WillReturnRows(columns("id", "name"))
	mock.ExpectQuery("FROM information_schema.columns").WithArgs("demands").
		WillReturnRows(columns("id", "company_id", "title", "required_specialties", "priority", "status"))
	mock.ExpectBegin()
	for i := 0; i < 4; i++ {
		mock.ExpectExec("INSERT INTO companies").WillReturnResult(sqlmock.NewResult(0, 1))
		// The last demand already exists and is skipped by NOT EXISTS.
		affected := int64(1)
		if i == 3 {
			affected = 0
		}
		mock.ExpectExec("INSERT INTO demands").WillReturnResult(sqlmock.NewResult(0, affected))
	}
	mock.ExpectCommit()

	n, err := DemandsSeeder{}.Run(context.Background(), sqldb.New(db))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpertsSeeder_StopsOnSchemaMismatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM information_schema.columns").WithArgs("users").
		WillReturnRows(columns("id", "email", "name", "role"))
	mock.ExpectQuery("FROM information_schema.columns").WithArgs("experts").
		WillReturnRows(columns("id", "user_id"))
	mock.ExpectQuery("FROM information_schema.columns").WithArgs("expert_scores").
		WillReturnRows(columns("expert_id", "average_percentage", "graded_count", "total_count"))

	n, err := ExpertsSeeder{}.Run(context.Background(), sqldb.New(db))
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	assert.ErrorContains(t, err, "experts.specialties")
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
