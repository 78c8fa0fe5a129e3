package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"expert-match/internal/database/sqldb"
	"expert-match/internal/domain/demand"
	"expert-match/internal/domain/match"
	"expert-match/internal/domain/matching"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var candidateColumns = []string{
	"id", "user_id", "name", "specialties", "qualification_status", "career_years",
	"is_active", "created_at", "average_percentage", "graded_count", "active_matchings",
}

func TestExpertRepository_ListCandidatePool(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	a, b := uuid.New(), uuid.New()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("x.qualification_status IN ('QUALIFIED', 'PENDING')")).
		WillReturnRows(sqlmock.NewRows(candidateColumns).
			AddRow(a.String(), uuid.NewString(), "Kim", []byte(`["AI","ML"]`), "QUALIFIED", int64(15), true, now, 85.0, int64(12), int64(0)).
			AddRow(b.String(), uuid.NewString(), "Park", []byte(`[]`), "PENDING", nil, true, now, nil, int64(0), int64(2)))

	got, err := NewPostgresExpertRepository(sqldb.New(db)).ListCandidatePool(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, a, got[0].ID)
	assert.Equal(t, []string{"AI", "ML"}, got[0].Specialties)
	require.NotNil(t, got[0].CareerYears)
	assert.Equal(t, 15, *got[0].CareerYears)
	require.NotNil(t, got[0].AveragePercentage)
	assert.Equal(t, 85.0, *got[0].AveragePercentage)
	assert.Equal(t, 12, got[0].GradedCount)

	assert.Equal(t, b, got[1].ID)
	assert.Empty(t, got[1].Specialties)
	assert.Nil(t, got[1].CareerYears)
	assert.Nil(t, got[1].AveragePercentage)
	assert.Equal(t, 2, got[1].ActiveMatchings)

	scoring := got[1].ToScoring()
	assert.Equal(t, matching.QualificationPending, scoring.Qualification)
	assert.Equal(t, 0, scoring.CareerYears)
	require.NotNil(t, scoring.ActiveMatchings)
	assert.Equal(t, 2, *scoring.ActiveMatchings)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpertRepository_ListCandidatePoolKeepsRowsAfterMalformedTags(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	bad, good := uuid.New(), uuid.New()
	mock.ExpectQuery("FROM experts x").
		WillReturnRows(sqlmock.NewRows(candidateColumns).
			AddRow(bad.String(), uuid.NewString(), "Kim", []byte(`{"AI":1}`), "QUALIFIED", int64(1), true, time.Now(), nil, int64(0), int64(0)).
			AddRow(good.String(), uuid.NewString(), "Lee", []byte(`["ML"]`), "QUALIFIED", int64(3), true, time.Now(), nil, int64(0), int64(0)))

	got, err := NewPostgresExpertRepository(sqldb.New(db)).ListCandidatePool(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, bad, got[0].ID)
	assert.ErrorIs(t, got[0].LoadErr, ErrMalformedRow)
	assert.ErrorContains(t, got[0].LoadErr, "decode tags")

	assert.Equal(t, good, got[1].ID)
	assert.NoError(t, got[1].LoadErr)
	assert.Equal(t, []string{"ML"}, got[1].Specialties)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpertRepository_FindCandidateByIDMalformedTags(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE x.id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(candidateColumns).
			AddRow(id.String(), uuid.NewString(), "Kim", []byte(`"AI"`), "QUALIFIED", int64(1), true, time.Now(), nil, int64(0), int64(0)))

	_, err = NewPostgresExpertRepository(sqldb.New(db)).FindCandidateByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrMalformedRow)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpertRepository_FindCandidateByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE x.id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(candidateColumns))

	_, err = NewPostgresExpertRepository(sqldb.New(db)).FindCandidateByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDemandRepository_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(required_specialties, '[]'::jsonb)")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "title", "required_specialties", "priority", "status", "is_active", "created_at"}).
			AddRow(id.String(), uuid.NewString(), "Vision review", []byte(`[]`), int64(4), "PENDING", true, time.Now()))

	d, err := NewPostgresDemandRepository(sqldb.New(db)).FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Vision review", d.Title)
	assert.NotNil(t, d.RequiredSpecialties)
	assert.Empty(t, d.RequiredSpecialties)
	assert.Equal(t, demand.StatusPending, d.Status)
	assert.Equal(t, 4, d.Priority)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDemandRepository_FindByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM demands").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = NewPostgresDemandRepository(sqldb.New(db)).FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMatchingRepository_CreateProposals(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	demandID, fresh, taken, operator := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	score := 93.0

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WithArgs(demandID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(demandID.String()))
	mock.ExpectQuery("SELECT EXISTS").WithArgs(fresh, demandID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO matchings").
		WithArgs(sqlmock.AnyArg(), fresh, demandID, "AUTO", "PROPOSED", score, `{"total":93}`, operator, true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT EXISTS").WithArgs(taken, demandID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE demands SET status = $2")).WithArgs(demandID, "MATCHED").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	proposals := []match.Matching{
		{ExpertID: fresh, MatchScore: &score, ScoreBreakdown: map[string]float64{"total": 93}, MatchedBy: &operator},
		{ExpertID: taken, MatchScore: &score, ScoreBreakdown: map[string]float64{"total": 93}, MatchedBy: &operator},
	}
	created, err := NewPostgresMatchingRepository(sqldb.New(db)).CreateProposals(context.Background(), demandID, proposals)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, fresh, created[0].ExpertID)
	assert.Equal(t, match.TypeAuto, created[0].Type)
	assert.NotEqual(t, uuid.Nil, created[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchingRepository_CreateProposalsAllTakenLeavesDemand(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	demandID, taken := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(demandID.String()))
	mock.ExpectQuery("SELECT EXISTS").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectCommit()

	created, err := NewPostgresMatchingRepository(sqldb.New(db)).
		CreateProposals(context.Background(), demandID, []match.Matching{{ExpertID: taken}})
	require.NoError(t, err)
	assert.Empty(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchingRepository_CreateProposalsUnknownDemand(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err = NewPostgresMatchingRepository(sqldb.New(db)).
		CreateProposals(context.Background(), uuid.New(), []match.Matching{{ExpertID: uuid.New()}})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchingRepository_ListActiveRecords(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	a := uuid.New()
	mock.ExpectQuery("FROM matchings").
		WillReturnRows(sqlmock.NewRows([]string{"expert_id", "status", "match_score"}).
			AddRow(a.String(), "COMPLETED", 81.5).
			AddRow(a.String(), "PROPOSED", nil))

	got, err := NewPostgresMatchingRepository(sqldb.New(db)).ListActiveRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, matching.StatusCompleted, got[0].Status)
	require.NotNil(t, got[0].MatchScore)
	assert.Equal(t, 81.5, *got[0].MatchScore)
	assert.Nil(t, got[1].MatchScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var matchingRowColumns = []string{
	"id", "expert_id", "demand_id", "matching_type", "status", "match_score", "score_breakdown",
	"matched_by", "is_active", "created_at", "updated_at", "expert_response", "expert_responded_at",
	"company_feedback", "company_rating", "user_id",
}

func TestMatchingRepository_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id, expertID, demandID, userID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("JOIN experts x ON x.id = m.expert_id")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(matchingRowColumns).
			AddRow(id.String(), expertID.String(), demandID.String(), "AUTO", "PROPOSED", 88.5, []byte(`{"total":88.5}`),
				nil, true, now, now, nil, nil, nil, nil, userID.String()))

	m, err := NewPostgresMatchingRepository(sqldb.New(db)).FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, m.ID)
	assert.Equal(t, expertID, m.ExpertID)
	assert.Equal(t, userID, m.ExpertUserID)
	assert.Equal(t, match.TypeAuto, m.Type)
	assert.Equal(t, "PROPOSED", m.Status)
	assert.Equal(t, map[string]float64{"total": 88.5}, m.ScoreBreakdown)
	assert.Nil(t, m.MatchedBy)
	assert.Nil(t, m.CompanyRating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchingRepository_FindByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM matchings m").WillReturnRows(sqlmock.NewRows(matchingRowColumns))

	_, err = NewPostgresMatchingRepository(sqldb.New(db)).FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchingRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id, expertID, demandID, userID, operator := uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()
	now := time.Now()
	rating, feedback := 5, "great"

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND is_active AND status IN ($7, $8)")).
		WithArgs(id, "COMPLETED", nil, nil, &feedback, &rating, "ACCEPTED", "IN_PROGRESS").
		WillReturnRows(sqlmock.NewRows(matchingRowColumns).
			AddRow(id.String(), expertID.String(), demandID.String(), "AUTO", "COMPLETED", 90.0, []byte(`{}`),
				operator.String(), true, now, now, "yes", now, feedback, int64(rating), userID.String()))

	m, err := NewPostgresMatchingRepository(sqldb.New(db)).UpdateStatus(context.Background(), id, match.StatusUpdate{
		From:            []string{"ACCEPTED", "IN_PROGRESS"},
		Status:          "COMPLETED",
		CompanyFeedback: &feedback,
		CompanyRating:   &rating,
	})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", m.Status)
	require.NotNil(t, m.MatchedBy)
	assert.Equal(t, operator, *m.MatchedBy)
	require.NotNil(t, m.CompanyRating)
	assert.Equal(t, 5, *m.CompanyRating)
	require.NotNil(t, m.ExpertResponse)
	assert.Equal(t, "yes", *m.ExpertResponse)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchingRepository_UpdateStatusConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("status IN ($7)")).WillReturnRows(sqlmock.NewRows(matchingRowColumns))

	repo := NewPostgresMatchingRepository(sqldb.New(db))
	_, err = repo.UpdateStatus(context.Background(), uuid.New(), match.StatusUpdate{From: []string{"PROPOSED"}, Status: "ACCEPTED"})
	assert.ErrorIs(t, err, ErrStatusConflict)

	_, err = repo.UpdateStatus(context.Background(), uuid.New(), match.StatusUpdate{Status: "ACCEPTED"})
	assert.ErrorIs(t, err, ErrStatusConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
