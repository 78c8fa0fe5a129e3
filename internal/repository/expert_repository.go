package repository

import (
	"context"
	"errors"
	"fmt"

	"expert-match/internal/database"
	"expert-match/internal/domain/expert"

	"github.com/google/uuid"
)

type ExpertRepository interface {
	// ListCandidatePool returns active experts that are QUALIFIED or PENDING.
	// Rows that cannot be decoded are returned with LoadErr set.
	ListCandidatePool(ctx context.Context) ([]expert.Candidate, error)
	FindCandidateByID(ctx context.Context, id uuid.UUID) (expert.Candidate, error)
}

type PostgresExpertRepository struct {
	db database.DB
}

func NewPostgresExpertRepository(db database.DB) *PostgresExpertRepository {
	return &PostgresExpertRepository{db: db}
}

const candidateSelect = `SELECT
	x.id,
	x.user_id,
	u.name,
	COALESCE(x.specialties, '[]'::jsonb),
	x.qualification_status,
	x.career_years,
	x.is_active,
	x.created_at,
	s.average_percentage,
	COALESCE(s.graded_count, 0),
	(SELECT COUNT(*) FROM matchings m
	  WHERE m.expert_id = x.id
	    AND m.is_active
	    AND m.status IN ('PROPOSED', 'ACCEPTED', 'IN_PROGRESS'))
FROM experts x
JOIN users u ON u.id = x.user_id
LEFT JOIN expert_scores s ON s.expert_id = x.id`

func (r *PostgresExpertRepository) ListCandidatePool(ctx context.Context) ([]expert.Candidate, error) {
	rows, err := r.db.Query(ctx,
		candidateSelect+`
WHERE x.is_active AND x.qualification_status IN ('QUALIFIED', 'PENDING')
ORDER BY x.id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]expert.Candidate, 0)
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresExpertRepository) FindCandidateByID(ctx context.Context, id uuid.UUID) (expert.Candidate, error) {
	c, err := scanCandidate(r.db.QueryRow(ctx, candidateSelect+`
WHERE x.id = $1`, id))
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return expert.Candidate{}, ErrNotFound
		}
		return expert.Candidate{}, err
	}
	if c.LoadErr != nil {
		return expert.Candidate{}, c.LoadErr
	}
	return c, nil
}

func scanCandidate(row database.Row) (expert.Candidate, error) {
	var (
		c           expert.Candidate
		specialties []byte
	)
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&specialties,
		&c.QualificationStatus,
		&c.CareerYears,
		&c.IsActive,
		&c.CreatedAt,
		&c.AveragePercentage,
		&c.GradedCount,
		&c.ActiveMatchings,
	)
	if err != nil {
		return expert.Candidate{}, err
	}

	c.Specialties, err = decodeTags(specialties)
	if err != nil {
		c.Specialties = []string{}
		c.LoadErr = fmt.Errorf("%w: expert %s: %w", ErrMalformedRow, c.ID, err)
	}
	return c, nil
}
