package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"expert-match/internal/database"
	"expert-match/internal/domain/demand"
	"expert-match/internal/domain/match"
	"expert-match/internal/domain/matching"

	"github.com/google/uuid"
)

type MatchingRepository interface {
	// CreateProposals inserts the proposals that have no active matching for
	// the same expert and demand, and marks the demand MATCHED when at least
	// one row was inserted. It runs in one transaction.
	CreateProposals(ctx context.Context, demandID uuid.UUID, proposals []match.Matching) ([]match.Matching, error)
	ListActiveRecords(ctx context.Context) ([]matching.MatchingRecord, error)
	FindByID(ctx context.Context, id uuid.UUID) (match.Matching, error)
	// UpdateStatus applies upd to an active matching still in one of
	// upd.From and returns the stored row. It returns ErrStatusConflict when
	// no such row exists.
	UpdateStatus(ctx context.Context, id uuid.UUID, upd match.StatusUpdate) (match.Matching, error)
}

type PostgresMatchingRepository struct {
	db  database.DB
	now func() time.Time
}

func NewPostgresMatchingRepository(db database.DB) *PostgresMatchingRepository {
	return &PostgresMatchingRepository{db: db, now: time.Now}
}

func (r *PostgresMatchingRepository) CreateProposals(ctx context.Context, demandID uuid.UUID, proposals []match.Matching) ([]match.Matching, error) {
	created := make([]match.Matching, 0, len(proposals))
	if len(proposals) == 0 {
		return created, nil
	}

	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		// Serializes concurrent proposals for the same demand.
		var locked uuid.UUID
		if err := tx.QueryRow(ctx, `SELECT id FROM demands WHERE id = $1 FOR UPDATE`, demandID).Scan(&locked); err != nil {
			if errors.Is(err, database.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		for _, p := range proposals {
			var exists bool
			if err := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM matchings WHERE expert_id = $1 AND demand_id = $2 AND is_active)`,
				p.ExpertID, demandID,
			).Scan(&exists); err != nil {
				return err
			}
			if exists {
				continue
			}

			breakdown, err := json.Marshal(p.ScoreBreakdown)
			if err != nil {
				return fmt.Errorf("encode breakdown: %w", err)
			}

			p.ID = uuid.New()
			p.DemandID = demandID
			p.IsActive = true
			p.CreatedAt = r.now().UTC()
			p.UpdatedAt = p.CreatedAt
			if p.Type == "" {
				p.Type = match.TypeAuto
			}
			if p.Status == "" {
				p.Status = string(matching.StatusProposed)
			}

			if _, err := tx.Exec(ctx,
				`INSERT INTO matchings (id, expert_id, demand_id, matching_type, status, match_score, score_breakdown, matched_by, is_active, created_at)
				 VALUES ($1,$2,$3,$4,$5,$6,$7::jsonb,$8,$9,$10)`,
				p.ID,
				p.ExpertID,
				p.DemandID,
				string(p.Type),
				p.Status,
				p.MatchScore,
				string(breakdown),
				p.MatchedBy,
				p.IsActive,
				p.CreatedAt,
			); err != nil {
				return err
			}
			created = append(created, p)
		}

		if len(created) == 0 {
			return nil
		}
		_, err := tx.Exec(ctx,
			`UPDATE demands SET status = $2, updated_at = now() WHERE id = $1`,
			demandID, string(demand.StatusMatched),
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *PostgresMatchingRepository) ListActiveRecords(ctx context.Context) ([]matching.MatchingRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT expert_id, status, match_score
		 FROM matchings
		 WHERE is_active`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]matching.MatchingRecord, 0)
	for rows.Next() {
		var (
			rec    matching.MatchingRecord
			status string
		)
		if err := rows.Scan(&rec.ExpertID, &status, &rec.MatchScore); err != nil {
			return nil, err
		}
		rec.Status = matching.MatchingStatus(status)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const matchingColumns = `m.id,
	m.expert_id,
	m.demand_id,
	m.matching_type,
	m.status,
	m.match_score,
	COALESCE(m.score_breakdown, '{}'::jsonb),
	m.matched_by,
	m.is_active,
	m.created_at,
	m.updated_at,
	m.expert_response,
	m.expert_responded_at,
	m.company_feedback,
	m.company_rating,
	x.user_id`

func (r *PostgresMatchingRepository) FindByID(ctx context.Context, id uuid.UUID) (match.Matching, error) {
	m, err := scanMatching(r.db.QueryRow(ctx, `SELECT `+matchingColumns+`
FROM matchings m
JOIN experts x ON x.id = m.expert_id
WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return match.Matching{}, ErrNotFound
		}
		return match.Matching{}, err
	}
	return m, nil
}

func (r *PostgresMatchingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, upd match.StatusUpdate) (match.Matching, error) {
	if len(upd.From) == 0 {
		return match.Matching{}, ErrStatusConflict
	}

	args := []any{id, upd.Status, upd.ExpertResponse, upd.RespondedAt, upd.CompanyFeedback, upd.CompanyRating}
	from := make([]string, 0, len(upd.From))
	for _, s := range upd.From {
		args = append(args, s)
		from = append(from, "$"+strconv.Itoa(len(args)))
	}

	m, err := scanMatching(r.db.QueryRow(ctx, `WITH m AS (
	UPDATE matchings SET
		status = $2,
		expert_response = COALESCE($3, expert_response),
		expert_responded_at = COALESCE($4, expert_responded_at),
		company_feedback = COALESCE($5, company_feedback),
		company_rating = COALESCE($6, company_rating),
		updated_at = now()
	WHERE id = $1 AND is_active AND status IN (`+strings.Join(from, ", ")+`)
	RETURNING *
)
SELECT `+matchingColumns+`
FROM m
JOIN experts x ON x.id = m.expert_id`, args...))
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return match.Matching{}, ErrStatusConflict
		}
		return match.Matching{}, err
	}
	return m, nil
}

func scanMatching(row database.Row) (match.Matching, error) {
	var (
		m         match.Matching
		typ       string
		breakdown []byte
		matchedBy uuid.NullUUID
	)
	err := row.Scan(
		&m.ID,
		&m.ExpertID,
		&m.DemandID,
		&typ,
		&m.Status,
		&m.MatchScore,
		&breakdown,
		&matchedBy,
		&m.IsActive,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.ExpertResponse,
		&m.RespondedAt,
		&m.CompanyFeedback,
		&m.CompanyRating,
		&m.ExpertUserID,
	)
	if err != nil {
		return match.Matching{}, err
	}

	m.Type = match.Type(typ)
	if matchedBy.Valid {
		id := matchedBy.UUID
		m.MatchedBy = &id
	}
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &m.ScoreBreakdown); err != nil {
			return match.Matching{}, fmt.Errorf("%w: matching %s: decode breakdown: %w", ErrMalformedRow, m.ID, err)
		}
	}
	return m, nil
}
