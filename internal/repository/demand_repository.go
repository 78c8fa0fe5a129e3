package repository

import (
	"context"
	"errors"
	"fmt"

	"expert-match/internal/database"
	"expert-match/internal/domain/demand"

	"github.com/google/uuid"
)

type DemandRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (demand.Demand, error)
}

type PostgresDemandRepository struct {
	db database.DB
}

func NewPostgresDemandRepository(db database.DB) *PostgresDemandRepository {
	return &PostgresDemandRepository{db: db}
}

func (r *PostgresDemandRepository) FindByID(ctx context.Context, id uuid.UUID) (demand.Demand, error) {
	var (
		d           demand.Demand
		specialties []byte
		status      string
	)
	err := r.db.QueryRow(ctx,
		`SELECT id, company_id, title, COALESCE(required_specialties, '[]'::jsonb), priority, status, is_active, created_at
		 FROM demands
		 WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.CompanyID, &d.Title, &specialties, &d.Priority, &status, &d.IsActive, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return demand.Demand{}, ErrNotFound
		}
		return demand.Demand{}, err
	}

	d.Status = demand.Status(status)
	d.RequiredSpecialties, err = decodeTags(specialties)
	if err != nil {
		return demand.Demand{}, fmt.Errorf("demand %s: %w", d.ID, err)
	}
	return d, nil
}
