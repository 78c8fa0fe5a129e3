package expert

import (
	"time"

	"expert-match/internal/domain/matching"

	"github.com/google/uuid"
)

type Expert struct {
	ID                  uuid.UUID
	UserID              uuid.UUID
	Name                string
	Specialties         []string
	QualificationStatus string
	CareerYears         *int
	IsActive            bool
	CreatedAt           time.Time
}

// Candidate is an expert as loaded for scoring, with the aggregates that live
// in other tables.
type Candidate struct {
	Expert

	// AveragePercentage is nil when the expert has no expert_scores row.
	AveragePercentage *float64
	GradedCount       int
	ActiveMatchings   int

	// LoadErr is set when a stored column could not be decoded. Such
	// candidates are reported as skipped instead of scored.
	LoadErr error
}

func (c Candidate) ToScoring() matching.Expert {
	years := 0
	if c.CareerYears != nil {
		years = *c.CareerYears
	}
	active := c.ActiveMatchings
	return matching.Expert{
		ID:                c.ID,
		Name:              c.Name,
		Specialties:       c.Specialties,
		Qualification:     matching.Qualification(c.QualificationStatus),
		CareerYears:       years,
		ActiveMatchings:   &active,
		EvaluationPercent: c.AveragePercentage,
		GradedCount:       c.GradedCount,
	}
}
