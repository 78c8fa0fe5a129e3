package match

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeAuto      Type = "AUTO"
	TypeManual    Type = "MANUAL"
	TypeRequested Type = "REQUESTED"
)

type Matching struct {
	ID             uuid.UUID
	ExpertID       uuid.UUID
	DemandID       uuid.UUID
	Type           Type
	Status         string
	MatchScore     *float64
	ScoreBreakdown map[string]float64
	MatchedBy      *uuid.UUID
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time

	ExpertResponse  *string
	RespondedAt     *time.Time
	CompanyFeedback *string
	CompanyRating   *int

	// ExpertUserID is the user account behind ExpertID. Only set on reads.
	ExpertUserID uuid.UUID
}

// StatusUpdate moves a matching to Status while it is still in one of From.
// Nil fields leave the stored column untouched.
type StatusUpdate struct {
	From            []string
	Status          string
	ExpertResponse  *string
	RespondedAt     *time.Time
	CompanyFeedback *string
	CompanyRating   *int
}
