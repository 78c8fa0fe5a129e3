package demand

import (
	"time"

	"expert-match/internal/domain/matching"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusMatched    Status = "MATCHED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

type Demand struct {
	ID                  uuid.UUID
	CompanyID           uuid.UUID
	Title               string
	RequiredSpecialties []string
	Priority            int
	Status              Status
	IsActive            bool
	CreatedAt           time.Time
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusMatched, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

func (d Demand) ToScoring() matching.Demand {
	return matching.Demand{
		ID:                  d.ID,
		Title:               d.Title,
		RequiredSpecialties: d.RequiredSpecialties,
		Priority:            d.Priority,
	}
}
