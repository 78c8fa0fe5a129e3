package matching

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidWeights  = errors.New("invalid weights")
	ErrInvalidPolicy   = errors.New("invalid policy")
)

type Qualification string

const (
	QualificationQualified    Qualification = "QUALIFIED"
	QualificationPending      Qualification = "PENDING"
	QualificationDisqualified Qualification = "DISQUALIFIED"
)

func (q Qualification) Valid() bool {
	switch q {
	case QualificationQualified, QualificationPending, QualificationDisqualified:
		return true
	default:
		return false
	}
}

type Expert struct {
	ID            uuid.UUID
	Name          string
	Specialties   []string
	Qualification Qualification
	CareerYears   int

	// Availability is an explicit capacity signal in [0, 100].
	Availability *float64
	// ActiveMatchings is used when no explicit capacity is known.
	ActiveMatchings *int

	// EvaluationPercent is the aggregated percentage over graded assessments.
	EvaluationPercent *float64
	GradedCount       int
}

type Demand struct {
	ID    uuid.UUID
	Title string
	// RequiredSpecialties must be non-nil; an empty slice means "no requirement".
	RequiredSpecialties []string
	Priority            int
}

type MatchScoreBreakdown struct {
	Specialty     float64
	Qualification float64
	Career        float64
	Evaluation    float64
	Availability  float64
	Total         float64
}

type ScoreDetails struct {
	RequiredSpecialties []string
	MatchedSpecialties  []string
	MissingSpecialties  []string
	CareerYears         int
	CareerCapYears      int
	ActiveMatchings     *int
	GradedCount         int

	NeutralSpecialty    bool
	NeutralEvaluation   bool
	NeutralAvailability bool
}

type Score struct {
	Breakdown MatchScoreBreakdown
	Details   ScoreDetails
}
