package matching

import (
	"fmt"
	"math"
)

const (
	DefaultTopN     = 10
	MaxTopN         = 50
	DefaultMinScore = 50.0

	DefaultCareerCapYears = 15
)

// Policy holds every value the calculator substitutes when data is missing,
// plus the knobs that shape individual sub-scores. Keeping them together
// means a missing field resolves to the same number on every code path.
type Policy struct {
	// CareerCapYears is the career length that already earns the full career score.
	CareerCapYears int

	// NeutralSpecialty is used when the demand lists no required specialties.
	NeutralSpecialty float64
	// NeutralEvaluation is used for experts without graded assessments.
	NeutralEvaluation float64
	// NeutralAvailability is used when neither capacity nor active matchings are known.
	NeutralAvailability float64

	// AvailabilityLadder maps the number of active matchings to a score; counts
	// past the end of the ladder get the last entry.
	AvailabilityLadder []float64

	// Bands are the compatibility cut points, highest first.
	HighlyRecommendedAt float64
	RecommendedAt       float64
	PossibleAt          float64
}

func DefaultPolicy() Policy {
	return Policy{
		CareerCapYears:      DefaultCareerCapYears,
		NeutralSpecialty:    50,
		NeutralEvaluation:   50,
		NeutralAvailability: 50,
		AvailabilityLadder:  []float64{100, 80, 60, 40},
		HighlyRecommendedAt: 80,
		RecommendedAt:       60,
		PossibleAt:          DefaultMinScore,
	}
}

func (p Policy) Validate() error {
	if p.CareerCapYears <= 0 {
		return fmt.Errorf("%w: career cap must be positive, got %d", ErrInvalidPolicy, p.CareerCapYears)
	}
	for name, v := range map[string]float64{
		"neutral specialty":    p.NeutralSpecialty,
		"neutral evaluation":   p.NeutralEvaluation,
		"neutral availability": p.NeutralAvailability,
	} {
		if !inScoreRange(v) {
			return fmt.Errorf("%w: %s %v outside [0, 100]", ErrInvalidPolicy, name, v)
		}
	}
	if len(p.AvailabilityLadder) == 0 {
		return fmt.Errorf("%w: empty availability ladder", ErrInvalidPolicy)
	}
	for _, v := range p.AvailabilityLadder {
		if !inScoreRange(v) {
			return fmt.Errorf("%w: availability ladder value %v outside [0, 100]", ErrInvalidPolicy, v)
		}
	}
	if !(p.HighlyRecommendedAt >= p.RecommendedAt && p.RecommendedAt >= p.PossibleAt) {
		return fmt.Errorf("%w: compatibility bands must be descending", ErrInvalidPolicy)
	}
	if !inScoreRange(p.HighlyRecommendedAt) || !inScoreRange(p.PossibleAt) {
		return fmt.Errorf("%w: compatibility bands outside [0, 100]", ErrInvalidPolicy)
	}
	return nil
}

func (p Policy) availabilityForActive(active int) float64 {
	if active < 0 {
		active = 0
	}
	if active >= len(p.AvailabilityLadder) {
		return p.AvailabilityLadder[len(p.AvailabilityLadder)-1]
	}
	return p.AvailabilityLadder[active]
}

func inScoreRange(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 100
}
