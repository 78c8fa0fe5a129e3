package matching

import (
	"fmt"
	"math"
)

const weightSumTolerance = 1e-6

// Weights is the relative importance of each sub-score in the total.
type Weights struct {
	Specialty     float64
	Qualification float64
	Career        float64
	Evaluation    float64
	Availability  float64
}

func DefaultWeights() Weights {
	return Weights{
		Specialty:     0.40,
		Qualification: 0.15,
		Career:        0.15,
		Evaluation:    0.20,
		Availability:  0.10,
	}
}

func (w Weights) Sum() float64 {
	return w.Specialty + w.Qualification + w.Career + w.Evaluation + w.Availability
}

// Validate checks that no weight is negative and that they sum to 1.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"specialty":     w.Specialty,
		"qualification": w.Qualification,
		"career":        w.Career,
		"evaluation":    w.Evaluation,
		"availability":  w.Availability,
	} {
		if math.IsNaN(v) || v < 0 {
			return fmt.Errorf("%w: %s weight %v", ErrInvalidWeights, name, v)
		}
	}
	if math.Abs(w.Sum()-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: weights sum to %.4f, must sum to 1.0", ErrInvalidWeights, w.Sum())
	}
	return nil
}

func (w Weights) combine(b MatchScoreBreakdown) float64 {
	return b.Specialty*w.Specialty +
		b.Qualification*w.Qualification +
		b.Career*w.Career +
		b.Evaluation*w.Evaluation +
		b.Availability*w.Availability
}
