package matching

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Calculator computes the five-part compatibility score of one expert against one demand.
// It is safe for concurrent use.
type Calculator struct {
	weights Weights
	policy  Policy
}

func NewCalculator(weights Weights, policy Policy) (*Calculator, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{weights: weights, policy: policy}, nil
}

func NewDefaultCalculator() *Calculator {
	return &Calculator{weights: DefaultWeights(), policy: DefaultPolicy()}
}

func (c *Calculator) Weights() Weights { return c.weights }

func (c *Calculator) Policy() Policy { return c.policy }

func (c *Calculator) Score(e Expert, d Demand) (Score, error) {
	if d.RequiredSpecialties == nil {
		return Score{}, fmt.Errorf("%w: demand %s has no required specialty set", ErrInvalidArgument, d.ID)
	}
	qual, ok := qualificationScore(e.Qualification)
	if !ok {
		return Score{}, fmt.Errorf("%w: expert %s has qualification status %q", ErrInvalidArgument, e.ID, e.Qualification)
	}

	var details ScoreDetails
	b := MatchScoreBreakdown{
		Specialty:     c.specialtyScore(e, d, &details),
		Qualification: qual,
		Career:        c.careerScore(e, &details),
		Evaluation:    c.evaluationScore(e, &details),
		Availability:  c.availabilityScore(e, &details),
	}

	b.Specialty = round2(clampScore(b.Specialty))
	b.Qualification = round2(clampScore(b.Qualification))
	b.Career = round2(clampScore(b.Career))
	b.Evaluation = round2(clampScore(b.Evaluation))
	b.Availability = round2(clampScore(b.Availability))
	b.Total = round2(clampScore(c.weights.combine(b)))

	return Score{Breakdown: b, Details: details}, nil
}

func (c *Calculator) specialtyScore(e Expert, d Demand, details *ScoreDetails) float64 {
	required := normalizeTags(d.RequiredSpecialties)
	details.RequiredSpecialties = required
	if len(required) == 0 {
		details.NeutralSpecialty = true
		return c.policy.NeutralSpecialty
	}

	have := make(map[string]struct{}, len(e.Specialties))
	for _, s := range normalizeTags(e.Specialties) {
		have[s] = struct{}{}
	}

	matched := make([]string, 0, len(required))
	missing := make([]string, 0)
	for _, r := range required {
		if _, ok := have[r]; ok {
			matched = append(matched, r)
		} else {
			missing = append(missing, r)
		}
	}
	details.MatchedSpecialties = matched
	details.MissingSpecialties = missing

	return float64(len(matched)) / float64(len(required)) * 100
}

func qualificationScore(q Qualification) (float64, bool) {
	switch q {
	case QualificationQualified:
		return 100, true
	case QualificationPending:
		return 50, true
	case QualificationDisqualified:
		return 0, true
	default:
		return 0, false
	}
}

func (c *Calculator) careerScore(e Expert, details *ScoreDetails) float64 {
	details.CareerYears = e.CareerYears
	details.CareerCapYears = c.policy.CareerCapYears
	if e.CareerYears <= 0 {
		return 0
	}
	return math.Min(100, float64(e.CareerYears)/float64(c.policy.CareerCapYears)*100)
}

func (c *Calculator) evaluationScore(e Expert, details *ScoreDetails) float64 {
	details.GradedCount = e.GradedCount
	if e.EvaluationPercent == nil || e.GradedCount <= 0 {
		details.NeutralEvaluation = true
		return c.policy.NeutralEvaluation
	}
	return *e.EvaluationPercent
}

func (c *Calculator) availabilityScore(e Expert, details *ScoreDetails) float64 {
	details.ActiveMatchings = e.ActiveMatchings
	switch {
	case e.Availability != nil:
		return *e.Availability
	case e.ActiveMatchings != nil:
		return c.policy.availabilityForActive(*e.ActiveMatchings)
	default:
		details.NeutralAvailability = true
		return c.policy.NeutralAvailability
	}
}

// normalizeTags trims and upper-cases tags, dropping blanks and duplicates.
// The result is sorted so details are stable across calls.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
