package matching

import "github.com/google/uuid"

type Band string

const (
	BandHighlyRecommended Band = "HIGHLY_RECOMMENDED"
	BandRecommended       Band = "RECOMMENDED"
	BandPossible          Band = "POSSIBLE"
	BandNotRecommended    Band = "NOT_RECOMMENDED"
)

func (b Band) Text() string {
	switch b {
	case BandHighlyRecommended:
		return "highly recommended"
	case BandRecommended:
		return "recommended"
	case BandPossible:
		return "possible"
	default:
		return "not recommended"
	}
}

type Compatibility struct {
	ExpertID  uuid.UUID
	DemandID  uuid.UUID
	Breakdown MatchScoreBreakdown
	Band      Band
	Reasons   []string
	Details   ScoreDetails
}

func (p Policy) BandFor(total float64) Band {
	switch {
	case total >= p.HighlyRecommendedAt:
		return BandHighlyRecommended
	case total >= p.RecommendedAt:
		return BandRecommended
	case total >= p.PossibleAt:
		return BandPossible
	default:
		return BandNotRecommended
	}
}

func (c *Calculator) CheckCompatibility(e Expert, d Demand) (Compatibility, error) {
	s, err := c.Score(e, d)
	if err != nil {
		return Compatibility{}, err
	}
	return Compatibility{
		ExpertID:  e.ID,
		DemandID:  d.ID,
		Breakdown: s.Breakdown,
		Band:      c.policy.BandFor(s.Breakdown.Total),
		Reasons:   Reasons(s.Breakdown),
		Details:   s.Details,
	}, nil
}
