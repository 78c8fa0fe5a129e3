package matching

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"slices"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type RecommendedCandidate struct {
	ExpertID      uuid.UUID
	ExpertName    string
	Breakdown     MatchScoreBreakdown
	TotalScore    float64
	Reasons       []string
	Specialties   []string
	Qualification Qualification
	Details       ScoreDetails
}

// SkippedExpert is a pool entry that could not be scored.
type SkippedExpert struct {
	ExpertID uuid.UUID
	Err      error
}

type Recommendation struct {
	Candidates []RecommendedCandidate
	Skipped    []SkippedExpert
	// Considered is the pool size, Eligible the number at or above the threshold
	// before truncation to top-N.
	Considered int
	Eligible   int
}

type Recommender struct {
	calc        *Calculator
	parallelism int
}

// NewRecommender scores pools with at most parallelism goroutines; zero or
// less means GOMAXPROCS.
func NewRecommender(calc *Calculator, parallelism int) *Recommender {
	if calc == nil {
		calc = NewDefaultCalculator()
	}
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	return &Recommender{calc: calc, parallelism: parallelism}
}

func (r *Recommender) Calculator() *Calculator { return r.calc }

// Recommend ranks pool against d and returns at most topN candidates whose
// total is at least minScore. Entries that fail validation are reported in
// Skipped and do not abort the rest of the pool.
func (r *Recommender) Recommend(ctx context.Context, d Demand, pool []Expert, topN int, minScore float64) (Recommendation, error) {
	if err := ValidateArguments(topN, minScore); err != nil {
		return Recommendation{}, err
	}
	if topN > MaxTopN {
		topN = MaxTopN
	}
	if d.RequiredSpecialties == nil {
		return Recommendation{}, fmt.Errorf("%w: demand %s has no required specialty set", ErrInvalidArgument, d.ID)
	}

	out := Recommendation{Considered: len(pool)}
	if len(pool) == 0 {
		out.Candidates = []RecommendedCandidate{}
		return out, nil
	}

	scores := make([]Score, len(pool))
	errs := make([]error, len(pool))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)
	for i := range pool {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scores[i], errs[i] = r.calc.Score(pool[i], d)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Recommendation{}, err
	}

	candidates := make([]RecommendedCandidate, 0, len(pool))
	for i, e := range pool {
		if errs[i] != nil {
			out.Skipped = append(out.Skipped, SkippedExpert{ExpertID: e.ID, Err: errs[i]})
			continue
		}
		b := scores[i].Breakdown
		if b.Total < minScore {
			continue
		}
		candidates = append(candidates, RecommendedCandidate{
			ExpertID:      e.ID,
			ExpertName:    e.Name,
			Breakdown:     b,
			TotalScore:    b.Total,
			Specialties:   slices.Clone(e.Specialties),
			Qualification: e.Qualification,
			Details:       scores[i].Details,
		})
	}
	out.Eligible = len(candidates)

	SortCandidates(candidates)
	if len(candidates) > topN {
		candidates = candidates[:topN]
	}
	for i := range candidates {
		candidates[i].Reasons = Reasons(candidates[i].Breakdown)
	}

	out.Candidates = candidates
	return out, nil
}

// ValidateArguments checks topN and minScore the way Recommend does. A topN
// above MaxTopN is valid and clamped by Recommend.
func ValidateArguments(topN int, minScore float64) error {
	if topN <= 0 {
		return fmt.Errorf("%w: top_n must be positive, got %d", ErrInvalidArgument, topN)
	}
	if math.IsNaN(minScore) || minScore < 0 || minScore > 100 {
		return fmt.Errorf("%w: min_score must be within [0, 100], got %v", ErrInvalidArgument, minScore)
	}
	return nil
}

// SortCandidates orders by total, then qualification, then career, all
// descending, and finally by expert ID ascending.
func SortCandidates(cs []RecommendedCandidate) {
	sort.Slice(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if a.Breakdown.Total != b.Breakdown.Total {
			return a.Breakdown.Total > b.Breakdown.Total
		}
		if a.Breakdown.Qualification != b.Breakdown.Qualification {
			return a.Breakdown.Qualification > b.Breakdown.Qualification
		}
		if a.Breakdown.Career != b.Breakdown.Career {
			return a.Breakdown.Career > b.Breakdown.Career
		}
		return a.ExpertID.String() < b.ExpertID.String()
	})
}
