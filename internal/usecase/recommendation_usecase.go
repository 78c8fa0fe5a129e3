package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"expert-match/internal/domain/expert"
	"expert-match/internal/domain/matching"
	"expert-match/internal/pkg/metrics"
	"expert-match/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const AlgorithmVersion = "v1.0"

type RecommendationParams struct {
	// Nil fields fall back to the configured defaults.
	TopN     *int
	MinScore *float64
}

type RecommendationResult struct {
	DemandID         uuid.UUID
	DemandTitle      string
	Candidates       []matching.RecommendedCandidate
	TotalCandidates  int
	Considered       int
	Eligible         int
	Skipped          int
	AlgorithmVersion string
}

type RecommendationUsecase interface {
	Recommend(ctx context.Context, demandID uuid.UUID, params RecommendationParams) (RecommendationResult, error)
}

type RecommendationOptions struct {
	DefaultTopN     int
	DefaultMinScore float64
	CacheTTL        time.Duration
}

type Recommendation struct {
	demands     repository.DemandRepository
	experts     repository.ExpertRepository
	recommender *matching.Recommender
	cache       Cache
	opts        RecommendationOptions
	logger      *zap.Logger
}

func NewRecommendationUsecase(
	demands repository.DemandRepository,
	experts repository.ExpertRepository,
	recommender *matching.Recommender,
	cache Cache,
	opts RecommendationOptions,
	logger *zap.Logger,
) *Recommendation {
	if recommender == nil {
		recommender = matching.NewRecommender(nil, 0)
	}
	if opts.DefaultTopN <= 0 {
		opts.DefaultTopN = matching.DefaultTopN
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recommendation{
		demands:     demands,
		experts:     experts,
		recommender: recommender,
		cache:       cache,
		opts:        opts,
		logger:      logger,
	}
}

func (u *Recommendation) Recommend(ctx context.Context, demandID uuid.UUID, params RecommendationParams) (RecommendationResult, error) {
	res, outcome, err := u.recommend(ctx, demandID, params)
	metrics.RecommendationRequests.WithLabelValues(outcome).Inc()
	return res, err
}

func (u *Recommendation) recommend(ctx context.Context, demandID uuid.UUID, params RecommendationParams) (RecommendationResult, string, error) {
	topN := u.opts.DefaultTopN
	if params.TopN != nil {
		topN = *params.TopN
	}
	minScore := u.opts.DefaultMinScore
	if params.MinScore != nil {
		minScore = *params.MinScore
	}
	if demandID == uuid.Nil {
		return RecommendationResult{}, metrics.OutcomeInvalid, fmt.Errorf("%w: demand id is required", ErrInvalidInput)
	}
	if err := matching.ValidateArguments(topN, minScore); err != nil {
		return RecommendationResult{}, metrics.OutcomeInvalid, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if topN > matching.MaxTopN {
		topN = matching.MaxTopN
	}

	key := RecommendationCacheKey(demandID, topN, minScore)
	if u.cacheEnabled() {
		var cached RecommendationResult
		found, err := u.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			u.logger.Warn("recommendation cache read failed", zap.String("key", key), zap.Error(err))
		} else if found {
			return cached, metrics.OutcomeCached, nil
		}
	}

	d, err := u.demands.FindByID(ctx, demandID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return RecommendationResult{}, metrics.OutcomeNotFound, ErrDemandNotFound
		}
		u.logger.Error("load demand failed", zap.Stringer("demand_id", demandID), zap.Error(err))
		return RecommendationResult{}, metrics.OutcomeError, ErrInternal
	}

	pool, err := u.experts.ListCandidatePool(ctx)
	if err != nil {
		u.logger.Error("load candidate pool failed", zap.Stringer("demand_id", demandID), zap.Error(err))
		return RecommendationResult{}, metrics.OutcomeError, ErrInternal
	}

	scorable, malformed := splitPool(pool)
	for _, c := range malformed {
		metrics.SkippedExperts.Inc()
		u.logger.Warn("expert skipped",
			zap.Stringer("demand_id", demandID),
			zap.Stringer("expert_id", c.ID),
			zap.Error(c.LoadErr),
		)
	}

	start := time.Now()
	rec, err := u.recommender.Recommend(ctx, d.ToScoring(), toScoringPool(scorable), topN, minScore)
	metrics.RecommendationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, matching.ErrInvalidArgument) {
			return RecommendationResult{}, metrics.OutcomeInvalid, fmt.Errorf("%w: %v", ErrUnscorable, err)
		}
		if ctx.Err() != nil {
			return RecommendationResult{}, metrics.OutcomeError, ctx.Err()
		}
		u.logger.Error("recommend failed", zap.Stringer("demand_id", demandID), zap.Error(err))
		return RecommendationResult{}, metrics.OutcomeError, ErrInternal
	}

	metrics.CandidatePoolSize.Observe(float64(rec.Considered + len(malformed)))
	for _, s := range rec.Skipped {
		metrics.SkippedExperts.Inc()
		u.logger.Warn("expert skipped",
			zap.Stringer("demand_id", demandID),
			zap.Stringer("expert_id", s.ExpertID),
			zap.Error(s.Err),
		)
	}
	for _, c := range rec.Candidates {
		metrics.CandidateTotalScore.Observe(c.TotalScore)
	}

	res := RecommendationResult{
		DemandID:         d.ID,
		DemandTitle:      d.Title,
		Candidates:       rec.Candidates,
		TotalCandidates:  len(rec.Candidates),
		Considered:       rec.Considered + len(malformed),
		Eligible:         rec.Eligible,
		Skipped:          len(rec.Skipped) + len(malformed),
		AlgorithmVersion: AlgorithmVersion,
	}

	if u.cacheEnabled() {
		if err := u.cache.SetJSON(ctx, key, res, u.opts.CacheTTL); err != nil {
			u.logger.Warn("recommendation cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return res, metrics.OutcomeOK, nil
}

func (u *Recommendation) cacheEnabled() bool {
	return u.cache != nil && u.opts.CacheTTL > 0
}

// splitPool separates candidates whose rows failed to decode.
func splitPool(pool []expert.Candidate) (scorable, malformed []expert.Candidate) {
	scorable = make([]expert.Candidate, 0, len(pool))
	for _, c := range pool {
		if c.LoadErr != nil {
			malformed = append(malformed, c)
			continue
		}
		scorable = append(scorable, c)
	}
	return scorable, malformed
}

func toScoringPool(pool []expert.Candidate) []matching.Expert {
	out := make([]matching.Expert, 0, len(pool))
	for _, c := range pool {
		out = append(out, c.ToScoring())
	}
	return out
}
