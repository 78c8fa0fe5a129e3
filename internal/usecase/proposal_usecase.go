package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"expert-match/internal/domain/match"
	"expert-match/internal/domain/matching"
	"expert-match/internal/pkg/metrics"
	"expert-match/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	SkipReasonNotFound   = "expert not found"
	SkipReasonUnscorable = "expert cannot be scored"
	SkipReasonExisting   = "active matching already exists"
)

const proposalLockTTL = 30 * time.Second

type ProposalRequest struct {
	DemandID   uuid.UUID
	ExpertIDs  []uuid.UUID
	OperatorID uuid.UUID
}

type SkippedProposal struct {
	ExpertID uuid.UUID
	Reason   string
}

type ProposalResult struct {
	Created []match.Matching
	Skipped []SkippedProposal
}

type ProposalUsecase interface {
	Propose(ctx context.Context, req ProposalRequest) (ProposalResult, error)
}

type Proposal struct {
	demands   repository.DemandRepository
	experts   repository.ExpertRepository
	matchings repository.MatchingRepository
	calc      *matching.Calculator
	cache     Cache
	logger    *zap.Logger
}

func NewProposalUsecase(
	demands repository.DemandRepository,
	experts repository.ExpertRepository,
	matchings repository.MatchingRepository,
	calc *matching.Calculator,
	cache Cache,
	logger *zap.Logger,
) *Proposal {
	if calc == nil {
		calc = matching.NewDefaultCalculator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Proposal{demands: demands, experts: experts, matchings: matchings, calc: calc, cache: cache, logger: logger}
}

// Propose stores a PROPOSED AUTO matching for every listed expert that can be
// scored and has no active matching on the demand yet.
func (u *Proposal) Propose(ctx context.Context, req ProposalRequest) (ProposalResult, error) {
	ids, err := normalizeExpertIDs(req)
	if err != nil {
		return ProposalResult{}, err
	}

	if u.cache != nil {
		key := ProposalLockKey(req.DemandID)
		token := req.OperatorID.String() + ":" + uuid.NewString()
		ok, err := u.cache.SetIfNotExists(ctx, key, token, proposalLockTTL)
		if err != nil {
			u.logger.Warn("proposal lock unavailable", zap.String("key", key), zap.Error(err))
		} else if !ok {
			return ProposalResult{}, ErrProposalInProgress
		} else {
			defer func() {
				released, err := u.cache.ReleaseLock(context.Background(), key, token)
				if err != nil {
					u.logger.Warn("proposal lock release failed", zap.String("key", key), zap.Error(err))
				} else if !released {
					u.logger.Warn("proposal lock expired before release", zap.String("key", key))
				}
			}()
		}
	}

	d, err := u.demands.FindByID(ctx, req.DemandID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ProposalResult{}, ErrDemandNotFound
		}
		u.logger.Error("load demand failed", zap.Stringer("demand_id", req.DemandID), zap.Error(err))
		return ProposalResult{}, ErrInternal
	}
	sd := d.ToScoring()

	var operator *uuid.UUID
	if req.OperatorID != uuid.Nil {
		op := req.OperatorID
		operator = &op
	}

	res := ProposalResult{Created: []match.Matching{}}
	proposals := make([]match.Matching, 0, len(ids))
	for _, id := range ids {
		e, err := u.experts.FindCandidateByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				res.Skipped = append(res.Skipped, SkippedProposal{ExpertID: id, Reason: SkipReasonNotFound})
				continue
			}
			if errors.Is(err, repository.ErrMalformedRow) {
				u.logger.Warn("expert skipped", zap.Stringer("expert_id", id), zap.Error(err))
				res.Skipped = append(res.Skipped, SkippedProposal{ExpertID: id, Reason: SkipReasonUnscorable})
				continue
			}
			u.logger.Error("load expert failed", zap.Stringer("expert_id", id), zap.Error(err))
			return ProposalResult{}, ErrInternal
		}

		s, err := u.calc.Score(e.ToScoring(), sd)
		if err != nil {
			u.logger.Warn("expert skipped", zap.Stringer("expert_id", id), zap.Error(err))
			res.Skipped = append(res.Skipped, SkippedProposal{ExpertID: id, Reason: SkipReasonUnscorable})
			continue
		}

		total := s.Breakdown.Total
		proposals = append(proposals, match.Matching{
			ExpertID:       id,
			DemandID:       d.ID,
			Type:           match.TypeAuto,
			Status:         string(matching.StatusProposed),
			MatchScore:     &total,
			ScoreBreakdown: breakdownSnapshot(s.Breakdown),
			MatchedBy:      operator,
		})
	}

	created, err := u.matchings.CreateProposals(ctx, d.ID, proposals)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ProposalResult{}, ErrDemandNotFound
		}
		u.logger.Error("create proposals failed", zap.Stringer("demand_id", d.ID), zap.Error(err))
		return ProposalResult{}, ErrInternal
	}

	inserted := make(map[uuid.UUID]struct{}, len(created))
	for _, m := range created {
		inserted[m.ExpertID] = struct{}{}
	}
	for _, p := range proposals {
		if _, ok := inserted[p.ExpertID]; !ok {
			res.Skipped = append(res.Skipped, SkippedProposal{ExpertID: p.ExpertID, Reason: SkipReasonExisting})
		}
	}
	res.Created = created

	if len(created) > 0 {
		metrics.ProposalsCreated.Add(float64(len(created)))
		if u.cache != nil {
			if err := u.cache.DeleteByPattern(ctx, RecommendationCachePattern); err != nil {
				u.logger.Warn("recommendation cache invalidation failed", zap.Error(err))
			}
		}
	}

	return res, nil
}

func normalizeExpertIDs(req ProposalRequest) ([]uuid.UUID, error) {
	if req.DemandID == uuid.Nil {
		return nil, fmt.Errorf("%w: demand id is required", ErrInvalidInput)
	}
	if len(req.ExpertIDs) == 0 {
		return nil, fmt.Errorf("%w: expert_ids must not be empty", ErrInvalidInput)
	}

	seen := make(map[uuid.UUID]struct{}, len(req.ExpertIDs))
	out := make([]uuid.UUID, 0, len(req.ExpertIDs))
	for _, id := range req.ExpertIDs {
		if id == uuid.Nil {
			return nil, fmt.Errorf("%w: expert_ids contains a nil id", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) > matching.MaxTopN {
		return nil, fmt.Errorf("%w: at most %d experts per request", ErrInvalidInput, matching.MaxTopN)
	}
	return out, nil
}

func breakdownSnapshot(b matching.MatchScoreBreakdown) map[string]float64 {
	return map[string]float64{
		"specialty":     b.Specialty,
		"qualification": b.Qualification,
		"career":        b.Career,
		"evaluation":    b.Evaluation,
		"availability":  b.Availability,
		"total":         b.Total,
	}
}
