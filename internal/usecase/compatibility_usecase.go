package usecase

import (
	"context"
	"errors"
	"fmt"

	"expert-match/internal/domain/matching"
	"expert-match/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CompatibilityUsecase interface {
	Check(ctx context.Context, expertID, demandID uuid.UUID) (matching.Compatibility, error)
}

type Compatibility struct {
	demands repository.DemandRepository
	experts repository.ExpertRepository
	calc    *matching.Calculator
	logger  *zap.Logger
}

func NewCompatibilityUsecase(demands repository.DemandRepository, experts repository.ExpertRepository, calc *matching.Calculator, logger *zap.Logger) *Compatibility {
	if calc == nil {
		calc = matching.NewDefaultCalculator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compatibility{demands: demands, experts: experts, calc: calc, logger: logger}
}

// Check scores one expert against one demand regardless of the expert's
// qualification or active flag.
func (u *Compatibility) Check(ctx context.Context, expertID, demandID uuid.UUID) (matching.Compatibility, error) {
	if expertID == uuid.Nil || demandID == uuid.Nil {
		return matching.Compatibility{}, fmt.Errorf("%w: expert id and demand id are required", ErrInvalidInput)
	}

	e, err := u.experts.FindCandidateByID(ctx, expertID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return matching.Compatibility{}, ErrExpertNotFound
		}
		if errors.Is(err, repository.ErrMalformedRow) {
			return matching.Compatibility{}, fmt.Errorf("%w: %v", ErrUnscorable, err)
		}
		u.logger.Error("load expert failed", zap.Stringer("expert_id", expertID), zap.Error(err))
		return matching.Compatibility{}, ErrInternal
	}

	d, err := u.demands.FindByID(ctx, demandID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return matching.Compatibility{}, ErrDemandNotFound
		}
		u.logger.Error("load demand failed", zap.Stringer("demand_id", demandID), zap.Error(err))
		return matching.Compatibility{}, ErrInternal
	}

	c, err := u.calc.CheckCompatibility(e.ToScoring(), d.ToScoring())
	if err != nil {
		if errors.Is(err, matching.ErrInvalidArgument) {
			return matching.Compatibility{}, fmt.Errorf("%w: %v", ErrUnscorable, err)
		}
		return matching.Compatibility{}, ErrInternal
	}
	return c, nil
}
