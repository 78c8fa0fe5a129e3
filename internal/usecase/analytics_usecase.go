package usecase

import (
	"context"

	"expert-match/internal/domain/matching"
	"expert-match/internal/repository"

	"go.uber.org/zap"
)

type AnalyticsUsecase interface {
	Summary(ctx context.Context) (matching.Analytics, error)
}

type Analytics struct {
	matchings repository.MatchingRepository
	logger    *zap.Logger
}

func NewAnalyticsUsecase(matchings repository.MatchingRepository, logger *zap.Logger) *Analytics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analytics{matchings: matchings, logger: logger}
}

func (u *Analytics) Summary(ctx context.Context) (matching.Analytics, error) {
	records, err := u.matchings.ListActiveRecords(ctx)
	if err != nil {
		u.logger.Error("load matchings failed", zap.Error(err))
		return matching.Analytics{}, ErrInternal
	}
	return matching.Analyze(records), nil
}
