package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"expert-match/internal/domain/match"
	"expert-match/internal/domain/matching"
	"expert-match/internal/pkg/metrics"
	"expert-match/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MinRating = 1
	MaxRating = 5
)

// feedbackFrom lists the states a matching can be completed from.
var feedbackFrom = []string{string(matching.StatusAccepted), string(matching.StatusInProgress)}

type RespondRequest struct {
	MatchingID uuid.UUID
	Accept     bool
	Message    string
	ActorID    uuid.UUID
	// AsOperator lets an operator record the answer on the expert's behalf.
	AsOperator bool
}

type FeedbackRequest struct {
	MatchingID uuid.UUID
	Rating     int
	Feedback   string
}

type LifecycleUsecase interface {
	Respond(ctx context.Context, req RespondRequest) (match.Matching, error)
	SubmitFeedback(ctx context.Context, req FeedbackRequest) (match.Matching, error)
}

type Lifecycle struct {
	matchings repository.MatchingRepository
	cache     Cache
	logger    *zap.Logger
	now       func() time.Time
}

func NewLifecycleUsecase(matchings repository.MatchingRepository, cache Cache, logger *zap.Logger) *Lifecycle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lifecycle{matchings: matchings, cache: cache, logger: logger, now: time.Now}
}

// Respond records the expert's answer to a PROPOSED matching.
func (u *Lifecycle) Respond(ctx context.Context, req RespondRequest) (match.Matching, error) {
	if req.MatchingID == uuid.Nil {
		return match.Matching{}, fmt.Errorf("%w: matching id is required", ErrInvalidInput)
	}

	m, err := u.load(ctx, req.MatchingID)
	if err != nil {
		return match.Matching{}, err
	}
	if !req.AsOperator && (req.ActorID == uuid.Nil || m.ExpertUserID != req.ActorID) {
		return match.Matching{}, ErrForbidden
	}
	if m.Status != string(matching.StatusProposed) {
		return match.Matching{}, fmt.Errorf("%w: %s", ErrInvalidTransition, m.Status)
	}

	to := matching.StatusRejected
	if req.Accept {
		to = matching.StatusAccepted
	}
	at := u.now().UTC()
	return u.apply(ctx, m.ID, match.StatusUpdate{
		From:           []string{string(matching.StatusProposed)},
		Status:         string(to),
		ExpertResponse: optionalText(req.Message),
		RespondedAt:    &at,
	})
}

// SubmitFeedback completes an accepted or running matching with the company's
// rating.
func (u *Lifecycle) SubmitFeedback(ctx context.Context, req FeedbackRequest) (match.Matching, error) {
	if req.MatchingID == uuid.Nil {
		return match.Matching{}, fmt.Errorf("%w: matching id is required", ErrInvalidInput)
	}
	if req.Rating < MinRating || req.Rating > MaxRating {
		return match.Matching{}, fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidInput, MinRating, MaxRating)
	}

	m, err := u.load(ctx, req.MatchingID)
	if err != nil {
		return match.Matching{}, err
	}
	if !slices.Contains(feedbackFrom, m.Status) {
		return match.Matching{}, fmt.Errorf("%w: %s", ErrInvalidTransition, m.Status)
	}

	rating := req.Rating
	return u.apply(ctx, m.ID, match.StatusUpdate{
		From:            feedbackFrom,
		Status:          string(matching.StatusCompleted),
		CompanyFeedback: optionalText(req.Feedback),
		CompanyRating:   &rating,
	})
}

func (u *Lifecycle) load(ctx context.Context, id uuid.UUID) (match.Matching, error) {
	m, err := u.matchings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return match.Matching{}, ErrMatchingNotFound
		}
		u.logger.Error("load matching failed", zap.Stringer("matching_id", id), zap.Error(err))
		return match.Matching{}, ErrInternal
	}
	if !m.IsActive {
		return match.Matching{}, ErrMatchingNotFound
	}
	return m, nil
}

func (u *Lifecycle) apply(ctx context.Context, id uuid.UUID, upd match.StatusUpdate) (match.Matching, error) {
	m, err := u.matchings.UpdateStatus(ctx, id, upd)
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return match.Matching{}, fmt.Errorf("%w: changed concurrently", ErrInvalidTransition)
		}
		u.logger.Error("update matching failed", zap.Stringer("matching_id", id), zap.String("status", upd.Status), zap.Error(err))
		return match.Matching{}, ErrInternal
	}

	metrics.MatchingTransitions.WithLabelValues(upd.Status).Inc()
	u.logger.Info("matching status changed",
		zap.Stringer("matching_id", id),
		zap.Stringer("expert_id", m.ExpertID),
		zap.String("status", upd.Status),
	)

	// Open matching counts feed availability for every demand.
	if u.cache != nil {
		if err := u.cache.DeleteByPattern(ctx, RecommendationCachePattern); err != nil {
			u.logger.Warn("recommendation cache invalidation failed", zap.Error(err))
		}
	}
	return m, nil
}

func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
