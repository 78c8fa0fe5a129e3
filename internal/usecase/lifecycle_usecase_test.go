package usecase

import (
	"context"
	"errors"
	"testing"

	"expert-match/internal/domain/match"
	"expert-match/internal/domain/matching"
	"expert-match/internal/repository"

	"github.com/google/uuid"
)

var (
	matchingID = uuid.MustParse("00000000-0000-0000-0000-0000000000f1")
	expertUser = uuid.MustParse("00000000-0000-0000-0000-0000000000b1")
)

func lifecycleRepo(status matching.MatchingStatus) *mockMatchingRepo {
	return &mockMatchingRepo{items: map[uuid.UUID]match.Matching{
		matchingID: {
			ID:           matchingID,
			ExpertID:     expertA,
			DemandID:     demandML,
			Status:       string(status),
			IsActive:     true,
			ExpertUserID: expertUser,
		},
	}}
}

func cachedRecommendation(t *testing.T) *memCache {
	t.Helper()
	cache := newMemCache()
	if err := cache.SetJSON(context.Background(), RecommendationCacheKey(demandML, 10, 50), "stale", 0); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	return cache
}

func assertRecommendationsInvalidated(t *testing.T, cache *memCache) {
	t.Helper()
	if found, _ := cache.GetJSON(context.Background(), RecommendationCacheKey(demandML, 10, 50), new(string)); found {
		t.Fatalf("expected cached recommendations to be invalidated")
	}
}

func TestLifecycle_RespondAcceptByExpert(t *testing.T) {
	repo := lifecycleRepo(matching.StatusProposed)
	cache := cachedRecommendation(t)
	uc := NewLifecycleUsecase(repo, cache, nil)

	m, err := uc.Respond(context.Background(), RespondRequest{
		MatchingID: matchingID,
		Accept:     true,
		Message:    "  happy to help  ",
		ActorID:    expertUser,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if m.Status != string(matching.StatusAccepted) {
		t.Fatalf("expected ACCEPTED, got %s", m.Status)
	}
	if m.ExpertResponse == nil || *m.ExpertResponse != "happy to help" {
		t.Fatalf("unexpected response text: %v", m.ExpertResponse)
	}
	if m.RespondedAt == nil {
		t.Fatalf("expected responded_at to be set")
	}
	if len(repo.updates) != 1 || len(repo.updates[0].From) != 1 || repo.updates[0].From[0] != string(matching.StatusProposed) {
		t.Fatalf("expected a PROPOSED-only update, got %+v", repo.updates)
	}
	assertRecommendationsInvalidated(t, cache)
}

func TestLifecycle_RespondRejectByOperator(t *testing.T) {
	repo := lifecycleRepo(matching.StatusProposed)
	uc := NewLifecycleUsecase(repo, nil, nil)

	m, err := uc.Respond(context.Background(), RespondRequest{MatchingID: matchingID, ActorID: uuid.New(), AsOperator: true})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if m.Status != string(matching.StatusRejected) {
		t.Fatalf("expected REJECTED, got %s", m.Status)
	}
	if m.ExpertResponse != nil {
		t.Fatalf("expected empty message to leave response unset")
	}
}

func TestLifecycle_RespondRejectsOtherUsers(t *testing.T) {
	repo := lifecycleRepo(matching.StatusProposed)
	uc := NewLifecycleUsecase(repo, nil, nil)

	for _, actor := range []uuid.UUID{uuid.New(), uuid.Nil} {
		if _, err := uc.Respond(context.Background(), RespondRequest{MatchingID: matchingID, Accept: true, ActorID: actor}); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden for %s, got %v", actor, err)
		}
	}
	if len(repo.updates) != 0 {
		t.Fatalf("expected no update, got %+v", repo.updates)
	}
}

func TestLifecycle_RespondOnlyFromProposed(t *testing.T) {
	for _, s := range []matching.MatchingStatus{
		matching.StatusAccepted,
		matching.StatusRejected,
		matching.StatusInProgress,
		matching.StatusCompleted,
		matching.StatusCancelled,
	} {
		repo := lifecycleRepo(s)
		cache := cachedRecommendation(t)
		uc := NewLifecycleUsecase(repo, cache, nil)

		_, err := uc.Respond(context.Background(), RespondRequest{MatchingID: matchingID, Accept: true, ActorID: expertUser})
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("%s: expected ErrInvalidTransition, got %v", s, err)
		}
		if len(repo.updates) != 0 {
			t.Fatalf("%s: expected no update", s)
		}
		if found, _ := cache.GetJSON(context.Background(), RecommendationCacheKey(demandML, 10, 50), new(string)); !found {
			t.Fatalf("%s: expected cache to be left alone on a refused change", s)
		}
	}
}

func TestLifecycle_RespondLosesRace(t *testing.T) {
	repo := lifecycleRepo(matching.StatusProposed)
	repo.updateErr = repository.ErrStatusConflict
	uc := NewLifecycleUsecase(repo, nil, nil)

	_, err := uc.Respond(context.Background(), RespondRequest{MatchingID: matchingID, ActorID: expertUser})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestLifecycle_NotFound(t *testing.T) {
	repo := lifecycleRepo(matching.StatusProposed)
	uc := NewLifecycleUsecase(repo, nil, nil)

	if _, err := uc.Respond(context.Background(), RespondRequest{MatchingID: uuid.New(), AsOperator: true}); !errors.Is(err, ErrMatchingNotFound) {
		t.Fatalf("expected ErrMatchingNotFound, got %v", err)
	}

	inactive := repo.items[matchingID]
	inactive.IsActive = false
	repo.items[matchingID] = inactive
	if _, err := uc.SubmitFeedback(context.Background(), FeedbackRequest{MatchingID: matchingID, Rating: 4}); !errors.Is(err, ErrMatchingNotFound) {
		t.Fatalf("expected ErrMatchingNotFound for inactive matching, got %v", err)
	}
}

func TestLifecycle_SubmitFeedbackCompletes(t *testing.T) {
	for _, from := range []matching.MatchingStatus{matching.StatusAccepted, matching.StatusInProgress} {
		repo := lifecycleRepo(from)
		cache := cachedRecommendation(t)
		uc := NewLifecycleUsecase(repo, cache, nil)

		m, err := uc.SubmitFeedback(context.Background(), FeedbackRequest{MatchingID: matchingID, Rating: 5, Feedback: "great review"})
		if err != nil {
			t.Fatalf("%s: unexpected err: %v", from, err)
		}
		if m.Status != string(matching.StatusCompleted) {
			t.Fatalf("%s: expected COMPLETED, got %s", from, m.Status)
		}
		if m.CompanyRating == nil || *m.CompanyRating != 5 {
			t.Fatalf("%s: unexpected rating %v", from, m.CompanyRating)
		}
		if m.CompanyFeedback == nil || *m.CompanyFeedback != "great review" {
			t.Fatalf("%s: unexpected feedback %v", from, m.CompanyFeedback)
		}
		assertRecommendationsInvalidated(t, cache)
	}
}

func TestLifecycle_SubmitFeedbackValidation(t *testing.T) {
	repo := lifecycleRepo(matching.StatusAccepted)
	uc := NewLifecycleUsecase(repo, nil, nil)

	for _, rating := range []int{0, 6, -1} {
		if _, err := uc.SubmitFeedback(context.Background(), FeedbackRequest{MatchingID: matchingID, Rating: rating}); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for rating %d, got %v", rating, err)
		}
	}
	if _, err := uc.SubmitFeedback(context.Background(), FeedbackRequest{Rating: 3}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing id, got %v", err)
	}

	proposed := lifecycleRepo(matching.StatusProposed)
	uc = NewLifecycleUsecase(proposed, nil, nil)
	if _, err := uc.SubmitFeedback(context.Background(), FeedbackRequest{MatchingID: matchingID, Rating: 3}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition from PROPOSED, got %v", err)
	}
}

func TestLifecycle_RepositoryFailure(t *testing.T) {
	repo := lifecycleRepo(matching.StatusProposed)
	repo.updateErr = errors.New("connection reset")
	uc := NewLifecycleUsecase(repo, nil, nil)

	if _, err := uc.Respond(context.Background(), RespondRequest{MatchingID: matchingID, AsOperator: true}); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}
