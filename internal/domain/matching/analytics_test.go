package matching

import (
	"testing"

	"github.com/google/uuid"
)

func TestAnalyze_Empty(t *testing.T) {
	a := Analyze(nil)
	if a.SuccessRate != 0 || a.AverageMatchScore != 0 || a.TotalActive != 0 {
		t.Fatalf("unexpected analytics: %+v", a)
	}
	if len(a.StatusDistribution) != len(AllStatuses) {
		t.Fatalf("expected every status in distribution, got %v", a.StatusDistribution)
	}
	if len(a.TopMatchedExperts) != 0 {
		t.Fatalf("expected no top experts")
	}
}

func TestAnalyze_Counts(t *testing.T) {
	e1 := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	e2 := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	e3 := uuid.MustParse("00000000-0000-0000-0000-000000000003")

	records := []MatchingRecord{
		{ExpertID: e1, Status: StatusCompleted, MatchScore: ptrF(90)},
		{ExpertID: e1, Status: StatusCompleted, MatchScore: ptrF(80)},
		{ExpertID: e1, Status: StatusInProgress, MatchScore: ptrF(70)},
		{ExpertID: e2, Status: StatusRejected},
		{ExpertID: e2, Status: StatusProposed, MatchScore: ptrF(65)},
		{ExpertID: e3, Status: StatusCancelled},
		{ExpertID: e3, Status: StatusAccepted},
	}

	a := Analyze(records)
	if a.StatusDistribution[StatusCompleted] != 2 || a.StatusDistribution[StatusRejected] != 1 {
		t.Fatalf("unexpected distribution: %v", a.StatusDistribution)
	}
	if a.SuccessRate != 50 {
		t.Fatalf("expected success rate 50, got %v", a.SuccessRate)
	}
	if a.AverageMatchScore != 76.3 {
		t.Fatalf("expected average 76.3, got %v", a.AverageMatchScore)
	}
	if a.TotalActive != 3 || a.TotalCompleted != 2 {
		t.Fatalf("unexpected totals: active=%d completed=%d", a.TotalActive, a.TotalCompleted)
	}
	if len(a.TopMatchedExperts) != 3 {
		t.Fatalf("expected 3 experts, got %d", len(a.TopMatchedExperts))
	}
	if a.TopMatchedExperts[0].ExpertID != e1 || a.TopMatchedExperts[0].MatchCount != 3 {
		t.Fatalf("unexpected top expert: %+v", a.TopMatchedExperts[0])
	}
	if a.TopMatchedExperts[1].ExpertID != e2 || a.TopMatchedExperts[2].ExpertID != e3 {
		t.Fatalf("expected ties ordered by id: %+v", a.TopMatchedExperts)
	}
}

func TestAnalyze_TopFive(t *testing.T) {
	records := make([]MatchingRecord, 0, 8)
	for i := 0; i < 8; i++ {
		records = append(records, MatchingRecord{ExpertID: uuid.New(), Status: StatusProposed})
	}
	if got := len(Analyze(records).TopMatchedExperts); got != 5 {
		t.Fatalf("expected 5 top experts, got %d", got)
	}
}
