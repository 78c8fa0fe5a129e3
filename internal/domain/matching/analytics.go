package matching

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

type MatchingStatus string

const (
	StatusProposed   MatchingStatus = "PROPOSED"
	StatusAccepted   MatchingStatus = "ACCEPTED"
	StatusRejected   MatchingStatus = "REJECTED"
	StatusInProgress MatchingStatus = "IN_PROGRESS"
	StatusCompleted  MatchingStatus = "COMPLETED"
	StatusCancelled  MatchingStatus = "CANCELLED"
)

var AllStatuses = []MatchingStatus{
	StatusProposed,
	StatusAccepted,
	StatusRejected,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

// IsOpen reports whether a matching still occupies the expert.
func (s MatchingStatus) IsOpen() bool {
	return s == StatusProposed || s == StatusAccepted || s == StatusInProgress
}

const topMatchedExperts = 5

// MatchingRecord is the slice of a stored matching that analytics needs.
type MatchingRecord struct {
	ExpertID   uuid.UUID
	Status     MatchingStatus
	MatchScore *float64
}

type ExpertMatchCount struct {
	ExpertID   uuid.UUID
	MatchCount int
}

type Analytics struct {
	StatusDistribution map[MatchingStatus]int
	SuccessRate        float64
	AverageMatchScore  float64
	TotalActive        int
	TotalCompleted     int
	TopMatchedExperts  []ExpertMatchCount
}

// Analyze summarizes active matchings. Success rate is completed over resolved
// (completed, rejected, cancelled) matchings, as a percentage.
func Analyze(records []MatchingRecord) Analytics {
	dist := make(map[MatchingStatus]int, len(AllStatuses))
	for _, s := range AllStatuses {
		dist[s] = 0
	}

	perExpert := map[uuid.UUID]int{}
	var scoreSum float64
	var scored int
	for _, r := range records {
		if _, ok := dist[r.Status]; ok {
			dist[r.Status]++
		}
		perExpert[r.ExpertID]++
		if r.MatchScore != nil && !math.IsNaN(*r.MatchScore) {
			scoreSum += *r.MatchScore
			scored++
		}
	}

	completed := dist[StatusCompleted]
	resolved := completed + dist[StatusRejected] + dist[StatusCancelled]

	out := Analytics{
		StatusDistribution: dist,
		TotalActive:        dist[StatusProposed] + dist[StatusAccepted] + dist[StatusInProgress],
		TotalCompleted:     completed,
	}
	if resolved > 0 {
		out.SuccessRate = round1(float64(completed) / float64(resolved) * 100)
	}
	if scored > 0 {
		out.AverageMatchScore = round1(scoreSum / float64(scored))
	}

	top := make([]ExpertMatchCount, 0, len(perExpert))
	for id, n := range perExpert {
		top = append(top, ExpertMatchCount{ExpertID: id, MatchCount: n})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].MatchCount != top[j].MatchCount {
			return top[i].MatchCount > top[j].MatchCount
		}
		return top[i].ExpertID.String() < top[j].ExpertID.String()
	})
	if len(top) > topMatchedExperts {
		top = top[:topMatchedExperts]
	}
	out.TopMatchedExperts = top

	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
