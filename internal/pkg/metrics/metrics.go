package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK       = "ok"
	OutcomeCached   = "cached"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

var (
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expert_match_recommendation_requests_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "expert_match_recommendation_duration_seconds",
			Help:    "Time spent scoring and ranking one candidate pool",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
	)

	CandidatePoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "expert_match_candidate_pool_size",
			Help:    "Experts considered per recommendation",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	CandidateTotalScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "expert_match_candidate_total_score",
			Help:    "Total score of returned candidates",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	SkippedExperts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expert_match_skipped_experts_total",
			Help: "Experts left out of a recommendation because their record could not be scored",
		},
	)

	ProposalsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expert_match_proposals_created_total",
			Help: "Matchings proposed from recommendations",
		},
	)

	MatchingTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expert_match_matching_transitions_total",
			Help: "Matching status changes by target status",
		},
		[]string{"status"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expert_match_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)
)
