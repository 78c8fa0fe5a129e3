package dto

import (
	"time"

	"github.com/google/uuid"
)

type ScoreBreakdownResponse struct {
	Specialty     float64 `json:"specialty"`
	Qualification float64 `json:"qualification"`
	Career        float64 `json:"career"`
	Evaluation    float64 `json:"evaluation"`
	Availability  float64 `json:"availability"`
}

type ScoreDetailsResponse struct {
	RequiredSpecialties []string `json:"required_specialties"`
	MatchedSpecialties  []string `json:"matched_specialties"`
	MissingSpecialties  []string `json:"missing_specialties"`
	CareerYears         int      `json:"career_years"`
	CareerCapYears      int      `json:"career_cap_years"`
	ActiveMatchings     *int     `json:"active_matchings"`
	GradedCount         int      `json:"graded_count"`
	NeutralSpecialty    bool     `json:"neutral_specialty"`
	NeutralEvaluation   bool     `json:"neutral_evaluation"`
	NeutralAvailability bool     `json:"neutral_availability"`
}

type RecommendedCandidateResponse struct {
	ExpertID              uuid.UUID              `json:"expert_id"`
	ExpertName            string                 `json:"expert_name"`
	TotalScore            float64                `json:"total_score"`
	ScoreBreakdown        ScoreBreakdownResponse `json:"score_breakdown"`
	RecommendationReasons []string               `json:"recommendation_reasons"`
	Specialties           []string               `json:"specialties"`
	QualificationStatus   string                 `json:"qualification_status"`
	Details               ScoreDetailsResponse   `json:"details"`
}

type RecommendResponse struct {
	DemandID         uuid.UUID                      `json:"demand_id"`
	DemandTitle      string                         `json:"demand_title"`
	Candidates       []RecommendedCandidateResponse `json:"candidates"`
	TotalCandidates  int                            `json:"total_candidates"`
	Considered       int                            `json:"considered"`
	Eligible         int                            `json:"eligible"`
	Skipped          int                            `json:"skipped"`
	AlgorithmVersion string                         `json:"algorithm_version"`
}

type CompatibilityResponse struct {
	ExpertID           uuid.UUID              `json:"expert_id"`
	DemandID           uuid.UUID              `json:"demand_id"`
	TotalScore         float64                `json:"total_score"`
	ScoreBreakdown     ScoreBreakdownResponse `json:"score_breakdown"`
	Recommendation     string                 `json:"recommendation"`
	RecommendationText string                 `json:"recommendation_text"`
	Reasons            []string               `json:"reasons"`
	Details            ScoreDetailsResponse   `json:"details"`
}

type MatchingResponse struct {
	ID             uuid.UUID          `json:"id"`
	ExpertID       uuid.UUID          `json:"expert_id"`
	DemandID       uuid.UUID          `json:"demand_id"`
	MatchingType   string             `json:"matching_type"`
	Status         string             `json:"status"`
	MatchScore     *float64           `json:"match_score"`
	ScoreBreakdown map[string]float64 `json:"score_breakdown"`
	MatchedBy      *uuid.UUID         `json:"matched_by"`

	ExpertResponse  *string    `json:"expert_response,omitempty"`
	RespondedAt     *time.Time `json:"expert_responded_at,omitempty"`
	CompanyFeedback *string    `json:"company_feedback,omitempty"`
	CompanyRating   *int       `json:"company_rating,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type SkippedProposalResponse struct {
	ExpertID uuid.UUID `json:"expert_id"`
	Reason   string    `json:"reason"`
}

type ProposalResponse struct {
	Created []MatchingResponse        `json:"created"`
	Skipped []SkippedProposalResponse `json:"skipped"`
}

type ExpertMatchCountResponse struct {
	ExpertID   uuid.UUID `json:"expert_id"`
	MatchCount int       `json:"match_count"`
}

type AnalyticsResponse struct {
	StatusDistribution  map[string]int             `json:"status_distribution"`
	SuccessRate         float64                    `json:"success_rate"`
	AverageMatchScore   float64                    `json:"average_match_score"`
	TotalActiveMatching int                        `json:"total_active_matchings"`
	TotalCompleted      int                        `json:"total_completed"`
	TopMatchedExperts   []ExpertMatchCountResponse `json:"top_matched_experts"`
}

type HealthResponse struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
}
