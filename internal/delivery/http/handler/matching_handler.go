package handler

import (
	"errors"
	"strconv"

	"expert-match/internal/delivery/http/dto"
	"expert-match/internal/delivery/http/middleware"
	"expert-match/internal/domain/match"
	"expert-match/internal/domain/matching"
	"expert-match/internal/pkg/jwt"
	"expert-match/internal/pkg/response"
	"expert-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MatchingHandler struct {
	recommend usecase.RecommendationUsecase
	compat    usecase.CompatibilityUsecase
	proposals usecase.ProposalUsecase
	analytics usecase.AnalyticsUsecase
	lifecycle usecase.LifecycleUsecase
}

func NewMatchingHandler(
	recommend usecase.RecommendationUsecase,
	compat usecase.CompatibilityUsecase,
	proposals usecase.ProposalUsecase,
	analytics usecase.AnalyticsUsecase,
	lifecycle usecase.LifecycleUsecase,
) *MatchingHandler {
	return &MatchingHandler{recommend: recommend, compat: compat, proposals: proposals, analytics: analytics, lifecycle: lifecycle}
}

// RegisterRoutes expects r to be authenticated. operator guards every route
// except respond, which the owning expert may call.
func (h *MatchingHandler) RegisterRoutes(r fiber.Router, operator fiber.Handler) {
	if r == nil {
		return
	}
	if operator == nil {
		operator = func(c fiber.Ctx) error { return c.Next() }
	}
	grp := r.Group("/matchings")
	grp.Get("/demands/:demand_id/recommendations", operator, h.GetRecommendations)
	grp.Post("/demands/:demand_id/proposals", operator, h.CreateProposals)
	grp.Get("/compatibility/:expert_id/:demand_id", operator, h.GetCompatibility)
	grp.Get("/analytics", operator, h.GetAnalytics)
	grp.Post("/:matching_id/respond", h.Respond)
	grp.Post("/:matching_id/feedback", operator, h.SubmitFeedback)
}

func (h *MatchingHandler) GetRecommendations(c fiber.Ctx) error {
	demandID, err := uuid.Parse(c.Params("demand_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid demand_id", nil, err)
	}

	topN, err := parseOptionalInt(c, "top_n")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid top_n", nil, err)
	}
	minScore, err := parseOptionalFloat(c, "min_score")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid min_score", nil, err)
	}

	res, err := h.recommend.Recommend(c.Context(), demandID, usecase.RecommendationParams{
		TopN:     topN,
		MinScore: minScore,
	})
	if err != nil {
		return mapMatchingUsecaseError(err)
	}

	out := dto.RecommendResponse{
		DemandID:         res.DemandID,
		DemandTitle:      res.DemandTitle,
		Candidates:       make([]dto.RecommendedCandidateResponse, 0, len(res.Candidates)),
		TotalCandidates:  res.TotalCandidates,
		Considered:       res.Considered,
		Eligible:         res.Eligible,
		Skipped:          res.Skipped,
		AlgorithmVersion: res.AlgorithmVersion,
	}
	for _, cand := range res.Candidates {
		out.Candidates = append(out.Candidates, dto.RecommendedCandidateResponse{
			ExpertID:              cand.ExpertID,
			ExpertName:            cand.ExpertName,
			TotalScore:            cand.TotalScore,
			ScoreBreakdown:        toBreakdownResponse(cand.Breakdown),
			RecommendationReasons: cand.Reasons,
			Specialties:           nonNil(cand.Specialties),
			QualificationStatus:   string(cand.Qualification),
			Details:               toDetailsResponse(cand.Details),
		})
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *MatchingHandler) GetCompatibility(c fiber.Ctx) error {
	expertID, err := uuid.Parse(c.Params("expert_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid expert_id", nil, err)
	}
	demandID, err := uuid.Parse(c.Params("demand_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid demand_id", nil, err)
	}

	res, err := h.compat.Check(c.Context(), expertID, demandID)
	if err != nil {
		return mapMatchingUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.CompatibilityResponse{
		ExpertID:           res.ExpertID,
		DemandID:           res.DemandID,
		TotalScore:         res.Breakdown.Total,
		ScoreBreakdown:     toBreakdownResponse(res.Breakdown),
		Recommendation:     string(res.Band),
		RecommendationText: res.Band.Text(),
		Reasons:            res.Reasons,
		Details:            toDetailsResponse(res.Details),
	})
}

func (h *MatchingHandler) CreateProposals(c fiber.Ctx) error {
	operatorID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	demandID, err := uuid.Parse(c.Params("demand_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid demand_id", nil, err)
	}

	var req dto.ProposalRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.proposals.Propose(c.Context(), usecase.ProposalRequest{
		DemandID:   demandID,
		ExpertIDs:  req.ExpertIDs,
		OperatorID: operatorID,
	})
	if err != nil {
		return mapMatchingUsecaseError(err)
	}

	out := dto.ProposalResponse{
		Created: make([]dto.MatchingResponse, 0, len(res.Created)),
		Skipped: make([]dto.SkippedProposalResponse, 0, len(res.Skipped)),
	}
	for _, m := range res.Created {
		out.Created = append(out.Created, toMatchingResponse(m))
	}
	for _, s := range res.Skipped {
		out.Skipped = append(out.Skipped, dto.SkippedProposalResponse{ExpertID: s.ExpertID, Reason: s.Reason})
	}

	status := fiber.StatusOK
	if len(out.Created) > 0 {
		status = fiber.StatusCreated
	}
	return response.Success(c, status, "", out)
}

func (h *MatchingHandler) Respond(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	role, _ := c.Locals(middleware.CtxRoleKey).(string)

	matchingID, err := uuid.Parse(c.Params("matching_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid matching_id", nil, err)
	}

	var req dto.RespondRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if req.Accept == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "accept is required", nil, nil)
	}

	m, err := h.lifecycle.Respond(c.Context(), usecase.RespondRequest{
		MatchingID: matchingID,
		Accept:     *req.Accept,
		Message:    req.ResponseMessage,
		ActorID:    userID,
		AsOperator: jwt.CanOperate(role),
	})
	if err != nil {
		return mapMatchingUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toMatchingResponse(m))
}

func (h *MatchingHandler) SubmitFeedback(c fiber.Ctx) error {
	matchingID, err := uuid.Parse(c.Params("matching_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid matching_id", nil, err)
	}

	var req dto.FeedbackRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	m, err := h.lifecycle.SubmitFeedback(c.Context(), usecase.FeedbackRequest{
		MatchingID: matchingID,
		Rating:     req.Rating,
		Feedback:   req.Feedback,
	})
	if err != nil {
		return mapMatchingUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toMatchingResponse(m))
}

func (h *MatchingHandler) GetAnalytics(c fiber.Ctx) error {
	a, err := h.analytics.Summary(c.Context())
	if err != nil {
		return mapMatchingUsecaseError(err)
	}

	out := dto.AnalyticsResponse{
		StatusDistribution:  make(map[string]int, len(a.StatusDistribution)),
		SuccessRate:         a.SuccessRate,
		AverageMatchScore:   a.AverageMatchScore,
		TotalActiveMatching: a.TotalActive,
		TotalCompleted:      a.TotalCompleted,
		TopMatchedExperts:   make([]dto.ExpertMatchCountResponse, 0, len(a.TopMatchedExperts)),
	}
	for s, n := range a.StatusDistribution {
		out.StatusDistribution[string(s)] = n
	}
	for _, e := range a.TopMatchedExperts {
		out.TopMatchedExperts = append(out.TopMatchedExperts, dto.ExpertMatchCountResponse{ExpertID: e.ExpertID, MatchCount: e.MatchCount})
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func parseOptionalInt(c fiber.Ctx, key string) (*int, error) {
	s := c.Query(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseOptionalFloat(c fiber.Ctx, key string) (*float64, error) {
	s := c.Query(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func toMatchingResponse(m match.Matching) dto.MatchingResponse {
	return dto.MatchingResponse{
		ID:              m.ID,
		ExpertID:        m.ExpertID,
		DemandID:        m.DemandID,
		MatchingType:    string(m.Type),
		Status:          m.Status,
		MatchScore:      m.MatchScore,
		ScoreBreakdown:  m.ScoreBreakdown,
		MatchedBy:       m.MatchedBy,
		ExpertResponse:  m.ExpertResponse,
		RespondedAt:     m.RespondedAt,
		CompanyFeedback: m.CompanyFeedback,
		CompanyRating:   m.CompanyRating,
		CreatedAt:       m.CreatedAt,
	}
}

func toBreakdownResponse(b matching.MatchScoreBreakdown) dto.ScoreBreakdownResponse {
	return dto.ScoreBreakdownResponse{
		Specialty:     b.Specialty,
		Qualification: b.Qualification,
		Career:        b.Career,
		Evaluation:    b.Evaluation,
		Availability:  b.Availability,
	}
}

func toDetailsResponse(d matching.ScoreDetails) dto.ScoreDetailsResponse {
	return dto.ScoreDetailsResponse{
		RequiredSpecialties: nonNil(d.RequiredSpecialties),
		MatchedSpecialties:  nonNil(d.MatchedSpecialties),
		MissingSpecialties:  nonNil(d.MissingSpecialties),
		CareerYears:         d.CareerYears,
		CareerCapYears:      d.CareerCapYears,
		ActiveMatchings:     d.ActiveMatchings,
		GradedCount:         d.GradedCount,
		NeutralSpecialty:    d.NeutralSpecialty,
		NeutralEvaluation:   d.NeutralEvaluation,
		NeutralAvailability: d.NeutralAvailability,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func mapMatchingUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrDemandNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Demand not found", nil, err)
	case errors.Is(err, usecase.ErrExpertNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Expert not found", nil, err)
	case errors.Is(err, usecase.ErrUnscorable):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrProposalInProgress):
		return middleware.NewAppError(fiber.StatusConflict, "Proposals already in progress", nil, err)
	case errors.Is(err, usecase.ErrMatchingNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Matching not found", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "You can only respond to your own matching proposals", nil, err)
	case errors.Is(err, usecase.ErrInvalidTransition):
		return middleware.NewAppError(fiber.StatusConflict, err.Error(), nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
