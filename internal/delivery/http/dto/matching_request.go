package dto

import "github.com/google/uuid"

type ProposalRequest struct {
	ExpertIDs []uuid.UUID `json:"expert_ids"`
}

type RespondRequest struct {
	Accept          *bool  `json:"accept"`
	ResponseMessage string `json:"response_message"`
}

type FeedbackRequest struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}
