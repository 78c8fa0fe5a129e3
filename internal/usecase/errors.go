package usecase

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDemandNotFound     = errors.New("demand not found")
	ErrExpertNotFound     = errors.New("expert not found")
	ErrUnscorable         = errors.New("record cannot be scored")
	ErrProposalInProgress = errors.New("proposals for this demand are already being created")
	ErrMatchingNotFound   = errors.New("matching not found")
	ErrInvalidTransition  = errors.New("matching status does not allow this change")
	ErrForbidden          = errors.New("not allowed to change this matching")
	ErrInternal           = errors.New("internal error")
)
