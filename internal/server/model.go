package server

import (
	"github.com/rgehrsitz/horizon/internal/domain"
)

// SimulateResponse is the body of a successful /v1/simulate call
type SimulateResponse struct {
	Result *domain.SimulationResult `json:"result"`
}

// MilestonesResponse is the body of a successful /v1/milestones call
type MilestonesResponse struct {
	Milestones []domain.Milestone      `json:"milestones"`
	Errors     []domain.DetectionError `json:"errors"`
	Warnings   []string                `json:"warnings"`
	FinalState *domain.FinancialState  `json:"finalState,omitempty"`
}

// FieldError is one validation failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is returned with every non-2xx status
type ErrorResponse struct {
	Status  int          `json:"status"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}
