package dto

import (
	ierr "github.com/docflow/docflow/internal/errors"
	"github.com/docflow/docflow/internal/types"
)

// ResolveStaleRequest represents the operator decision for a stale document
type ResolveStaleRequest struct {
	Action      types.StaleAction `json:"action" binding:"required"`
	Explanation string            `json:"explanation,omitempty"`
}

func (r *ResolveStaleRequest) Validate() error {
	if err := r.Action.Validate(); err != nil {
		return err
	}
	if r.Action == types.StaleActionRemove && r.Explanation != "" {
		return ierr.NewError("explanation not allowed for remove").
			WithHint("The remove action does not take an explanation").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ResolveStaleResponse represents the outcome of a stale resolution
type ResolveStaleResponse struct {
	Action   types.StaleAction `json:"action"`
	Removed  bool              `json:"removed"`
	Document *DocumentResponse `json:"document,omitempty"`
}

// StaleSweepResult summarizes one pass of the stale monitor
type StaleSweepResult struct {
	Inspected int `json:"inspected"`
	Flagged   int `json:"flagged"`
	Escalated int `json:"escalated"`
}
