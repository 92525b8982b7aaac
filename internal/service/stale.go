package service

import (
	"context"
	"strings"
	"time"

	"github.com/docflow/docflow/internal/api/dto"
	"github.com/docflow/docflow/internal/cache"
	ierr "github.com/docflow/docflow/internal/errors"
	"github.com/docflow/docflow/internal/types"
)

// minExplanationLength is the minimum length of a stale explanation.
const minExplanationLength = 5

// StaleService implements the stale document protocol: the periodic sweep
// that flags documents stuck in one status, and the operator resolution of
// flagged documents. Staleness is orthogonal to the approval chain; nothing
// here ever writes the document status.
type StaleService interface {
	ListStale(ctx context.Context) (*dto.ListDocumentsResponse, error)
	ResolveStale(ctx context.Context, id string, req dto.ResolveStaleRequest) (*dto.ResolveStaleResponse, error)
	Sweep(ctx context.Context) (*dto.StaleSweepResult, error)
}

type staleService struct {
	ServiceParams
}

func NewStaleService(params ServiceParams) StaleService {
	return &staleService{ServiceParams: params}
}

func (s *staleService) ListStale(ctx context.Context) (*dto.ListDocumentsResponse, error) {
	docs, err := s.DocumentRepo.List(ctx, s.staleFilter())
	if err != nil {
		return nil, err
	}

	items := make([]*dto.DocumentResponse, len(docs))
	for i, doc := range docs {
		items[i] = dto.NewDocumentResponse(doc, s.eligibilityThreshold())
	}
	return &dto.ListDocumentsResponse{
		Items: items,
		Pagination: types.PaginationResponse{
			Total: len(items),
		},
	}, nil
}

// Sweep inspects every non-terminal document whose status has not changed
// for longer than the configured threshold and increments its notification
// counter. A document re-flagged after a prior explanation gets its lock
// count incremented: that is the "critical delay, already warned once"
// signal resolution handlers must surface distinctly.
//
// Updates go through the field-scoped UpdateStaleInfo so a status transition
// racing with the sweep can never be overwritten. Cancellation leaves
// already-processed documents updated and the rest untouched; increments are
// idempotent per sweep pass, so no rollback is needed.
func (s *staleService) Sweep(ctx context.Context) (*dto.StaleSweepResult, error) {
	docs, err := s.DocumentRepo.List(ctx, s.staleFilter())
	if err != nil {
		return nil, err
	}

	result := &dto.StaleSweepResult{}
	cutoff := time.Now().UTC().Add(-s.Config.Stale.Threshold)

	for _, stale := range docs {
		if err := ctx.Err(); err != nil {
			s.Logger.Warnw("stale sweep interrupted", "error", err,
				"inspected", result.Inspected, "flagged", result.Flagged)
			return result, nil
		}
		result.Inspected++

		unlock := s.Locks.Lock(stale.ID)

		// Re-read under the lock: a transition may have raced the listing.
		doc, err := s.DocumentRepo.Get(ctx, stale.ID)
		if err != nil {
			unlock()
			if ierr.IsNotFound(err) {
				continue
			}
			s.Logger.Errorw("stale sweep failed to load document", "error", err, "document_id", stale.ID)
			continue
		}
		if doc.IsTerminal() || doc.StatusChangedAt.After(cutoff) {
			unlock()
			continue
		}

		now := time.Now().UTC()
		info := doc.StaleInfo
		if info.NotificationCount == 0 && types.FromNillableString(info.StaleExplanation) != "" {
			// Already explained once and stale again.
			info.StaleLockCount++
			result.Escalated++
		}
		info.NotificationCount++
		info.LastNotifiedAt = &now

		if err := s.DocumentRepo.UpdateStaleInfo(ctx, doc.ID, info, now); err != nil {
			unlock()
			s.Logger.Errorw("stale sweep failed to update document", "error", err, "document_id", doc.ID)
			continue
		}
		result.Flagged++
		unlock()
	}

	s.Logger.Infow("stale sweep completed",
		"inspected", result.Inspected, "flagged", result.Flagged, "escalated", result.Escalated)
	return result, nil
}

func (s *staleService) ResolveStale(ctx context.Context, id string, req dto.ResolveStaleRequest) (*dto.ResolveStaleResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	unlock := s.Locks.Lock(id)
	defer unlock()

	doc, err := s.DocumentRepo.Get(ctx, id)
	if err != nil {
		// Removing an already-removed document is a no-op for the resolution
		// caller; only direct lookups report NotFound.
		if ierr.IsNotFound(err) && req.Action == types.StaleActionRemove {
			return &dto.ResolveStaleResponse{Action: req.Action, Removed: true}, nil
		}
		return nil, err
	}
	if err := requireUnblocked(doc); err != nil {
		return nil, err
	}

	if doc.NotificationCount == 0 {
		return nil, ierr.NewError("document has no stale notifications").
			WithHint("Only documents flagged by the stale monitor can be resolved").
			WithReportableDetails(map[string]any{
				"document_id": doc.ID,
			}).
			Mark(ierr.ErrValidation)
	}

	switch req.Action {
	case types.StaleActionExplain:
		return s.explain(ctx, doc.ID, req.Explanation)
	case types.StaleActionRemove:
		return s.remove(ctx, doc.ID, doc.StaffID)
	default:
		return nil, req.Action.Validate()
	}
}

// explain stores the operator explanation and resets the notification
// counter. The lock count and the document status are untouched.
func (s *staleService) explain(ctx context.Context, id string, explanation string) (*dto.ResolveStaleResponse, error) {
	if len(strings.TrimSpace(explanation)) < minExplanationLength {
		return nil, ierr.NewError("explanation too short").
			WithHintf("an explanation of at least %d characters is required", minExplanationLength).
			WithReportableDetails(map[string]any{
				"field": "explanation",
			}).
			Mark(ierr.ErrValidation)
	}

	doc, err := s.DocumentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	info := doc.StaleInfo
	info.StaleExplanation = &explanation
	info.NotificationCount = 0

	if err := s.DocumentRepo.UpdateStaleInfo(ctx, id, info, now); err != nil {
		return nil, err
	}

	doc.StaleInfo = info
	doc.UpdatedAt = now
	return &dto.ResolveStaleResponse{
		Action:   types.StaleActionExplain,
		Document: dto.NewDocumentResponse(doc, s.eligibilityThreshold()),
	}, nil
}

// remove permanently deletes the document. There is no soft-delete on this
// path.
func (s *staleService) remove(ctx context.Context, id string, staffID string) (*dto.ResolveStaleResponse, error) {
	if err := s.DocumentRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixBlockedDates, types.GetTenantID(ctx), staffID))
	s.Logger.Infow("stale document removed", "document_id", id)
	return &dto.ResolveStaleResponse{Action: types.StaleActionRemove, Removed: true}, nil
}

func (s *staleService) staleFilter() *types.DocumentFilter {
	cutoff := time.Now().UTC().Add(-s.Config.Stale.Threshold)
	return &types.DocumentFilter{
		QueryFilter:         types.NewNoLimitQueryFilter(),
		NonTerminal:         true,
		StatusChangedBefore: &cutoff,
	}
}
