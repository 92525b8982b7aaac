package service

import (
	"context"
	"sort"
	"time"

	"github.com/docflow/docflow/internal/api/dto"
	"github.com/docflow/docflow/internal/cache"
	"github.com/docflow/docflow/internal/domain/document"
	ierr "github.com/docflow/docflow/internal/errors"
	"github.com/docflow/docflow/internal/s3"
	"github.com/docflow/docflow/internal/types"
)

// DocumentService is the workflow engine: it owns document creation with the
// date-range conflict check, the forward transition table, and the
// blocked-dates read model.
type DocumentService interface {
	CreateDocument(ctx context.Context, req dto.CreateDocumentRequest) (*dto.DocumentResponse, error)
	GetDocument(ctx context.Context, id string) (*dto.DocumentResponse, error)
	ListDocuments(ctx context.Context, filter *types.DocumentFilter) (*dto.ListDocumentsResponse, error)
	AdvanceDocument(ctx context.Context, id string) (*dto.DocumentResponse, error)
	SetDocumentStatus(ctx context.Context, id string, target types.DocumentStatus) (*dto.DocumentResponse, error)
	DeleteDraft(ctx context.Context, id string) error
	AttachScan(ctx context.Context, id string, req dto.AttachScanRequest) (*dto.DocumentResponse, error)
	GetBlockedDates(ctx context.Context, staffID string) ([]*dto.BlockedDateResponse, error)
}

type documentService struct {
	ServiceParams
}

func NewDocumentService(params ServiceParams) DocumentService {
	return &documentService{ServiceParams: params}
}

func (s *documentService) CreateDocument(ctx context.Context, req dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	doc, err := req.ToDocument(ctx)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkDateConflict(ctx, doc); err != nil {
		return nil, err
	}

	if err := s.DocumentRepo.Create(ctx, doc); err != nil {
		s.Logger.Errorw("failed to create document", "error", err, "staff_id", doc.StaffID)
		return nil, err
	}

	s.invalidateBlockedDates(ctx, doc.StaffID)
	return dto.NewDocumentResponse(doc, s.eligibilityThreshold()), nil
}

func (s *documentService) GetDocument(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	doc, err := s.DocumentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewDocumentResponse(doc, s.eligibilityThreshold()), nil
}

func (s *documentService) ListDocuments(ctx context.Context, filter *types.DocumentFilter) (*dto.ListDocumentsResponse, error) {
	if filter == nil {
		filter = &types.DocumentFilter{QueryFilter: types.NewDefaultQueryFilter()}
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	docs, err := s.DocumentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.DocumentRepo.Count(ctx, filter)
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
			Total:  count,
			Limit:  filter.GetLimit(),
			Offset: filter.GetOffset(),
		},
	}, nil
}

func (s *documentService) AdvanceDocument(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	unlock := s.Locks.Lock(id)
	defer unlock()

	doc, err := s.DocumentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireUnblocked(doc); err != nil {
		return nil, err
	}

	next, ok := doc.DocumentStatus.Next()
	if !ok {
		if doc.DocumentStatus.IsTerminal() {
			return nil, ierr.NewError("document already terminal").
				WithHintf("document is already %s", doc.DocumentStatus).
				WithReportableDetails(map[string]any{
					"current_status": doc.DocumentStatus,
				}).
				Mark(ierr.ErrInvalidTransition)
		}
		return nil, ierr.NewErrorf("status %s has no forward transition", doc.DocumentStatus).
			WithHint("The document status is not recognized and requires manual correction").
			WithReportableDetails(map[string]any{
				"current_status": doc.DocumentStatus,
			}).
			Mark(ierr.ErrInvalidTransition)
	}

	s.applyTransition(ctx, doc, next)
	if err := s.DocumentRepo.Update(ctx, doc); err != nil {
		s.Logger.Errorw("failed to advance document", "error", err, "document_id", id)
		return nil, err
	}

	s.invalidateBlockedDates(ctx, doc.StaffID)
	return dto.NewDocumentResponse(doc, s.eligibilityThreshold()), nil
}

func (s *documentService) SetDocumentStatus(ctx context.Context, id string, target types.DocumentStatus) (*dto.DocumentResponse, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}

	unlock := s.Locks.Lock(id)
	defer unlock()

	doc, err := s.DocumentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireUnblocked(doc); err != nil {
		return nil, err
	}

	if !doc.DocumentStatus.CanReach(target) {
		return nil, ierr.NewErrorf("cannot move document from %s to %s", doc.DocumentStatus, target).
			WithHint("A correction may only move a document forward in the approval chain").
			WithReportableDetails(map[string]any{
				"current_status":   doc.DocumentStatus,
				"requested_status": target,
			}).
			Mark(ierr.ErrInvalidTransition)
	}

	s.applyTransition(ctx, doc, target)
	if err := s.DocumentRepo.Update(ctx, doc); err != nil {
		s.Logger.Errorw("failed to set document status", "error", err, "document_id", id)
		return nil, err
	}

	s.invalidateBlockedDates(ctx, doc.StaffID)
	return dto.NewDocumentResponse(doc, s.eligibilityThreshold()), nil
}

func (s *documentService) DeleteDraft(ctx context.Context, id string) error {
	unlock := s.Locks.Lock(id)
	defer unlock()

	doc, err := s.DocumentRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := requireUnblocked(doc); err != nil {
		return err
	}
	if doc.DocumentStatus != types.DocumentStatusDraft {
		return ierr.NewErrorf("document is %s, not draft", doc.DocumentStatus).
			WithHint("Only draft documents can be deleted by their owner").
			Mark(ierr.ErrInvalidOperation)
	}

	if err := s.DocumentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateBlockedDates(ctx, doc.StaffID)
	return nil
}

// AttachScan stores the uploaded scan and, when the document is waiting at
// signed_rector, advances it to scanned. Storage failure leaves the document
// untouched: the scan is stored before any document write.
func (s *documentService) AttachScan(ctx context.Context, id string, req dto.AttachScanRequest) (*dto.DocumentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	unlock := s.Locks.Lock(id)
	defer unlock()

	doc, err := s.DocumentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireUnblocked(doc); err != nil {
		return nil, err
	}

	fileKey, err := s.ScanStorage.Store(ctx, &s3.ScanFile{
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Data:        req.FileData,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc.Attachments = append(doc.Attachments, document.Attachment{
		FileKey:    fileKey,
		FileName:   req.FileName,
		UploadedAt: now,
	})
	doc.UpdatedAt = now
	doc.UpdatedBy = types.GetUserID(ctx)

	if doc.DocumentStatus == types.DocumentStatusSignedRector {
		s.applyTransition(ctx, doc, types.DocumentStatusScanned)
	}

	if err := s.DocumentRepo.Update(ctx, doc); err != nil {
		s.Logger.Errorw("failed to attach scan", "error", err, "document_id", id)
		return nil, err
	}
	return dto.NewDocumentResponse(doc, s.eligibilityThreshold()), nil
}

// GetBlockedDates returns every day covered by a conflicting document for the
// staff member so callers can render availability without re-deriving the
// overlap logic.
func (s *documentService) GetBlockedDates(ctx context.Context, staffID string) ([]*dto.BlockedDateResponse, error) {
	cacheKey := cache.GenerateKey(cache.PrefixBlockedDates, types.GetTenantID(ctx), staffID)
	if cached, ok := s.Cache.Get(ctx, cacheKey); ok {
		if dates, ok := cached.([]*dto.BlockedDateResponse); ok {
			return dates, nil
		}
	}

	docs, err := s.DocumentRepo.ListByStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}

	var dates []*dto.BlockedDateResponse
	for _, doc := range docs {
		if doc.IsTerminal() || !doc.DocType.IsLeave() {
			continue
		}
		for day := doc.DateStart; !day.After(doc.DateEnd); day = day.AddDate(0, 0, 1) {
			dates = append(dates, &dto.BlockedDateResponse{
				Date:    day.Format(types.DateFormat),
				DocID:   doc.ID,
				DocType: doc.DocType,
			})
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Date < dates[j].Date })

	s.Cache.Set(ctx, cacheKey, dates, cache.DefaultExpiration)
	return dates, nil
}

// applyTransition moves the document to the target status and clears the
// stale notification counter. The lock count is untouched: escalation
// history is permanent.
func (s *documentService) applyTransition(ctx context.Context, doc *document.Document, target types.DocumentStatus) {
	now := time.Now().UTC()
	doc.DocumentStatus = target
	doc.StatusChangedAt = now
	doc.NotificationCount = 0
	doc.UpdatedAt = now
	doc.UpdatedBy = types.GetUserID(ctx)
}

// checkDateConflict rejects a leave document whose interval overlaps any
// non-terminal leave document of the same staff member.
func (s *documentService) checkDateConflict(ctx context.Context, doc *document.Document) error {
	if !doc.DocType.IsLeave() {
		return nil
	}

	existing, err := s.DocumentRepo.ListByStaff(ctx, doc.StaffID)
	if err != nil {
		return err
	}

	var conflicts []map[string]any
	for _, other := range existing {
		if other.ID == doc.ID || other.IsTerminal() || !other.DocType.IsLeave() {
			continue
		}
		if other.Overlaps(doc.DateStart, doc.DateEnd) {
			conflicts = append(conflicts, map[string]any{
				"doc_id":     other.ID,
				"doc_type":   other.DocType,
				"date_start": other.DateStart.Format(types.DateFormat),
				"date_end":   other.DateEnd.Format(types.DateFormat),
			})
		}
	}

	if len(conflicts) > 0 {
		return ierr.NewError("date range conflicts with existing documents").
			WithHintf("the requested interval overlaps %d existing document(s)", len(conflicts)).
			WithReportableDetails(map[string]any{
				"conflicts": conflicts,
			}).
			Mark(ierr.ErrDateConflict)
	}
	return nil
}

func (s *documentService) invalidateBlockedDates(ctx context.Context, staffID string) {
	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixBlockedDates, types.GetTenantID(ctx), staffID))
}

// requireUnblocked rejects any mutation of a document that has been folded
// into an approved monthly ledger.
func requireUnblocked(doc *document.Document) error {
	if !doc.IsBlocked {
		return nil
	}
	return ierr.NewErrorf("document %s is blocked", doc.ID).
		WithHintf("document is administratively locked: %s", types.FromNillableString(doc.BlockedReason)).
		WithReportableDetails(map[string]any{
			"blocked_reason": types.FromNillableString(doc.BlockedReason),
		}).
		Mark(ierr.ErrBlockedDocument)
}
