package service

import (
	"context"
	"time"

	"github.com/docflow/docflow/internal/api/dto"
	"github.com/docflow/docflow/internal/cache"
	"github.com/docflow/docflow/internal/domain/document"
	"github.com/docflow/docflow/internal/domain/staff"
	ierr "github.com/docflow/docflow/internal/errors"
	"github.com/docflow/docflow/internal/types"
	"github.com/shopspring/decimal"
)

// ArchiveService is the direct insertion handler: it registers already-signed
// paper documents without replaying the approval chain, and optionally
// creates a secondary staff position from a signed contract.
type ArchiveService interface {
	DirectInsert(ctx context.Context, req dto.DirectInsertRequest) (*dto.DocumentResponse, error)
}

type archiveService struct {
	ServiceParams
}

func NewArchiveService(params ServiceParams) ArchiveService {
	return &archiveService{ServiceParams: params}
}

// DirectInsert stores the scan first: a storage failure must leave no
// document behind, and a later document write failure removes the orphaned
// scan. No workflow transition is invoked; the document is constructed
// directly at its terminal-adjacent status.
func (s *archiveService) DirectInsert(ctx context.Context, req dto.DirectInsertRequest) (*dto.DocumentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	dateStart, err := types.ParseDate(req.DateStart)
	if err != nil {
		return nil, err
	}
	dateEnd, err := types.ParseDate(req.DateEnd)
	if err != nil {
		return nil, err
	}

	// Day count may be supplied explicitly for paper documents that merged
	// several disjoint ranges into one record.
	daysCount := req.DaysCount
	if daysCount == 0 {
		daysCount = types.DaysInclusive(dateStart, dateEnd)
	}

	now := time.Now().UTC()
	doc := &document.Document{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_DOCUMENT),
		StaffID:        req.StaffID,
		DocType:        req.DocType,
		DocumentStatus: req.NormalizedTargetStatus(),
		DateStart:      dateStart,
		DateEnd:        dateEnd,
		DaysCount:      daysCount,
		FromArchive:    true,
		Attachments:    document.AttachmentList{},
		StaleInfo: document.StaleInfo{
			StatusChangedAt: now,
		},
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkConflicts(ctx, doc); err != nil {
		return nil, err
	}

	var subposition *staff.Position
	if req.Subposition != nil {
		subposition, err = s.buildSubposition(ctx, req.StaffID, req.Subposition)
		if err != nil {
			return nil, err
		}
	}

	fileKey, err := s.ScanStorage.Store(ctx, req.ScanFile())
	if err != nil {
		return nil, err
	}
	doc.Attachments = append(doc.Attachments, document.Attachment{
		FileKey:    fileKey,
		FileName:   req.FileName,
		UploadedAt: now,
	})

	if err := s.DocumentRepo.Create(ctx, doc); err != nil {
		s.removeScan(ctx, fileKey)
		return nil, err
	}

	if subposition != nil {
		if err := s.StaffRegistry.UpsertSecondaryPosition(ctx, subposition); err != nil {
			// Compensate: the document must not exist without its position.
			if delErr := s.DocumentRepo.Delete(ctx, doc.ID); delErr != nil {
				s.Logger.Errorw("failed to compensate direct insertion", "error", delErr, "document_id", doc.ID)
			}
			s.removeScan(ctx, fileKey)
			return nil, err
		}
	}

	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixBlockedDates, types.GetTenantID(ctx), doc.StaffID))
	s.Logger.Infow("document inserted from archive",
		"document_id", doc.ID, "staff_id", doc.StaffID, "doc_type", doc.DocType,
		"subposition", subposition != nil)
	return dto.NewDocumentResponse(doc, s.eligibilityThreshold()), nil
}

// buildSubposition validates the capacity rule: the sum of active position
// rates for the person, including the new one, must not exceed 1.0.
// Violations are an error, never a silent clamp.
func (s *archiveService) buildSubposition(ctx context.Context, staffID string, req *dto.SubpositionRequest) (*staff.Position, error) {
	positions, err := s.StaffRegistry.GetPositions(ctx, staffID)
	if err != nil {
		return nil, err
	}

	allocated := decimal.Zero
	for _, p := range positions {
		if !p.Active {
			continue
		}
		// An existing secondary position with the same name is replaced by
		// the upsert, so its current rate does not count against capacity.
		if !p.IsPrimary && p.Position == req.Position {
			continue
		}
		allocated = allocated.Add(p.Rate)
	}

	if allocated.Add(req.Rate).GreaterThan(types.MaxPositionRate) {
		return nil, ierr.NewError("position rate capacity exceeded").
			WithHintf("allocated rate %s plus requested %s exceeds %s",
				allocated, req.Rate, types.MaxPositionRate).
			WithReportableDetails(map[string]any{
				"allocated_rate": allocated.String(),
				"requested_rate": req.Rate.String(),
				"max_rate":       types.MaxPositionRate.String(),
			}).
			Mark(ierr.ErrCapacityExceeded)
	}

	return &staff.Position{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_POSITION),
		StaffID:        staffID,
		Position:       req.Position,
		Rate:           req.Rate,
		EmploymentType: req.EmploymentType,
		IsPrimary:      false,
		Active:         true,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}, nil
}

// checkConflicts applies the same date-range conflict index as normal
// creation: a backfilled leave record must not overlap live requests.
func (s *archiveService) checkConflicts(ctx context.Context, doc *document.Document) error {
	if !doc.DocType.IsLeave() || doc.IsTerminal() {
		return nil
	}

	existing, err := s.DocumentRepo.ListByStaff(ctx, doc.StaffID)
	if err != nil {
		return err
	}
	for _, other := range existing {
		if other.IsTerminal() || !other.DocType.IsLeave() {
			continue
		}
		if other.Overlaps(doc.DateStart, doc.DateEnd) {
			return ierr.NewError("date range conflicts with existing documents").
				WithHintf("the archived interval overlaps document %s", other.ID).
				WithReportableDetails(map[string]any{
					"doc_id":     other.ID,
					"date_start": other.DateStart.Format(types.DateFormat),
					"date_end":   other.DateEnd.Format(types.DateFormat),
				}).
				Mark(ierr.ErrDateConflict)
		}
	}
	return nil
}

func (s *archiveService) removeScan(ctx context.Context, fileKey string) {
	if err := s.ScanStorage.Remove(ctx, fileKey); err != nil {
		s.Logger.Errorw("failed to remove orphaned scan", "error", err, "file_key", fileKey)
	}
}
