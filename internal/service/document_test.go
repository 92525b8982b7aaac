package service

import (
	"testing"
	"time"

	"github.com/docflow/docflow/internal/api/dto"
	"github.com/docflow/docflow/internal/domain/document"
	ierr "github.com/docflow/docflow/internal/errors"
	"github.com/docflow/docflow/internal/testutil"
	"github.com/docflow/docflow/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type DocumentServiceSuite struct {
	testutil.BaseServiceTestSuite
	documentService DocumentService
	documentRepo    *testutil.InMemoryDocumentStore
}

func TestDocumentService(t *testing.T) {
	suite.Run(t, new(DocumentServiceSuite))
}

func (s *DocumentServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
}

func (s *DocumentServiceSuite) setupService() {
	stores := s.GetStores()
	s.documentRepo = stores.DocumentRepo.(*testutil.InMemoryDocumentStore)

	s.documentService = NewDocumentService(ServiceParams{
		Logger:        s.GetLogger(),
		Config:        s.GetConfig(),
		DB:            s.GetDB(),
		Cache:         s.GetCache(),
		DocumentRepo:  stores.DocumentRepo,
		StaffRegistry: stores.StaffRegistry,
		ScanStorage:   s.GetScanStorage(),
		Locks:         NewLockRegistry(),
	})
}

// seedDocument creates a document directly in the store at the given status.
func (s *DocumentServiceSuite) seedDocument(staffID string, docType types.DocumentType, status types.DocumentStatus, dateStart, dateEnd string) *document.Document {
	start, err := types.ParseDate(dateStart)
	s.NoError(err)
	end, err := types.ParseDate(dateEnd)
	s.NoError(err)

	doc := &document.Document{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_DOCUMENT),
		StaffID:        staffID,
		DocType:        docType,
		DocumentStatus: status,
		DateStart:      start,
		DateEnd:        end,
		DaysCount:      types.DaysInclusive(start, end),
		Attachments:    document.AttachmentList{},
		StaleInfo: document.StaleInfo{
			StatusChangedAt: time.Now().UTC(),
		},
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.documentRepo.Create(s.GetContext(), doc))
	return doc
}

func (s *DocumentServiceSuite) TestCreateDocument() {
	resp, err := s.documentService.CreateDocument(s.GetContext(), dto.CreateDocumentRequest{
		StaffID:   "staff-1",
		DocType:   types.DocumentTypePaidVacation,
		DateStart: "2024-01-01",
		DateEnd:   "2024-01-14",
	})
	s.NoError(err)
	s.Equal(types.DocumentStatusDraft, resp.DocumentStatus)
	s.Equal(14, resp.DaysCount)
	s.False(resp.FromArchive)
	s.Zero(resp.NotificationCount)

	stored, err := s.documentRepo.Get(s.GetContext(), resp.ID)
	s.NoError(err)
	s.Equal(types.DocumentStatusDraft, stored.DocumentStatus)
}

func (s *DocumentServiceSuite) TestCreateDocumentValidation() {
	testCases := []struct {
		name string
		req  dto.CreateDocumentRequest
	}{
		{
			name: "missing_staff",
			req: dto.CreateDocumentRequest{
				DocType:   types.DocumentTypePaidVacation,
				DateStart: "2024-01-01",
				DateEnd:   "2024-01-14",
			},
		},
		{
			name: "unknown_doc_type",
			req: dto.CreateDocumentRequest{
				StaffID:   "staff-1",
				DocType:   types.DocumentType("sabbatical"),
				DateStart: "2024-01-01",
				DateEnd:   "2024-01-14",
			},
		},
		{
			name: "bad_date_format",
			req: dto.CreateDocumentRequest{
				StaffID:   "staff-1",
				DocType:   types.DocumentTypePaidVacation,
				DateStart: "01.01.2024",
				DateEnd:   "2024-01-14",
			},
		},
		{
			name: "end_before_start",
			req: dto.CreateDocumentRequest{
				StaffID:   "staff-1",
				DocType:   types.DocumentTypePaidVacation,
				DateStart: "2024-01-14",
				DateEnd:   "2024-01-01",
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.documentService.CreateDocument(s.GetContext(), tc.req)
			s.Error(err)
			s.True(ierr.IsValidation(err))
		})
	}
}

func (s *DocumentServiceSuite) TestCreateDocumentDateConflict() {
	s.seedDocument("staff-1", types.DocumentTypePaidVacation, types.DocumentStatusAgreed, "2024-01-01", "2024-01-14")

	// Overlapping leave for the same person is rejected.
	_, err := s.documentService.CreateDocument(s.GetContext(), dto.CreateDocumentRequest{
		StaffID:   "staff-1",
		DocType:   types.DocumentTypeUnpaidVacation,
		DateStart: "2024-01-10",
		DateEnd:   "2024-01-20",
	})
	s.Error(err)
	s.True(ierr.IsDateConflict(err))

	// A different person is unaffected.
	_, err = s.documentService.CreateDocument(s.GetContext(), dto.CreateDocumentRequest{
		StaffID:   "staff-2",
		DocType:   types.DocumentTypePaidVacation,
		DateStart: "2024-01-10",
		DateEnd:   "2024-01-20",
	})
	s.NoError(err)

	// Adjacent interval does not overlap.
	_, err = s.documentService.CreateDocument(s.GetContext(), dto.CreateDocumentRequest{
		StaffID:   "staff-1",
		DocType:   types.DocumentTypePaidVacation,
		DateStart: "2024-01-15",
		DateEnd:   "2024-01-20",
	})
	s.NoError(err)
}

func (s *DocumentServiceSuite) TestCreateDocumentConflictIgnoresTerminalAndNonLeave() {
	s.seedDocument("staff-1", types.DocumentTypePaidVacation, types.DocumentStatusProcessed, "2024-01-01", "2024-01-14")
	s.seedDocument("staff-1", types.DocumentTypeContractExtension, types.DocumentStatusAgreed, "2024-01-01", "2024-12-31")

	// Terminal leave documents and non-leave documents do not block the range.
	_, err := s.documentService.CreateDocument(s.GetContext(), dto.CreateDocumentRequest{
		StaffID:   "staff-1",
		DocType:   types.DocumentTypePaidVacation,
		DateStart: "2024-01-05",
		DateEnd:   "2024-01-10",
	})
	s.NoError(err)
}

func (s *DocumentServiceSuite) TestAdvanceDocumentFullChain() {
	doc := s.seedDocument("staff-1", types.DocumentTypePaidVacation, types.DocumentStatusDraft, "2024-01-01", "2024-01-14")

	expected := []types.DocumentStatus{
		types.DocumentStatusSignedByApplicant,
		types.DocumentStatusApprovedByDispatcher,
		types.DocumentStatusSignedDepHead,
		types.DocumentStatusAgreed,
		types.DocumentStatusSignedRector,
		types.DocumentStatusScanned,
		types.DocumentStatusProcessed,
	}
	for _, want := range expected {
		resp, err := s.documentService.AdvanceDocument(s.GetContext(), doc.ID)
		s.NoError(err)
		s.Equal(want, resp.DocumentStatus)
	}

	// Advancing past the terminal status fails.
	_, err := s.documentService.AdvanceDocument(s.GetContext(), doc.ID)
	s.Error(err)
	s.True(ierr.IsInvalidTransition(err))
}

func (s *DocumentServiceSuite) TestAdvanceDocumentResetsNotificationCount() {
	doc := s.seedDocument("staff-1", types.DocumentTypePaidVacation, types.DocumentStatusAgreed, "2024-01-01", "2024-01-14")

	now := time.Now().UTC()
	s.NoError(s.documentRepo.UpdateStaleInfo(s.GetContext(), doc.ID, document.StaleInfo{
		NotificationCount: 4,
		StatusChangedAt:   doc.StatusChangedAt,
		LastNotifiedAt:    &now,
	}, now))

	resp, err := s.documentService.AdvanceDocument(s.GetContext(), doc.ID)
	s.NoError(err)
	s.Equal(types.DocumentStatusSignedRector, resp.DocumentStatus)
	s.Zero(resp.NotificationCount, "a transition clears the stale notification counter")
	s.False(resp.StaleEligible)
}

func (s *DocumentServiceSuite) TestAdvanceDocumentUnknownStatus() {
	doc := s.seedDocument("staff-1", types.DocumentTypePaidVacation, types.DocumentStatus("pending_review"), "2024-01-01", "2024-01-14")

	_, err := s.documentService.AdvanceDocument(s.GetContext(), doc.ID)
	s.Error(err)
	s.True(ierr.IsInvalidTransition(err), "unknown statuses hold the document in place")
}

func (s *DocumentServiceSuite) TestAdvanceDocumentNotFound() {
	_, err := s.documentService.AdvanceDocument(s.GetContext(), "doc_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *DocumentServiceSuite) TestSetDocumentStatus() {
	doc := s.seedDocument("staff-1", types.DocumentTypePaidVacation, types.DocumentStatusDraft, "2024-01-01", "2024-01-14")

	// Forward jump over several steps is a valid correction.
	resp, err := s.documentService.SetDocumentStatus(s.GetContext(), doc.ID, types.DocumentStatusAgreed)
	s.NoError(err)
	s.Equal(types.DocumentStatusAgreed, resp.DocumentStatus)

	// Backward and sideways moves are rejected.
	_, err = s.documentService.SetDocumentStatus(s.GetContext(), doc.ID, types.DocumentStatusDraft)
	s.Error(err)
	s.True(ierr.IsInvalidTransition(err))

	_, err = s.documentService.SetDocumentStatus(s.GetContext(), doc.ID, types.DocumentStatusAgreed)
	s.Error(err)
	s.True(ierr.IsInvalidTransition(err))

	// Unknown targets fail validation before the document is even loaded.
	_, err = s.documentService.SetDocumentStatus(s.GetContext(), doc.ID, types.DocumentStatus("pending_review"))
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *DocumentServiceSuite) TestSetDocumentStatusFromUnknown() {
	doc := s.seedDocument("staff-1", types.DocumentTypePaidVacation, types.DocumentStatus("pending_review"), "2024-01-01", "2024-01-14")

	// A correction out of an unknown status is also rejected; the record
	// needs manual repair at the storage level.
	_, err := s.documentService.SetDocumentStatus(s.GetContext(), doc.ID, types.DocumentStatusAgreed)
	s.Error(err)
	s.True(ierr.IsInvalidTransition(err))
}

func (s *DocumentServiceSuite) TestBlockedDocumentRejectsMutations() {
	doc := s.seedDocument("staff-1", types.DocumentTypePaidVacation, types.DocumentStatusAgreed, "2024-01-01", "2024-01-14")
	doc.IsBlocked = true
	doc.BlockedReason = lo.ToPtr("included in approved january ledger")
	s.NoError(s.documentRepo.Update(s.GetContext(), doc))

	_, err := s.documentService.AdvanceDocument(s.GetContext(), doc.ID)
	s.Error(err)
	s.True(ierr.IsBlockedDocument(err))

	_, err = s.documentService.SetDocumentStatus(s.GetContext(), doc.ID, types.DocumentStatusSignedRector)
	s.Error(err)
	s.True(ierr.IsBlockedDocument(err))

	// Reads still work.
	resp, err := s.documentService.GetDocument(s.GetContext(), doc.ID)
	s.NoError(err)
	s.True(resp.IsBlocked)
}

func (s *DocumentServiceSuite) TestDeleteDraft() {
	draft := s.seedDocument("staff-1", types.DocumentTypePaidVacation, types.DocumentStatusDraft, "2024-01-01", "2024-01-14")
	s.NoError(s.documentService.DeleteDraft(s.GetContext(), draft.ID))

	_, err := s.documentRepo.Get(s.GetContext(), draft.ID)
	s.True(ierr.IsNotFound(err))

	// Documents past draft cannot be deleted on this path.
	signed := s.seedDocument("staff-1", types.DocumentTypePaidVacation, types.DocumentStatusAgreed, "2024-02-01", "2024-02-14")
	err = s.documentService.DeleteDraft(s.GetContext(), signed.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *DocumentServiceSuite) TestAttachScanAutoAdvance() {
	doc := s.seedDocument("staff-1", types.DocumentTypePaidVacation, types.DocumentStatusSignedRector, "2024-01-01", "2024-01-14")

	resp, err := s.documentService.AttachScan(s.GetContext(), doc.ID, dto.AttachScanRequest{
		FileName:    "vacation.pdf",
		ContentType: "application/pdf",
		FileData:    []byte("%PDF-1.4"),
	})
	s.NoError(err)
	s.Equal(types.DocumentStatusScanned, resp.DocumentStatus, "scan upload advances a rector-signed document")
	s.Len(resp.Attachments, 1)
	s.Equal("vacation.pdf", resp.Attachments[0].FileName)
	s.True(s.GetScanStorage().Has(resp.Attachments[0].FileKey))
}

func (s *DocumentServiceSuite) TestAttachScanNoAutoAdvanceEarlier() {
	doc := s.seedDocument("staff-1", types.DocumentTypePaidVacation, types.DocumentStatusAgreed, "2024-01-01", "2024-01-14")

	resp, err := s.documentService.AttachScan(s.GetContext(), doc.ID, dto.AttachScanRequest{
		FileName: "scan.pdf",
		FileData: []byte("data"),
	})
	s.NoError(err)
	s.Equal(types.DocumentStatusAgreed, resp.DocumentStatus, "only rector-signed documents auto-advance")
	s.Len(resp.Attachments, 1)
}

func (s *DocumentServiceSuite) TestAttachScanStorageFailure() {
	doc := s.seedDocument("staff-1", types.DocumentTypePaidVacation, types.DocumentStatusSignedRector, "2024-01-01", "2024-01-14")

	s.GetScanStorage().FailStore()
	_, err := s.documentService.AttachScan(s.GetContext(), doc.ID, dto.AttachScanRequest{
		FileName: "scan.pdf",
		FileData: []byte("data"),
	})
	s.Error(err)

	// The document is untouched.
	stored, err := s.documentRepo.Get(s.GetContext(), doc.ID)
	s.NoError(err)
	s.Equal(types.DocumentStatusSignedRector, stored.DocumentStatus)
	s.Empty(stored.Attachments)
}

func (s *DocumentServiceSuite) TestGetBlockedDates() {
	s.seedDocument("staff-1", types.DocumentTypePaidVacation, types.DocumentStatusAgreed, "2024-01-01", "2024-01-03")
	s.seedDocument("staff-1", types.DocumentTypePaidVacation, types.DocumentStatusProcessed, "2024-02-01", "2024-02-03")
	s.seedDocument("staff-1", types.DocumentTypeContractExtension, types.DocumentStatusAgreed, "2024-03-01", "2024-03-03")
	s.seedDocument("staff-2", types.DocumentTypePaidVacation, types.DocumentStatusAgreed, "2024-04-01", "2024-04-03")

	dates, err := s.documentService.GetBlockedDates(s.GetContext(), "staff-1")
	s.NoError(err)

	// Only the pending leave document of staff-1 contributes days.
	s.Len(dates, 3)
	s.Equal("2024-01-01", dates[0].Date)
	s.Equal("2024-01-02", dates[1].Date)
	s.Equal("2024-01-03", dates[2].Date)
	s.Equal(types.DocumentTypePaidVacation, dates[0].DocType)
}

func (s *DocumentServiceSuite) TestListDocumentsFiltering() {
	s.seedDocument("staff-1", types.DocumentTypePaidVacation, types.DocumentStatusDraft, "2024-01-01", "2024-01-03")
	s.seedDocument("staff-1", types.DocumentTypePaidVacation, types.DocumentStatusProcessed, "2024-02-01", "2024-02-03")
	s.seedDocument("staff-2", types.DocumentTypeEmploymentOrder, types.DocumentStatusAgreed, "2024-03-01", "2024-03-03")

	all, err := s.documentService.ListDocuments(s.GetContext(), nil)
	s.NoError(err)
	s.Len(all.Items, 3)
	s.Equal(3, all.Pagination.Total)

	byStaff, err := s.documentService.ListDocuments(s.GetContext(), &types.DocumentFilter{
		QueryFilter: types.NewDefaultQueryFilter(),
		StaffID:     "staff-1",
	})
	s.NoError(err)
	s.Len(byStaff.Items, 2)

	nonTerminal, err := s.documentService.ListDocuments(s.GetContext(), &types.DocumentFilter{
		QueryFilter: types.NewDefaultQueryFilter(),
		NonTerminal: true,
	})
	s.NoError(err)
	s.Len(nonTerminal.Items, 2)

	byType, err := s.documentService.ListDocuments(s.GetContext(), &types.DocumentFilter{
		QueryFilter: types.NewDefaultQueryFilter(),
		DocType:     lo.ToPtr(types.DocumentTypeEmploymentOrder),
	})
	s.NoError(err)
	s.Len(byType.Items, 1)
	s.Equal("staff-2", byType.Items[0].StaffID)
}
