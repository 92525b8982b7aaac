package service

import (
	"testing"
	"time"

	"github.com/docflow/docflow/internal/api/dto"
	"github.com/docflow/docflow/internal/domain/document"
	"github.com/docflow/docflow/internal/domain/staff"
	ierr "github.com/docflow/docflow/internal/errors"
	"github.com/docflow/docflow/internal/testutil"
	"github.com/docflow/docflow/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ArchiveServiceSuite struct {
	testutil.BaseServiceTestSuite
	archiveService ArchiveService
	documentRepo   *testutil.InMemoryDocumentStore
	staffRegistry  *testutil.InMemoryStaffRegistry
}

func TestArchiveService(t *testing.T) {
	suite.Run(t, new(ArchiveServiceSuite))
}

func (s *ArchiveServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
}

func (s *ArchiveServiceSuite) setupService() {
	stores := s.GetStores()
	s.documentRepo = stores.DocumentRepo.(*testutil.InMemoryDocumentStore)
	s.staffRegistry = stores.StaffRegistry.(*testutil.InMemoryStaffRegistry)

	s.archiveService = NewArchiveService(ServiceParams{
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

func (s *ArchiveServiceSuite) seedPrimaryPosition(staffID string, rate string) {
	s.NoError(s.staffRegistry.AddPosition(s.GetContext(), &staff.Position{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_POSITION),
		StaffID:        staffID,
		Position:       "senior lecturer",
		Rate:           decimal.RequireFromString(rate),
		EmploymentType: types.EmploymentTypeMain,
		IsPrimary:      true,
		Active:         true,
		BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
	}))
}

func (s *ArchiveServiceSuite) insertRequest() dto.DirectInsertRequest {
	return dto.DirectInsertRequest{
		StaffID:   "staff-1",
		DocType:   types.DocumentTypePaidVacation,
		DateStart: "2023-07-01",
		DateEnd:   "2023-07-14",
		FileName:  "archive-scan.pdf",
		FileData:  []byte("%PDF-1.4"),
	}
}

func (s *ArchiveServiceSuite) TestDirectInsert() {
	resp, err := s.archiveService.DirectInsert(s.GetContext(), s.insertRequest())
	s.NoError(err)
	s.True(resp.FromArchive)
	s.Equal(types.DocumentStatusScanned, resp.DocumentStatus, "target status defaults to scanned")
	s.Equal(14, resp.DaysCount)
	s.Len(resp.Attachments, 1)
	s.True(s.GetScanStorage().Has(resp.Attachments[0].FileKey))

	stored, err := s.documentRepo.Get(s.GetContext(), resp.ID)
	s.NoError(err)
	s.True(stored.FromArchive)
}

func (s *ArchiveServiceSuite) TestDirectInsertTargetStatus() {
	req := s.insertRequest()
	req.TargetStatus = "Processed"
	resp, err := s.archiveService.DirectInsert(s.GetContext(), req)
	s.NoError(err)
	s.Equal(types.DocumentStatusProcessed, resp.DocumentStatus, "raw target values are normalized")

	req = s.insertRequest()
	req.DateStart = "2023-08-01"
	req.DateEnd = "2023-08-14"
	req.TargetStatus = "agreed"
	_, err = s.archiveService.DirectInsert(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err), "only scanned and processed are valid targets")
}

func (s *ArchiveServiceSuite) TestDirectInsertExplicitDaysCount() {
	req := s.insertRequest()
	req.DaysCount = 10
	resp, err := s.archiveService.DirectInsert(s.GetContext(), req)
	s.NoError(err)
	s.Equal(10, resp.DaysCount, "paper records may override the derived day count")
}

func (s *ArchiveServiceSuite) TestDirectInsertDateConflict() {
	start, _ := types.ParseDate("2023-07-05")
	end, _ := types.ParseDate("2023-07-20")
	s.NoError(s.documentRepo.Create(s.GetContext(), &document.Document{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_DOCUMENT),
		StaffID:        "staff-1",
		DocType:        types.DocumentTypeUnpaidVacation,
		DocumentStatus: types.DocumentStatusAgreed,
		DateStart:      start,
		DateEnd:        end,
		DaysCount:      16,
		StaleInfo:      document.StaleInfo{StatusChangedAt: time.Now().UTC()},
		BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
	}))

	_, err := s.archiveService.DirectInsert(s.GetContext(), s.insertRequest())
	s.Error(err)
	s.True(ierr.IsDateConflict(err), "a backfilled leave must not overlap a live request")
}

func (s *ArchiveServiceSuite) TestDirectInsertStorageFailure() {
	s.GetScanStorage().FailStore()

	_, err := s.archiveService.DirectInsert(s.GetContext(), s.insertRequest())
	s.Error(err)

	// No document may exist without its scan.
	docs, err := s.documentRepo.ListByStaff(s.GetContext(), "staff-1")
	s.NoError(err)
	s.Empty(docs)
}

func (s *ArchiveServiceSuite) TestDirectInsertSubposition() {
	s.seedPrimaryPosition("staff-1", "0.75")

	req := s.insertRequest()
	req.DocType = types.DocumentTypeContractExtension
	req.Subposition = &dto.SubpositionRequest{
		Position:       "research assistant",
		Rate:           decimal.RequireFromString("0.25"),
		EmploymentType: types.EmploymentTypeInternalSecondary,
	}

	resp, err := s.archiveService.DirectInsert(s.GetContext(), req)
	s.NoError(err)
	s.True(resp.FromArchive)

	positions, err := s.staffRegistry.GetPositions(s.GetContext(), "staff-1")
	s.NoError(err)
	s.Len(positions, 2)
}

func (s *ArchiveServiceSuite) TestDirectInsertSubpositionCapacityExceeded() {
	s.seedPrimaryPosition("staff-1", "0.75")

	req := s.insertRequest()
	req.DocType = types.DocumentTypeContractExtension
	req.Subposition = &dto.SubpositionRequest{
		Position:       "research assistant",
		Rate:           decimal.RequireFromString("0.5"),
		EmploymentType: types.EmploymentTypeInternalSecondary,
	}

	_, err := s.archiveService.DirectInsert(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsCapacityExceeded(err), "0.75 + 0.5 exceeds the full rate")

	// Neither the document nor the position was created.
	docs, err := s.documentRepo.ListByStaff(s.GetContext(), "staff-1")
	s.NoError(err)
	s.Empty(docs)
	s.Zero(s.GetScanStorage().StoredCount(), "the scan is not stored when capacity validation fails")

	positions, err := s.staffRegistry.GetPositions(s.GetContext(), "staff-1")
	s.NoError(err)
	s.Len(positions, 1)
}

func (s *ArchiveServiceSuite) TestDirectInsertSubpositionReplacesExisting() {
	s.seedPrimaryPosition("staff-1", "0.75")
	s.NoError(s.staffRegistry.AddPosition(s.GetContext(), &staff.Position{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_POSITION),
		StaffID:        "staff-1",
		Position:       "research assistant",
		Rate:           decimal.RequireFromString("0.25"),
		EmploymentType: types.EmploymentTypeInternalSecondary,
		IsPrimary:      false,
		Active:         true,
		BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
	}))

	// Re-signing the same subposition replaces its rate; the old rate does
	// not count against capacity.
	req := s.insertRequest()
	req.DocType = types.DocumentTypeContractExtension
	req.Subposition = &dto.SubpositionRequest{
		Position:       "research assistant",
		Rate:           decimal.RequireFromString("0.25"),
		EmploymentType: types.EmploymentTypeInternalSecondary,
	}

	_, err := s.archiveService.DirectInsert(s.GetContext(), req)
	s.NoError(err)

	positions, err := s.staffRegistry.GetPositions(s.GetContext(), "staff-1")
	s.NoError(err)
	s.Len(positions, 2, "the upsert replaced the existing subposition")
}

func (s *ArchiveServiceSuite) TestDirectInsertValidation() {
	req := s.insertRequest()
	req.FileData = nil
	_, err := s.archiveService.DirectInsert(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err), "direct insertion requires the scan payload")

	req = s.insertRequest()
	req.DaysCount = -1
	_, err = s.archiveService.DirectInsert(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}
