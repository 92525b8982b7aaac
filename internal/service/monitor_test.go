package service

import (
	"testing"
	"time"

	"github.com/docflow/docflow/internal/domain/document"
	"github.com/docflow/docflow/internal/testutil"
	"github.com/docflow/docflow/internal/types"
	"github.com/stretchr/testify/suite"
)

type StaleMonitorSuite struct {
	testutil.BaseServiceTestSuite
	staleService StaleService
	documentRepo *testutil.InMemoryDocumentStore
}

func TestStaleMonitor(t *testing.T) {
	suite.Run(t, new(StaleMonitorSuite))
}

func (s *StaleMonitorSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	s.documentRepo = stores.DocumentRepo.(*testutil.InMemoryDocumentStore)
	s.staleService = NewStaleService(ServiceParams{
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

func (s *StaleMonitorSuite) TestMonitorSweepsPeriodically() {
	start, _ := types.ParseDate("2024-01-01")
	end, _ := types.ParseDate("2024-01-14")
	doc := &document.Document{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_DOCUMENT),
		StaffID:        "staff-1",
		DocType:        types.DocumentTypePaidVacation,
		DocumentStatus: types.DocumentStatusAgreed,
		DateStart:      start,
		DateEnd:        end,
		DaysCount:      14,
		StaleInfo: document.StaleInfo{
			StatusChangedAt: time.Now().UTC().Add(-s.GetConfig().Stale.Threshold - time.Hour),
		},
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.documentRepo.Create(s.GetContext(), doc))

	cfg := *s.GetConfig()
	cfg.Stale.SweepInterval = 10 * time.Millisecond
	monitor := NewStaleMonitor(s.staleService, &cfg, s.GetLogger())

	monitor.Start()
	s.Eventually(func() bool {
		got, err := s.documentRepo.Get(s.GetContext(), doc.ID)
		return err == nil && got.NotificationCount >= 1
	}, 2*time.Second, 10*time.Millisecond)
	monitor.Stop()
}

func (s *StaleMonitorSuite) TestStopWithoutStart() {
	monitor := NewStaleMonitor(s.staleService, s.GetConfig(), s.GetLogger())
	monitor.Stop()
}
