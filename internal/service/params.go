package service

import (
	"github.com/docflow/docflow/internal/cache"
	"github.com/docflow/docflow/internal/config"
	"github.com/docflow/docflow/internal/domain/document"
	"github.com/docflow/docflow/internal/domain/staff"
	"github.com/docflow/docflow/internal/logger"
	"github.com/docflow/docflow/internal/postgres"
	"github.com/docflow/docflow/internal/s3"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Cache  cache.Cache

	// Repositories
	DocumentRepo  document.Repository
	StaffRegistry staff.Registry

	// Scan storage collaborator
	ScanStorage s3.Storage

	// Per-document mutation locks
	Locks *LockRegistry
}

// NewServiceParams builds the common service dependencies
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	cache cache.Cache,
	documentRepo document.Repository,
	staffRegistry staff.Registry,
	scanStorage s3.Storage,
) ServiceParams {
	return ServiceParams{
		Logger:        logger,
		Config:        config,
		DB:            db,
		Cache:         cache,
		DocumentRepo:  documentRepo,
		StaffRegistry: staffRegistry,
		ScanStorage:   scanStorage,
		Locks:         NewLockRegistry(),
	}
}

// eligibilityThreshold returns the configured stale eligibility threshold
// with a sane fallback for partially built params in tests.
func (p ServiceParams) eligibilityThreshold() int {
	if p.Config == nil || p.Config.Stale.EligibilityThreshold < 1 {
		return 3
	}
	return p.Config.Stale.EligibilityThreshold
}
