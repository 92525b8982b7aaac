package repository

import (
	"github.com/docflow/docflow/internal/domain/document"
	"github.com/docflow/docflow/internal/domain/staff"
	"github.com/docflow/docflow/internal/logger"
	pg "github.com/docflow/docflow/internal/postgres"
	pgRepo "github.com/docflow/docflow/internal/repository/postgres"
)

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(client pg.IClient, logger *logger.Logger) document.Repository {
	return pgRepo.NewDocumentRepository(client, logger)
}

// NewStaffRegistry creates a new staff position registry
func NewStaffRegistry(client pg.IClient, logger *logger.Logger) staff.Registry {
	return pgRepo.NewStaffRegistry(client, logger)
}
