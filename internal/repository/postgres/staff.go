package postgres

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/docflow/docflow/internal/domain/staff"
	ierr "github.com/docflow/docflow/internal/errors"
	"github.com/docflow/docflow/internal/logger"
	pg "github.com/docflow/docflow/internal/postgres"
	"github.com/docflow/docflow/internal/types"
)

const positionColumns = `id, staff_id, position, rate, employment_type, is_primary, active,
tenant_id, status, created_at, updated_at, created_by, updated_by`

type staffRegistry struct {
	client pg.IClient
	logger *logger.Logger
}

// NewStaffRegistry creates the postgres-backed staff position registry
func NewStaffRegistry(client pg.IClient, logger *logger.Logger) staff.Registry {
	return &staffRegistry{client: client, logger: logger}
}

func (r *staffRegistry) GetPositions(ctx context.Context, staffID string) ([]*staff.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM staff_positions
WHERE staff_id = $1 AND tenant_id = $2 AND status != $3 ORDER BY is_primary DESC, created_at`

	var positions []*staff.Position
	err := sqlx.SelectContext(ctx, r.client.Querier(ctx), &positions, query,
		staffID, types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get staff positions").
			Mark(ierr.ErrDatabase)
	}
	return positions, nil
}

func (r *staffRegistry) UpsertSecondaryPosition(ctx context.Context, position *staff.Position) error {
	query := `INSERT INTO staff_positions (` + positionColumns + `) VALUES (
:id, :staff_id, :position, :rate, :employment_type, :is_primary, :active,
:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by)
ON CONFLICT (staff_id, position, tenant_id) WHERE is_primary = false DO UPDATE SET
rate = EXCLUDED.rate, employment_type = EXCLUDED.employment_type,
active = EXCLUDED.active, updated_at = EXCLUDED.updated_at, updated_by = EXCLUDED.updated_by`

	if _, err := sqlx.NamedExecContext(ctx, r.client.Querier(ctx), query, position); err != nil {
		if strings.Contains(err.Error(), "foreign key") {
			return ierr.WithError(err).
				WithHint("Staff member not found").
				Mark(ierr.ErrNotFound)
		}
		return ierr.WithError(err).
			WithHint("Failed to upsert secondary position").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
