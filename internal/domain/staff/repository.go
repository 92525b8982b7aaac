package staff

import (
	"context"
)

// Registry defines the interface to the staff/position collaborator. The
// engine only reads position allocations and upserts secondary positions;
// staff CRUD lives outside this service.
type Registry interface {
	// GetPositions returns all positions of the person, active and inactive.
	GetPositions(ctx context.Context, staffID string) ([]*Position, error)

	// UpsertSecondaryPosition creates or updates a secondary position record
	// for the person. Capacity validation is the caller's responsibility.
	UpsertSecondaryPosition(ctx context.Context, position *Position) error
}
