package document

import (
	"context"
	"time"

	"github.com/docflow/docflow/internal/types"
)

// Repository defines the interface for document persistence.
//
// UpdateStaleInfo is deliberately separate from Update: the stale sweep must
// confine its writes to the stale field subset so a concurrent status
// transition can never be overwritten by the monitor.
type Repository interface {
	Create(ctx context.Context, doc *Document) error
	Get(ctx context.Context, id string) (*Document, error)
	List(ctx context.Context, filter *types.DocumentFilter) ([]*Document, error)
	Count(ctx context.Context, filter *types.DocumentFilter) (int, error)
	ListByStaff(ctx context.Context, staffID string) ([]*Document, error)
	Update(ctx context.Context, doc *Document) error
	UpdateStaleInfo(ctx context.Context, id string, info StaleInfo, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}
