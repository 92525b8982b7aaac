package testutil

import (
	"context"

	"github.com/docflow/docflow/internal/domain/staff"
	"github.com/docflow/docflow/internal/types"
	"github.com/samber/lo"
)

// InMemoryStaffRegistry implements staff.Registry
type InMemoryStaffRegistry struct {
	*InMemoryStore[*staff.Position]
}

// NewInMemoryStaffRegistry creates a new in-memory staff registry
func NewInMemoryStaffRegistry() *InMemoryStaffRegistry {
	return &InMemoryStaffRegistry{
		InMemoryStore: NewInMemoryStore[*staff.Position](),
	}
}

func copyPosition(p *staff.Position) *staff.Position {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// AddPosition seeds a position record, bypassing the upsert semantics.
func (s *InMemoryStaffRegistry) AddPosition(ctx context.Context, p *staff.Position) error {
	return s.InMemoryStore.Create(ctx, p.ID, copyPosition(p))
}

func (s *InMemoryStaffRegistry) GetPositions(ctx context.Context, staffID string) ([]*staff.Position, error) {
	filterFn := func(ctx context.Context, p *staff.Position, _ interface{}) bool {
		return p.StaffID == staffID && p.TenantID == types.GetTenantID(ctx)
	}

	positions, err := s.InMemoryStore.List(ctx, nil, filterFn, nil)
	if err != nil {
		return nil, err
	}

	return lo.Map(positions, func(p *staff.Position, _ int) *staff.Position {
		return copyPosition(p)
	}), nil
}

func (s *InMemoryStaffRegistry) UpsertSecondaryPosition(ctx context.Context, position *staff.Position) error {
	existing, err := s.GetPositions(ctx, position.StaffID)
	if err != nil {
		return err
	}
	for _, p := range existing {
		if !p.IsPrimary && p.Position == position.Position {
			updated := copyPosition(position)
			updated.ID = p.ID
			return s.InMemoryStore.Update(ctx, p.ID, updated)
		}
	}
	return s.InMemoryStore.Create(ctx, position.ID, copyPosition(position))
}
