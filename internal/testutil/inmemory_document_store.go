package testutil

import (
	"context"
	"time"

	"github.com/docflow/docflow/internal/domain/document"
	ierr "github.com/docflow/docflow/internal/errors"
	"github.com/docflow/docflow/internal/types"
	"github.com/samber/lo"
)

// InMemoryDocumentStore implements document.Repository
type InMemoryDocumentStore struct {
	*InMemoryStore[*document.Document]
}

// NewInMemoryDocumentStore creates a new in-memory document store
func NewInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		InMemoryStore: NewInMemoryStore[*document.Document](),
	}
}

// Helper to copy document
func copyDocument(d *document.Document) *document.Document {
	if d == nil {
		return nil
	}

	// Deep copy of document
	c := &document.Document{
		ID:             d.ID,
		StaffID:        d.StaffID,
		DocType:        d.DocType,
		DocumentStatus: d.DocumentStatus,
		DateStart:      d.DateStart,
		DateEnd:        d.DateEnd,
		DaysCount:      d.DaysCount,
		CustomText:     copyStringPtr(d.CustomText),
		IsBlocked:      d.IsBlocked,
		BlockedReason:  copyStringPtr(d.BlockedReason),
		Attachments:    append(document.AttachmentList{}, d.Attachments...),
		FromArchive:    d.FromArchive,
		StaleInfo: document.StaleInfo{
			NotificationCount: d.NotificationCount,
			StaleExplanation:  copyStringPtr(d.StaleExplanation),
			StatusChangedAt:   d.StatusChangedAt,
			StaleLockCount:    d.StaleLockCount,
			LastNotifiedAt:    copyTimePtr(d.LastNotifiedAt),
		},
		BaseModel: types.BaseModel{
			TenantID:  d.TenantID,
			Status:    d.Status,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
			CreatedBy: d.CreatedBy,
			UpdatedBy: d.UpdatedBy,
		},
	}

	return c
}

func copyStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func (s *InMemoryDocumentStore) Create(ctx context.Context, d *document.Document) error {
	if err := s.InMemoryStore.Create(ctx, d.ID, copyDocument(d)); err != nil {
		return ierr.WithError(err).
			WithHint("failed to create document").
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryDocumentStore) Get(ctx context.Context, id string) (*document.Document, error) {
	d, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("document not found").
			WithHintf("no document with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	doc := copyDocument(d)
	doc.DocumentStatus = types.NormalizeStatus(string(doc.DocumentStatus))
	return doc, nil
}

func (s *InMemoryDocumentStore) List(ctx context.Context, filter *types.DocumentFilter) ([]*document.Document, error) {
	items, err := s.InMemoryStore.List(ctx, filter, documentFilterFn, documentSortFn)
	if err != nil {
		return nil, err
	}

	return lo.Map(items, func(d *document.Document, _ int) *document.Document {
		doc := copyDocument(d)
		doc.DocumentStatus = types.NormalizeStatus(string(doc.DocumentStatus))
		return doc
	}), nil
}

func (s *InMemoryDocumentStore) Count(ctx context.Context, filter *types.DocumentFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, documentFilterFn)
}

func (s *InMemoryDocumentStore) ListByStaff(ctx context.Context, staffID string) ([]*document.Document, error) {
	return s.List(ctx, &types.DocumentFilter{
		QueryFilter: types.NewNoLimitQueryFilter(),
		StaffID:     staffID,
	})
}

func (s *InMemoryDocumentStore) Update(ctx context.Context, d *document.Document) error {
	if err := s.InMemoryStore.Update(ctx, d.ID, copyDocument(d)); err != nil {
		return ierr.NewError("document not found").
			WithHintf("no document with id %s", d.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryDocumentStore) UpdateStaleInfo(ctx context.Context, id string, info document.StaleInfo, updatedAt time.Time) error {
	d, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return ierr.NewError("document not found").
			WithHintf("no document with id %s", id).
			Mark(ierr.ErrNotFound)
	}

	// Only the stale field subset is written, matching the SQL store.
	updated := copyDocument(d)
	updated.NotificationCount = info.NotificationCount
	updated.StaleExplanation = copyStringPtr(info.StaleExplanation)
	updated.StaleLockCount = info.StaleLockCount
	updated.LastNotifiedAt = copyTimePtr(info.LastNotifiedAt)
	updated.UpdatedAt = updatedAt
	return s.InMemoryStore.Update(ctx, id, updated)
}

func (s *InMemoryDocumentStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return ierr.NewError("document not found").
			WithHintf("no document with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

// documentFilterFn implements filtering logic for documents
func documentFilterFn(ctx context.Context, d *document.Document, filter interface{}) bool {
	if d.TenantID != types.GetTenantID(ctx) {
		return false
	}
	if d.Status == types.StatusDeleted {
		return false
	}

	f, ok := filter.(*types.DocumentFilter)
	if !ok || f == nil {
		return true
	}

	if f.StaffID != "" && d.StaffID != f.StaffID {
		return false
	}
	if f.DocType != nil && d.DocType != *f.DocType {
		return false
	}
	if f.DocumentStatus != nil && types.NormalizeStatus(string(d.DocumentStatus)) != *f.DocumentStatus {
		return false
	}
	if f.NonTerminal && types.NormalizeStatus(string(d.DocumentStatus)).IsTerminal() {
		return false
	}
	if f.FromArchive != nil && d.FromArchive != *f.FromArchive {
		return false
	}
	if f.StatusChangedBefore != nil && !d.StatusChangedAt.Before(*f.StatusChangedBefore) {
		return false
	}
	return true
}

// documentSortFn sorts documents by creation time, newest first
func documentSortFn(i, j *document.Document) bool {
	return i.CreatedAt.After(j.CreatedAt)
}
