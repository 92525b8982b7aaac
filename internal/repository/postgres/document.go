package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/docflow/docflow/internal/domain/document"
	ierr "github.com/docflow/docflow/internal/errors"
	"github.com/docflow/docflow/internal/logger"
	pg "github.com/docflow/docflow/internal/postgres"
	"github.com/docflow/docflow/internal/types"
)

const documentColumns = `id, staff_id, doc_type, document_status, date_start, date_end, days_count,
custom_text, is_blocked, blocked_reason, attachments, from_archive,
notification_count, stale_explanation, status_changed_at, stale_lock_count, last_notified_at,
tenant_id, status, created_at, updated_at, created_by, updated_by`

type documentRepository struct {
	client pg.IClient
	logger *logger.Logger
}

// NewDocumentRepository creates the postgres-backed document repository
func NewDocumentRepository(client pg.IClient, logger *logger.Logger) document.Repository {
	return &documentRepository{client: client, logger: logger}
}

func (r *documentRepository) Create(ctx context.Context, doc *document.Document) error {
	query := `INSERT INTO documents (` + documentColumns + `) VALUES (
:id, :staff_id, :doc_type, :document_status, :date_start, :date_end, :days_count,
:custom_text, :is_blocked, :blocked_reason, :attachments, :from_archive,
:notification_count, :stale_explanation, :status_changed_at, :stale_lock_count, :last_notified_at,
:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by)`

	if _, err := sqlx.NamedExecContext(ctx, r.client.Querier(ctx), query, doc); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create document").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *documentRepository) Get(ctx context.Context, id string) (*document.Document, error) {
	var doc document.Document
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 AND tenant_id = $2 AND status != $3`
	err := sqlx.GetContext(ctx, r.client.Querier(ctx), &doc, query,
		id, types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewErrorf("document %s not found", id).
				WithHint("Document not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get document").
			Mark(ierr.ErrDatabase)
	}
	normalize(&doc)
	return &doc, nil
}

func (r *documentRepository) List(ctx context.Context, filter *types.DocumentFilter) ([]*document.Document, error) {
	where, args := r.buildFilter(ctx, filter)
	query := `SELECT ` + documentColumns + ` FROM documents ` + where + ` ORDER BY created_at DESC`
	if filter != nil && !filter.IsUnlimited() {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.GetLimit(), filter.GetOffset())
	}

	var docs []*document.Document
	if err := sqlx.SelectContext(ctx, r.client.Querier(ctx), &docs, r.rebind(query), args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list documents").
			Mark(ierr.ErrDatabase)
	}
	for _, doc := range docs {
		normalize(doc)
	}
	return docs, nil
}

func (r *documentRepository) Count(ctx context.Context, filter *types.DocumentFilter) (int, error) {
	where, args := r.buildFilter(ctx, filter)
	query := `SELECT COUNT(*) FROM documents ` + where

	var count int
	if err := sqlx.GetContext(ctx, r.client.Querier(ctx), &count, r.rebind(query), args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count documents").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *documentRepository) ListByStaff(ctx context.Context, staffID string) ([]*document.Document, error) {
	return r.List(ctx, &types.DocumentFilter{
		QueryFilter: types.NewNoLimitQueryFilter(),
		StaffID:     staffID,
	})
}

func (r *documentRepository) Update(ctx context.Context, doc *document.Document) error {
	query := `UPDATE documents SET
staff_id = :staff_id, doc_type = :doc_type, document_status = :document_status,
date_start = :date_start, date_end = :date_end, days_count = :days_count,
custom_text = :custom_text, is_blocked = :is_blocked, blocked_reason = :blocked_reason,
attachments = :attachments, from_archive = :from_archive,
notification_count = :notification_count, stale_explanation = :stale_explanation,
status_changed_at = :status_changed_at, stale_lock_count = :stale_lock_count,
last_notified_at = :last_notified_at,
updated_at = :updated_at, updated_by = :updated_by
WHERE id = :id AND tenant_id = :tenant_id AND status != 'deleted'`

	res, err := sqlx.NamedExecContext(ctx, r.client.Querier(ctx), query, doc)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update document").
			Mark(ierr.ErrDatabase)
	}
	return requireRow(res, doc.ID)
}

// UpdateStaleInfo writes only the stale field subset. The sweep goes through
// this method so it can never clobber a status transition that raced with it.
func (r *documentRepository) UpdateStaleInfo(ctx context.Context, id string, info document.StaleInfo, updatedAt time.Time) error {
	query := `UPDATE documents SET
notification_count = $1, stale_explanation = $2, stale_lock_count = $3,
last_notified_at = $4, updated_at = $5
WHERE id = $6 AND tenant_id = $7 AND status != $8`

	res, err := r.client.Querier(ctx).ExecContext(ctx, query,
		info.NotificationCount, info.StaleExplanation, info.StaleLockCount,
		info.LastNotifiedAt, updatedAt,
		id, types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update stale info").
			Mark(ierr.ErrDatabase)
	}
	return requireRow(res, id)
}

func (r *documentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM documents WHERE id = $1 AND tenant_id = $2`
	if _, err := r.client.Querier(ctx).ExecContext(ctx, query, id, types.GetTenantID(ctx)); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete document").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *documentRepository) buildFilter(ctx context.Context, filter *types.DocumentFilter) (string, []interface{}) {
	clauses := []string{"tenant_id = ?", "status != ?"}
	args := []interface{}{types.GetTenantID(ctx), types.StatusDeleted}

	if filter == nil {
		return "WHERE " + strings.Join(clauses, " AND "), args
	}
	if filter.StaffID != "" {
		clauses = append(clauses, "staff_id = ?")
		args = append(args, filter.StaffID)
	}
	if filter.DocType != nil {
		clauses = append(clauses, "doc_type = ?")
		args = append(args, *filter.DocType)
	}
	if filter.DocumentStatus != nil {
		clauses = append(clauses, "document_status = ?")
		args = append(args, *filter.DocumentStatus)
	}
	if filter.NonTerminal {
		clauses = append(clauses, "document_status != ?")
		args = append(args, types.DocumentStatusProcessed)
	}
	if filter.FromArchive != nil {
		clauses = append(clauses, "from_archive = ?")
		args = append(args, *filter.FromArchive)
	}
	if filter.StatusChangedBefore != nil {
		clauses = append(clauses, "status_changed_at < ?")
		args = append(args, *filter.StatusChangedBefore)
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (r *documentRepository) rebind(query string) string {
	return sqlx.Rebind(sqlx.DOLLAR, query)
}

// normalize canonicalizes the status at the repository read boundary so the
// rest of the engine never re-normalizes a constructed Document.
func normalize(doc *document.Document) {
	doc.DocumentStatus = types.NormalizeStatus(string(doc.DocumentStatus))
}

func requireRow(res sql.Result, id string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	if rows == 0 {
		return ierr.NewErrorf("document %s not found", id).
			WithHint("Document not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}
