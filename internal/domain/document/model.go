package document

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	ierr "github.com/docflow/docflow/internal/errors"
	"github.com/docflow/docflow/internal/types"
)

// Attachment is a reference to a stored scan of the signed paper document.
type Attachment struct {
	FileKey    string    `json:"file_key"`
	FileName   string    `json:"file_name"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// AttachmentList is stored as a single jsonb column.
type AttachmentList []Attachment

func (a AttachmentList) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *AttachmentList) Scan(src interface{}) error {
	if src == nil {
		*a = AttachmentList{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return ierr.NewErrorf("unsupported attachment scan type %T", src).
			Mark(ierr.ErrDatabase)
	}
}

// StaleInfo tracks the staleness dimension of a document. It is orthogonal
// to the approval chain: the sweep and the resolution handler touch these
// fields only and never the document status.
type StaleInfo struct {
	NotificationCount int        `db:"notification_count" json:"notification_count"`
	StaleExplanation  *string    `db:"stale_explanation" json:"stale_explanation,omitempty"`
	StatusChangedAt   time.Time  `db:"status_changed_at" json:"status_changed_at"`
	StaleLockCount    int        `db:"stale_lock_count" json:"stale_lock_count"`
	LastNotifiedAt    *time.Time `db:"last_notified_at" json:"last_notified_at,omitempty"`
}

// Document is a leave/personnel request or record progressing through the
// approval chain.
type Document struct {
	ID             string               `db:"id" json:"id"`
	StaffID        string               `db:"staff_id" json:"staff_id"`
	DocType        types.DocumentType   `db:"doc_type" json:"doc_type"`
	DocumentStatus types.DocumentStatus `db:"document_status" json:"document_status"`
	DateStart      time.Time            `db:"date_start" json:"date_start"`
	DateEnd        time.Time            `db:"date_end" json:"date_end"`
	DaysCount      int                  `db:"days_count" json:"days_count"`
	CustomText     *string              `db:"custom_text" json:"custom_text,omitempty"`
	IsBlocked      bool                 `db:"is_blocked" json:"is_blocked"`
	BlockedReason  *string              `db:"blocked_reason" json:"blocked_reason,omitempty"`
	Attachments    AttachmentList       `db:"attachments" json:"attachments"`
	FromArchive    bool                 `db:"from_archive" json:"from_archive"`
	StaleInfo
	types.BaseModel
}

// Validate validates the document
func (d *Document) Validate() error {
	if d.StaffID == "" {
		return ierr.NewError("staff_id cannot be empty").
			WithHint("Staff ID is required").
			Mark(ierr.ErrValidation)
	}
	if err := d.DocType.Validate(); err != nil {
		return err
	}
	if d.DateEnd.Before(d.DateStart) {
		return ierr.NewError("date_end before date_start").
			WithHint("The end date must not be earlier than the start date").
			WithReportableDetails(map[string]any{
				"date_start": d.DateStart.Format(types.DateFormat),
				"date_end":   d.DateEnd.Format(types.DateFormat),
			}).
			Mark(ierr.ErrValidation)
	}
	if d.DaysCount < 1 {
		return ierr.NewError("days_count must be at least 1").
			WithHint("A document must cover at least one day").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsTerminal reports whether the document has completed the approval chain.
func (d *Document) IsTerminal() bool {
	return d.DocumentStatus.IsTerminal()
}

// Overlaps reports whether the document covers any day of the given
// inclusive interval.
func (d *Document) Overlaps(start, end time.Time) bool {
	return types.DatesOverlap(d.DateStart, d.DateEnd, start, end)
}

// StaleEligible reports whether the document has accumulated enough stale
// notifications for operator resolution. This is a derived property, never
// a stored status value.
func (d *Document) StaleEligible(threshold int) bool {
	return d.NotificationCount >= threshold
}
