package dto

import (
	"context"
	"time"

	"github.com/docflow/docflow/internal/domain/document"
	ierr "github.com/docflow/docflow/internal/errors"
	"github.com/docflow/docflow/internal/types"
	"github.com/docflow/docflow/internal/validator"
)

// CreateDocumentRequest represents the request to create a new document in
// the normal approval chain
type CreateDocumentRequest struct {
	StaffID    string             `json:"staff_id" binding:"required"`
	DocType    types.DocumentType `json:"doc_type" binding:"required"`
	DateStart  string             `json:"date_start" binding:"required"`
	DateEnd    string             `json:"date_end" binding:"required"`
	CustomText *string            `json:"custom_text,omitempty"`
}

func (r *CreateDocumentRequest) Validate() error {
	if r.StaffID == "" {
		return ierr.NewError("staff_id cannot be empty").
			WithHint("Staff ID cannot be empty").
			Mark(ierr.ErrValidation)
	}
	if err := r.DocType.Validate(); err != nil {
		return err
	}
	if _, err := types.ParseDate(r.DateStart); err != nil {
		return err
	}
	if _, err := types.ParseDate(r.DateEnd); err != nil {
		return err
	}
	return validator.ValidateRequest(r)
}

// ToDocument converts the request to a domain document in draft status
func (r *CreateDocumentRequest) ToDocument(ctx context.Context) (*document.Document, error) {
	dateStart, err := types.ParseDate(r.DateStart)
	if err != nil {
		return nil, err
	}
	dateEnd, err := types.ParseDate(r.DateEnd)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &document.Document{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_DOCUMENT),
		StaffID:        r.StaffID,
		DocType:        r.DocType,
		DocumentStatus: types.DocumentStatusDraft,
		DateStart:      dateStart,
		DateEnd:        dateEnd,
		DaysCount:      types.DaysInclusive(dateStart, dateEnd),
		CustomText:     r.CustomText,
		Attachments:    document.AttachmentList{},
		StaleInfo: document.StaleInfo{
			StatusChangedAt: now,
		},
		BaseModel: types.GetDefaultBaseModel(ctx),
	}, nil
}

// UpdateDocumentStatusRequest represents a correction of a document's status
type UpdateDocumentStatusRequest struct {
	DocumentStatus string `json:"document_status" binding:"required"`
}

func (r *UpdateDocumentStatusRequest) Validate() error {
	if r.DocumentStatus == "" {
		return ierr.NewError("document_status cannot be empty").
			WithHint("Document status cannot be empty").
			Mark(ierr.ErrValidation)
	}
	return r.Normalized().Validate()
}

// Normalized returns the canonical form of the requested status. This is the
// ingestion boundary: the raw payload value may be upper-cased or
// space-separated.
func (r *UpdateDocumentStatusRequest) Normalized() types.DocumentStatus {
	return types.NormalizeStatus(r.DocumentStatus)
}

// AttachScanRequest represents a scan upload for an existing document
type AttachScanRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type"`
	FileData    []byte `json:"file_data" binding:"required"`
}

func (r *AttachScanRequest) Validate() error {
	if r.FileName == "" {
		return ierr.NewError("file_name cannot be empty").
			WithHint("File name cannot be empty").
			Mark(ierr.ErrValidation)
	}
	if len(r.FileData) == 0 {
		return ierr.NewError("file_data cannot be empty").
			WithHint("Scan file cannot be empty").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// DocumentResponse represents a document in responses
type DocumentResponse struct {
	document.Document
	// StaleEligible is derived from the notification count and the configured
	// eligibility threshold; it is never stored.
	StaleEligible bool `json:"stale_eligible"`
	// StaleCritical marks a document that has already been stale once despite
	// a prior explanation.
	StaleCritical bool `json:"stale_critical"`
}

// NewDocumentResponse creates a new document response from a domain document
func NewDocumentResponse(d *document.Document, eligibilityThreshold int) *DocumentResponse {
	if d == nil {
		return nil
	}
	return &DocumentResponse{
		Document:      *d,
		StaleEligible: d.StaleEligible(eligibilityThreshold),
		StaleCritical: d.StaleLockCount >= 1,
	}
}

// ListDocumentsResponse represents the response for listing documents
type ListDocumentsResponse struct {
	Items      []*DocumentResponse      `json:"items"`
	Pagination types.PaginationResponse `json:"pagination"`
}

// BlockedDateResponse is one day already covered by a conflicting document
// for a staff member
type BlockedDateResponse struct {
	Date    string             `json:"date"`
	DocID   string             `json:"doc_id"`
	DocType types.DocumentType `json:"doc_type"`
}
