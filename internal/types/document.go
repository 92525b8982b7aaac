package types

import (
	"time"

	ierr "github.com/docflow/docflow/internal/errors"
	"github.com/samber/lo"
)

// DocumentType is the kind of a personnel document. The kind determines
// template text and conditional fields downstream, but has no effect on the
// approval chain itself.
type DocumentType string

const (
	DocumentTypePaidVacation      DocumentType = "paid_vacation"
	DocumentTypeUnpaidVacation    DocumentType = "unpaid_vacation"
	DocumentTypeContractExtension DocumentType = "contract_extension"
	DocumentTypeEmploymentOrder   DocumentType = "employment_order"
)

func (t DocumentType) String() string {
	return string(t)
}

func (t DocumentType) Validate() error {
	allowed := []DocumentType{
		DocumentTypePaidVacation,
		DocumentTypeUnpaidVacation,
		DocumentTypeContractExtension,
		DocumentTypeEmploymentOrder,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid document type").
			WithHintf("unknown document type: %s", t).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsLeave reports whether the document represents an absence period that
// participates in the per-staff date range conflict check.
func (t DocumentType) IsLeave() bool {
	return t == DocumentTypePaidVacation || t == DocumentTypeUnpaidVacation
}

// StaleAction is the operator decision for a document flagged stale.
type StaleAction string

const (
	StaleActionExplain StaleAction = "explain"
	StaleActionRemove  StaleAction = "remove"
)

func (a StaleAction) String() string {
	return string(a)
}

func (a StaleAction) Validate() error {
	allowed := []StaleAction{
		StaleActionExplain,
		StaleActionRemove,
	}
	if !lo.Contains(allowed, a) {
		return ierr.NewError("invalid stale resolution action").
			WithHintf("unknown action: %s", a).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// DocumentFilter defines the filter parameters for listing documents
type DocumentFilter struct {
	*QueryFilter

	StaffID             string          `form:"staff_id" json:"staff_id,omitempty"`
	DocType             *DocumentType   `form:"doc_type" json:"doc_type,omitempty"`
	DocumentStatus      *DocumentStatus `form:"document_status" json:"document_status,omitempty"`
	NonTerminal         bool            `form:"non_terminal" json:"non_terminal,omitempty"`
	FromArchive         *bool           `form:"from_archive" json:"from_archive,omitempty"`
	StatusChangedBefore *time.Time      `json:"status_changed_before,omitempty"`
}

// Validate validates the document filter
func (f *DocumentFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	if f.DocType != nil {
		if err := f.DocType.Validate(); err != nil {
			return err
		}
	}
	if f.DocumentStatus != nil {
		if err := f.DocumentStatus.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// GetLimit returns the limit value for the filter
func (f *DocumentFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

// GetOffset returns the offset value for the filter
func (f *DocumentFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOffset()
	}
	return f.QueryFilter.GetOffset()
}

// IsUnlimited returns true if the filter is unlimited
func (f *DocumentFilter) IsUnlimited() bool {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().IsUnlimited()
	}
	return f.QueryFilter.IsUnlimited()
}
