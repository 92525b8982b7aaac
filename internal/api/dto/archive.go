package dto

import (
	ierr "github.com/docflow/docflow/internal/errors"
	"github.com/docflow/docflow/internal/s3"
	"github.com/docflow/docflow/internal/types"
	"github.com/docflow/docflow/internal/validator"
	"github.com/shopspring/decimal"
)

// SubpositionRequest carries the secondary position to register alongside a
// directly inserted contract document
type SubpositionRequest struct {
	Position       string               `json:"position" binding:"required"`
	Rate           decimal.Decimal      `json:"rate" binding:"required"`
	EmploymentType types.EmploymentType `json:"employment_type" binding:"required"`
}

func (r *SubpositionRequest) Validate() error {
	if r.Position == "" {
		return ierr.NewError("position cannot be empty").
			WithHint("Position name cannot be empty").
			Mark(ierr.ErrValidation)
	}
	if r.Rate.LessThanOrEqual(decimal.Zero) {
		return ierr.NewError("rate must be positive").
			WithHint("Position rate must be positive").
			Mark(ierr.ErrValidation)
	}
	return r.EmploymentType.Validate()
}

// DirectInsertRequest registers an already-signed paper document, bypassing
// the approval chain
type DirectInsertRequest struct {
	StaffID      string              `json:"staff_id" binding:"required"`
	DocType      types.DocumentType  `json:"doc_type" binding:"required"`
	DateStart    string              `json:"date_start" binding:"required"`
	DateEnd      string              `json:"date_end" binding:"required"`
	DaysCount    int                 `json:"days_count,omitempty"`
	TargetStatus string              `json:"target_status,omitempty"`
	FileName     string              `json:"file_name" binding:"required"`
	ContentType  string              `json:"content_type"`
	FileData     []byte              `json:"file_data" binding:"required"`
	Subposition  *SubpositionRequest `json:"subposition,omitempty"`
}

func (r *DirectInsertRequest) Validate() error {
	if err := r.DocType.Validate(); err != nil {
		return err
	}
	if _, err := types.ParseDate(r.DateStart); err != nil {
		return err
	}
	if _, err := types.ParseDate(r.DateEnd); err != nil {
		return err
	}
	if r.DaysCount < 0 {
		return ierr.NewError("days_count must not be negative").
			WithHint("Day count must not be negative").
			Mark(ierr.ErrValidation)
	}
	if len(r.FileData) == 0 {
		return ierr.NewError("file_data cannot be empty").
			WithHint("A direct insertion requires the scanned document").
			Mark(ierr.ErrValidation)
	}
	if s := r.NormalizedTargetStatus(); s != types.DocumentStatusScanned && s != types.DocumentStatusProcessed {
		return ierr.NewError("invalid target status").
			WithHintf("direct insertion may only target %s or %s",
				types.DocumentStatusScanned, types.DocumentStatusProcessed).
			Mark(ierr.ErrValidation)
	}
	if r.Subposition != nil {
		if err := r.Subposition.Validate(); err != nil {
			return err
		}
	}
	return validator.ValidateRequest(r)
}

// NormalizedTargetStatus returns the canonical target status, defaulting to
// scanned when the request leaves it empty.
func (r *DirectInsertRequest) NormalizedTargetStatus() types.DocumentStatus {
	if r.TargetStatus == "" {
		return types.DocumentStatusScanned
	}
	return types.NormalizeStatus(r.TargetStatus)
}

// ScanFile builds the storage payload for the uploaded scan
func (r *DirectInsertRequest) ScanFile() *s3.ScanFile {
	return &s3.ScanFile{
		FileName:    r.FileName,
		ContentType: r.ContentType,
		Data:        r.FileData,
	}
}
