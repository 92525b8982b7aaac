package types

import (
	ierr "github.com/docflow/docflow/internal/errors"
)

const (
	defaultLimit  = 50
	maxLimit      = 1000
	defaultOffset = 0
)

// BaseFilter is the interface all list filters implement so that stores can
// apply pagination without knowing the concrete filter type.
type BaseFilter interface {
	GetLimit() int
	GetOffset() int
	IsUnlimited() bool
	Validate() error
}

// QueryFilter holds the common pagination parameters for list queries
type QueryFilter struct {
	Limit  *int `form:"limit" json:"limit,omitempty"`
	Offset *int `form:"offset" json:"offset,omitempty"`
}

// NewDefaultQueryFilter returns a query filter with default pagination
func NewDefaultQueryFilter() *QueryFilter {
	limit := defaultLimit
	offset := defaultOffset
	return &QueryFilter{
		Limit:  &limit,
		Offset: &offset,
	}
}

// NewNoLimitQueryFilter returns a query filter without pagination
func NewNoLimitQueryFilter() *QueryFilter {
	return &QueryFilter{}
}

func (f *QueryFilter) Validate() error {
	if f.Limit != nil && (*f.Limit < 1 || *f.Limit > maxLimit) {
		return ierr.NewError("invalid limit").
			WithHintf("limit must be between 1 and %d", maxLimit).
			Mark(ierr.ErrValidation)
	}
	if f.Offset != nil && *f.Offset < 0 {
		return ierr.NewError("invalid offset").
			WithHint("offset must not be negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (f *QueryFilter) GetLimit() int {
	if f == nil || f.Limit == nil {
		return defaultLimit
	}
	return *f.Limit
}

func (f *QueryFilter) GetOffset() int {
	if f == nil || f.Offset == nil {
		return defaultOffset
	}
	return *f.Offset
}

func (f *QueryFilter) IsUnlimited() bool {
	return f != nil && f.Limit == nil && f.Offset == nil
}

// PaginationResponse is the standard pagination envelope for list responses
type PaginationResponse struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
