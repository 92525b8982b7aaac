package types

import (
	ierr "github.com/docflow/docflow/internal/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// EmploymentType is the kind of employment a staff position represents.
type EmploymentType string

const (
	EmploymentTypeMain              EmploymentType = "main"
	EmploymentTypeInternalSecondary EmploymentType = "internal_secondary"
	EmploymentTypeExternalSecondary EmploymentType = "external_secondary"
)

func (t EmploymentType) String() string {
	return string(t)
}

func (t EmploymentType) Validate() error {
	allowed := []EmploymentType{
		EmploymentTypeMain,
		EmploymentTypeInternalSecondary,
		EmploymentTypeExternalSecondary,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid employment type").
			WithHintf("unknown employment type: %s", t).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// MaxPositionRate is the total rate capacity a single person may hold across
// all active positions. A primary position at 1.0 leaves no room for
// subpositions; a primary at 0.75 leaves 0.25.
var MaxPositionRate = decimal.NewFromInt(1)
