package staff

import (
	ierr "github.com/docflow/docflow/internal/errors"
	"github.com/docflow/docflow/internal/types"
	"github.com/shopspring/decimal"
)

// Position is one employment record of a person. A person holds exactly one
// primary position and zero or more secondary positions (subpositions); the
// rates of all active positions must sum to at most types.MaxPositionRate.
type Position struct {
	ID             string               `db:"id" json:"id"`
	StaffID        string               `db:"staff_id" json:"staff_id"`
	Position       string               `db:"position" json:"position"`
	Rate           decimal.Decimal      `db:"rate" json:"rate"`
	EmploymentType types.EmploymentType `db:"employment_type" json:"employment_type"`
	IsPrimary      bool                 `db:"is_primary" json:"is_primary"`
	Active         bool                 `db:"active" json:"active"`
	types.BaseModel
}

// Validate validates the position
func (p *Position) Validate() error {
	if p.StaffID == "" {
		return ierr.NewError("staff_id cannot be empty").
			WithHint("Staff ID is required").
			Mark(ierr.ErrValidation)
	}
	if p.Position == "" {
		return ierr.NewError("position cannot be empty").
			WithHint("Position name is required").
			Mark(ierr.ErrValidation)
	}
	if err := p.EmploymentType.Validate(); err != nil {
		return err
	}
	if p.Rate.LessThanOrEqual(decimal.Zero) || p.Rate.GreaterThan(types.MaxPositionRate) {
		return ierr.NewError("invalid position rate").
			WithHintf("rate must be in (0, %s]", types.MaxPositionRate).
			WithReportableDetails(map[string]any{"rate": p.Rate.String()}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
