package types

import (
	"strings"

	ierr "github.com/docflow/docflow/internal/errors"
	"github.com/samber/lo"
)

// Status is a type for the lifecycle status of a database row.
// This tracks soft deletion of rows and is distinct from DocumentStatus,
// which tracks the position of a document in the approval chain.
type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

// DocumentStatus is the position of a document in the approval chain.
// The eight values below are the wire and storage vocabulary; normalization
// of external inputs happens exactly once at ingestion via NormalizeStatus.
type DocumentStatus string

const (
	DocumentStatusDraft                DocumentStatus = "draft"
	DocumentStatusSignedByApplicant    DocumentStatus = "signed_by_applicant"
	DocumentStatusApprovedByDispatcher DocumentStatus = "approved_by_dispatcher"
	DocumentStatusSignedDepHead        DocumentStatus = "signed_dep_head"
	DocumentStatusAgreed               DocumentStatus = "agreed"
	DocumentStatusSignedRector         DocumentStatus = "signed_rector"
	DocumentStatusScanned              DocumentStatus = "scanned"
	DocumentStatusProcessed            DocumentStatus = "processed"
)

// documentStatusOrder is the single source of truth for the approval chain.
// Advancing always maps a status to the next entry; nothing may skip a step.
var documentStatusOrder = []DocumentStatus{
	DocumentStatusDraft,
	DocumentStatusSignedByApplicant,
	DocumentStatusApprovedByDispatcher,
	DocumentStatusSignedDepHead,
	DocumentStatusAgreed,
	DocumentStatusSignedRector,
	DocumentStatusScanned,
	DocumentStatusProcessed,
}

var documentStatusIndex = func() map[DocumentStatus]int {
	m := make(map[DocumentStatus]int, len(documentStatusOrder))
	for i, s := range documentStatusOrder {
		m[s] = i
	}
	return m
}()

func (s DocumentStatus) String() string {
	return string(s)
}

func (s DocumentStatus) Validate() error {
	if !lo.Contains(documentStatusOrder, s) {
		return ierr.NewError("invalid document status").
			WithHintf("unknown document status: %s", s).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsKnown reports whether the status is one of the eight chain values.
// Unknown statuses are preserved verbatim and behave as a permanent hold:
// non-terminal, with no transition out except an explicit correction.
func (s DocumentStatus) IsKnown() bool {
	_, ok := documentStatusIndex[s]
	return ok
}

// IsTerminal reports whether the document has completed the chain.
func (s DocumentStatus) IsTerminal() bool {
	return s == DocumentStatusProcessed
}

// Index returns the position of the status in the chain order,
// or -1 for unknown statuses.
func (s DocumentStatus) Index() int {
	if i, ok := documentStatusIndex[s]; ok {
		return i
	}
	return -1
}

// Next returns the status that follows s in the approval chain.
// The second return is false when s is terminal or unknown.
func (s DocumentStatus) Next() (DocumentStatus, bool) {
	i, ok := documentStatusIndex[s]
	if !ok || i == len(documentStatusOrder)-1 {
		return "", false
	}
	return documentStatusOrder[i+1], true
}

// CanReach reports whether target is strictly ahead of s in the chain.
// Corrections may only move a document forward, never backward or sideways.
func (s DocumentStatus) CanReach(target DocumentStatus) bool {
	from, ok := documentStatusIndex[s]
	if !ok {
		return false
	}
	to, ok := documentStatusIndex[target]
	if !ok {
		return false
	}
	return to > from
}

// DocumentStatuses returns the chain in order, terminal state last.
func DocumentStatuses() []DocumentStatus {
	out := make([]DocumentStatus, len(documentStatusOrder))
	copy(out, documentStatusOrder)
	return out
}

// NormalizeStatus canonicalizes a raw status value ingested from an external
// source: lowercase, then literal spaces replaced with underscores. The
// operation is idempotent. Values that still do not match a known status are
// returned verbatim so they can be displayed, but match no transition.
func NormalizeStatus(raw string) DocumentStatus {
	return DocumentStatus(strings.ReplaceAll(strings.ToLower(raw), " ", "_"))
}
