package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected DocumentStatus
	}{
		{
			name:     "already_canonical",
			input:    "signed_by_applicant",
			expected: DocumentStatusSignedByApplicant,
		},
		{
			name:     "uppercase_with_spaces",
			input:    "Signed By Applicant",
			expected: DocumentStatusSignedByApplicant,
		},
		{
			name:     "mixed_case",
			input:    "DRAFT",
			expected: DocumentStatusDraft,
		},
		{
			name:     "unknown_preserved_verbatim",
			input:    "pending review",
			expected: DocumentStatus("pending_review"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeStatus(tc.input))
		})
	}
}

func TestNormalizeStatusIdempotent(t *testing.T) {
	for _, raw := range []string{"Signed Rector", "draft", "some unknown value", "PROCESSED"} {
		once := NormalizeStatus(raw)
		twice := NormalizeStatus(string(once))
		assert.Equal(t, once, twice, "normalizing twice must equal normalizing once for %q", raw)
	}
}

func TestDocumentStatusChain(t *testing.T) {
	statuses := DocumentStatuses()
	assert.Len(t, statuses, 8)
	assert.Equal(t, DocumentStatusDraft, statuses[0])
	assert.Equal(t, DocumentStatusProcessed, statuses[len(statuses)-1])

	// Walking Next from draft visits every status exactly once.
	current := DocumentStatusDraft
	visited := []DocumentStatus{current}
	for {
		next, ok := current.Next()
		if !ok {
			break
		}
		visited = append(visited, next)
		current = next
	}
	assert.Equal(t, statuses, visited)
	assert.True(t, current.IsTerminal())
}

func TestDocumentStatusNext(t *testing.T) {
	next, ok := DocumentStatusDraft.Next()
	assert.True(t, ok)
	assert.Equal(t, DocumentStatusSignedByApplicant, next)

	_, ok = DocumentStatusProcessed.Next()
	assert.False(t, ok, "terminal status has no forward transition")

	_, ok = DocumentStatus("pending_review").Next()
	assert.False(t, ok, "unknown status has no forward transition")
}

func TestDocumentStatusCanReach(t *testing.T) {
	assert.True(t, DocumentStatusDraft.CanReach(DocumentStatusAgreed))
	assert.True(t, DocumentStatusScanned.CanReach(DocumentStatusProcessed))

	assert.False(t, DocumentStatusAgreed.CanReach(DocumentStatusDraft), "backward moves are rejected")
	assert.False(t, DocumentStatusAgreed.CanReach(DocumentStatusAgreed), "a status cannot reach itself")
	assert.False(t, DocumentStatus("pending_review").CanReach(DocumentStatusAgreed))
	assert.False(t, DocumentStatusDraft.CanReach(DocumentStatus("pending_review")))
}

func TestDocumentStatusIsKnown(t *testing.T) {
	for _, s := range DocumentStatuses() {
		assert.True(t, s.IsKnown())
		assert.NoError(t, s.Validate())
	}

	unknown := DocumentStatus("pending_review")
	assert.False(t, unknown.IsKnown())
	assert.Error(t, unknown.Validate())
	assert.False(t, unknown.IsTerminal(), "unknown statuses are never terminal")
	assert.Equal(t, -1, unknown.Index())
}
