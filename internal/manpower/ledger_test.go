package manpower

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-ats/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestAssignedCountMatchesByRequestID(t *testing.T) {
	req := domain.ManpowerRequest{ID: 10, TeamLeadEmail: "tl@constantinolawoffice.com", Position: "Telecollector"}
	assignments := []domain.Assignment{
		{ID: 1, RequestID: 10, Status: domain.AssignmentActive},
		{ID: 2, RequestID: 10, Status: domain.AssignmentCancelled},
		{ID: 3, RequestID: 11, Status: domain.AssignmentActive},
	}

	assert.Equal(t, 1, AssignedCount(req, assignments))
}

func TestAssignedCountLegacyFallback(t *testing.T) {
	req := domain.ManpowerRequest{ID: 10, TeamLeadEmail: "tl@constantinolawoffice.com", Position: "Telecollector"}
	assignments := []domain.Assignment{
		// Pre-requestId record matching (tlEmail, position); absent
		// status means active.
		{ID: 1, TLEmail: "tl@constantinolawoffice.com", PositionAppliedFor: "Telecollector"},
		// Same team lead, different position: no match.
		{ID: 2, TLEmail: "tl@constantinolawoffice.com", PositionAppliedFor: "Messenger"},
		// Different team lead: no match.
		{ID: 3, TLEmail: "other@constantinolawoffice.com", PositionAppliedFor: "Telecollector"},
	}

	assert.Equal(t, 1, AssignedCount(req, assignments))
}

func TestAssignedCountLegacyRecordNotDoubleCounted(t *testing.T) {
	// A record attributed to another request must not also count via
	// the legacy pair match.
	req := domain.ManpowerRequest{ID: 10, TeamLeadEmail: "tl@constantinolawoffice.com", Position: "Telecollector"}
	assignments := []domain.Assignment{
		{ID: 1, RequestID: 11, TLEmail: "tl@constantinolawoffice.com", PositionAppliedFor: "Telecollector", Status: domain.AssignmentActive},
	}

	assert.Equal(t, 0, AssignedCount(req, assignments))
}

func TestAnnotateDoesNotMutateInput(t *testing.T) {
	requests := []domain.ManpowerRequest{
		{ID: 1, TeamLeadEmail: "tl@constantinolawoffice.com", Position: "Telecollector", Limit: intPtr(3)},
		{ID: 2, TeamLeadEmail: "tl@constantinolawoffice.com", Position: "Messenger", Limit: intPtr(1)},
	}
	assignments := []domain.Assignment{
		{ID: 1, RequestID: 1, Status: domain.AssignmentActive},
		{ID: 2, RequestID: 1, Status: domain.AssignmentCompleted},
		{ID: 3, RequestID: 2, Status: domain.AssignmentActive},
	}

	annotated := Annotate(requests, assignments)

	assert.Equal(t, 1, annotated[0].AssignedCount)
	assert.Equal(t, 1, annotated[1].AssignedCount)
	assert.Equal(t, 0, requests[0].AssignedCount)
	assert.Equal(t, 0, requests[1].AssignedCount)
}

func TestCountActiveByTLPoolsAcrossRequests(t *testing.T) {
	assignments := []domain.Assignment{
		{ID: 1, RequestID: 1, TLEmail: "tl@constantinolawoffice.com", PositionAppliedFor: "Telecollector", Status: domain.AssignmentActive},
		{ID: 2, RequestID: 2, TLEmail: "tl@constantinolawoffice.com", PositionAppliedFor: "Telecollector", Status: domain.AssignmentActive},
		{ID: 3, TLEmail: "tl@constantinolawoffice.com", PositionAppliedFor: "Telecollector"},
		{ID: 4, TLEmail: "tl@constantinolawoffice.com", PositionAppliedFor: "Telecollector", Status: domain.AssignmentCancelled},
	}

	assert.Equal(t, 3, CountActiveByTL("tl@constantinolawoffice.com", "Telecollector", assignments))
}
