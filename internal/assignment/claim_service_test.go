package assignment

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assignmenterrors "go-ats/internal/assignment/errors"
	"go-ats/internal/domain"
	"go-ats/internal/events"
	"go-ats/internal/shared/apperror"
	"go-ats/internal/store"
)

type recorderSpy struct {
	actions []string
}

func (r *recorderSpy) Record(ctx context.Context, actor domain.Actor, action, entity string, entityID int, before, after any) error {
	r.actions = append(r.actions, action)
	return nil
}

type publisherSpy struct {
	published []events.AssignmentClaimed
}

func (p *publisherSpy) PublishAssignmentClaimed(ctx context.Context, e events.AssignmentClaimed) {
	p.published = append(p.published, e)
}
func (p *publisherSpy) Close() error { return nil }

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	return store.NewFileStore(filepath.Join(t.TempDir(), "db.json"))
}

var (
	admin = domain.Actor{ID: 4, Email: "admin@constantinolawoffice.com", Role: domain.RoleAdmin}
	tl    = domain.Actor{ID: 3, Email: "tl@constantinolawoffice.com", Role: domain.RoleTeamLead}
)

func seedApplicant(t *testing.T, st store.Store, a domain.Applicant) int {
	t.Helper()
	rec := store.MustEncode(a)
	delete(rec, "id")
	saved, err := st.Create(context.Background(), store.Applicants, rec)
	require.NoError(t, err)
	return store.RecordID(saved)
}

func seedRequest(t *testing.T, st store.Store, r domain.ManpowerRequest) int {
	t.Helper()
	rec := store.MustEncode(r)
	delete(rec, "id")
	saved, err := st.Create(context.Background(), store.ManpowerRequests, rec)
	require.NoError(t, err)
	return store.RecordID(saved)
}

func approvedApplicant(position string) domain.Applicant {
	return domain.Applicant{
		Name:               "Maria Santos",
		Age:                28,
		PositionAppliedFor: position,
		Status:             domain.ApplicantApproved,
	}
}

func approvedRequest(limit int) domain.ManpowerRequest {
	l := limit
	return domain.ManpowerRequest{
		TeamLeadID:    3,
		TeamLeadEmail: tl.Email,
		Position:      "Telecollector",
		Count:         limit,
		Limit:         &l,
		Status:        domain.RequestApproved,
	}
}

func conflictMessage(t *testing.T, err error) string {
	t.Helper()
	httpErr := apperror.ToHTTP(err)
	return httpErr.Message
}

func TestClaimSuccess(t *testing.T) {
	st := newTestStore(t)
	spy := &recorderSpy{}
	pub := &publisherSpy{}
	svc := NewService(st, spy, pub)
	applicantID := seedApplicant(t, st, approvedApplicant("Telecollector"))
	requestID := seedRequest(t, st, approvedRequest(2))

	result, err := svc.Claim(context.Background(), admin, applicantID, tl.Email)
	require.NoError(t, err)

	assert.Equal(t, domain.ApplicantAssigned, result.Applicant.Status)
	assert.Equal(t, 3, result.Applicant.AssignedUserID)
	assert.Equal(t, tl.Email, result.Applicant.AssignedTL)
	assert.Equal(t, "tl", result.Applicant.AssignedTLName)
	assert.NotEmpty(t, result.Applicant.AssignedDate)

	assert.Equal(t, applicantID, result.Assignment.ApplicantID)
	assert.Equal(t, "Maria Santos", result.Assignment.ApplicantName)
	assert.Equal(t, "Telecollector", result.Assignment.PositionAppliedFor)
	assert.Equal(t, tl.Email, result.Assignment.TLEmail)
	assert.Equal(t, "tl", result.Assignment.TLName)
	assert.Equal(t, requestID, result.Assignment.RequestID)
	assert.Equal(t, admin.Email, result.Assignment.AssignedBy)
	assert.Equal(t, domain.AssignmentActive, result.Assignment.Status)

	assert.Equal(t, []string{"assign", "create"}, spy.actions)
	require.Len(t, pub.published, 1)
	assert.Equal(t, result.Assignment.ID, pub.published[0].AssignmentID)
}

func TestClaimApplicantNotFound(t *testing.T) {
	st := newTestStore(t)
	svc := NewService(st, &recorderSpy{}, &publisherSpy{})
	_, err := svc.Claim(context.Background(), admin, 999, tl.Email)
	assert.ErrorIs(t, err, assignmenterrors.ErrApplicantNotFound)
}

func TestClaimTeamLeadNotFound(t *testing.T) {
	st := newTestStore(t)
	svc := NewService(st, &recorderSpy{}, &publisherSpy{})
	applicantID := seedApplicant(t, st, approvedApplicant("Telecollector"))

	_, err := svc.Claim(context.Background(), admin, applicantID, "nobody@constantinolawoffice.com")
	assert.ErrorIs(t, err, assignmenterrors.ErrTeamLeadNotFound)

	// A non team-lead user does not qualify either.
	_, err = svc.Claim(context.Background(), admin, applicantID, "hr@constantinolawoffice.com")
	assert.ErrorIs(t, err, assignmenterrors.ErrTeamLeadNotFound)
}

func TestClaimNoPositionField(t *testing.T) {
	st := newTestStore(t)
	svc := NewService(st, &recorderSpy{}, &publisherSpy{})
	applicantID := seedApplicant(t, st, domain.Applicant{
		Name:   "No Position",
		Status: domain.ApplicantApproved,
	})

	_, err := svc.Claim(context.Background(), admin, applicantID, tl.Email)
	assert.Equal(t, "no position field", conflictMessage(t, err))
}

func TestClaimWhitespacePositionField(t *testing.T) {
	st := newTestStore(t)
	svc := NewService(st, &recorderSpy{}, &publisherSpy{})
	a := approvedApplicant("   ")
	applicantID := seedApplicant(t, st, a)

	_, err := svc.Claim(context.Background(), admin, applicantID, tl.Email)
	assert.Equal(t, "no position field", conflictMessage(t, err))
}

func TestClaimTwiceFailsAlreadyAssigned(t *testing.T) {
	st := newTestStore(t)
	svc := NewService(st, &recorderSpy{}, &publisherSpy{})
	applicantID := seedApplicant(t, st, approvedApplicant("Telecollector"))
	seedRequest(t, st, approvedRequest(5))

	_, err := svc.Claim(context.Background(), admin, applicantID, tl.Email)
	require.NoError(t, err)

	_, err = svc.Claim(context.Background(), admin, applicantID, tl.Email)
	assert.ErrorIs(t, err, assignmenterrors.ErrAlreadyAssigned)
	assert.Equal(t, "already assigned", conflictMessage(t, err))
}

func TestClaimAssignedUserIDBlocks(t *testing.T) {
	st := newTestStore(t)
	svc := NewService(st, &recorderSpy{}, &publisherSpy{})
	a := approvedApplicant("Telecollector")
	a.AssignedUserID = 3
	applicantID := seedApplicant(t, st, a)
	seedRequest(t, st, approvedRequest(5))

	_, err := svc.Claim(context.Background(), admin, applicantID, tl.Email)
	assert.ErrorIs(t, err, assignmenterrors.ErrAlreadyAssigned)
}

func TestClaimStatuslessAssignmentCountsAsActive(t *testing.T) {
	st := newTestStore(t)
	svc := NewService(st, &recorderSpy{}, &publisherSpy{})
	applicantID := seedApplicant(t, st, approvedApplicant("Telecollector"))
	seedRequest(t, st, approvedRequest(5))

	// Legacy assignment row with no status field at all.
	_, err := st.Create(context.Background(), store.Assignments, store.Record{
		"applicantId": applicantID,
		"tlEmail":     tl.Email,
	})
	require.NoError(t, err)

	_, err = svc.Claim(context.Background(), admin, applicantID, tl.Email)
	assert.ErrorIs(t, err, assignmenterrors.ErrAlreadyAssigned)
}

func TestClaimRequiresApprovedStatus(t *testing.T) {
	st := newTestStore(t)
	svc := NewService(st, &recorderSpy{}, &publisherSpy{})
	seedRequest(t, st, approvedRequest(5))

	for _, status := range []string{domain.ApplicantPending, domain.ApplicantRejected} {
		a := approvedApplicant("Telecollector")
		a.Status = status
		applicantID := seedApplicant(t, st, a)

		_, err := svc.Claim(context.Background(), admin, applicantID, tl.Email)
		assert.Equal(t, "only approved applicants can be assigned", conflictMessage(t, err), "status %s", status)
	}
}

func TestClaimNoApprovedRequest(t *testing.T) {
	st := newTestStore(t)
	svc := NewService(st, &recorderSpy{}, &publisherSpy{})
	applicantID := seedApplicant(t, st, approvedApplicant("Telecollector"))

	// Pending request does not count.
	pending := approvedRequest(5)
	pending.Status = domain.RequestPending
	seedRequest(t, st, pending)

	// Approved request without a decided limit does not count either.
	undecided := approvedRequest(5)
	undecided.Limit = nil
	seedRequest(t, st, undecided)

	_, err := svc.Claim(context.Background(), admin, applicantID, tl.Email)
	assert.Equal(t, "no approved manpower request for Telecollector", conflictMessage(t, err))
}

func TestClaimPooledLimit(t *testing.T) {
	st := newTestStore(t)
	svc := NewService(st, &recorderSpy{}, &publisherSpy{})
	// Two approved requests for the same (team lead, position) with
	// limits 2 and 3: exactly five claims must succeed.
	seedRequest(t, st, approvedRequest(2))
	lastRequestID := seedRequest(t, st, approvedRequest(3))

	for i := 0; i < 5; i++ {
		applicantID := seedApplicant(t, st, approvedApplicant("Telecollector"))
		result, err := svc.Claim(context.Background(), admin, applicantID, tl.Email)
		require.NoError(t, err, "claim %d", i+1)
		// Attribution always goes to the most recently created request.
		assert.Equal(t, lastRequestID, result.Assignment.RequestID)
	}

	sixthID := seedApplicant(t, st, approvedApplicant("Telecollector"))
	_, err := svc.Claim(context.Background(), admin, sixthID, tl.Email)
	assert.Equal(t, "manpower limit reached for Telecollector", conflictMessage(t, err))
}

func TestClaimCancelledAssignmentFreesSlot(t *testing.T) {
	st := newTestStore(t)
	svc := NewService(st, &recorderSpy{}, &publisherSpy{})
	seedRequest(t, st, approvedRequest(1))

	firstID := seedApplicant(t, st, approvedApplicant("Telecollector"))
	first, err := svc.Claim(context.Background(), admin, firstID, tl.Email)
	require.NoError(t, err)

	secondID := seedApplicant(t, st, approvedApplicant("Telecollector"))
	_, err = svc.Claim(context.Background(), admin, secondID, tl.Email)
	require.Equal(t, "manpower limit reached for Telecollector", conflictMessage(t, err))

	cancelled := domain.AssignmentCancelled
	_, err = svc.Update(context.Background(), admin, first.Assignment.ID, UpdateAssignmentRequest{Status: &cancelled})
	require.NoError(t, err)

	_, err = svc.Claim(context.Background(), admin, secondID, tl.Email)
	assert.NoError(t, err)
}

func TestClaimTeamLeadAlwaysClaimsForSelf(t *testing.T) {
	st := newTestStore(t)
	svc := NewService(st, &recorderSpy{}, &publisherSpy{})
	applicantID := seedApplicant(t, st, approvedApplicant("Telecollector"))
	seedRequest(t, st, approvedRequest(2))

	// The body names someone else, but a team-lead caller is pinned to
	// their own identity.
	result, err := svc.Claim(context.Background(), tl, applicantID, "other@constantinolawoffice.com")
	require.NoError(t, err)
	assert.Equal(t, tl.Email, result.Assignment.TLEmail)
	assert.Equal(t, tl.Email, result.Applicant.AssignedTL)
}

func TestClaimLegacyAssignmentsCountTowardPool(t *testing.T) {
	st := newTestStore(t)
	svc := NewService(st, &recorderSpy{}, &publisherSpy{})
	seedRequest(t, st, approvedRequest(1))

	// A legacy active assignment with no requestId for the same
	// (tlEmail, position) consumes the only slot.
	_, err := st.Create(context.Background(), store.Assignments, store.Record{
		"applicantId":        77,
		"tlEmail":            tl.Email,
		"positionAppliedFor": "Telecollector",
		"status":             domain.AssignmentActive,
	})
	require.NoError(t, err)

	applicantID := seedApplicant(t, st, approvedApplicant("Telecollector"))
	_, err = svc.Claim(context.Background(), admin, applicantID, tl.Email)
	assert.Equal(t, "manpower limit reached for Telecollector", conflictMessage(t, err))
}
