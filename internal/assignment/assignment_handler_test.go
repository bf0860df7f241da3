package assignment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assignmenterrors "go-ats/internal/assignment/errors"
	"go-ats/internal/authz"
	"go-ats/internal/domain"
)

type fakeAssignmentService struct {
	claimResult ClaimResult
	claimErr    error
	claimedFor  []string
	assignments []domain.Assignment
}

func (f *fakeAssignmentService) List(ctx context.Context, actor domain.Actor) ([]domain.Assignment, error) {
	return f.assignments, nil
}

func (f *fakeAssignmentService) Get(ctx context.Context, actor domain.Actor, id int) (domain.Assignment, error) {
	return domain.Assignment{}, assignmenterrors.ErrAssignmentNotFound
}

func (f *fakeAssignmentService) Claim(ctx context.Context, actor domain.Actor, applicantID int, teamLeadEmail string) (ClaimResult, error) {
	f.claimedFor = append(f.claimedFor, teamLeadEmail)
	if f.claimErr != nil {
		return ClaimResult{}, f.claimErr
	}
	return f.claimResult, nil
}

func (f *fakeAssignmentService) Update(ctx context.Context, actor domain.Actor, id int, req UpdateAssignmentRequest) (domain.Assignment, error) {
	return domain.Assignment{}, nil
}

func (f *fakeAssignmentService) Delete(ctx context.Context, actor domain.Actor, id int) error {
	return nil
}

type fakeSessions struct {
	actors map[string]domain.Actor
}

func (f *fakeSessions) Validate(ctx context.Context, token string) (domain.Actor, error) {
	actor, ok := f.actors[token]
	if !ok {
		return domain.Actor{}, assignmenterrors.ErrAssignmentNotFound
	}
	return actor, nil
}

func setupRouter(t *testing.T, svc Service, sessions *fakeSessions) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gate, err := authz.NewGate()
	require.NoError(t, err)

	r := gin.New()
	RegisterRoutes(r.Group("/api"), NewHandler(svc, nil), sessions, gate, nil)
	return r
}

func claimWith(r *gin.Engine, token string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/assignments/claim", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func testSessions() *fakeSessions {
	return &fakeSessions{actors: map[string]domain.Actor{
		"admin-token": {ID: 4, Email: "admin@constantinolawoffice.com", Role: domain.RoleAdmin},
		"tl-token":    {ID: 3, Email: "tl@constantinolawoffice.com", Role: domain.RoleTeamLead},
		"hr-token":    {ID: 2, Email: "hr@constantinolawoffice.com", Role: domain.RoleHR},
	}}
}

func TestClaimEndpointSuccess(t *testing.T) {
	svc := &fakeAssignmentService{
		claimResult: ClaimResult{
			Assignment: domain.Assignment{ID: 1, ApplicantID: 7, TLEmail: "tl@constantinolawoffice.com", Status: domain.AssignmentActive},
			Applicant:  domain.Applicant{ID: 7, Status: domain.ApplicantAssigned},
		},
	}
	r := setupRouter(t, svc, testSessions())

	w := claimWith(r, "admin-token", ClaimRequest{ApplicantID: 7, TeamLeadEmail: "tl@constantinolawoffice.com"})
	assert.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Ok   bool        `json:"ok"`
		Data ClaimResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Ok)
	assert.Equal(t, 7, envelope.Data.Assignment.ApplicantID)
	assert.Equal(t, domain.ApplicantAssigned, envelope.Data.Applicant.Status)
}

func TestClaimEndpointConflictMapsTo409(t *testing.T) {
	svc := &fakeAssignmentService{claimErr: assignmenterrors.ErrAlreadyAssigned}
	r := setupRouter(t, svc, testSessions())

	w := claimWith(r, "admin-token", ClaimRequest{ApplicantID: 7, TeamLeadEmail: "tl@constantinolawoffice.com"})
	assert.Equal(t, http.StatusConflict, w.Code)

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "already assigned", envelope.Error.Message)
}

func TestClaimEndpointRejectsHR(t *testing.T) {
	svc := &fakeAssignmentService{}
	r := setupRouter(t, svc, testSessions())

	w := claimWith(r, "hr-token", ClaimRequest{ApplicantID: 7, TeamLeadEmail: "tl@constantinolawoffice.com"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, svc.claimedFor, "service never reached")
}

func TestClaimEndpointRequiresBody(t *testing.T) {
	svc := &fakeAssignmentService{}
	r := setupRouter(t, svc, testSessions())

	w := claimWith(r, "tl-token", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEndpointRequiresAuth(t *testing.T) {
	r := setupRouter(t, &fakeAssignmentService{}, testSessions())

	req := httptest.NewRequest(http.MethodGet, "/api/assignments", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
