package user

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-ats/internal/domain"
	"go-ats/internal/store"
	usererrors "go-ats/internal/user/errors"
)

type recorderSpy struct {
	entries []string
}

func (r *recorderSpy) Record(ctx context.Context, actor domain.Actor, action, entity string, entityID int, before, after any) error {
	r.entries = append(r.entries, action+":"+entity)
	return nil
}

var admin = domain.Actor{ID: 4, Email: "admin@constantinolawoffice.com", Role: domain.RoleAdmin}

func newTestService(t *testing.T) (Service, *recorderSpy) {
	t.Helper()
	st := store.NewFileStore(filepath.Join(t.TempDir(), "db.json"))
	spy := &recorderSpy{}
	return NewService(st, spy), spy
}

func TestCreateHashesPassword(t *testing.T) {
	svc, spy := newTestService(t)

	created, err := svc.Create(context.Background(), admin, CreateUserRequest{
		Email:    "newlead@constantinolawoffice.com",
		Password: "secret12",
		Role:     domain.RoleTeamLead,
	})
	require.NoError(t, err)

	assert.NotEqual(t, "secret12", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret12")))
	assert.NotEmpty(t, created.CreatedAt)
	assert.Equal(t, []string{"create:users"}, spy.entries)
}

func TestCreateRejectsOutsideDomain(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), admin, CreateUserRequest{
		Email:    "lead@gmail.com",
		Password: "secret12",
		Role:     domain.RoleTeamLead,
	})
	assert.ErrorIs(t, err, usererrors.ErrCompanyEmailRequired)
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	// tl@ exists in the seed data; case must not matter.
	_, err := svc.Create(context.Background(), admin, CreateUserRequest{
		Email:    "TL@constantinolawoffice.com",
		Password: "secret12",
		Role:     domain.RoleTeamLead,
	})
	assert.ErrorIs(t, err, usererrors.ErrEmailTaken)
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), admin, CreateUserRequest{
		Email:    "x@constantinolawoffice.com",
		Password: "secret12",
		Role:     "superuser",
	})
	assert.ErrorIs(t, err, usererrors.ErrInvalidRole)
}

func TestUpdateChangesLimitOnly(t *testing.T) {
	svc, _ := newTestService(t)
	limit := 9

	updated, err := svc.Update(context.Background(), admin, 3, UpdateUserRequest{
		TLAssignmentLimit: &limit,
	})
	require.NoError(t, err)

	require.NotNil(t, updated.TLAssignmentLimit)
	assert.Equal(t, 9, *updated.TLAssignmentLimit)
	assert.Equal(t, "tl@constantinolawoffice.com", updated.Email, "other fields untouched")
}

func TestUpdateMissingUser(t *testing.T) {
	svc, _ := newTestService(t)
	role := domain.RoleHR

	_, err := svc.Update(context.Background(), admin, 99, UpdateUserRequest{Role: &role})
	assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	svc, spy := newTestService(t)

	require.NoError(t, svc.Delete(context.Background(), admin, 3))
	assert.Contains(t, spy.entries, "delete:users")

	_, err := svc.Get(context.Background(), 3)
	assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
}
