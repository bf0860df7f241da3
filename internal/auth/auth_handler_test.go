package auth

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

	autherrors "go-ats/internal/auth/errors"
	"go-ats/internal/domain"
)

type fakeService struct {
	loginToken string
	loginActor domain.Actor
	loginErr   error
	loggedOut  []string
}

func (f *fakeService) Login(ctx context.Context, email, password string) (string, domain.Actor, error) {
	if f.loginErr != nil {
		return "", domain.Actor{}, f.loginErr
	}
	return f.loginToken, f.loginActor, nil
}

func (f *fakeService) Logout(ctx context.Context, token string) error {
	f.loggedOut = append(f.loggedOut, token)
	return nil
}

func (f *fakeService) Validate(ctx context.Context, token string) (domain.Actor, error) {
	if token == f.loginToken {
		return f.loginActor, nil
	}
	return domain.Actor{}, autherrors.ErrInvalidToken
}

func setupRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/api"), NewHandler(svc), svc)
	return r
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginSetsSessionCookie(t *testing.T) {
	svc := &fakeService{
		loginToken: "tok-123",
		loginActor: domain.Actor{ID: 3, Email: "tl@constantinolawoffice.com", Role: domain.RoleTeamLead},
	}
	r := setupRouter(svc)

	w := postJSON(r, "/api/auth/login", LoginRequest{
		Email:    "tl@constantinolawoffice.com",
		Password: "tl123",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Ok   bool          `json:"ok"`
		Data LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Ok)
	assert.Equal(t, 3, envelope.Data.ID)
	assert.Equal(t, domain.RoleTeamLead, envelope.Data.Role)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session_token", cookies[0].Name)
	assert.Equal(t, "tok-123", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLoginValidationError(t *testing.T) {
	r := setupRouter(&fakeService{})

	w := postJSON(r, "/api/auth/login", map[string]string{"email": "tl@constantinolawoffice.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginInvalidCredentials(t *testing.T) {
	r := setupRouter(&fakeService{loginErr: autherrors.ErrInvalidCredentials})

	w := postJSON(r, "/api/auth/login", LoginRequest{
		Email:    "tl@constantinolawoffice.com",
		Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var envelope struct {
		Ok    bool `json:"ok"`
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.False(t, envelope.Ok)
	assert.Equal(t, "UNAUTHORIZED", envelope.Error.Code)
}

func TestLogoutClearsCookieAndRevokes(t *testing.T) {
	svc := &fakeService{loginToken: "tok-123"}
	r := setupRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "tok-123"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"tok-123"}, svc.loggedOut)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestMeRequiresAuth(t *testing.T) {
	svc := &fakeService{
		loginToken: "tok-123",
		loginActor: domain.Actor{ID: 2, Email: "hr@constantinolawoffice.com", Role: domain.RoleHR},
	}
	r := setupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer tok-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "hr@constantinolawoffice.com", envelope.Data.Email)
}
