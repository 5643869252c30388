package user

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lessonbook/internal/api"
	"lessonbook/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, req RegisterRequest) (*User, string, string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*User), args.String(1), args.String(2), args.Error(3)
}

func (m *MockService) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*User), args.String(1), args.String(2), args.Error(3)
}

func (m *MockService) GetByID(ctx context.Context, userID int) (*User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockService) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(1) == nil {
		return "", nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*User), args.Error(2)
}

func (m *MockService) List(ctx context.Context, search string) ([]UserSummary, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]UserSummary), args.Error(1)
}

func newTestRouter(svc Service, userID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.RefreshToken)
	r.GET("/me", func(c *gin.Context) {
		if userID > 0 {
			auth.SetIdentity(c, userID, auth.RoleMember)
		}
	}, h.GetMe)
	r.GET("/admin/users", h.List)
	return r
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Register(t *testing.T) {
	svc := new(MockService)
	svc.On("Register", mock.Anything, mock.MatchedBy(func(r RegisterRequest) bool { return r.Email == "new@lessonbook.test" })).
		Return(&User{ID: 5, Email: "new@lessonbook.test", Role: auth.RoleMember}, "acc", "ref", nil)
	svc.On("Register", mock.Anything, mock.MatchedBy(func(r RegisterRequest) bool { return r.Email == "dup@lessonbook.test" })).
		Return(nil, "", "", ErrEmailExists)

	r := newTestRouter(svc, 0)

	w := postJSON(r, "/auth/register", `{"name":"New","email":"new@lessonbook.test","password":"password123"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "acc", resp.AccessToken)
	assert.NotContains(t, w.Body.String(), "password")

	w = postJSON(r, "/auth/register", `{"name":"Dup","email":"dup@lessonbook.test","password":"password123"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = postJSON(r, "/auth/register", `{"name":"X","email":"not-an-email","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errResp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, api.CodeValidation, errResp.Error.Code)
}

func TestHandler_Login_InvalidCredentials(t *testing.T) {
	svc := new(MockService)
	svc.On("Login", mock.Anything, mock.Anything).Return(nil, "", "", ErrInvalidCredentials)

	w := postJSON(newTestRouter(svc, 0), "/auth/login", `{"email":"a@lessonbook.test","password":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_Refresh(t *testing.T) {
	svc := new(MockService)
	svc.On("RefreshToken", mock.Anything, "good").Return("new-access", &User{ID: 1}, nil)
	svc.On("RefreshToken", mock.Anything, "bad").Return("", nil, auth.ErrInvalidToken)
	r := newTestRouter(svc, 0)

	w := postJSON(r, "/auth/refresh", `{"refreshToken":"good"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "new-access")

	w = postJSON(r, "/auth/refresh", `{"refreshToken":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_GetMe(t *testing.T) {
	svc := new(MockService)
	svc.On("GetByID", mock.Anything, 8).Return(&User{ID: 8, Name: "Choi"}, nil)

	w := httptest.NewRecorder()
	newTestRouter(svc, 8).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Choi")

	w = httptest.NewRecorder()
	newTestRouter(svc, 0).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_List(t *testing.T) {
	svc := new(MockService)
	svc.On("List", mock.Anything, "kim").Return([]UserSummary{
		{User: User{ID: 3, Name: "Kim", Email: "kim@lessonbook.test", PasswordHash: "hash"}, ReservationCount: 4, ActiveMemberships: 1},
	}, nil)
	svc.On("List", mock.Anything, "").Return(nil, errors.New("db down"))
	r := newTestRouter(svc, 0)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/users?search=kim", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reservationCount":4`)
	assert.NotContains(t, w.Body.String(), "hash")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/users", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
