package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lessonbook/internal/api"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{AuthMiddleware(testAccessSecret)}
	for _, role := range roles {
		handlers = append(handlers, RequireRole(role))
	}
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := GetUserID(c)
		role, _ := GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	r.GET("/private", handlers...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	memberToken, err := GenerateAccessToken(11, "m@lessonbook.test", RoleMember, testAccessSecret)
	require.NoError(t, err)
	refreshToken, err := GenerateRefreshToken(11, "m@lessonbook.test", RoleMember, testAccessSecret)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + memberToken, http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"bad token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"refresh token used as access", "Bearer " + refreshToken, http.StatusUnauthorized},
		{"expired", "Bearer " + signExpired(t, tokenTypeAccess, testAccessSecret), http.StatusUnauthorized},
		{"valid", "Bearer " + memberToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			protectedRouter().ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				var resp api.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, api.CodeUnauthorized, resp.Error.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	adminToken, err := GenerateAccessToken(1, "a@lessonbook.test", RoleAdmin, testAccessSecret)
	require.NoError(t, err)
	memberToken, err := GenerateAccessToken(2, "m@lessonbook.test", RoleMember, testAccessSecret)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	protectedRouter(RoleAdmin).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"role":"admin"}`, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+memberToken)
	protectedRouter(RoleAdmin).ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, api.CodeForbidden, resp.Error.Code)
}

func TestRequireRole_MissingOrMistyped(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for name, value := range map[string]any{"missing": nil, "mistyped": 123} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if value != nil {
				c.Set(ctxUserRole, value)
			}
			RequireRole(RoleAdmin)(c)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.True(t, c.IsAborted())
		})
	}
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		value  any
		wantID int
		wantOK bool
	}{
		{"set", 42, 42, true},
		{"missing", nil, 0, false},
		{"wrong type", "42", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			if tt.value != nil {
				c.Set(ctxUserID, tt.value)
			}
			id, ok := GetUserID(c)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestMustUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	_, ok := MustUserID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	SetIdentity(c, 9, RoleMember)
	id, ok := MustUserID(c)
	assert.True(t, ok)
	assert.Equal(t, 9, id)
}
