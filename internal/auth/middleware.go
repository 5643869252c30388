package auth

import (
	"errors"
	"net/http"
	"strings"

	"lessonbook/internal/api"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID    = "user_id"
	ctxUserEmail = "user_email"
	ctxUserRole  = "user_role"
)

func AuthMiddleware(accessTokenSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			api.AbortFail(c, http.StatusUnauthorized, api.CodeUnauthorized, "authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
			api.AbortFail(c, http.StatusUnauthorized, api.CodeUnauthorized, "invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			api.AbortFail(c, http.StatusUnauthorized, api.CodeUnauthorized, "token is empty")
			return
		}

		claims, err := ValidateAccessToken(tokenString, accessTokenSecret)
		if err != nil {
			msg := "invalid or malformed token"
			switch {
			case errors.Is(err, ErrTokenExpired):
				msg = "token expired"
			case errors.Is(err, ErrInvalidTokenType):
				msg = "access token required"
			}
			api.AbortFail(c, http.StatusUnauthorized, api.CodeUnauthorized, msg)
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserEmail, claims.Email)
		c.Set(ctxUserRole, claims.Role)

		c.Next()
	}
}

func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok {
			api.AbortFail(c, http.StatusUnauthorized, api.CodeUnauthorized, "user role not found")
			return
		}

		if role != requiredRole {
			api.AbortFail(c, http.StatusForbidden, api.CodeForbidden, "insufficient permissions")
			return
		}

		c.Next()
	}
}

func GetUserID(c *gin.Context) (int, bool) {
	userID, exists := c.Get(ctxUserID)
	if !exists {
		return 0, false
	}

	id, ok := userID.(int)
	return id, ok
}

func GetUserRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(ctxUserRole)
	if !exists {
		return "", false
	}

	s, ok := role.(string)
	return s, ok
}

// MustUserID returns the authenticated user id or writes a 401.
func MustUserID(c *gin.Context) (int, bool) {
	id, ok := GetUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, api.CodeUnauthorized, "user not authenticated")
	}
	return id, ok
}

// SetIdentity stores an identity on the context. Used by tests that bypass
// token parsing.
func SetIdentity(c *gin.Context, userID int, role string) {
	c.Set(ctxUserID, userID)
	c.Set(ctxUserRole, role)
}
