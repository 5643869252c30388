package user

import (
	"errors"
	"net/http"

	"lessonbook/internal/api"
	"lessonbook/internal/auth"
	"lessonbook/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Register godoc
// @Summary      Register new member
// @Description  Creates a member account and returns access and refresh tokens.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "Registration data"
// @Success      201      {object}  LoginResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !api.BindJSON(c, &req) {
		return
	}

	user, accessToken, refreshToken, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			api.Fail(c, http.StatusConflict, api.CodeConflict, "email already registered")
			return
		}
		logger.Error("register failed", "error", err)
		api.ServerError(c, "failed to register user")
		return
	}

	c.JSON(http.StatusCreated, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *user,
	})
}

// Login godoc
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Credentials"
// @Success      200      {object}  LoginResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !api.BindJSON(c, &req) {
		return
	}

	user, accessToken, refreshToken, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			api.Fail(c, http.StatusUnauthorized, api.CodeUnauthorized, "invalid email or password")
			return
		}
		logger.Error("login failed", "error", err)
		api.ServerError(c, "failed to login")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *user,
	})
}

// RefreshToken godoc
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RefreshRequest  true  "Refresh token"
// @Success      200      {object}  RefreshResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /auth/refresh [post]
func (h *Handler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if !api.BindJSON(c, &req) {
		return
	}

	accessToken, user, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		api.Fail(c, http.StatusUnauthorized, api.CodeUnauthorized, "invalid or expired refresh token")
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{AccessToken: accessToken, User: *user})
}

// GetMe godoc
// @Summary      Current user
// @Tags         user
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  User
// @Failure      401  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			api.Fail(c, http.StatusNotFound, api.CodeNotFound, "user not found")
			return
		}
		api.ServerError(c, "failed to load user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// List godoc
// @Summary      List members
// @Description  Up to 100 users matching name, email or phone, newest first.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        search  query     string  false  "Search text"
// @Success      200     {array}   UserSummary
// @Router       /admin/users [get]
func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if !api.BindQuery(c, &q) {
		return
	}

	users, err := h.service.List(c.Request.Context(), q.Search)
	if err != nil {
		logger.Error("list users failed", "error", err)
		api.ServerError(c, "failed to list users")
		return
	}

	c.JSON(http.StatusOK, users)
}
