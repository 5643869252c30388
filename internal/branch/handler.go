package branch

import (
	"errors"
	"net/http"

	"lessonbook/internal/api"
	"lessonbook/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBranchNotFound):
		api.Fail(c, http.StatusNotFound, api.CodeNotFound, err.Error())
	case errors.Is(err, ErrBranchInUse):
		api.Fail(c, http.StatusConflict, api.CodeConflict, err.Error())
	default:
		logger.Error("branch request failed", "error", err)
		api.ServerError(c, "failed to process branch request")
	}
}

// @Summary      Create a branch
// @Tags         admin,branches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body branch.BranchRequest true "Branch payload"
// @Success      201 {object} branch.Branch
// @Failure      400 {object} api.ErrorResponse
// @Router       /admin/branches [post]
func (h *Handler) Create(c *gin.Context) {
	var req BranchRequest
	if !api.BindJSON(c, &req) {
		return
	}

	b, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// @Summary      List branches
// @Tags         branches
// @Produce      json
// @Success      200 {array} branch.Branch
// @Router       /branches [get]
func (h *Handler) List(c *gin.Context) {
	branches, err := h.service.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, branches)
}

// @Summary      Get a branch
// @Tags         branches
// @Produce      json
// @Param        branchID path int true "Branch ID"
// @Success      200 {object} branch.Branch
// @Failure      404 {object} api.ErrorResponse
// @Router       /branches/{branchID} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.ParamID(c, "branchID")
	if !ok {
		return
	}

	b, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// @Summary      Update a branch
// @Tags         admin,branches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        branchID path int true "Branch ID"
// @Param        request body branch.BranchRequest true "Branch payload"
// @Success      200 {object} branch.Branch
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/branches/{branchID} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := api.ParamID(c, "branchID")
	if !ok {
		return
	}
	var req BranchRequest
	if !api.BindJSON(c, &req) {
		return
	}

	b, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// @Summary      Delete a branch
// @Tags         admin,branches
// @Security     BearerAuth
// @Param        branchID path int true "Branch ID"
// @Success      204
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/branches/{branchID} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := api.ParamID(c, "branchID")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
