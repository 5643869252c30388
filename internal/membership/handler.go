package membership

import (
	"errors"
	"net/http"

	"lessonbook/internal/api"
	"lessonbook/internal/auth"
	"lessonbook/internal/logger"

	"github.com/gin-gonic/gin"
)

const (
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeInsufficientMinutes = "INSUFFICIENT_MINUTES"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMembershipNotFound), errors.Is(err, ErrUnknownReference):
		api.Fail(c, http.StatusNotFound, api.CodeNotFound, err.Error())
	case errors.Is(err, ErrMembershipExists):
		api.Fail(c, http.StatusBadRequest, CodeAlreadyExists, err.Error())
	case errors.Is(err, ErrInsufficientMinutes):
		api.Fail(c, http.StatusBadRequest, CodeInsufficientMinutes, err.Error())
	case errors.Is(err, ErrZeroAdjustment):
		api.Fail(c, http.StatusBadRequest, api.CodeValidation, err.Error())
	case errors.Is(err, ErrForbidden):
		api.Fail(c, http.StatusForbidden, api.CodeForbidden, err.Error())
	default:
		logger.Error("membership request failed", "error", err)
		api.ServerError(c, "failed to process membership request")
	}
}

// @Summary      My memberships
// @Tags         memberships
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} membership.MembershipSummary
// @Router       /me/memberships [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	out, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary      Membership ledger
// @Description  Owner-only history of balance changes, newest first.
// @Tags         memberships
// @Produce      json
// @Security     BearerAuth
// @Param        membershipID path int true "Membership ID"
// @Success      200 {array} membership.LedgerEntry
// @Failure      403 {object} api.ErrorResponse
// @Router       /memberships/{membershipID}/ledger [get]
func (h *Handler) Ledger(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	id, ok := api.ParamID(c, "membershipID")
	if !ok {
		return
	}

	entries, err := h.service.Ledger(c.Request.Context(), userID, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// @Summary      Issue a membership
// @Tags         admin,memberships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userID path int true "User ID"
// @Param        request body membership.IssueRequest true "Membership"
// @Success      201 {object} membership.Membership
// @Failure      400 {object} api.ErrorResponse
// @Router       /admin/users/{userID}/memberships [post]
func (h *Handler) Issue(c *gin.Context) {
	actorID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	userID, ok := api.ParamID(c, "userID")
	if !ok {
		return
	}
	var req IssueRequest
	if !api.BindJSON(c, &req) {
		return
	}

	m, err := h.service.Issue(c.Request.Context(), actorID, userID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// @Summary      Adjust a membership balance
// @Tags         admin,memberships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        membershipID path int true "Membership ID"
// @Param        request body membership.AdjustRequest true "Signed minutes"
// @Success      200 {object} membership.Membership
// @Router       /admin/memberships/{membershipID}/adjust [post]
func (h *Handler) Adjust(c *gin.Context) {
	actorID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	id, ok := api.ParamID(c, "membershipID")
	if !ok {
		return
	}
	var req AdjustRequest
	if !api.BindJSON(c, &req) {
		return
	}

	m, entry, err := h.service.Adjust(c.Request.Context(), actorID, id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"membership": m, "entry": entry})
}

// @Summary      Activate or deactivate a membership
// @Tags         admin,memberships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        membershipID path int true "Membership ID"
// @Param        request body membership.SetActiveRequest true "Active flag"
// @Success      200 {object} membership.Membership
// @Router       /admin/memberships/{membershipID}/active [patch]
func (h *Handler) SetActive(c *gin.Context) {
	id, ok := api.ParamID(c, "membershipID")
	if !ok {
		return
	}
	var req SetActiveRequest
	if !api.BindJSON(c, &req) {
		return
	}

	m, err := h.service.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary      Audit balance against ledger
// @Tags         admin,memberships
// @Produce      json
// @Security     BearerAuth
// @Param        membershipID path int true "Membership ID"
// @Success      200 {object} membership.Audit
// @Router       /admin/memberships/{membershipID}/audit [get]
func (h *Handler) Audit(c *gin.Context) {
	id, ok := api.ParamID(c, "membershipID")
	if !ok {
		return
	}

	a, err := h.service.Audit(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}
