package coach

import (
	"errors"
	"net/http"
	"strconv"

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
	case errors.Is(err, ErrCoachNotFound), errors.Is(err, ErrTimeOffNotFound):
		api.Fail(c, http.StatusNotFound, api.CodeNotFound, err.Error())
	case errors.Is(err, ErrInvalidRule), errors.Is(err, ErrInvalidTimeOff), errors.Is(err, ErrUnknownBranch):
		api.Fail(c, http.StatusBadRequest, api.CodeValidation, err.Error())
	case errors.Is(err, ErrCoachInUse):
		api.Fail(c, http.StatusConflict, api.CodeConflict, err.Error())
	default:
		logger.Error("coach request failed", "error", err)
		api.ServerError(c, "failed to process coach request")
	}
}

// @Summary      Create a coach
// @Tags         admin,coaches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body coach.CoachRequest true "Coach payload"
// @Success      201 {object} coach.Coach
// @Failure      400 {object} api.ErrorResponse
// @Router       /admin/coaches [post]
func (h *Handler) Create(c *gin.Context) {
	var req CoachRequest
	if !api.BindJSON(c, &req) {
		return
	}

	coach, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, coach)
}

// @Summary      List coaches
// @Tags         coaches
// @Produce      json
// @Param        branchId query int false "Only coaches teaching at this branch"
// @Success      200 {array} coach.Coach
// @Router       /coaches [get]
func (h *Handler) List(c *gin.Context) {
	branchID := 0
	if raw := c.Query("branchId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			api.Fail(c, http.StatusBadRequest, api.CodeValidation, "invalid branchId")
			return
		}
		branchID = id
	}

	coaches, err := h.service.List(c.Request.Context(), branchID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, coaches)
}

// @Summary      Get a coach
// @Tags         coaches
// @Produce      json
// @Param        coachID path int true "Coach ID"
// @Success      200 {object} coach.Coach
// @Failure      404 {object} api.ErrorResponse
// @Router       /coaches/{coachID} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.ParamID(c, "coachID")
	if !ok {
		return
	}

	coach, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, coach)
}

// @Summary      Update a coach
// @Tags         admin,coaches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        coachID path int true "Coach ID"
// @Param        request body coach.CoachRequest true "Coach payload"
// @Success      200 {object} coach.Coach
// @Router       /admin/coaches/{coachID} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := api.ParamID(c, "coachID")
	if !ok {
		return
	}
	var req CoachRequest
	if !api.BindJSON(c, &req) {
		return
	}

	coach, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, coach)
}

// @Summary      Delete a coach
// @Tags         admin,coaches
// @Security     BearerAuth
// @Param        coachID path int true "Coach ID"
// @Success      204
// @Router       /admin/coaches/{coachID} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := api.ParamID(c, "coachID")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Get a coach's weekly rules and upcoming time-offs
// @Tags         admin,schedule
// @Produce      json
// @Security     BearerAuth
// @Param        coachID path int true "Coach ID"
// @Success      200 {object} coach.Schedule
// @Router       /admin/coaches/{coachID}/schedule [get]
func (h *Handler) GetSchedule(c *gin.Context) {
	id, ok := api.ParamID(c, "coachID")
	if !ok {
		return
	}

	schedule, err := h.service.GetSchedule(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// @Summary      Replace a coach's weekly rules
// @Tags         admin,schedule
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        coachID path int true "Coach ID"
// @Param        request body coach.ScheduleRequest true "Weekly rules"
// @Success      200 {array} coach.AvailRule
// @Failure      400 {object} api.ErrorResponse
// @Router       /admin/coaches/{coachID}/schedule [put]
func (h *Handler) ReplaceSchedule(c *gin.Context) {
	id, ok := api.ParamID(c, "coachID")
	if !ok {
		return
	}
	var req ScheduleRequest
	if !api.BindJSON(c, &req) {
		return
	}

	rules, err := h.service.ReplaceSchedule(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rules)
}

// @Summary      Add a time-off
// @Tags         admin,schedule
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        coachID path int true "Coach ID"
// @Param        request body coach.TimeOffRequest true "Time-off"
// @Success      201 {object} coach.TimeOff
// @Router       /admin/coaches/{coachID}/timeoffs [post]
func (h *Handler) AddTimeOff(c *gin.Context) {
	id, ok := api.ParamID(c, "coachID")
	if !ok {
		return
	}
	var req TimeOffRequest
	if !api.BindJSON(c, &req) {
		return
	}

	off, err := h.service.AddTimeOff(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, off)
}

// @Summary      Delete a time-off
// @Tags         admin,schedule
// @Security     BearerAuth
// @Param        coachID path int true "Coach ID"
// @Param        timeOffID path int true "Time-off ID"
// @Success      204
// @Router       /admin/coaches/{coachID}/timeoffs/{timeOffID} [delete]
func (h *Handler) RemoveTimeOff(c *gin.Context) {
	coachID, ok := api.ParamID(c, "coachID")
	if !ok {
		return
	}
	timeOffID, ok := api.ParamID(c, "timeOffID")
	if !ok {
		return
	}

	if err := h.service.RemoveTimeOff(c.Request.Context(), coachID, timeOffID); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
