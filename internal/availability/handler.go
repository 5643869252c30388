package availability

import (
	"errors"
	"net/http"
	"time"

	"lessonbook/internal/api"
	"lessonbook/internal/logger"

	"github.com/gin-gonic/gin"
)

const CodeInvalidDate = "INVALID_DATE"

type Handler struct {
	service Service
	loc     *time.Location
}

func NewHandler(service Service, loc *time.Location) *Handler {
	return &Handler{service: service, loc: loc}
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCoachNotFound), errors.Is(err, ErrLessonNotFound):
		api.Fail(c, http.StatusNotFound, api.CodeNotFound, err.Error())
	default:
		logger.Error("availability request failed", "error", err)
		api.ServerError(c, "failed to calculate availability")
	}
}

// parseDate reads ?date=YYYY-MM-DD as a calendar day in the reference
// timezone.
func (h *Handler) parseDate(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		api.Fail(c, http.StatusBadRequest, CodeInvalidDate, "date query parameter is required (YYYY-MM-DD)")
		return time.Time{}, false
	}
	date, err := time.ParseInLocation(DateLayout, raw, h.loc)
	if err != nil {
		api.Fail(c, http.StatusBadRequest, CodeInvalidDate, "date must be formatted as YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}

// ForCoach godoc
// @Summary      Coach availability
// @Description  Open ranges for the coach on the given day, clipped to operating hours.
// @Tags         availability
// @Produce      json
// @Security     BearerAuth
// @Param        coachID path  int    true "Coach ID"
// @Param        date    query string true "Day (YYYY-MM-DD)"
// @Success      200 {object} availability.Result
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /coaches/{coachID}/availability [get]
func (h *Handler) ForCoach(c *gin.Context) {
	coachID, ok := api.ParamID(c, "coachID")
	if !ok {
		return
	}
	date, ok := h.parseDate(c)
	if !ok {
		return
	}

	res, err := h.service.ForCoach(c.Request.Context(), coachID, date)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ForLesson godoc
// @Summary      Lesson availability
// @Description  Availability of the coach teaching the lesson.
// @Tags         availability
// @Produce      json
// @Security     BearerAuth
// @Param        lessonID path  int    true "Lesson ID"
// @Param        date     query string true "Day (YYYY-MM-DD)"
// @Success      200 {object} availability.Result
// @Failure      404 {object} api.ErrorResponse
// @Router       /lessons/{lessonID}/availability [get]
func (h *Handler) ForLesson(c *gin.Context) {
	lessonID, ok := api.ParamID(c, "lessonID")
	if !ok {
		return
	}
	date, ok := h.parseDate(c)
	if !ok {
		return
	}

	res, err := h.service.ForLesson(c.Request.Context(), lessonID, date)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
