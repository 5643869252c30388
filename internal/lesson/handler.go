package lesson

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
	case errors.Is(err, ErrLessonNotFound):
		api.Fail(c, http.StatusNotFound, api.CodeNotFound, err.Error())
	case errors.Is(err, ErrUnknownReference):
		api.Fail(c, http.StatusBadRequest, api.CodeValidation, err.Error())
	case errors.Is(err, ErrLessonInUse):
		api.Fail(c, http.StatusConflict, api.CodeConflict, err.Error())
	default:
		logger.Error("lesson request failed", "error", err)
		api.ServerError(c, "failed to process lesson request")
	}
}

// @Summary      Search lessons
// @Description  Cursor-paginated search by lesson, coach or branch name, newest first.
// @Tags         lessons
// @Produce      json
// @Security     BearerAuth
// @Param        by     query string false "lesson | coach | branch"
// @Param        q      query string false "Search text"
// @Param        cursor query int    false "Return lessons with id below this value"
// @Success      200 {object} lesson.SearchResult
// @Router       /lessons [get]
func (h *Handler) Search(c *gin.Context) {
	var query SearchQuery
	if !api.BindQuery(c, &query) {
		return
	}

	result, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary      Get a lesson
// @Tags         lessons
// @Produce      json
// @Param        lessonID path int true "Lesson ID"
// @Success      200 {object} lesson.LessonDetail
// @Failure      404 {object} api.ErrorResponse
// @Router       /lessons/{lessonID} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.ParamID(c, "lessonID")
	if !ok {
		return
	}

	l, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// @Summary      Create a lesson
// @Tags         admin,lessons
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body lesson.LessonRequest true "Lesson payload"
// @Success      201 {object} lesson.Lesson
// @Router       /admin/lessons [post]
func (h *Handler) Create(c *gin.Context) {
	var req LessonRequest
	if !api.BindJSON(c, &req) {
		return
	}

	l, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

// @Summary      Update a lesson
// @Tags         admin,lessons
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        lessonID path int true "Lesson ID"
// @Param        request body lesson.LessonRequest true "Lesson payload"
// @Success      200 {object} lesson.Lesson
// @Router       /admin/lessons/{lessonID} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := api.ParamID(c, "lessonID")
	if !ok {
		return
	}
	var req LessonRequest
	if !api.BindJSON(c, &req) {
		return
	}

	l, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// @Summary      Delete a lesson
// @Tags         admin,lessons
// @Security     BearerAuth
// @Param        lessonID path int true "Lesson ID"
// @Success      204
// @Router       /admin/lessons/{lessonID} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := api.ParamID(c, "lessonID")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
