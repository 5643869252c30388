package reservation

import (
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

func (h *Handler) fail(c *gin.Context, err error) {
	status, code, ok := Classify(err)
	if !ok {
		logger.Error("reservation request failed", "error", err, "path", c.FullPath())
		api.ServerError(c, "failed to process reservation")
		return
	}
	api.Fail(c, status, code, err.Error())
}

// Create godoc
// @Summary      Book a lesson
// @Description  Debits the membership for the lesson's coach and confirms the reservation.
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body reservation.CreateRequest true "Reservation"
// @Success      201 {object} reservation.Reservation
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /reservations [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	var req CreateRequest
	if !api.BindJSON(c, &req) {
		return
	}

	res, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Cancel godoc
// @Summary      Cancel my reservation
// @Description  Refunds the booked minutes to the membership.
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        reservationID path int true "Reservation ID"
// @Success      200 {object} reservation.Reservation
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /reservations/{reservationID}/cancel [patch]
func (h *Handler) Cancel(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	id, ok := api.ParamID(c, "reservationID")
	if !ok {
		return
	}

	res, err := h.service.Cancel(c.Request.Context(), userID, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListMine godoc
// @Summary      My reservations
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Status filter"
// @Success      200 {array} reservation.ReservationDetail
// @Router       /reservations [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	var q ListQuery
	if !api.BindQuery(c, &q) {
		return
	}

	out, err := h.service.ListMine(c.Request.Context(), userID, Status(q.Status))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ListAll godoc
// @Summary      All reservations
// @Tags         admin,reservations
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Status filter"
// @Success      200 {array} reservation.ReservationDetail
// @Router       /admin/reservations [get]
func (h *Handler) ListAll(c *gin.Context) {
	var q ListQuery
	if !api.BindQuery(c, &q) {
		return
	}

	out, err := h.service.ListAll(c.Request.Context(), Status(q.Status))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// UpdateStatus godoc
// @Summary      Change reservation status
// @Description  Moves a reservation along its lifecycle and records feedback. Canceling refunds.
// @Tags         admin,reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        reservationID path int true "Reservation ID"
// @Param        request body reservation.UpdateStatusRequest true "Status"
// @Success      200 {object} reservation.Reservation
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/reservations/{reservationID} [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	actorID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	id, ok := api.ParamID(c, "reservationID")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !api.BindJSON(c, &req) {
		return
	}

	res, err := h.service.UpdateStatus(c.Request.Context(), actorID, id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
