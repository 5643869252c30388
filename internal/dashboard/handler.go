package dashboard

import (
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

// Stats godoc
// @Summary      Dashboard statistics
// @Description  Catalog totals, reservation counts for today, this week and this month, and membership balances.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dashboard.Stats
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/dashboard/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		logger.Error("dashboard stats failed", "error", err)
		api.ServerError(c, "failed to load dashboard statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}
