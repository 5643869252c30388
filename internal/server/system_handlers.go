package server

import (
	"context"
	"net/http"
	"time"

	"lessonbook/internal/api"
	"lessonbook/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Health reports database and cache reachability. The cache is optional, so
// only a database failure makes the service unhealthy.
//
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Failure      503 {object} api.HealthResponse
// @Router       /health [get]
func Health(db *sqlx.DB, rdb redis.Cmdable) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		resp := api.HealthResponse{Status: "ok", Database: "ok", Cache: "disabled"}
		status := http.StatusOK

		if err := db.PingContext(ctx); err != nil {
			logger.Error("health: database ping failed", "error", err)
			resp.Status = "unavailable"
			resp.Database = "down"
			status = http.StatusServiceUnavailable
		}

		if rdb != nil {
			resp.Cache = "ok"
			if err := rdb.Ping(ctx).Err(); err != nil {
				logger.Warn("health: redis ping failed", "error", err)
				resp.Cache = "down"
				if resp.Status == "ok" {
					resp.Status = "degraded"
				}
			}
		}

		c.JSON(status, resp)
	}
}

// @Summary      Prometheus metrics
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func noRoute(c *gin.Context) {
	api.Fail(c, http.StatusNotFound, api.CodeNotFound, "route not found")
}
