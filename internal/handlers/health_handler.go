package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bridgeit/bridgeit-api/pkg/trigger"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthHandler struct {
	pool *pgxpool.Pool
}

func NewHealthHandler(pool *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{
		pool: pool,
	}
}

func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	if h.pool != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.pool.Ping(ctx); err != nil {
			attachError(c, err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"reason": "database unreachable",
			})
			return
		}
	}

	resp := gin.H{"status": "ok"}
	if trigger.BreakerOpen() {
		// Degraded, not down: OTP dispatch is failing against a tripped breaker
		resp["email_trigger"] = "degraded"
	}

	c.JSON(http.StatusOK, resp)
}
