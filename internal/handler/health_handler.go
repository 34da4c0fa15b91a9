package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"docparse/internal/port"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	supervisor port.ProcessSupervisor
	db         *sqlx.DB
}

// NewHealthHandler creates a new HealthHandler. db may be nil when the audit
// store is disabled.
func NewHealthHandler(supervisor port.ProcessSupervisor, db *sqlx.DB) *HealthHandler {
	return &HealthHandler{supervisor: supervisor, db: db}
}

// Root handles GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Service is running")
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx := c.Request.Context()
	if !h.supervisor.HealthCheck(ctx) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "unavailable",
			"error":      "parser server not reachable",
			"supervisor": h.supervisor.State(),
		})
		return
	}
	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database not reachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "supervisor": h.supervisor.State()})
}
