package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DependencyCheck reports whether a backing service is reachable.
type DependencyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	checks []DependencyCheck
	log    *zap.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(log *zap.Logger, checks ...DependencyCheck) *HealthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HealthHandler{checks: checks, log: log}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	for _, dep := range h.checks {
		if err := dep.Check(c.Request.Context()); err != nil {
			h.log.Warn("readiness check failed", zap.String("dependency", dep.Name), zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, HealthResponse{
				Status: "unavailable",
				Error:  dep.Name + " not reachable",
			})
			return
		}
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
