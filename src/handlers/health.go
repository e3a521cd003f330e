package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Version is the reported service version
const Version = "1.0.0"

var startTime = time.Now()

// Pinger checks a backing dependency; *database.Database implements it
type Pinger interface {
	Health(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db          Pinger
	environment string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger, environment string) *HealthHandler {
	return &HealthHandler{
		db:          db,
		environment: environment,
	}
}

// HandleHealth reports liveness without touching dependencies
func (hh *HealthHandler) HandleHealth(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{
		"status":      "OK",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": hh.environment,
		"version":     Version,
		"uptime":      time.Since(startTime).String(),
	}, "Server is running successfully")
}

// HandleReady returns readiness status with a DB check (for load balancers)
func (hh *HealthHandler) HandleReady(c *gin.Context) {
	start := time.Now()
	err := hh.db.Health(c.Request.Context())
	dbLatency := time.Since(start)

	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success":  false,
			"message":  "Service not ready",
			"database": "disconnected",
		})
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"database":   "connected",
		"db_latency": dbLatency.String(),
	}, "Service ready")
}
