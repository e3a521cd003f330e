package handlers

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// SimulatorHandler imitates the external RUT processing service so the
// client can be pointed at this process during development
type SimulatorHandler struct {
	delay time.Duration
}

// NewSimulatorHandler creates a simulator that answers after delay
func NewSimulatorHandler(delay time.Duration) *SimulatorHandler {
	return &SimulatorHandler{delay: delay}
}

// HandleProcessRut handles POST /api/v1/test/process-rut
func (h *SimulatorHandler) HandleProcessRut(c *gin.Context) {
	var req ProcessRutRequest
	if err := bindJSON(c, &req); err != nil || req.Rut == "" {
		respondFailure(c, http.StatusBadRequest, "RUT is required")
		return
	}

	log.Debug().Str("rut", req.Rut).Msg("simulating external RUT processing")

	select {
	case <-time.After(h.delay):
	case <-c.Request.Context().Done():
		return
	}

	categories := []string{"A", "B", "C"}
	respondSuccess(c, http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"rut": req.Rut,
			"processedData": gin.H{
				"status":    "processed",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
				"details": gin.H{
					"validation": "passed",
					"score":      rand.Intn(100) + 1,
					"category":   categories[rand.Intn(len(categories))],
				},
			},
		},
		"message": "RUT processed successfully by external service",
	}, "External service simulation completed")
}
