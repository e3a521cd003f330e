package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rutdashboard/rut-dashboard-api/src/models"
	"github.com/rutdashboard/rut-dashboard-api/src/services"
)

// RutProcessor is the RUT processing use-case consumed by ProcessRutHandler
type RutProcessor interface {
	Process(ctx context.Context, rut string, requester uuid.UUID, save bool) (*services.ProcessRutResponse, error)
}

// ProcessRutHandler sends RUTs to the external processing service
type ProcessRutHandler struct {
	processor RutProcessor
	Responder
}

// NewProcessRutHandler creates a new process-rut handler
func NewProcessRutHandler(processor RutProcessor, responder Responder) *ProcessRutHandler {
	return &ProcessRutHandler{processor: processor, Responder: responder}
}

// ProcessRutRequest is the process-rut body
type ProcessRutRequest struct {
	Rut string `json:"rut"`
}

// HandleProcessRut handles POST /api/v1/process-rut.
// A failed lookup answers 200 with success=false; only invalid input and
// server faults are HTTP errors.
func (h *ProcessRutHandler) HandleProcessRut(c *gin.Context) {
	var req ProcessRutRequest
	if err := bindJSON(c, &req); err != nil {
		respondFailure(c, http.StatusBadRequest, "RUT is required")
		return
	}
	if _, err := services.NormalizeRUT(req.Rut); err != nil {
		h.Error(c, err)
		return
	}

	requester, ok := currentAdminID(c)
	if !ok {
		respondFailure(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	save, _ := strconv.ParseBool(c.Query("save"))

	result, err := h.processor.Process(c.Request.Context(), req.Rut, requester, save)
	if err != nil {
		h.Error(c, err)
		return
	}

	if result.Success {
		respondSuccess(c, http.StatusOK, result, "RUT processed successfully")
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: false,
		Message: result.Message,
		Data:    result,
		Error:   result.Error,
	})
}
