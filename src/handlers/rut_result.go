package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rutdashboard/rut-dashboard-api/src/models"
	"github.com/rutdashboard/rut-dashboard-api/src/services"
)

// ResultStore is the stored-result use-case consumed by RutResultHandler
type ResultStore interface {
	Create(ctx context.Context, rut string, creator uuid.UUID, data json.RawMessage) (*models.RutResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.RutResult, error)
	List(ctx context.Context, opts models.PaginationOptions) (models.Page[models.RutResult], error)
	ListByRUT(ctx context.Context, rut string) ([]models.RutResult, error)
	ListByRUTAndCreator(ctx context.Context, rut string, creator uuid.UUID) ([]models.RutResult, error)
	ListByCreator(ctx context.Context, creator uuid.UUID, opts models.PaginationOptions) (models.Page[models.RutResult], error)
	Search(ctx context.Context, term string, creator *uuid.UUID, opts models.PaginationOptions) (models.Page[models.RutResult], error)
	Update(ctx context.Context, id uuid.UUID, update models.RutResultUpdate) (*models.RutResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context, creator uuid.UUID) (*services.ResultStats, error)
}

// RutResultHandler handles stored RUT lookup results
type RutResultHandler struct {
	results ResultStore
	Responder
}

// NewRutResultHandler creates a new result handler
func NewRutResultHandler(results ResultStore, responder Responder) *RutResultHandler {
	return &RutResultHandler{results: results, Responder: responder}
}

// RutResultRequest is the create and update body. Data is any JSON value.
type RutResultRequest struct {
	Rut  *string         `json:"rut"`
	Data json.RawMessage `json:"data"`
}

// HandleCreate handles POST /api/v1/rut-results
func (h *RutResultHandler) HandleCreate(c *gin.Context) {
	var req RutResultRequest
	if err := bindJSON(c, &req); err != nil || req.Rut == nil || *req.Rut == "" {
		respondFailure(c, http.StatusBadRequest, "RUT is required")
		return
	}

	creator, ok := currentAdminID(c)
	if !ok {
		respondFailure(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	result, err := h.results.Create(c.Request.Context(), *req.Rut, creator, req.Data)
	if err != nil {
		h.Error(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, result, "RUT Process Result created successfully")
}

// HandleGet handles GET /api/v1/rut-results/:id
func (h *RutResultHandler) HandleGet(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.results.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, result, "Result retrieved successfully")
}

// HandleList handles GET /api/v1/rut-results
func (h *RutResultHandler) HandleList(c *gin.Context) {
	page, err := h.results.List(c.Request.Context(), paginationFromQuery(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, page, "Results retrieved successfully")
}

// HandleByRUT handles GET /api/v1/rut-results/by-rut/:rut.
// With ?mine=true only the caller's results are returned.
func (h *RutResultHandler) HandleByRUT(c *gin.Context) {
	rut := c.Param("rut")

	var (
		results []models.RutResult
		err     error
	)
	if mine, _ := strconv.ParseBool(c.Query("mine")); mine {
		creator, ok := currentAdminID(c)
		if !ok {
			respondFailure(c, http.StatusUnauthorized, "User not authenticated")
			return
		}
		results, err = h.results.ListByRUTAndCreator(c.Request.Context(), rut, creator)
	} else {
		results, err = h.results.ListByRUT(c.Request.Context(), rut)
	}
	if err != nil {
		h.Error(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, results, "Results retrieved successfully")
}

// HandleMyResults handles GET /api/v1/rut-results/my-results
func (h *RutResultHandler) HandleMyResults(c *gin.Context) {
	creator, ok := currentAdminID(c)
	if !ok {
		respondFailure(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	page, err := h.results.ListByCreator(c.Request.Context(), creator, paginationFromQuery(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, page, "Your results retrieved successfully")
}

// HandleSearch handles GET /api/v1/rut-results/search?q=&createdBy=
func (h *RutResultHandler) HandleSearch(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		respondFailure(c, http.StatusBadRequest, "Search term is required")
		return
	}

	var creator *uuid.UUID
	if raw := c.Query("createdBy"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.Error(c, services.ErrInvalidID)
			return
		}
		creator = &id
	}

	page, err := h.results.Search(c.Request.Context(), term, creator, paginationFromQuery(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, page, "Search results retrieved successfully")
}

// HandleUpdate handles PUT /api/v1/rut-results/:id
func (h *RutResultHandler) HandleUpdate(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	var req RutResultRequest
	if err := bindJSON(c, &req); err != nil {
		respondFailure(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.results.Update(c.Request.Context(), id, models.RutResultUpdate{Rut: req.Rut, Data: req.Data})
	if err != nil {
		h.Error(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, result, "Result updated successfully")
}

// HandleDelete handles DELETE /api/v1/rut-results/:id
func (h *RutResultHandler) HandleDelete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.results.Delete(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, nil, "Result deleted successfully")
}

// HandleStats handles GET /api/v1/rut-results/stats
func (h *RutResultHandler) HandleStats(c *gin.Context) {
	creator, ok := currentAdminID(c)
	if !ok {
		respondFailure(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	stats, err := h.results.Stats(c.Request.Context(), creator)
	if err != nil {
		h.Error(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, stats, "Result statistics retrieved successfully")
}
