package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rutdashboard/rut-dashboard-api/src/logging"
)

// ProcessRutResponse is the business outcome of processing one RUT
type ProcessRutResponse struct {
	Success     bool            `json:"success"`
	Rut         string          `json:"rut"`
	Data        json.RawMessage `json:"data,omitempty"`
	Message     string          `json:"message"`
	Error       string          `json:"-"`
	ProcessedAt time.Time       `json:"processedAt"`
	ResultID    *uuid.UUID      `json:"resultId,omitempty"`
}

// RutProcessService validates a RUT, sends it to the external service and
// optionally stores the outcome
type RutProcessService struct {
	processor RutProcessor
	results   *RutResultService
	now       func() time.Time
	logger    zerolog.Logger
}

// NewRutProcessService creates a new processing service. results may be nil
// when outcomes are never stored.
func NewRutProcessService(processor RutProcessor, results *RutResultService) *RutProcessService {
	return &RutProcessService{
		processor: processor,
		results:   results,
		now:       time.Now,
		logger:    logging.NewLogger("rut_process"),
	}
}

// Process runs one lookup. A failed lookup is a successful call with
// Success=false; only validation and storage faults return an error.
func (s *RutProcessService) Process(ctx context.Context, rut string, requester uuid.UUID, save bool) (*ProcessRutResponse, error) {
	normalized, err := NormalizeRUT(rut)
	if err != nil {
		return nil, err
	}

	external := s.processor.Request(ctx, normalized)

	response := &ProcessRutResponse{
		Success:     external.Success,
		Rut:         normalized,
		Data:        external.Data,
		Message:     external.Message,
		ProcessedAt: s.now(),
	}
	if response.Message == "" {
		if external.Success {
			response.Message = defaultSuccessMessage
		} else {
			response.Message = defaultFailureMessage
		}
	}
	if !external.Success && external.Error != "" {
		response.Error = external.Error
		response.Message = response.Message + ": " + external.Error
	}

	s.logger.Info().
		Str("rut", normalized).
		Str("requester", requester.String()).
		Bool("success", response.Success).
		Msg("RUT processed")

	if save && s.results != nil {
		stored, err := s.results.Create(ctx, normalized, requester, storedPayload(response))
		if err != nil {
			return nil, err
		}
		response.ResultID = &stored.ID
	}

	return response, nil
}

// storedPayload is the data kept for a processed RUT: the external payload on
// success, the failure reason otherwise
func storedPayload(response *ProcessRutResponse) json.RawMessage {
	if response.Success {
		return response.Data
	}
	payload, _ := json.Marshal(struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}{false, response.Error, response.Message})
	return payload
}
