package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rutdashboard/rut-dashboard-api/src/models"
	"github.com/rutdashboard/rut-dashboard-api/src/repositories"
)

// MaxStoredRUTLength matches the width of the rut_results.rut column
const MaxStoredRUTLength = 64

// ResultStats summarizes the stored results of one administrator
type ResultStats struct {
	TotalResults int64     `json:"totalResults"`
	CreatedBy    uuid.UUID `json:"createdBy"`
}

// RutResultService handles stored RUT lookup results
type RutResultService struct {
	repo repositories.RutResultRepository
}

// NewRutResultService creates a new result service
func NewRutResultService(repo repositories.RutResultRepository) *RutResultService {
	return &RutResultService{repo: repo}
}

// storedRUT trims rut and checks it fits the rut column
func storedRUT(rut string) (string, error) {
	rut = strings.TrimSpace(rut)
	if rut == "" {
		return "", NewValidationError("RUT is required")
	}
	if utf8.RuneCountInString(rut) > MaxStoredRUTLength {
		return "", NewValidationError(fmt.Sprintf("RUT cannot exceed %d characters", MaxStoredRUTLength))
	}
	return rut, nil
}

func notFoundAsResult(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrResultNotFound
	}
	return err
}

// Create stores a result for creator. rut is kept as submitted, trimmed.
func (s *RutResultService) Create(ctx context.Context, rut string, creator uuid.UUID, data json.RawMessage) (*models.RutResult, error) {
	rut, err := storedRUT(rut)
	if err != nil {
		return nil, err
	}
	if creator == uuid.Nil {
		return nil, NewValidationError("CreatedBy (Admin ID) is required")
	}
	if data != nil && !json.Valid(data) {
		return nil, NewValidationError("Data must be valid JSON")
	}

	result := &models.RutResult{
		ID:        uuid.New(),
		Rut:       rut,
		CreatedBy: creator,
		Data:      data,
	}
	if err := s.repo.Create(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *RutResultService) GetByID(ctx context.Context, id uuid.UUID) (*models.RutResult, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAsResult(err)
	}
	return result, nil
}

// List returns one page of every stored result
func (s *RutResultService) List(ctx context.Context, opts models.PaginationOptions) (models.Page[models.RutResult], error) {
	opts = opts.Normalize()
	results, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return models.Page[models.RutResult]{}, err
	}
	return models.NewPage(results, opts, total), nil
}

// ListByRUT returns every result stored for an exact RUT
func (s *RutResultService) ListByRUT(ctx context.Context, rut string) ([]models.RutResult, error) {
	rut = strings.TrimSpace(rut)
	if rut == "" {
		return nil, NewValidationError("RUT is required")
	}
	results, err := s.repo.ListByRUT(ctx, rut)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []models.RutResult{}
	}
	return results, nil
}

// ListByCreator returns one page of the results stored by creator
func (s *RutResultService) ListByCreator(ctx context.Context, creator uuid.UUID, opts models.PaginationOptions) (models.Page[models.RutResult], error) {
	opts = opts.Normalize()
	results, total, err := s.repo.ListByCreator(ctx, creator, opts)
	if err != nil {
		return models.Page[models.RutResult]{}, err
	}
	return models.NewPage(results, opts, total), nil
}

// ListByRUTAndCreator returns the results creator stored for rut
func (s *RutResultService) ListByRUTAndCreator(ctx context.Context, rut string, creator uuid.UUID) ([]models.RutResult, error) {
	results, err := s.repo.ListByRUTAndCreator(ctx, strings.TrimSpace(rut), creator)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []models.RutResult{}
	}
	return results, nil
}

// Search matches term as a case-insensitive substring of the stored RUT,
// optionally restricted to one creator
func (s *RutResultService) Search(ctx context.Context, term string, creator *uuid.UUID, opts models.PaginationOptions) (models.Page[models.RutResult], error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return models.Page[models.RutResult]{}, NewValidationError("Search term is required")
	}
	opts = opts.Normalize()
	results, total, err := s.repo.Search(ctx, term, creator, opts)
	if err != nil {
		return models.Page[models.RutResult]{}, err
	}
	return models.NewPage(results, opts, total), nil
}

// Update applies a partial update to a stored result
func (s *RutResultService) Update(ctx context.Context, id uuid.UUID, update models.RutResultUpdate) (*models.RutResult, error) {
	if update.Rut != nil {
		rut, err := storedRUT(*update.Rut)
		if err != nil {
			return nil, err
		}
		update.Rut = &rut
	}
	if update.Data != nil && !json.Valid(update.Data) {
		return nil, NewValidationError("Data must be valid JSON")
	}

	result, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, notFoundAsResult(err)
	}
	return result, nil
}

func (s *RutResultService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return notFoundAsResult(err)
	}
	return notFoundAsResult(s.repo.Delete(ctx, id))
}

// Stats counts the results stored by creator
func (s *RutResultService) Stats(ctx context.Context, creator uuid.UUID) (*ResultStats, error) {
	count, err := s.repo.CountByCreator(ctx, creator)
	if err != nil {
		return nil, err
	}
	return &ResultStats{TotalResults: count, CreatedBy: creator}, nil
}
