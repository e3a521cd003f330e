package mock

import (
	"context"

	"github.com/google/uuid"
	"github.com/rutdashboard/rut-dashboard-api/src/models"
	"github.com/rutdashboard/rut-dashboard-api/src/repositories"
)

// RutResultRepository is a mock implementation of repositories.RutResultRepository
type RutResultRepository struct {
	// Function stubs that can be overridden in tests
	CreateFunc              func(ctx context.Context, result *models.RutResult) error
	GetByIDFunc             func(ctx context.Context, id uuid.UUID) (*models.RutResult, error)
	ListFunc                func(ctx context.Context, opts models.PaginationOptions) ([]models.RutResult, int64, error)
	ListByRUTFunc           func(ctx context.Context, rut string) ([]models.RutResult, error)
	ListByCreatorFunc       func(ctx context.Context, creator uuid.UUID, opts models.PaginationOptions) ([]models.RutResult, int64, error)
	ListByRUTAndCreatorFunc func(ctx context.Context, rut string, creator uuid.UUID) ([]models.RutResult, error)
	SearchFunc              func(ctx context.Context, query string, creator *uuid.UUID, opts models.PaginationOptions) ([]models.RutResult, int64, error)
	UpdateFunc              func(ctx context.Context, id uuid.UUID, update models.RutResultUpdate) (*models.RutResult, error)
	DeleteFunc              func(ctx context.Context, id uuid.UUID) error
	CountByCreatorFunc      func(ctx context.Context, creator uuid.UUID) (int64, error)

	// Call tracking
	Calls map[string][]interface{}
}

// NewRutResultRepository creates a new mock result repository
func NewRutResultRepository() *RutResultRepository {
	return &RutResultRepository{
		Calls: make(map[string][]interface{}),
	}
}

func (m *RutResultRepository) Create(ctx context.Context, result *models.RutResult) error {
	m.Calls["Create"] = append(m.Calls["Create"], result)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, result)
	}
	return nil
}

func (m *RutResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RutResult, error) {
	m.Calls["GetByID"] = append(m.Calls["GetByID"], id)
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (m *RutResultRepository) List(ctx context.Context, opts models.PaginationOptions) ([]models.RutResult, int64, error) {
	m.Calls["List"] = append(m.Calls["List"], opts)
	if m.ListFunc != nil {
		return m.ListFunc(ctx, opts)
	}
	return nil, 0, nil
}

func (m *RutResultRepository) ListByRUT(ctx context.Context, rut string) ([]models.RutResult, error) {
	m.Calls["ListByRUT"] = append(m.Calls["ListByRUT"], rut)
	if m.ListByRUTFunc != nil {
		return m.ListByRUTFunc(ctx, rut)
	}
	return nil, nil
}

func (m *RutResultRepository) ListByCreator(ctx context.Context, creator uuid.UUID, opts models.PaginationOptions) ([]models.RutResult, int64, error) {
	m.Calls["ListByCreator"] = append(m.Calls["ListByCreator"], []interface{}{creator, opts})
	if m.ListByCreatorFunc != nil {
		return m.ListByCreatorFunc(ctx, creator, opts)
	}
	return nil, 0, nil
}

func (m *RutResultRepository) ListByRUTAndCreator(ctx context.Context, rut string, creator uuid.UUID) ([]models.RutResult, error) {
	m.Calls["ListByRUTAndCreator"] = append(m.Calls["ListByRUTAndCreator"], []interface{}{rut, creator})
	if m.ListByRUTAndCreatorFunc != nil {
		return m.ListByRUTAndCreatorFunc(ctx, rut, creator)
	}
	return nil, nil
}

func (m *RutResultRepository) Search(ctx context.Context, query string, creator *uuid.UUID, opts models.PaginationOptions) ([]models.RutResult, int64, error) {
	m.Calls["Search"] = append(m.Calls["Search"], []interface{}{query, creator, opts})
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, creator, opts)
	}
	return nil, 0, nil
}

func (m *RutResultRepository) Update(ctx context.Context, id uuid.UUID, update models.RutResultUpdate) (*models.RutResult, error) {
	m.Calls["Update"] = append(m.Calls["Update"], []interface{}{id, update})
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, update)
	}
	return nil, repositories.ErrNotFound
}

func (m *RutResultRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.Calls["Delete"] = append(m.Calls["Delete"], id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *RutResultRepository) CountByCreator(ctx context.Context, creator uuid.UUID) (int64, error) {
	m.Calls["CountByCreator"] = append(m.Calls["CountByCreator"], creator)
	if m.CountByCreatorFunc != nil {
		return m.CountByCreatorFunc(ctx, creator)
	}
	return 0, nil
}

// Ensure RutResultRepository implements the interface
var _ repositories.RutResultRepository = (*RutResultRepository)(nil)
