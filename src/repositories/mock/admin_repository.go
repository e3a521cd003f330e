package mock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rutdashboard/rut-dashboard-api/src/models"
	"github.com/rutdashboard/rut-dashboard-api/src/repositories"
)

// AdminRepository is a mock implementation of repositories.AdminRepository
type AdminRepository struct {
	// Function stubs that can be overridden in tests
	CreateFunc          func(ctx context.Context, admin *models.Admin) error
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*models.Admin, error)
	GetByEmailFunc      func(ctx context.Context, email string) (*models.Admin, error)
	ListFunc            func(ctx context.Context, opts models.PaginationOptions) ([]models.Admin, int64, error)
	ListActiveFunc      func(ctx context.Context) ([]models.Admin, error)
	UpdateFunc          func(ctx context.Context, id uuid.UUID, update models.AdminUpdate) (*models.Admin, error)
	DeleteFunc          func(ctx context.Context, id uuid.UUID) error
	UpdateLastLoginFunc func(ctx context.Context, id uuid.UUID, at time.Time) error
	CountByRoleFunc     func(ctx context.Context, role models.Role) (int64, error)

	// Call tracking
	Calls map[string][]interface{}
}

// NewAdminRepository creates a new mock admin repository
func NewAdminRepository() *AdminRepository {
	return &AdminRepository{
		Calls: make(map[string][]interface{}),
	}
}

func (m *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	m.Calls["Create"] = append(m.Calls["Create"], admin)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, admin)
	}
	return nil
}

func (m *AdminRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	m.Calls["GetByID"] = append(m.Calls["GetByID"], id)
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (m *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	m.Calls["GetByEmail"] = append(m.Calls["GetByEmail"], email)
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, repositories.ErrNotFound
}

func (m *AdminRepository) List(ctx context.Context, opts models.PaginationOptions) ([]models.Admin, int64, error) {
	m.Calls["List"] = append(m.Calls["List"], opts)
	if m.ListFunc != nil {
		return m.ListFunc(ctx, opts)
	}
	return nil, 0, nil
}

func (m *AdminRepository) ListActive(ctx context.Context) ([]models.Admin, error) {
	m.Calls["ListActive"] = append(m.Calls["ListActive"], nil)
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return nil, nil
}

func (m *AdminRepository) Update(ctx context.Context, id uuid.UUID, update models.AdminUpdate) (*models.Admin, error) {
	m.Calls["Update"] = append(m.Calls["Update"], []interface{}{id, update})
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, update)
	}
	return nil, repositories.ErrNotFound
}

func (m *AdminRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.Calls["Delete"] = append(m.Calls["Delete"], id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *AdminRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	m.Calls["UpdateLastLogin"] = append(m.Calls["UpdateLastLogin"], []interface{}{id, at})
	if m.UpdateLastLoginFunc != nil {
		return m.UpdateLastLoginFunc(ctx, id, at)
	}
	return nil
}

func (m *AdminRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	m.Calls["CountByRole"] = append(m.Calls["CountByRole"], role)
	if m.CountByRoleFunc != nil {
		return m.CountByRoleFunc(ctx, role)
	}
	return 0, nil
}

// Ensure AdminRepository implements the interface
var _ repositories.AdminRepository = (*AdminRepository)(nil)
