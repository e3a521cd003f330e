package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rutdashboard/rut-dashboard-api/src/models"
)

// ErrNotFound is returned when a lookup by id matches no row
var ErrNotFound = errors.New("record not found")

// AdminRepository defines the interface for administrator data access
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	List(ctx context.Context, opts models.PaginationOptions) ([]models.Admin, int64, error)
	ListActive(ctx context.Context) ([]models.Admin, error)
	Update(ctx context.Context, id uuid.UUID, update models.AdminUpdate) (*models.Admin, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}

// RutResultRepository defines the interface for stored RUT lookup results
type RutResultRepository interface {
	Create(ctx context.Context, result *models.RutResult) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.RutResult, error)
	List(ctx context.Context, opts models.PaginationOptions) ([]models.RutResult, int64, error)
	ListByRUT(ctx context.Context, rut string) ([]models.RutResult, error)
	ListByCreator(ctx context.Context, creator uuid.UUID, opts models.PaginationOptions) ([]models.RutResult, int64, error)
	ListByRUTAndCreator(ctx context.Context, rut string, creator uuid.UUID) ([]models.RutResult, error)
	Search(ctx context.Context, query string, creator *uuid.UUID, opts models.PaginationOptions) ([]models.RutResult, int64, error)
	Update(ctx context.Context, id uuid.UUID, update models.RutResultUpdate) (*models.RutResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByCreator(ctx context.Context, creator uuid.UUID) (int64, error)
}
