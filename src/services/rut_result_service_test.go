package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rutdashboard/rut-dashboard-api/src/models"
	"github.com/rutdashboard/rut-dashboard-api/src/repositories/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRutResultService_CreateValidation(t *testing.T) {
	svc := NewRutResultService(mock.NewRutResultRepository())

	_, err := svc.Create(context.Background(), "  ", uuid.New(), nil)
	require.Error(t, err)
	assert.Equal(t, "RUT is required", err.Error())

	_, err = svc.Create(context.Background(), "12345678-5", uuid.Nil, nil)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	_, err = svc.Create(context.Background(), "12345678-5", uuid.New(), json.RawMessage(`{broken`))
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestRutResultService_CreateKeepsRUTAsSubmitted(t *testing.T) {
	repo := mock.NewRutResultRepository()
	svc := NewRutResultService(repo)

	result, err := svc.Create(context.Background(), " 12.345.678-5 ", uuid.New(), json.RawMessage(`"anything"`))
	require.NoError(t, err)
	assert.Equal(t, "12.345.678-5", result.Rut)
	assert.Len(t, repo.Calls["Create"], 1)
}

func TestRutResultService_RUTLengthLimit(t *testing.T) {
	repo := mock.NewRutResultRepository()
	repo.UpdateFunc = func(ctx context.Context, id uuid.UUID, update models.RutResultUpdate) (*models.RutResult, error) {
		return &models.RutResult{ID: id, Rut: *update.Rut}, nil
	}
	svc := NewRutResultService(repo)
	ctx := context.Background()

	atLimit := strings.Repeat("9", MaxStoredRUTLength)
	overLimit := strings.Repeat("ñ", MaxStoredRUTLength+1)

	result, err := svc.Create(ctx, atLimit, uuid.New(), nil)
	require.NoError(t, err)
	assert.Equal(t, atLimit, result.Rut)

	_, err = svc.Create(ctx, overLimit, uuid.New(), nil)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, "RUT cannot exceed 64 characters", err.Error())
	assert.Len(t, repo.Calls["Create"], 1)

	result, err = svc.Update(ctx, uuid.New(), models.RutResultUpdate{Rut: &atLimit})
	require.NoError(t, err)
	assert.Equal(t, atLimit, result.Rut)

	_, err = svc.Update(ctx, uuid.New(), models.RutResultUpdate{Rut: &overLimit})
	assert.True(t, IsValidationError(err))
	assert.Len(t, repo.Calls["Update"], 1)
}

func TestRutResultService_NotFound(t *testing.T) {
	svc := NewRutResultService(mock.NewRutResultRepository())
	ctx := context.Background()

	_, err := svc.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrResultNotFound)

	_, err = svc.Update(ctx, uuid.New(), models.RutResultUpdate{Data: json.RawMessage(`1`)})
	assert.ErrorIs(t, err, ErrResultNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, uuid.New()), ErrResultNotFound)
}

func TestRutResultService_Delete(t *testing.T) {
	repo := mock.NewRutResultRepository()
	repo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.RutResult, error) {
		return &models.RutResult{ID: id}, nil
	}
	svc := NewRutResultService(repo)

	require.NoError(t, svc.Delete(context.Background(), uuid.New()))
	assert.Len(t, repo.Calls["Delete"], 1)
}

func TestRutResultService_SearchRequiresTerm(t *testing.T) {
	repo := mock.NewRutResultRepository()
	svc := NewRutResultService(repo)

	_, err := svc.Search(context.Background(), " ", nil, models.PaginationOptions{})
	require.Error(t, err)
	assert.Equal(t, "Search term is required", err.Error())
	assert.Empty(t, repo.Calls["Search"])
}

func TestRutResultService_ListPaginates(t *testing.T) {
	repo := mock.NewRutResultRepository()
	repo.ListByCreatorFunc = func(ctx context.Context, creator uuid.UUID, opts models.PaginationOptions) ([]models.RutResult, int64, error) {
		return []models.RutResult{{Rut: "1"}, {Rut: "2"}}, 12, nil
	}
	svc := NewRutResultService(repo)

	page, err := svc.ListByCreator(context.Background(), uuid.New(), models.PaginationOptions{Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNext)
	assert.True(t, page.Pagination.HasPrev)
}

func TestRutResultService_Stats(t *testing.T) {
	creator := uuid.New()
	repo := mock.NewRutResultRepository()
	repo.CountByCreatorFunc = func(ctx context.Context, c uuid.UUID) (int64, error) { return 7, nil }
	svc := NewRutResultService(repo)

	stats, err := svc.Stats(context.Background(), creator)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.TotalResults)
	assert.Equal(t, creator, stats.CreatedBy)
}
