package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rutdashboard/rut-dashboard-api/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRutResultHandleCreate(t *testing.T) {
	ts := newTestServer(t)
	id, token := ts.tokenFor(t, models.RoleAdmin)

	w := ts.do(t, http.MethodPost, "/api/v1/rut-results", token, `{"rut":" 12.345.678-5 ","data":{"ok":true}}`)

	assertStatusCode(t, w, http.StatusCreated)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "RUT Process Result created successfully", env.Message)

	var created models.RutResult
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "12.345.678-5", created.Rut)
	assert.Equal(t, id, created.CreatedBy)
	assert.JSONEq(t, `{"ok":true}`, string(created.Data))
}

func TestRutResultHandleCreate_MissingRUT(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.tokenFor(t, models.RoleAdmin)

	w := ts.do(t, http.MethodPost, "/api/v1/rut-results", token, `{"data":{}}`)

	assertStatusCode(t, w, http.StatusBadRequest)
	assertJSONFailure(t, w, "RUT is required")
	assert.Empty(t, ts.results.Calls["Create"])
}

func TestRutResultHandleCreate_RUTTooLong(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.tokenFor(t, models.RoleAdmin)

	w := ts.do(t, http.MethodPost, "/api/v1/rut-results", token, map[string]any{"rut": strings.Repeat("1", 65), "data": map[string]any{}})
	assertStatusCode(t, w, http.StatusBadRequest)
	assertJSONFailure(t, w, "RUT cannot exceed 64 characters")
	assert.Empty(t, ts.results.Calls["Create"])

	w = ts.do(t, http.MethodPost, "/api/v1/rut-results", token, map[string]any{"rut": strings.Repeat("1", 64), "data": map[string]any{}})
	assertStatusCode(t, w, http.StatusCreated)
	assert.Len(t, ts.results.Calls["Create"], 1)
}

func TestRutResultHandleGet(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.tokenFor(t, models.RoleAdmin)
	stored := &models.RutResult{ID: uuid.New(), Rut: "123456785", CreatedBy: uuid.New()}
	ts.results.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.RutResult, error) {
		if id == stored.ID {
			return stored, nil
		}
		return nil, assert.AnError
	}

	w := ts.do(t, http.MethodGet, "/api/v1/rut-results/"+stored.ID.String(), token, nil)
	assertStatusCode(t, w, http.StatusOK)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), stored.ID.String())
}

func TestRutResultHandleGet_NotFound(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.tokenFor(t, models.RoleAdmin)

	w := ts.do(t, http.MethodGet, "/api/v1/rut-results/"+uuid.New().String(), token, nil)

	assertStatusCode(t, w, http.StatusNotFound)
	assertJSONFailure(t, w, "Result not found")
}

func TestRutResultHandleMyResults_ScopedToCaller(t *testing.T) {
	ts := newTestServer(t)
	id, token := ts.tokenFor(t, models.RoleAdmin)
	ts.results.ListByCreatorFunc = func(ctx context.Context, creator uuid.UUID, opts models.PaginationOptions) ([]models.RutResult, int64, error) {
		assert.Equal(t, id, creator)
		return []models.RutResult{{ID: uuid.New(), CreatedBy: creator}}, 1, nil
	}

	w := ts.do(t, http.MethodGet, "/api/v1/rut-results/my-results", token, nil)

	assertStatusCode(t, w, http.StatusOK)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "Your results retrieved successfully", env.Message)

	var page models.Page[models.RutResult]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Data, 1)
	assert.Equal(t, 1, page.Pagination.TotalPages)
}

func TestRutResultHandleSearch(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.tokenFor(t, models.RoleAdmin)
	creator := uuid.New()
	ts.results.SearchFunc = func(ctx context.Context, query string, by *uuid.UUID, opts models.PaginationOptions) ([]models.RutResult, int64, error) {
		assert.Equal(t, "1234", query)
		require.NotNil(t, by)
		assert.Equal(t, creator, *by)
		return nil, 0, nil
	}

	w := ts.do(t, http.MethodGet, "/api/v1/rut-results/search?q=1234&createdBy="+creator.String(), token, nil)

	assertStatusCode(t, w, http.StatusOK)
	var page models.Page[models.RutResult]
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &page))
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
}

func TestRutResultHandleSearch_BadInput(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.tokenFor(t, models.RoleAdmin)

	w := ts.do(t, http.MethodGet, "/api/v1/rut-results/search", token, nil)
	assertStatusCode(t, w, http.StatusBadRequest)
	assertJSONFailure(t, w, "Search term is required")

	w = ts.do(t, http.MethodGet, "/api/v1/rut-results/search?q=1&createdBy=nope", token, nil)
	assertStatusCode(t, w, http.StatusBadRequest)
	assertJSONFailure(t, w, "Invalid ID format")
}

func TestRutResultHandleByRUT_Empty(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.tokenFor(t, models.RoleAdmin)

	w := ts.do(t, http.MethodGet, "/api/v1/rut-results/by-rut/123456785", token, nil)

	assertStatusCode(t, w, http.StatusOK)
	assert.Equal(t, "[]", string(decodeEnvelope(t, w).Data))
	assert.Equal(t, []interface{}{"123456785"}, ts.results.Calls["ListByRUT"])
}

func TestRutResultHandleByRUT_Mine(t *testing.T) {
	ts := newTestServer(t)
	id, token := ts.tokenFor(t, models.RoleAdmin)

	w := ts.do(t, http.MethodGet, "/api/v1/rut-results/by-rut/123456785?mine=true", token, nil)

	assertStatusCode(t, w, http.StatusOK)
	assert.Equal(t, []interface{}{[]interface{}{"123456785", id}}, ts.results.Calls["ListByRUTAndCreator"])
	assert.Empty(t, ts.results.Calls["ListByRUT"])
}

func TestRutResultHandleUpdate_InvalidData(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.tokenFor(t, models.RoleAdmin)

	w := ts.do(t, http.MethodPut, "/api/v1/rut-results/"+uuid.New().String(), token, `{"rut":"   "}`)

	assertStatusCode(t, w, http.StatusBadRequest)
	assertJSONFailure(t, w, "RUT is required")
	assert.Empty(t, ts.results.Calls["Update"])
}

func TestRutResultHandleDelete(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.tokenFor(t, models.RoleAdmin)
	stored := &models.RutResult{ID: uuid.New()}
	ts.results.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.RutResult, error) {
		return stored, nil
	}

	w := ts.do(t, http.MethodDelete, "/api/v1/rut-results/"+stored.ID.String(), token, nil)

	assertStatusCode(t, w, http.StatusOK)
	assert.Equal(t, "Result deleted successfully", decodeEnvelope(t, w).Message)
	assert.Equal(t, []interface{}{stored.ID}, ts.results.Calls["Delete"])
}

func TestRutResultHandleStats(t *testing.T) {
	ts := newTestServer(t)
	id, token := ts.tokenFor(t, models.RoleAdmin)
	ts.results.CountByCreatorFunc = func(ctx context.Context, creator uuid.UUID) (int64, error) {
		return 4, nil
	}

	w := ts.do(t, http.MethodGet, "/api/v1/rut-results/stats", token, nil)

	assertStatusCode(t, w, http.StatusOK)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "Result statistics retrieved successfully", env.Message)
	assert.JSONEq(t, `{"totalResults":4,"createdBy":"`+id.String()+`"}`, string(env.Data))
}
