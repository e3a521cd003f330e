package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rutdashboard/rut-dashboard-api/src/models"
	"github.com/rutdashboard/rut-dashboard-api/src/repositories/mock"
	"github.com/rutdashboard/rut-dashboard-api/src/services"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubProcessor returns a fixed external result and records the RUTs it saw
type stubProcessor struct {
	result services.ExternalResult
	ruts   []string
}

func (s *stubProcessor) Request(ctx context.Context, rut string) services.ExternalResult {
	s.ruts = append(s.ruts, rut)
	return s.result
}

type stubPinger struct{ err error }

func (p stubPinger) Health(ctx context.Context) error { return p.err }

// testServer is a fully routed API backed by mock repositories
type testServer struct {
	router    *gin.Engine
	tokens    *services.TokenService
	admins    *mock.AdminRepository
	results   *mock.RutResultRepository
	processor *stubProcessor
	pinger    *stubPinger
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	tokens, err := services.NewTokenService("handler-test-secret", time.Hour)
	require.NoError(t, err)

	ts := &testServer{
		tokens:  tokens,
		admins:  mock.NewAdminRepository(),
		results: mock.NewRutResultRepository(),
		processor: &stubProcessor{result: services.ExternalResult{
			Success: true,
			Data:    json.RawMessage(`{"score":42}`),
			Message: "RUT processed successfully",
		}},
		pinger: &stubPinger{},
	}

	resultService := services.NewRutResultService(ts.results)
	responder := Responder{}

	ts.router = gin.New()
	ts.router.Use(responder.Recovery())
	Routes{
		Tokens:         tokens,
		Admins:         NewAdminHandler(services.NewAdminService(ts.admins, tokens), responder),
		Process:        NewProcessRutHandler(services.NewRutProcessService(ts.processor, resultService), responder),
		Results:        NewRutResultHandler(resultService, responder),
		Health:         NewHealthHandler(ts.pinger, "test"),
		Simulator:      NewSimulatorHandler(0),
		LoginRateLimit: 1000,
	}.Register(ts.router)

	return ts
}

// tokenFor issues a token for a fresh identity with role
func (ts *testServer) tokenFor(t *testing.T, role models.Role) (uuid.UUID, string) {
	t.Helper()
	id := uuid.New()
	token, err := ts.tokens.Issue(services.Claims{
		ID:    id.String(),
		Email: string(role) + "@example.com",
		Name:  "Test " + string(role),
		Role:  role,
	})
	require.NoError(t, err)
	return id, token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

// adminWith stubs GetByID to return admin when called with its id
func (ts *testServer) adminWith(admin *models.Admin) {
	ts.admins.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
		if id == admin.ID {
			copied := *admin
			return &copied, nil
		}
		return nil, errors.New("unexpected id " + id.String())
	}
}

func TestRoutes_NoRoute(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/v1/unknown", "", nil)

	assertStatusCode(t, w, http.StatusNotFound)
	assertJSONFailure(t, w, "Route /api/v1/unknown not found")
}

func TestRoutes_AuthenticationRequired(t *testing.T) {
	ts := newTestServer(t)

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/admin/profile"},
		{http.MethodGet, "/api/v1/admin"},
		{http.MethodPost, "/api/v1/process-rut"},
		{http.MethodGet, "/api/v1/rut-results/my-results"},
	}
	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			w := ts.do(t, p.method, p.path, "", nil)
			assertStatusCode(t, w, http.StatusUnauthorized)
			assertJSONFailure(t, w, "Access token is required")
		})
	}
}

func TestRoutes_SuperAdminOnly(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.tokenFor(t, models.RoleAdmin)
	target := uuid.New().String()

	paths := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/admin"},
		{http.MethodPut, "/api/v1/admin/" + target},
		{http.MethodDelete, "/api/v1/admin/" + target},
		{http.MethodPatch, "/api/v1/admin/" + target + "/toggle-status"},
	}
	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			w := ts.do(t, p.method, p.path, token, map[string]string{})
			assertStatusCode(t, w, http.StatusForbidden)
			assertJSONFailure(t, w, "Insufficient permissions")
		})
	}
	require.Empty(t, ts.admins.Calls)
}
