package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rutdashboard/rut-dashboard-api/src/models"
	"github.com/rutdashboard/rut-dashboard-api/src/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type processedBody struct {
	Success  bool            `json:"success"`
	Rut      string          `json:"rut"`
	Data     json.RawMessage `json:"data"`
	Message  string          `json:"message"`
	ResultID *string         `json:"resultId"`
}

func TestHandleProcessRut_ForwardsNormalizedRUT(t *testing.T) {
	var received struct {
		Rut string `json:"rut"`
	}
	external := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"score":7},"message":"found"}`))
	}))
	defer external.Close()

	ts := newTestServer(t)
	client := services.NewRutClient(services.RutClientConfig{URL: external.URL, Timeout: 2 * time.Second})
	ts.router = gin.New()
	Routes{
		Tokens:  ts.tokens,
		Admins:  NewAdminHandler(services.NewAdminService(ts.admins, ts.tokens), Responder{}),
		Process: NewProcessRutHandler(services.NewRutProcessService(client, nil), Responder{}),
		Results: NewRutResultHandler(services.NewRutResultService(ts.results), Responder{}),
		Health:  NewHealthHandler(ts.pinger, "test"),
	}.Register(ts.router)

	_, token := ts.tokenFor(t, models.RoleAdmin)
	w := ts.do(t, http.MethodPost, "/api/v1/process-rut", token, ProcessRutRequest{Rut: "12345678-5"})

	assertStatusCode(t, w, http.StatusOK)
	assert.Equal(t, "123456785", received.Rut)

	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "RUT processed successfully", env.Message)

	var body processedBody
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.True(t, body.Success)
	assert.Equal(t, "123456785", body.Rut)
	assert.Equal(t, "found", body.Message)
	assert.JSONEq(t, `{"score":7}`, string(body.Data))
}

func TestHandleProcessRut_ExternalFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.processor.result = services.ExternalResult{
		Success: false,
		Error:   "HTTP error! status: 500 - Internal Server Error",
		Message: "Failed to process RUT",
	}
	_, token := ts.tokenFor(t, models.RoleAdmin)

	w := ts.do(t, http.MethodPost, "/api/v1/process-rut", token, ProcessRutRequest{Rut: "12.345.678-5"})

	assertStatusCode(t, w, http.StatusOK)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "Failed to process RUT: HTTP error! status: 500 - Internal Server Error", env.Message)
	assert.Equal(t, "HTTP error! status: 500 - Internal Server Error", env.Error)

	var body processedBody
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.False(t, body.Success)
	assert.Equal(t, "123456785", body.Rut)
	assert.Equal(t, []string{"123456785"}, ts.processor.ruts)
}

func TestHandleProcessRut_InvalidRUT(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.tokenFor(t, models.RoleAdmin)

	tests := []struct {
		name    string
		body    any
		message string
	}{
		{"missing", map[string]string{}, "RUT is required"},
		{"blank", ProcessRutRequest{Rut: "   "}, "RUT is required"},
		{"too short", ProcessRutRequest{Rut: "123-4"}, "RUT must have between 8 and 9 characters"},
		{"bad check digit", ProcessRutRequest{Rut: "1234567-X"}, "Invalid RUT format. Expected format: XXXXXXXX-X"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/api/v1/process-rut", token, tt.body)
			assertStatusCode(t, w, http.StatusBadRequest)
			assertJSONFailure(t, w, tt.message)
		})
	}
	assert.Empty(t, ts.processor.ruts)
}

func TestHandleProcessRut_Save(t *testing.T) {
	ts := newTestServer(t)
	id, token := ts.tokenFor(t, models.RoleAdmin)

	w := ts.do(t, http.MethodPost, "/api/v1/process-rut?save=true", token, ProcessRutRequest{Rut: "11111111-1"})

	assertStatusCode(t, w, http.StatusOK)
	require.Len(t, ts.results.Calls["Create"], 1)
	stored := ts.results.Calls["Create"][0].(*models.RutResult)
	assert.Equal(t, "111111111", stored.Rut)
	assert.Equal(t, id, stored.CreatedBy)
	assert.JSONEq(t, `{"score":42}`, string(stored.Data))

	var body processedBody
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &body))
	require.NotNil(t, body.ResultID)
	assert.Equal(t, stored.ID.String(), *body.ResultID)
}

func TestHandleProcessRut_WithoutSaveStoresNothing(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.tokenFor(t, models.RoleAdmin)

	w := ts.do(t, http.MethodPost, "/api/v1/process-rut", token, ProcessRutRequest{Rut: "11111111-1"})

	assertStatusCode(t, w, http.StatusOK)
	assert.Empty(t, ts.results.Calls["Create"])
}
