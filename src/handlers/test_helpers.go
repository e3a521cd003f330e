package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rutdashboard/rut-dashboard-api/src/middleware"
	"github.com/rutdashboard/rut-dashboard-api/src/services"
)

// Test helpers for handler tests

// testEnvelope mirrors models.APIResponse with Data left undecoded
type testEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// createTestContext creates a test Gin context with recorder
func createTestContext() (*httptest.ResponseRecorder, *gin.Context) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return w, c
}

// withClaims marks the context as authenticated by claims
func withClaims(c *gin.Context, claims services.Claims) {
	c.Set(middleware.ClaimsKey, &claims)
}

// assertStatusCode checks if response status code matches expected
func assertStatusCode(t *testing.T, w *httptest.ResponseRecorder, expectedCode int) {
	t.Helper()
	if w.Code != expectedCode {
		t.Errorf("expected status %d, got %d: %s", expectedCode, w.Code, w.Body.String())
	}
}

// decodeEnvelope parses the response envelope
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to parse response: %v: %s", err, w.Body.String())
	}
	return env
}

// assertJSONFailure checks the response is a failure envelope with message
func assertJSONFailure(t *testing.T, w *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	env := decodeEnvelope(t, w)
	if env.Success {
		t.Errorf("expected success=false, got true: %s", w.Body.String())
	}
	if env.Message != expectedMessage {
		t.Errorf("expected message '%s', got '%s'", expectedMessage, env.Message)
	}
}
