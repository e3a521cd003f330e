package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rutdashboard/rut-dashboard-api/src/logging"
	"github.com/rutdashboard/rut-dashboard-api/src/metrics"
)

// Failure reasons reported by the external RUT client
const (
	ReasonTimeout    = "Request timeout - External service did not respond in time"
	ReasonNoResponse = "No response received from external service"

	defaultSuccessMessage = "RUT processed successfully"
	defaultFailureMessage = "Failed to process RUT"

	// maxExternalBody bounds how much of the external response is read
	maxExternalBody = 10 << 20
)

// ExternalResult is the uniform outcome of an external RUT call.
// Exactly one of Data (Success) or Error (!Success) is meaningful.
type ExternalResult struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message"`
	Error   string          `json:"error,omitempty"`
}

// RutProcessor sends a validated RUT to the external processing service
type RutProcessor interface {
	Request(ctx context.Context, rut string) ExternalResult
}

// RutClientConfig configures the external RUT client
type RutClientConfig struct {
	URL        string
	Token      string        // sent as a bearer token when non-empty
	Timeout    time.Duration // per call; defaults to 30s
	HTTPClient *http.Client
}

// RutClient calls the external RUT processing API
type RutClient struct {
	url        string
	token      string
	timeout    time.Duration
	httpClient *http.Client
}

// NewRutClient creates a new external RUT client
func NewRutClient(cfg RutClientConfig) *RutClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 60 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}
	return &RutClient{
		url:        cfg.URL,
		token:      cfg.Token,
		timeout:    cfg.Timeout,
		httpClient: httpClient,
	}
}

type externalRequest struct {
	Rut string `json:"rut"`
}

type externalResponse struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// callError carries the user-facing reason of a failed call
type callError struct {
	reason  string
	outcome string
}

func (e *callError) Error() string { return e.reason }

// Request posts the RUT to the external service. It never returns an error:
// every failure is folded into an unsuccessful ExternalResult.
func (c *RutClient) Request(ctx context.Context, rut string) ExternalResult {
	logger := logging.NewLogger("rut_client")
	start := time.Now()

	body, err := c.call(ctx, rut)
	elapsed := time.Since(start)

	if err != nil {
		reason, outcome := err.Error(), "error"
		var ce *callError
		if errors.As(err, &ce) {
			outcome = ce.outcome
		}
		metrics.ObserveExternalCall(outcome, elapsed)

		logger.Warn().
			Str("rut", rut).
			Str("outcome", outcome).
			Dur("duration", elapsed).
			Str("reason", reason).
			Msg("external RUT processing failed")

		return ExternalResult{
			Success: false,
			Error:   reason,
			Message: defaultFailureMessage,
		}
	}

	metrics.ObserveExternalCall("success", elapsed)
	logger.Debug().Str("rut", rut).Dur("duration", elapsed).Msg("external RUT processed")

	message := body.Message
	if message == "" {
		message = defaultSuccessMessage
	}
	return ExternalResult{
		Success: true,
		Data:    body.Data,
		Message: message,
	}
}

func (c *RutClient) call(ctx context.Context, rut string) (*externalResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(externalRequest{Rut: rut})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxExternalBody))
		return nil, &callError{
			reason:  fmt.Sprintf("HTTP error! status: %d - %s", resp.StatusCode, statusText(resp)),
			outcome: "http_error",
		}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxExternalBody))
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}

	var body externalResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, &callError{reason: err.Error(), outcome: "invalid_response"}
	}
	return &body, nil
}

// classifyTransportError maps an error raised while talking to the external
// service onto a failure reason
func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &callError{reason: ReasonTimeout, outcome: "timeout"}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &callError{reason: ReasonTimeout, outcome: "timeout"}
	}
	if errors.Is(err, context.Canceled) {
		return &callError{reason: "request canceled", outcome: "canceled"}
	}
	return &callError{reason: ReasonNoResponse, outcome: "no_response"}
}

// statusText returns the reason phrase sent by the server, falling back to
// the standard text for the code
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
