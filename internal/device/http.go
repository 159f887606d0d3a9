package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"heatkeeper/internal/models"
)

const defaultTimeout = 15 * time.Second

// HTTPClient implements Client against the vendor's JSON-over-HTTP API.
type HTTPClient struct {
	baseURL string
	http    *retryablehttp.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client for the given base URL. Transport-level
// retries are disabled: the reconciler's command executor owns the retry
// policy, and stacking the two would multiply attempts.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rc := retryablehttp.NewClient()
	rc.RetryMax = 0
	rc.Logger = nil
	rc.HTTPClient.Timeout = timeout
	return &HTTPClient{baseURL: baseURL, http: rc}
}

func (c *HTTPClient) QueryStatus(ctx context.Context, creds models.DeviceCredentials) (models.DeviceHeatingStatus, error) {
	var status models.DeviceHeatingStatus
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/heater/status", creds.AccessToken, nil, &status)
	if err != nil {
		return models.DeviceHeatingStatus{}, fmt.Errorf("query heater status: %w", err)
	}
	return status, nil
}

func (c *HTTPClient) SetLevel(ctx context.Context, creds models.DeviceCredentials, deviceID string, level, durationSeconds int) error {
	body := map[string]any{
		"device_id":        deviceID,
		"level":            level,
		"duration_seconds": durationSeconds,
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/heater/level", creds.AccessToken, body, nil); err != nil {
		return fmt.Errorf("set heater level: %w", err)
	}
	return nil
}

func (c *HTTPClient) TurnOff(ctx context.Context, creds models.DeviceCredentials, deviceID string) error {
	body := map[string]any{"device_id": deviceID}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/heater/off", creds.AccessToken, body, nil); err != nil {
		return fmt.Errorf("turn heater off: %w", err)
	}
	return nil
}

func (c *HTTPClient) Refresh(ctx context.Context, refreshToken, deviceUserID string) (models.DeviceCredentials, error) {
	body := map[string]any{
		"refresh_token":  refreshToken,
		"device_user_id": deviceUserID,
	}
	var creds models.DeviceCredentials
	if err := c.doJSON(ctx, http.MethodPost, "/oauth/token", "", body, &creds); err != nil {
		return models.DeviceCredentials{}, fmt.Errorf("refresh credentials: %w", err)
	}
	return creds, nil
}

// doJSON performs one request with optional JSON body and decodes the
// response into out when non-nil.
func (c *HTTPClient) doJSON(ctx context.Context, method, path, token string, body any, out any) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(snippet))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
