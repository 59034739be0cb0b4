// Package upstream is the HTTP client for the external metrics/registration service.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Config holds the upstream endpoints. TelemetryURL may be empty: telemetry is
// then considered disabled and callers short-circuit to a local success.
type Config struct {
	BaseURL      string
	TelemetryURL string
	TelemetryKey string
	Timeout      time.Duration
}

// Client issues the one outbound call each proxy operation makes.
type Client struct {
	baseURL      string
	telemetryURL string
	telemetryKey string
	httpClient   *http.Client
}

// NewClient creates a client for the configured splash service endpoints.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		telemetryURL: cfg.TelemetryURL,
		telemetryKey: cfg.TelemetryKey,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// TelemetryConfigured reports whether a telemetry endpoint was supplied.
func (c *Client) TelemetryConfigured() bool {
	return c.telemetryURL != ""
}

// LookupCode fetches registration status and metrics for a code.
func (c *Client) LookupCode(ctx context.Context, req *LookupRequest) (*LookupResponse, int, error) {
	var out LookupResponse

	status, err := c.post(ctx, c.baseURL+"/get-metrics-by-code", "", req, &out)
	if err != nil || !is2xx(status) {
		return nil, status, err
	}

	return &out, status, nil
}

// RegisterCode attaches contact info to an existing code.
func (c *Client) RegisterCode(ctx context.Context, req *RegisterRequest) (*RegisterResponse, int, error) {
	var out RegisterResponse

	status, err := c.post(ctx, c.baseURL+"/register-code", "", req, &out)
	if err != nil || !is2xx(status) {
		return nil, status, err
	}

	return &out, status, nil
}

// CreateReferrer mints a new referral code with its share bundle.
func (c *Client) CreateReferrer(ctx context.Context, req *CreateReferrerRequest) (*CreateReferrerResponse, int, error) {
	var out CreateReferrerResponse

	status, err := c.post(ctx, c.baseURL+"/add-new-referrer", "", req, &out)
	if err != nil || !is2xx(status) {
		return nil, status, err
	}

	return &out, status, nil
}

// TrackScan reports a single scan to the telemetry endpoint. The response body
// is ignored; callers only care whether the call got through.
func (c *Client) TrackScan(ctx context.Context, req *TrackRequest) (int, error) {
	return c.post(ctx, c.telemetryURL, c.telemetryKey, req, nil)
}

// UpdateMetrics forwards a device-metrics snapshot to the telemetry endpoint.
func (c *Client) UpdateMetrics(ctx context.Context, req *UpdateMetricsRequest) (int, error) {
	return c.post(ctx, c.telemetryURL, c.telemetryKey, req, nil)
}

// TopCodes fetches both leaderboards.
func (c *Client) TopCodes(ctx context.Context) (*TopCodesResponse, int, error) {
	var out TopCodesResponse

	status, err := c.get(ctx, c.baseURL+"/get-top-codes", &out)
	if err != nil || !is2xx(status) {
		return nil, status, err
	}

	return &out, status, nil
}

// RecentRipples fetches the latest scan events.
func (c *Client) RecentRipples(ctx context.Context) (*RipplesResponse, int, error) {
	var out RipplesResponse

	status, err := c.get(ctx, c.baseURL+"/get-most-recent-ripples", &out)
	if err != nil || !is2xx(status) {
		return nil, status, err
	}

	return &out, status, nil
}

// post sends in as JSON and decodes a 2xx body into out when out is non-nil.
// A transport failure returns status 0; a non-2xx status is returned with a
// nil error and an undecoded out, so callers can relay the status upward.
func (c *Client) post(ctx context.Context, url, bearer string, in, out any) (int, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return 0, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, url string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) (int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		// Drain so the connection can be reused; the error body is not relayed.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

		return resp.StatusCode, nil
	}

	if out == nil {
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}

	return resp.StatusCode, nil
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}
