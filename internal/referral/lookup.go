// Package referral is the client SDK for the splash proxy API: code lookup
// with fallback policy, registration, and new-referrer creation.
package referral

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/noonesark/splash/internal/fingerprint"
	"github.com/noonesark/splash/internal/upstream"
	"go.uber.org/zap"
)

// FallbackCode is the campaign's default code, used whenever no valid code can
// be resolved from the URL.
const FallbackCode = "eef4cb"

// LookupResult is the request-scoped view of one code. Superseded entirely by
// the next lookup; never persisted.
type LookupResult struct {
	Code              string
	Registered        bool
	Name              string
	ReferralLink      string
	QRCodeDownloadURL string
}

// LookupState is the observable state the gate UI binds to.
type LookupState struct {
	Loading bool
	Error   string
	Result  *LookupResult
}

// LookupClient resolves referral codes through the lookup proxy. Re-invoking
// Lookup before a prior call resolves discards the prior call's outcome:
// only the most recently started lookup may commit state.
type LookupClient struct {
	baseURL     string
	httpClient  *http.Client
	fingerprint *fingerprint.Session
	logger      *zap.Logger

	mu    sync.Mutex
	gen   uint64
	state LookupState
}

// NewLookupClient creates a lookup client against the proxy at baseURL.
func NewLookupClient(baseURL string, httpClient *http.Client, fp *fingerprint.Session, logger *zap.Logger) *LookupClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &LookupClient{
		baseURL:     baseURL,
		httpClient:  httpClient,
		fingerprint: fp,
		logger:      logger,
	}
}

// State returns the last committed lookup state.
func (c *LookupClient) State() LookupState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Lookup resolves code and returns the resulting state. The returned state is
// always the outcome of this invocation; the client's observable State only
// changes if no newer Lookup started in the meantime (last-call-wins).
func (c *LookupClient) Lookup(ctx context.Context, code string) LookupState {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.state = LookupState{Loading: true}
	c.mu.Unlock()

	next := c.resolve(ctx, code)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		// A newer lookup started while this one was in flight; its result
		// owns the state now. Drop ours.
		c.logger.Debug("discarding stale lookup result", zap.String("code", code))

		return next
	}

	c.state = next

	return next
}

func (c *LookupClient) resolve(ctx context.Context, code string) LookupState {
	// No code in the URL: fixed fallback, no network call.
	if code == "" {
		return LookupState{Result: &LookupResult{Code: FallbackCode}}
	}

	result, err := c.fetch(ctx, code)
	if err == nil {
		return LookupState{Result: result}
	}

	// Only a missing (404) or invalid (400) code falls back silently. Other
	// failures surface their message and keep the requested code so the UI
	// can show it alongside the error.
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && (httpErr.Status == http.StatusNotFound || httpErr.Status == http.StatusBadRequest) {
		c.logger.Info("code lookup fell back",
			zap.String("code", code),
			zap.Int("status", httpErr.Status),
		)

		return LookupState{Result: &LookupResult{Code: FallbackCode}}
	}

	c.logger.Warn("code lookup failed",
		zap.String("code", code),
		zap.Error(err),
	)

	return LookupState{
		Error:  err.Error(),
		Result: &LookupResult{Code: code},
	}
}

func (c *LookupClient) fetch(ctx context.Context, code string) (*LookupResult, error) {
	payload, err := json.Marshal(upstream.LookupRequest{
		Code:        code,
		Fingerprint: c.fingerprintValue(),
	})
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/get-metrics-by-code", bytes.NewReader(payload))
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Message: "Network error: Failed to reach API", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("Failed to fetch referral info: %d", resp.StatusCode),
		}
	}

	var data upstream.LookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &NetworkError{Err: err}
	}

	if !data.Success {
		msg := data.Message
		if msg == "" {
			msg = "Unknown error"
		}

		return nil, &ServiceError{Status: resp.StatusCode, Message: msg}
	}

	resultCode := data.Record.ReferalCode
	if resultCode == "" {
		resultCode = code
	}

	return &LookupResult{
		Code:              resultCode,
		Registered:        data.Registered,
		Name:              displayName(data.Record.ReferrerName, data.Record.FirstName, data.Record.LastName),
		ReferralLink:      data.ReferralLink,
		QRCodeDownloadURL: data.QRCodeDownloadURL,
	}, nil
}

func (c *LookupClient) fingerprintValue() string {
	if c.fingerprint == nil {
		return fingerprint.Unknown
	}

	return c.fingerprint.Value()
}
