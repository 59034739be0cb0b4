package referral

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/noonesark/splash/internal/fingerprint"
	"github.com/noonesark/splash/internal/upstream"
	"go.uber.org/zap"
)

// RegisterPayload is the user-entered registration form data.
type RegisterPayload struct {
	Code  string
	Name  string
	Email string
	Phone string
}

// RegisterClient registers a code through the registration proxy. Completion
// is sticky: once a registration succeeds, Completed stays true for the whole
// session regardless of later lookup failures. The completion flag alone gates
// the registration form, never a re-query.
type RegisterClient struct {
	baseURL     string
	httpClient  *http.Client
	fingerprint *fingerprint.Session
	logger      *zap.Logger

	mu         sync.Mutex
	submitting bool
	lastErr    string
	completed  bool
}

// NewRegisterClient creates a registration client against the proxy at baseURL.
func NewRegisterClient(baseURL string, httpClient *http.Client, fp *fingerprint.Session, logger *zap.Logger) *RegisterClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &RegisterClient{
		baseURL:     baseURL,
		httpClient:  httpClient,
		fingerprint: fp,
		logger:      logger,
	}
}

// Completed reports whether a registration has succeeded this session.
func (c *RegisterClient) Completed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.completed
}

// Err returns the last registration failure message, empty when none.
func (c *RegisterClient) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastErr
}

// Submitting reports whether a registration call is in flight.
func (c *RegisterClient) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.submitting
}

// Register validates and submits the payload. The outcome lands in the
// observable state (Completed/Err) and is also returned for callers that want
// to branch on the error class.
func (c *RegisterClient) Register(ctx context.Context, payload RegisterPayload) error {
	c.mu.Lock()
	c.submitting = true
	c.lastErr = ""
	c.mu.Unlock()

	err := c.register(ctx, payload)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.submitting = false

	if err != nil {
		c.lastErr = err.Error()

		return err
	}

	c.completed = true

	return nil
}

func (c *RegisterClient) register(ctx context.Context, payload RegisterPayload) error {
	if !allFilled(payload.Name, payload.Email, payload.Phone) {
		return &ValidationError{Message: "Please fill out all fields."}
	}

	parsed := ParseName(payload.Name)

	body, err := json.Marshal(upstream.RegisterRequest{
		Code:        payload.Code,
		FirstName:   parsed.FirstName,
		LastName:    parsed.LastName,
		Email:       payload.Email,
		Phone:       payload.Phone,
		Nickname:    parsed.Nickname,
		Fingerprint: c.fingerprintValue(),
	})
	if err != nil {
		return &NetworkError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/register-code", bytes.NewReader(body))
	if err != nil {
		return &NetworkError{Err: err}
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Message: "Registration failed: network error", Err: err}
	}
	defer resp.Body.Close()

	var data upstream.RegisterResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&data)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := data.Message
		if msg == "" {
			msg = fmt.Sprintf("Registration failed: %d", resp.StatusCode)
		}

		return &ServiceError{Status: resp.StatusCode, Message: msg}
	}

	if decodeErr != nil {
		return &NetworkError{Err: decodeErr}
	}

	if !data.Success {
		msg := data.Message
		if msg == "" {
			msg = "Registration failed"
		}

		return &ServiceError{Status: resp.StatusCode, Message: msg}
	}

	c.logger.Info("code registered", zap.String("code", payload.Code))

	return nil
}

func (c *RegisterClient) fingerprintValue() string {
	if c.fingerprint == nil {
		return fingerprint.Unknown
	}

	return c.fingerprint.Value()
}

func allFilled(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}

	return true
}
