package referral

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/noonesark/splash/internal/fingerprint"
	"github.com/noonesark/splash/internal/handoff"
	"github.com/noonesark/splash/internal/phone"
	"github.com/noonesark/splash/internal/upstream"
	"go.uber.org/zap"
)

// supportLine is appended to creation failures so a stuck user always has a
// recovery path.
const supportLine = "Please try again, or email float@noonesark.org for support if the issue persists."

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ReferrerPayload is the new-referrer form data. Phone may arrive formatted
// for display; it is stripped to raw digits before transmission.
type ReferrerPayload struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// CreateReferrerResult is the share bundle for a freshly minted code.
type CreateReferrerResult struct {
	Code              string
	Record            upstream.ReferrerRecord
	ReferralLink      string
	QRCodeDownloadURL string

	// HandoffToken retrieves the bundle once on the other side of the
	// navigation boundary. Empty when no slot is configured.
	HandoffToken string
}

// NewReferrerClient creates brand-new referral codes through the proxy.
type NewReferrerClient struct {
	baseURL     string
	httpClient  *http.Client
	fingerprint *fingerprint.Session
	slot        handoff.Slot
	logger      *zap.Logger
}

// NewNewReferrerClient creates a new-referrer client against the proxy at
// baseURL. slot may be nil when no cross-navigation handoff is needed.
func NewNewReferrerClient(baseURL string, httpClient *http.Client, fp *fingerprint.Session, slot handoff.Slot, logger *zap.Logger) *NewReferrerClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &NewReferrerClient{
		baseURL:     baseURL,
		httpClient:  httpClient,
		fingerprint: fp,
		slot:        slot,
		logger:      logger,
	}
}

// Create validates the payload and asks the service to mint a new code.
// Presence checks run in fixed order (firstName, lastName, email, phone) and
// short-circuit on the first failure.
func (c *NewReferrerClient) Create(ctx context.Context, payload ReferrerPayload) (*CreateReferrerResult, error) {
	if err := validateReferrer(payload); err != nil {
		return nil, err
	}

	digits := phone.Digits(payload.Phone)

	body, err := json.Marshal(upstream.CreateReferrerRequest{
		FirstName: strings.TrimSpace(payload.FirstName),
		LastName:  strings.TrimSpace(payload.LastName),
		Email:     strings.TrimSpace(payload.Email),
		Phone:     digits,
		// The proxy derives the real IP server-side and overrides this.
		IP:          "unknown",
		Fingerprint: c.fingerprintValue(),
	})
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/add-new-referrer", bytes.NewReader(body))
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{
			Message: "Creation of your code failed due to a network error. Please check your connection and try again, or email float@noonesark.org for support if the issue persists.",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	var data upstream.CreateReferrerResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&data)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := data.Message
		if msg == "" {
			msg = fmt.Sprintf("Failed to add referrer: %d.", resp.StatusCode)
		}

		return nil, &HTTPError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("Creation of your code failed. %s %s", msg, supportLine),
		}
	}

	if decodeErr != nil {
		return nil, &NetworkError{Err: decodeErr}
	}

	if !data.Success {
		msg := data.Message
		if msg == "" {
			msg = "Unknown error"
		}

		return nil, &ServiceError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("Creation of your code failed. %s. %s", msg, supportLine),
		}
	}

	result := &CreateReferrerResult{
		Code:              data.NewReferrer.ReferalCode,
		Record:            data.NewReferrer,
		ReferralLink:      data.ReferralLink,
		QRCodeDownloadURL: data.QRCodeDownloadURL,
	}

	// Stash the share bundle so the post-redirect page load can show the
	// "share your new code" view exactly once.
	if c.slot != nil {
		token, err := c.slot.Stash(ctx, &handoff.Bundle{
			Code:              result.Code,
			ReferralLink:      result.ReferralLink,
			QRCodeDownloadURL: result.QRCodeDownloadURL,
		})
		if err != nil {
			c.logger.Error("failed to stash share bundle",
				zap.String("code", result.Code),
				zap.Error(err),
			)
		} else {
			result.HandoffToken = token
		}
	}

	c.logger.Info("new referrer created", zap.String("code", result.Code))

	return result, nil
}

func validateReferrer(payload ReferrerPayload) error {
	ordered := []struct {
		field string
		value string
	}{
		{"firstName", payload.FirstName},
		{"lastName", payload.LastName},
		{"email", payload.Email},
		{"phone", payload.Phone},
	}

	for _, f := range ordered {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{
				Field:   f.field,
				Message: "Missing or invalid " + f.field,
			}
		}
	}

	if !emailShape.MatchString(strings.TrimSpace(payload.Email)) {
		return &ValidationError{
			Field:   "email",
			Message: "Please enter a valid email address.",
		}
	}

	if len(phone.Digits(payload.Phone)) != 10 {
		return &ValidationError{
			Field:   "phone",
			Message: "Please enter a valid 10-digit phone number.",
		}
	}

	return nil
}

func (c *NewReferrerClient) fingerprintValue() string {
	if c.fingerprint == nil {
		return fingerprint.Unknown
	}

	return c.fingerprint.Value()
}
