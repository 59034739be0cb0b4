package handlers

import (
	"encoding/json"

	"github.com/noonesark/splash/internal/upstream"
)

// Every proxy response carries the uniform {success, message, ...} envelope
// with a dynamic HTTP status, so failures never surface as framework-shaped
// errors. Input fields are validated by hand (in declared order) instead of
// schema-required so the 400 bodies keep the envelope too.

// LookupCodeInput is the request for resolving a referral code.
type LookupCodeInput struct {
	Body struct {
		Code        string `doc:"Referral code from the URL" example:"eef4cb" json:"code,omitempty"`
		Fingerprint string `doc:"Session fingerprint"        json:"fingerprint,omitempty"`
	}
}

// LookupCodeOutput relays the upstream lookup envelope.
type LookupCodeOutput struct {
	Status int
	Body   upstream.LookupResponse
}

// RegisterCodeInput is the request for attaching contact info to a code.
// The ip field is accepted but never trusted: the server-derived address
// always replaces it.
type RegisterCodeInput struct {
	Body struct {
		Code        string `json:"code,omitempty"`
		FirstName   string `json:"firstName,omitempty"`
		LastName    string `json:"lastName,omitempty"`
		Email       string `json:"email,omitempty"`
		Phone       string `json:"phone,omitempty"`
		Nickname    string `json:"nickname,omitempty"`
		Fingerprint string `json:"fingerprint,omitempty"`
		IP          string `doc:"Ignored; the server derives the caller IP" json:"ip,omitempty"`
	}
}

// RegisterCodeOutput relays the upstream registration envelope.
type RegisterCodeOutput struct {
	Status int
	Body   upstream.RegisterResponse
}

// AddReferrerInput is the request for minting a new referral code. The body
// uses the snake_case names the splash form actually sends; the validation
// messages use the camelCase names of the documented request type.
type AddReferrerInput struct {
	Body struct {
		FirstName   string `json:"first_name,omitempty"`
		LastName    string `json:"last_name,omitempty"`
		Email       string `json:"email,omitempty"`
		Phone       string `json:"phone,omitempty"`
		Fingerprint string `json:"fingerprint,omitempty"`
		IP          string `doc:"Ignored; the server derives the caller IP" json:"ip,omitempty"`
	}
}

// AddReferrerOutput relays the upstream creation envelope.
type AddReferrerOutput struct {
	Status int
	Body   upstream.CreateReferrerResponse
}

// TrackScanInput records one QR scan.
type TrackScanInput struct {
	Body struct {
		Ref string `doc:"Scanned referral code" json:"ref,omitempty"`
	}
}

// TrackScanBody is the track endpoint's envelope. Logged marks the local-only
// mode used when no telemetry endpoint is configured.
type TrackScanBody struct {
	Success bool   `json:"success"`
	Logged  bool   `json:"logged,omitempty"`
	Message string `json:"message,omitempty"`
}

// TrackScanOutput is the track endpoint's response.
type TrackScanOutput struct {
	Status int
	Body   TrackScanBody
}

// UpdateMetricsInput forwards a device-metrics snapshot. Metrics is relayed
// opaquely; only its presence is checked.
type UpdateMetricsInput struct {
	Body struct {
		Code        string          `json:"code,omitempty"`
		Metrics     json.RawMessage `json:"metrics,omitempty"`
		Fingerprint string          `json:"fingerprint,omitempty"`
	}
}

// UpdateMetricsBody is the update-metrics envelope.
type UpdateMetricsBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UpdateMetricsOutput is the update-metrics response.
type UpdateMetricsOutput struct {
	Status int
	Body   UpdateMetricsBody
}

// TopCodesOutput relays both leaderboards.
type TopCodesOutput struct {
	Status int
	Body   upstream.TopCodesResponse
}

// RecentRipplesOutput relays the latest scan events.
type RecentRipplesOutput struct {
	Status int
	Body   upstream.RipplesResponse
}
