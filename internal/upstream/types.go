package upstream

import "encoding/json"

// ReferrerRecord is the external service's canonical state for a referral code.
// Field names mirror the wire contract exactly, including the `referalCode`
// misspelling and the mixed casing. Renaming any of them breaks compatibility
// with the deployed service.
type ReferrerRecord struct {
	PK              string           `json:"PK"`
	SK              string           `json:"SK"`
	ReferalCode     string           `json:"referalCode"`
	CreatedAt       string           `json:"createdAt"`
	UpdatedAt       string           `json:"updatedAt"`
	TotalScans      int              `json:"totalScans"`
	UniqueScans     int              `json:"uniqueScans"`
	IPUsage         map[string]int   `json:"ipUsage"`
	SplashLocations []SplashLocation `json:"splashLocations"`
	ReferrerEmail   string           `json:"referrerEmail"`
	ReferrerName    string           `json:"referrerName"`
	FirstName       string           `json:"firstName"`
	LastName        string           `json:"lastName"`
	PhoneNumber     string           `json:"phoneNumber"`
	ReferrerTag     string           `json:"referrerTag"`
	CoinNumber      string           `json:"coinNumber"`
	KickstarterURL  string           `json:"kickstarterUrl"`
}

// SplashLocation is one geolocated scan attributed to a code.
type SplashLocation struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Location    string  `json:"location"`
	FirstSeenAt string  `json:"firstSeenAt"`
	LastSeenAt  string  `json:"lastSeenAt"`
}

// EmptyRecord returns an error-shaped record that echoes the requested code.
// The external service returns a fully populated record on success; failure
// envelopes carry this zeroed shape so consumers always see the same fields.
func EmptyRecord(code string) ReferrerRecord {
	return ReferrerRecord{
		ReferalCode:     code,
		IPUsage:         map[string]int{},
		SplashLocations: []SplashLocation{},
	}
}

// LookupRequest asks for the registration status and metrics of one code.
type LookupRequest struct {
	Code        string `json:"code"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// LookupResponse is the success envelope for a code lookup.
type LookupResponse struct {
	Success           bool           `json:"success"`
	Message           string         `json:"message"`
	Registered        bool           `json:"registered"`
	Record            ReferrerRecord `json:"record"`
	ReferralLink      string         `json:"referral_link,omitempty"`
	QRCodeDownloadURL string         `json:"qr_code_download_url,omitempty"`
}

// RegisterRequest attaches contact info to an unregistered code.
type RegisterRequest struct {
	Code        string `json:"code"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Nickname    string `json:"nickname"`
	IP          string `json:"ip"`
	Fingerprint string `json:"fingerprint"`
}

// RegisterResponse reports the outcome of a registration.
type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CreateReferrerRequest asks the service to mint a brand-new referral code.
type CreateReferrerRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	IP          string `json:"ip"`
	Fingerprint string `json:"fingerprint"`
}

// CreateReferrerResponse carries the new record plus its share bundle.
type CreateReferrerResponse struct {
	Success           bool           `json:"success"`
	Message           string         `json:"message"`
	NewReferrer       ReferrerRecord `json:"new_referrer"`
	QRCodeDownloadURL string         `json:"qr_code_download_url"`
	ReferralLink      string         `json:"referral_link"`
}

// TrackRequest records one QR scan for a code.
type TrackRequest struct {
	Ref       string `json:"ref"`
	Timestamp string `json:"timestamp"`
}

// UpdateMetricsRequest forwards a device-metrics snapshot for a code. Metrics
// is relayed opaquely; the proxy only checks that it is present.
type UpdateMetricsRequest struct {
	Code      string          `json:"code"`
	Metrics   json.RawMessage `json:"metrics"`
	Timestamp string          `json:"timestamp"`
}

// MostRipple is one leaderboard entry ranked by unique scans.
type MostRipple struct {
	Referrer         string `json:"referrer"`
	TotalUniqueScans int    `json:"totalUniqueScans"`
}

// FurthestRipple is one leaderboard entry ranked by scan distance.
type FurthestRipple struct {
	Location             string  `json:"location"`
	Referrer             string  `json:"referrer"`
	DistanceFromOriginal float64 `json:"distanceFromOriginal"`
}

// TopCodesResponse holds both leaderboards.
type TopCodesResponse struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message"`
	Most     []MostRipple     `json:"most"`
	Furthest []FurthestRipple `json:"furthest"`
}

// Ripple is one recent scan event for the ambient overlay.
type Ripple struct {
	ID          string  `json:"id"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Location    string  `json:"location"`
	Referrer    string  `json:"referrer"`
	FirstSeenAt string  `json:"firstSeenAt"`
	LastSeenAt  string  `json:"lastSeenAt"`
}

// RipplesResponse lists the most recent scan events.
type RipplesResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Ripples []Ripple `json:"ripples"`
}
