package referral

import "fmt"

// The SDK never lets a failure escape as a panic or an untyped error: every
// failure class below converts to an observable error string for the UI, and
// the typed errors stay available through errors.As for policy decisions.

// ValidationError reports caller-supplied data that failed local checks.
// Always raised before any network call; always user-correctable.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NetworkError reports a transport-level failure: no HTTP response was
// received at all. Status is always the 0 sentinel.
type NetworkError struct {
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError reports a non-2xx response. Status is preserved for the lookup
// fallback policy (400/404 fall back silently, everything else surfaces).
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// ServiceError reports a 2xx response whose body declared success=false.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}
