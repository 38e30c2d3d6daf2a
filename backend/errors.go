package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusSessionExpired is the backend's "log in again" status code.
const StatusSessionExpired = 440

// ErrNoAccess is returned without any network call while the no-access
// gate is set.
var ErrNoAccess = errors.New("no access to the recruiting backend")

// APIError is a non-2xx backend response.
type APIError struct {
	Message string
	Status  int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend status %d: %s", e.Status, e.Message)
}

// NoAccess reports whether the error is the 403 no-access condition.
func (e *APIError) NoAccess() bool { return e.Status == http.StatusForbidden }

// SessionExpired reports whether the error is the 440 re-login condition.
func (e *APIError) SessionExpired() bool { return e.Status == StatusSessionExpired }

// Reportable reports whether the error should reach telemetry: every 4xx
// and 5xx except session expiry, which users recover from by logging in.
func (e *APIError) Reportable() bool {
	return e.Status >= 400 && e.Status != StatusSessionExpired
}

// AsAPIError unwraps err into an *APIError if one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
