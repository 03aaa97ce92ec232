package microcms

import (
	"errors"
	"fmt"
)

// Transport errors.
var (
	ErrTransport            = errors.New("cms transport failure")
	ErrNotFound             = errors.New("content not found")
	ErrNoData               = errors.New("no data in response")
	ErrMissingServiceDomain = errors.New("service domain is required")
	ErrMissingAPIKey        = errors.New("api key is required")
)

// TransportError describes a failed call to the CMS: network trouble,
// authentication, rate limiting or an unexpected status.
type TransportError struct {
	Err        error
	Endpoint   string
	StatusCode int
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("cms %s: unexpected status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("cms %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is makes every TransportError match ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
