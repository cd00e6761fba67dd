package provider

import (
	"errors"
	"fmt"
)

// ErrZoneNotFound means the configured zone name matched no zone at the
// provider. Retrying will not help until the configuration changes.
var ErrZoneNotFound = errors.New("zone not found")

// UpstreamError is a request the provider answered and rejected, such as
// an auth failure or a validation error.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("provider rejected %s: %s", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// TransportError is a network-layer failure before the provider could
// answer, such as a connect timeout or a TLS error.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport failure: %s", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
