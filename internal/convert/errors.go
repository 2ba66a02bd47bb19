// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import "fmt"

// TransportError reports that the conversion service could not be reached
// or the connection failed before a complete response arrived.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to connect to conversion service at %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServiceError reports a non-success response from the conversion service.
// Message holds the server-supplied error text, or "" when the body carried
// none that could be decoded.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("conversion failed: unknown error (HTTP %d)", e.StatusCode)
	}
	return "conversion failed: " + e.Message
}

// Generic reports whether the error fell back to the generic message.
func (e *ServiceError) Generic() bool {
	return e.Message == ""
}
