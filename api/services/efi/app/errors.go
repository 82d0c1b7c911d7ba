package app

import (
	"errors"

	gw "github.com/tbeaudouin05/efi-proxy/api/services/efi/gateway"
)

// Typed errors for the Efí app layer. These enable HTTP mapping without
// relying on gateway-specific error types at the transport layer.
var (
	// ErrInvalidAction indicates the requested action is not part of the vocabulary.
	ErrInvalidAction = errors.New("invalid action")
	// ErrInvalidData indicates the action payload is malformed or misses required fields.
	ErrInvalidData = errors.New("invalid data")
	// ErrGateway indicates the gateway answered an action call with a non-success status.
	ErrGateway = errors.New("gateway error")
)

// GatewayError carries the gateway's error body for the failed action call.
type GatewayError struct {
	// Message is the caller-facing summary, e.g. "failed to create plan".
	Message string
	API     *gw.APIError
}

func (e *GatewayError) Error() string { return e.Message + ": " + e.API.Error() }

func (e *GatewayError) Unwrap() []error { return []error{ErrGateway, e.API} }

// asGatewayError wraps err into a GatewayError when the gateway rejected the call.
func asGatewayError(message string, err error) error {
	var apiErr *gw.APIError
	if errors.As(err, &apiErr) {
		return &GatewayError{Message: message, API: apiErr}
	}
	return err
}
