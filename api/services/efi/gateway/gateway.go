package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCertificateRequired indicates a PIX call was attempted without a client certificate.
var ErrCertificateRequired = errors.New("certificate (EFI_CERTIFICATE_BASE64) is required for PIX calls")

//go:generate mockgen -destination=mock/mock_gateway.go -package=mock . EfiGateway

// EfiGateway abstracts the Efí REST calls needed by the app layer.
// Tokens are passed explicitly so each top-level action fetches its own.
type EfiGateway interface {
	SubscriptionsToken(ctx context.Context) (string, error)
	PixToken(ctx context.Context) (string, error)

	CreatePlan(ctx context.Context, token string, plan PlanInput) (Plan, error)
	ListPlans(ctx context.Context, token string) (json.RawMessage, error)
	GetPlan(ctx context.Context, token, planID string) (json.RawMessage, error)
	CreateSubscription(ctx context.Context, token, planID string, sub SubscriptionInput) (Subscription, error)

	CreatePixCharge(ctx context.Context, token string, charge PixChargeInput) (PixCharge, error)
	GetQRCode(ctx context.Context, token string, locationID int64) (QRCode, error)
}

// APIError is a non-success status returned by the gateway.
type APIError struct {
	Operation string
	Status    int
	Body      []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: gateway returned HTTP %d: %s", e.Operation, e.Status, string(e.Body))
}

// Details returns the gateway body as JSON when it is JSON, else as a string.
func (e *APIError) Details() any {
	if json.Valid(e.Body) {
		return json.RawMessage(e.Body)
	}
	return string(e.Body)
}
