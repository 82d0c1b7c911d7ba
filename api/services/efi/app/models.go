package app

import (
	"encoding/json"
	"fmt"
)

// Action names accepted by Dispatch.
const (
	ActionCreatePlan         = "create_plan"
	ActionListPlans          = "list_plans"
	ActionGetPlan            = "get_plan"
	ActionCreateSubscription = "create_subscription"
)

// Business constants
const (
	PaymentMethodPix = "pix"
	// DefaultSubscriptionValue is used when the caller omits value (cents).
	DefaultSubscriptionValue int64 = 200
	// PixExpiration is the charge lifetime in seconds.
	PixExpiration = 86400

	subscriptionItemName = "Assinatura"
	planNote             = "Plan created as a template. The value is set on each subscription."
)

// ID is a gateway identifier the caller may send as a JSON number or a
// string. It marshals back in the shape it arrived in.
type ID struct {
	value  string
	number bool
}

// StringID returns an ID that marshals as a JSON string.
func StringID(s string) ID { return ID{value: s} }

func (id ID) String() string { return id.value }

func (id *ID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ID{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID{value: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = ID{value: n.String(), number: true}
	return nil
}

// MarshalJSON writes the id as a number only when it was decoded from one.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.number {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

type CreatePlanRequest struct {
	Name     string `json:"name" validate:"required"`
	Interval int    `json:"interval" validate:"required,gt=0"`
	// Repeats of 0 or null means the plan renews until cancelled.
	Repeats *int `json:"repeats" validate:"omitempty,gte=0"`
}

type GetPlanRequest struct {
	PlanID ID `json:"plan_id" validate:"required"`
}

type Customer struct {
	CPF  string `json:"cpf"`
	Name string `json:"name"`
}

type CreateSubscriptionRequest struct {
	PlanID ID `json:"plan_id" validate:"required"`
	// Value is in cents; zero selects DefaultSubscriptionValue.
	Value         int64     `json:"value" validate:"gte=0"`
	PaymentMethod string    `json:"payment_method"`
	Customer      *Customer `json:"customer"`
}

type CreatePlanResponse struct {
	Success bool   `json:"success"`
	PlanID  int64  `json:"plan_id"`
	Note    string `json:"note"`
}

type ListPlansResponse struct {
	Success     bool            `json:"success"`
	Plans       json.RawMessage `json:"plans"`
	Environment string          `json:"environment"`
}

// GetPlanResponse is returned with HTTP 200 both when the plan exists and
// when the gateway reports it missing (Success false).
type GetPlanResponse struct {
	Success     bool            `json:"success"`
	Plan        json.RawMessage `json:"plan,omitempty"`
	Error       string          `json:"error,omitempty"`
	PlanID      *ID             `json:"plan_id,omitempty"`
	Environment string          `json:"environment"`
}

type PixPayment struct {
	QRCode      string `json:"qrcode"`
	QRCodeImage string `json:"qrcode_image"`
	TxID        string `json:"txid"`
}

type PaymentData struct {
	Pix PixPayment `json:"pix"`
}

type CreateSubscriptionResponse struct {
	Success        bool         `json:"success"`
	SubscriptionID int64        `json:"subscription_id"`
	PaymentData    *PaymentData `json:"payment_data"`
	// PaymentError explains a nil PaymentData when a PIX charge was requested.
	PaymentError string `json:"payment_error,omitempty"`
}

// PixOutcome is the result of the best-effort PIX sub-flow. Exactly one of
// Payment and Err is set.
type PixOutcome struct {
	Payment *PixPayment
	Err     error
}
