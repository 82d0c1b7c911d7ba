package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	efidb "github.com/tbeaudouin05/efi-proxy/api/services/efi/db"
	gw "github.com/tbeaudouin05/efi-proxy/api/services/efi/gateway"
)

// Service defines the business operations of the Efí proxy.
type Service interface {
	// Dispatch decodes data for action and runs it. The returned value is
	// the JSON body of a 200 response.
	Dispatch(ctx context.Context, action string, data json.RawMessage) (any, error)

	CreatePlan(ctx context.Context, req CreatePlanRequest) (CreatePlanResponse, error)
	ListPlans(ctx context.Context) (ListPlansResponse, error)
	GetPlan(ctx context.Context, req GetPlanRequest) (GetPlanResponse, error)
	CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (CreateSubscriptionResponse, error)
}

// Ledger records gateway objects created through the proxy.
type Ledger interface {
	RecordPlan(ctx context.Context, p efidb.PlanRecord) error
	RecordSubscription(ctx context.Context, s efidb.SubscriptionRecord) error
	RecordPixCharge(ctx context.Context, c efidb.PixChargeRecord) error
}

type Options struct {
	// Environment is echoed in plan responses ("production" or "sandbox").
	Environment string
	// PixKey is the receiving PIX key (EFI_CHAVE_PIX).
	PixKey string
	// Ledger is optional.
	Ledger Ledger
	Logger *zap.Logger
}

type serviceImpl struct {
	gw     gw.EfiGateway
	env    string
	pixKey string
	ledger Ledger
	logger *zap.Logger
}

func NewService(g gw.EfiGateway, o Options) Service {
	s := serviceImpl{gw: g, env: o.Environment, pixKey: o.PixKey, ledger: o.Ledger, logger: o.Logger}
	if s.ledger == nil {
		s.ledger = noopLedger{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

func (s serviceImpl) Dispatch(ctx context.Context, action string, data json.RawMessage) (any, error) {
	switch action {
	case ActionCreatePlan:
		var req CreatePlanRequest
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		return s.CreatePlan(ctx, req)
	case ActionListPlans:
		return s.ListPlans(ctx)
	case ActionGetPlan:
		var req GetPlanRequest
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		return s.GetPlan(ctx, req)
	case ActionCreateSubscription:
		var req CreateSubscriptionRequest
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		return s.CreateSubscription(ctx, req)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidAction, action)
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Presence checks on ID look at the decoded value.
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		if id, ok := f.Interface().(ID); ok {
			return id.String()
		}
		return nil
	}, ID{})
	return v
}

// decode unmarshals data into dst and runs presence checks.
func decode(data json.RawMessage, dst any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidData, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return nil
}

type noopLedger struct{}

func (noopLedger) RecordPlan(context.Context, efidb.PlanRecord) error                 { return nil }
func (noopLedger) RecordSubscription(context.Context, efidb.SubscriptionRecord) error { return nil }
func (noopLedger) RecordPixCharge(context.Context, efidb.PixChargeRecord) error       { return nil }
