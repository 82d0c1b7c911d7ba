package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	efidb "github.com/tbeaudouin05/efi-proxy/api/services/efi/db"
	gw "github.com/tbeaudouin05/efi-proxy/api/services/efi/gateway"
)

var (
	errMissingCustomer = errors.New("customer cpf and name are required for pix")
	errMissingPixKey   = errors.New("EFI_CHAVE_PIX is not configured")
)

// CreateSubscription attaches a subscription to a plan and, for PIX, issues
// the first charge. The PIX step is best effort: its failure leaves
// PaymentData nil and is reported in PaymentError, and the subscription is
// kept.
func (s serviceImpl) CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (CreateSubscriptionResponse, error) {
	token, err := s.gw.SubscriptionsToken(ctx)
	if err != nil {
		return CreateSubscriptionResponse{}, err
	}

	value := req.Value
	if value == 0 {
		value = DefaultSubscriptionValue
	}
	sub, err := s.gw.CreateSubscription(ctx, token, req.PlanID.String(), gw.SubscriptionInput{
		Items: []gw.SubscriptionItem{{Name: subscriptionItemName, Amount: 1, Value: value}},
	})
	if err != nil {
		return CreateSubscriptionResponse{}, asGatewayError("failed to create subscription", err)
	}
	s.logger.Info("subscription created",
		zap.Int64("subscription_id", sub.SubscriptionID),
		zap.String("plan_id", req.PlanID.String()),
		zap.String("payment_method", req.PaymentMethod))

	s.recordSubscription(ctx, sub.SubscriptionID, req.PlanID, value, req.PaymentMethod)

	resp := CreateSubscriptionResponse{Success: true, SubscriptionID: sub.SubscriptionID}
	if req.PaymentMethod != PaymentMethodPix {
		return resp, nil
	}

	outcome := s.chargePix(ctx, sub.SubscriptionID, value, req.Customer)
	if outcome.Err != nil {
		s.logger.Warn("pix charge failed; subscription kept without payment data",
			zap.Int64("subscription_id", sub.SubscriptionID),
			zap.Error(outcome.Err))
		resp.PaymentError = outcome.Err.Error()
		return resp, nil
	}
	resp.PaymentData = &PaymentData{Pix: *outcome.Payment}
	return resp, nil
}

// recordSubscription writes the ledger row. Plan ids the ledger cannot key
// on are logged and skipped.
func (s serviceImpl) recordSubscription(ctx context.Context, subscriptionID int64, planID ID, valueCents int64, method string) {
	id, err := strconv.ParseInt(planID.String(), 10, 64)
	if err != nil {
		s.logger.Warn("ledger skipped: plan id is not numeric",
			zap.Int64("subscription_id", subscriptionID),
			zap.String("plan_id", planID.String()))
		return
	}
	if err := s.ledger.RecordSubscription(ctx, efidb.SubscriptionRecord{
		SubscriptionID: subscriptionID,
		PlanID:         id,
		ValueCents:     valueCents,
		PaymentMethod:  method,
	}); err != nil {
		s.logger.Warn("ledger write failed", zap.Error(err))
	}
}

// chargePix issues a 24h PIX charge for the subscription and renders its QR code.
func (s serviceImpl) chargePix(ctx context.Context, subscriptionID, valueCents int64, customer *Customer) PixOutcome {
	if customer == nil || customer.CPF == "" || customer.Name == "" {
		return PixOutcome{Err: errMissingCustomer}
	}
	if s.pixKey == "" {
		return PixOutcome{Err: errMissingPixKey}
	}

	token, err := s.gw.PixToken(ctx)
	if err != nil {
		return PixOutcome{Err: fmt.Errorf("pix token: %w", err)}
	}

	reais := CentsToReais(valueCents)
	charge, err := s.gw.CreatePixCharge(ctx, token, gw.PixChargeInput{
		Calendario:         gw.PixCalendar{Expiracao: PixExpiration},
		Devedor:            gw.PixDebtor{CPF: customer.CPF, Nome: customer.Name},
		Valor:              gw.PixValue{Original: reais},
		Chave:              s.pixKey,
		SolicitacaoPagador: subscriptionItemName + " " + strconv.FormatInt(subscriptionID, 10),
	})
	if err != nil {
		return PixOutcome{Err: err}
	}

	qr, err := s.gw.GetQRCode(ctx, token, charge.Loc.ID)
	if err != nil {
		return PixOutcome{Err: err}
	}

	if err := s.ledger.RecordPixCharge(ctx, efidb.PixChargeRecord{
		TxID:           charge.TxID,
		SubscriptionID: subscriptionID,
		LocationID:     charge.Loc.ID,
		Value:          reais,
	}); err != nil {
		s.logger.Warn("ledger write failed", zap.Error(err))
	}

	return PixOutcome{Payment: &PixPayment{
		QRCode:      charge.PixCopiaECola,
		QRCodeImage: qr.ImagemQRCode,
		TxID:        charge.TxID,
	}}
}

// CentsToReais formats a value in cents as the decimal string PIX expects.
func CentsToReais(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
