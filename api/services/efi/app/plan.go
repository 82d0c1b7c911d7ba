package app

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	efidb "github.com/tbeaudouin05/efi-proxy/api/services/efi/db"
	gw "github.com/tbeaudouin05/efi-proxy/api/services/efi/gateway"
)

// CreatePlan creates a plan template on the gateway. The charged value is
// set per subscription.
func (s serviceImpl) CreatePlan(ctx context.Context, req CreatePlanRequest) (CreatePlanResponse, error) {
	token, err := s.gw.SubscriptionsToken(ctx)
	if err != nil {
		return CreatePlanResponse{}, err
	}

	repeats := req.Repeats
	if repeats != nil && *repeats == 0 {
		repeats = nil
	}
	plan, err := s.gw.CreatePlan(ctx, token, gw.PlanInput{Name: req.Name, Interval: req.Interval, Repeats: repeats})
	if err != nil {
		return CreatePlanResponse{}, asGatewayError("failed to create plan", err)
	}
	s.logger.Info("plan created", zap.Int64("plan_id", plan.PlanID), zap.String("environment", s.env))

	if err := s.ledger.RecordPlan(ctx, efidb.PlanRecord{
		PlanID:   plan.PlanID,
		Name:     req.Name,
		Interval: req.Interval,
		Repeats:  repeats,
	}); err != nil {
		s.logger.Warn("ledger write failed", zap.Error(err))
	}

	return CreatePlanResponse{Success: true, PlanID: plan.PlanID, Note: planNote}, nil
}

func (s serviceImpl) ListPlans(ctx context.Context) (ListPlansResponse, error) {
	token, err := s.gw.SubscriptionsToken(ctx)
	if err != nil {
		return ListPlansResponse{}, err
	}
	plans, err := s.gw.ListPlans(ctx, token)
	if err != nil {
		return ListPlansResponse{}, asGatewayError("failed to list plans", err)
	}
	return ListPlansResponse{Success: true, Plans: plans, Environment: s.env}, nil
}

// GetPlan looks a plan up. A gateway 404 is reported as Success false
// rather than as an error.
func (s serviceImpl) GetPlan(ctx context.Context, req GetPlanRequest) (GetPlanResponse, error) {
	token, err := s.gw.SubscriptionsToken(ctx)
	if err != nil {
		return GetPlanResponse{}, err
	}
	plan, err := s.gw.GetPlan(ctx, token, req.PlanID.String())
	if err != nil {
		var apiErr *gw.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return GetPlanResponse{
				Success:     false,
				Error:       "plan not found",
				PlanID:      &req.PlanID,
				Environment: s.env,
			}, nil
		}
		return GetPlanResponse{}, asGatewayError("failed to get plan", err)
	}
	return GetPlanResponse{Success: true, Plan: plan, Environment: s.env}, nil
}
