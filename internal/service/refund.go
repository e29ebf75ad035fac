package service

import (
	"context"
	"strconv"
	"time"

	"github.com/rtvox/rtvox-billing/internal/api/dto"
	"github.com/rtvox/rtvox-billing/internal/domain/order"
	"github.com/rtvox/rtvox-billing/internal/domain/refund"
	"github.com/rtvox/rtvox-billing/internal/domain/tokens"
	ierr "github.com/rtvox/rtvox-billing/internal/errors"
	"github.com/rtvox/rtvox-billing/internal/types"
)

// RefundService defines the interface for refund estimation and submission
type RefundService interface {
	// EstimateRefund computes the refund breakdown for an order without
	// side effects.
	EstimateRefund(ctx context.Context, req dto.RefundEstimateRequest) (*dto.RefundEstimateResponse, error)

	// RequestRefund computes the breakdown and atomically records the
	// refund request on the order. A second request for the same order is
	// rejected.
	RequestRefund(ctx context.Context, req dto.RefundRequestRequest) (*dto.RefundRequestResponse, error)
}

type refundService struct {
	ServiceParams
}

func NewRefundService(params ServiceParams) RefundService {
	return &refundService{ServiceParams: params}
}

func (s *refundService) EstimateRefund(ctx context.Context, req dto.RefundEstimateRequest) (*dto.RefundEstimateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ord, err := s.loadRefundableOrder(ctx, req.OrderID, req.UserID)
	if err != nil {
		return nil, err
	}

	estimate, err := s.estimate(ord, req.AvailableTokens, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	return &dto.RefundEstimateResponse{
		OrderID:  ord.ID,
		Estimate: *estimate,
	}, nil
}

func (s *refundService) RequestRefund(ctx context.Context, req dto.RefundRequestRequest) (*dto.RefundRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ord, err := s.loadRefundableOrder(ctx, req.OrderID, req.UserID)
	if err != nil {
		return nil, err
	}
	if ord.RefundRequested() {
		return nil, s.alreadyRequestedError(ord.ID)
	}

	now := time.Now().UTC()
	estimate, err := s.estimate(ord, req.AvailableTokens, now)
	if err != nil {
		return nil, err
	}

	// The conditional update is the authority on "already requested"; the
	// flag check above only short-circuits the obvious case.
	set, err := s.OrderRepo.MarkRefundRequested(ctx, ord.ID, types.Metadata{
		types.MetadataKeyRefundRequestedAt: now.Format(time.RFC3339),
		types.MetadataKeyRefundNetCents:    strconv.FormatInt(estimate.NetRefundCents, 10),
	})
	if err != nil {
		return nil, err
	}
	if !set {
		return nil, s.alreadyRequestedError(ord.ID)
	}

	s.Logger.Infow("refund requested",
		"order_id", ord.ID,
		"user_id", ord.UserID,
		"kind", estimate.Kind,
		"net_refund_cents", estimate.NetRefundCents)

	return &dto.RefundRequestResponse{
		RefundEstimateResponse: dto.RefundEstimateResponse{
			OrderID:  ord.ID,
			Estimate: *estimate,
		},
		Requested:   true,
		RequestedAt: now,
	}, nil
}

// loadRefundableOrder loads an order and applies the domain rejections:
// ownership and paid status.
func (s *refundService) loadRefundableOrder(ctx context.Context, orderID, userID string) (*order.Order, error) {
	if s.OrderRepo == nil {
		return nil, ierr.NewError("order storage is not configured").
			WithHint("Order storage is not configured").
			Mark(ierr.ErrInternal)
	}

	ord, err := s.OrderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord.UserID != userID {
		return nil, ierr.NewError("order does not belong to user").
			WithHint("Order not found").
			WithReportableDetails(map[string]interface{}{
				"order_id": orderID,
			}).
			Mark(ierr.ErrPermissionDenied)
	}
	if ord.Status != types.OrderStatusPaid {
		return nil, ierr.NewError("order is not in paid status").
			WithHint("Only paid orders can be refunded").
			WithReportableDetails(map[string]interface{}{
				"order_id": orderID,
				"status":   ord.Status,
			}).
			Mark(ierr.ErrValidation)
	}
	return ord, nil
}

// estimate dispatches to the estimator matching the order's product kind.
// The policy is rebuilt from configuration on every call.
func (s *refundService) estimate(ord *order.Order, availableTokens int64, now time.Time) (*refund.Estimate, error) {
	policy := s.refundPolicy()

	switch {
	case ord.IsMembership():
		period, _ := ord.PlanPeriod()
		grant, ok := tokens.ResolveMembershipTokens(ord.Metadata, period)
		if !ok {
			return nil, ierr.NewError("membership grant could not be resolved").
				WithHint("Order is missing a valid plan period").
				WithReportableDetails(map[string]interface{}{
					"order_id":    ord.ID,
					"plan_period": ord.Metadata[types.MetadataKeyPlanPeriod],
				}).
				Mark(ierr.ErrValidation)
		}

		kind := types.RefundKindMembershipMonthly
		if period == types.PlanPeriodYearly {
			kind = types.RefundKindMembershipYearly
		}

		estimate := refund.EstimateMembershipTokensRefund(refund.MembershipTokensParams{
			Kind:                kind,
			Amount:              ord.Amount,
			Currency:            ord.Currency,
			TokensPurchased:     grant,
			UserAvailableTokens: availableTokens,
			Now:                 now,
			Policy:              policy,
		})
		return &estimate, nil

	case ord.IsPoints():
		credits, ok := ord.Credits()
		if !ok {
			return nil, ierr.NewError("credits metadata missing or invalid").
				WithHint("Order is missing its purchased credit count").
				WithReportableDetails(map[string]interface{}{
					"order_id": ord.ID,
				}).
				Mark(ierr.ErrValidation)
		}

		estimate := refund.EstimatePointsRefund(refund.PointsParams{
			Amount:               ord.Amount,
			Currency:             ord.Currency,
			CreditsPurchased:     credits,
			UserAvailableCredits: availableTokens,
			Policy:               policy,
		})
		return &estimate, nil

	default:
		return nil, ierr.NewError("product is not refundable").
			WithHint("This product kind cannot be refunded").
			WithReportableDetails(map[string]interface{}{
				"order_id":   ord.ID,
				"product_id": ord.ProductID,
			}).
			Mark(ierr.ErrValidation)
	}
}

// refundPolicy builds the sanitized policy from configuration, fresh on
// each call.
func (s *refundService) refundPolicy() refund.PolicyConfig {
	rc := s.Config.Refund
	return refund.PolicyConfig{
		MonthlyCycleDays:        rc.MonthlyCycleDays,
		YearlyCycleMonths:       rc.YearlyCycleMonths,
		FeeRate:                 rc.FeeRate,
		FeeFixedCents:           rc.FeeFixedCents,
		NonRefundableBaseTokens: rc.NonRefundableBaseTokens,
	}.Sanitize()
}

func (s *refundService) alreadyRequestedError(orderID string) error {
	return ierr.NewError("refund already requested").
		WithHint("A refund has already been requested for this order").
		WithReportableDetails(map[string]interface{}{
			"order_id": orderID,
		}).
		Mark(ierr.ErrAlreadyExists)
}
