package dto

import (
	"time"

	"github.com/rtvox/rtvox-billing/internal/domain/refund"
	ierr "github.com/rtvox/rtvox-billing/internal/errors"
)

// RefundEstimateRequest asks for a refund breakdown of one order. The
// caller supplies the user's current entitlement balance; the web app owns
// balances, this service owns the valuation.
type RefundEstimateRequest struct {
	OrderID string `json:"order_id" binding:"required"`
	UserID  string `json:"user_id" binding:"required"`
	// AvailableTokens is the user's current token balance for membership
	// orders, or credit balance for points orders.
	AvailableTokens int64 `json:"available_tokens"`
}

// Validate validates the refund estimate request
func (r *RefundEstimateRequest) Validate() error {
	if r.OrderID == "" {
		return ierr.NewError("order_id is required").
			WithHint("Order ID is required").
			Mark(ierr.ErrValidation)
	}
	if r.UserID == "" {
		return ierr.NewError("user_id is required").
			WithHint("User ID is required").
			Mark(ierr.ErrValidation)
	}
	if r.AvailableTokens < 0 {
		return ierr.NewError("available_tokens must not be negative").
			WithHint("Available token balance must not be negative").
			WithReportableDetails(map[string]interface{}{
				"available_tokens": r.AvailableTokens,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// RefundEstimateResponse is the refund breakdown for an order.
type RefundEstimateResponse struct {
	OrderID string `json:"order_id"`
	refund.Estimate
}

// RefundRequestRequest submits a refund request for an order. Same inputs
// as an estimate; the estimate is recomputed at submission time.
type RefundRequestRequest struct {
	OrderID         string `json:"order_id" binding:"required"`
	UserID          string `json:"user_id" binding:"required"`
	AvailableTokens int64  `json:"available_tokens"`
}

// Validate validates the refund request
func (r *RefundRequestRequest) Validate() error {
	estimate := RefundEstimateRequest{
		OrderID:         r.OrderID,
		UserID:          r.UserID,
		AvailableTokens: r.AvailableTokens,
	}
	return estimate.Validate()
}

// RefundRequestResponse confirms a submitted refund request together with
// the estimate snapshot that was recorded on the order.
type RefundRequestResponse struct {
	RefundEstimateResponse
	Requested   bool      `json:"requested"`
	RequestedAt time.Time `json:"requested_at"`
}
