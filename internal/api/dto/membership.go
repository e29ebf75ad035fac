package dto

import (
	ierr "github.com/rtvox/rtvox-billing/internal/errors"
	"github.com/rtvox/rtvox-billing/internal/types"
)

// MembershipStatusRequest asks whether a user's membership is active.
type MembershipStatusRequest struct {
	UserID string `form:"user_id" binding:"required"`
}

// Validate validates the membership status request
func (r *MembershipStatusRequest) Validate() error {
	if r.UserID == "" {
		return ierr.NewError("user_id is required").
			WithHint("User ID is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// MembershipStatusResponse is the membership verdict as of now.
type MembershipStatusResponse struct {
	IsPaid bool                         `json:"is_paid"`
	Reason types.MembershipStatusReason `json:"reason"`
	Period *types.PlanPeriod            `json:"period"`
}
