package service

import (
	"context"
	"time"

	"github.com/rtvox/rtvox-billing/internal/api/dto"
	"github.com/rtvox/rtvox-billing/internal/domain/membership"
)

// MembershipService defines the interface for membership status checks
type MembershipService interface {
	// GetStatus resolves whether the user's membership is active as of now.
	GetStatus(ctx context.Context, req dto.MembershipStatusRequest) (*dto.MembershipStatusResponse, error)
}

type membershipService struct {
	ServiceParams
	resolver *membership.Resolver
}

func NewMembershipService(params ServiceParams) MembershipService {
	return &membershipService{
		ServiceParams: params,
		resolver:      membership.NewResolver(params.OrderRepo, params.Provider, params.Logger),
	}
}

func (s *membershipService) GetStatus(ctx context.Context, req dto.MembershipStatusRequest) (*dto.MembershipStatusResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	status := s.resolver.Resolve(ctx, req.UserID, time.Now().UTC())

	s.Logger.Debugw("resolved membership status",
		"user_id", req.UserID,
		"is_paid", status.IsPaid,
		"reason", status.Reason)

	return &dto.MembershipStatusResponse{
		IsPaid: status.IsPaid,
		Reason: status.Reason,
		Period: status.Period,
	}, nil
}
