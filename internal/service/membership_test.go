package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/rtvox/rtvox-billing/internal/api/dto"
	"github.com/rtvox/rtvox-billing/internal/domain/membership"
	"github.com/rtvox/rtvox-billing/internal/domain/order"
	ierr "github.com/rtvox/rtvox-billing/internal/errors"
	"github.com/rtvox/rtvox-billing/internal/testutil"
	"github.com/rtvox/rtvox-billing/internal/types"
)

type MembershipServiceSuite struct {
	testutil.BaseServiceTestSuite
	service MembershipService
}

func TestMembershipService(t *testing.T) {
	suite.Run(t, new(MembershipServiceSuite))
}

func (s *MembershipServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewMembershipService(ServiceParams{
		Logger:    s.GetLogger(),
		Config:    s.GetConfig(),
		OrderRepo: s.GetStores().OrderRepo,
		Provider:  s.GetProvider(),
	})
}

func (s *MembershipServiceSuite) addPaidMembership(paidAt time.Time, period types.PlanPeriod, metadata types.Metadata) {
	md := types.Metadata{types.MetadataKeyPlanPeriod: string(period)}.Merge(metadata)
	s.GetStores().OrderRepo.Add(&order.Order{
		ID:          types.GenerateUUIDWithPrefix(types.UUIDPrefixOrder),
		UserID:      "user_1",
		ProductID:   types.ProductIDProfessional,
		ProductType: types.ProductTypeSubscription,
		Amount:      decimal.NewFromInt(20),
		Currency:    "usd",
		Status:      types.OrderStatusPaid,
		PaidAt:      &paidAt,
		Metadata:    md,
		CreatedAt:   paidAt,
	})
}

func (s *MembershipServiceSuite) TestStatusRequiresUserID() {
	_, err := s.service.GetStatus(s.GetContext(), dto.MembershipStatusRequest{})

	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *MembershipServiceSuite) TestStatusUnpaidWithoutOrders() {
	resp, err := s.service.GetStatus(s.GetContext(), dto.MembershipStatusRequest{UserID: "user_1"})

	s.NoError(err)
	s.False(resp.IsPaid)
	s.Equal(types.MembershipReasonUnpaid, resp.Reason)
}

func (s *MembershipServiceSuite) TestStatusPaidInsideWindow() {
	s.addPaidMembership(time.Now().UTC().AddDate(0, 0, -5), types.PlanPeriodMonthly, nil)

	resp, err := s.service.GetStatus(s.GetContext(), dto.MembershipStatusRequest{UserID: "user_1"})

	s.NoError(err)
	s.True(resp.IsPaid)
	s.Equal(types.MembershipReasonPaid, resp.Reason)
	if s.NotNil(resp.Period) {
		s.Equal(types.PlanPeriodMonthly, *resp.Period)
	}
}

func (s *MembershipServiceSuite) TestStatusExpiredPastWindow() {
	s.addPaidMembership(time.Now().UTC().AddDate(0, -2, 0), types.PlanPeriodMonthly, nil)

	resp, err := s.service.GetStatus(s.GetContext(), dto.MembershipStatusRequest{UserID: "user_1"})

	s.NoError(err)
	s.False(resp.IsPaid)
	s.Equal(types.MembershipReasonExpired, resp.Reason)
}

func (s *MembershipServiceSuite) TestStatusReconciledThroughProvider() {
	s.addPaidMembership(time.Now().UTC().AddDate(0, -2, 0), types.PlanPeriodMonthly, types.Metadata{
		types.MetadataKeySubscriptionID: "sub_123",
	})
	s.GetProvider().Subscriptions["sub_123"] = &membership.ProviderSubscription{
		ID:               "sub_123",
		Status:           types.ProviderSubscriptionStatusActive,
		CurrentPeriodEnd: time.Now().UTC().AddDate(0, 0, 14),
	}

	resp, err := s.service.GetStatus(s.GetContext(), dto.MembershipStatusRequest{UserID: "user_1"})

	s.NoError(err)
	s.True(resp.IsPaid)
	s.Equal(types.MembershipReasonPaid, resp.Reason)
}

func (s *MembershipServiceSuite) TestStatusDBDisabledWithoutStore() {
	svc := NewMembershipService(ServiceParams{
		Logger: s.GetLogger(),
		Config: s.GetConfig(),
	})

	resp, err := svc.GetStatus(s.GetContext(), dto.MembershipStatusRequest{UserID: "user_1"})

	s.NoError(err)
	s.False(resp.IsPaid)
	s.Equal(types.MembershipReasonDBDisabled, resp.Reason)
}
