package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/rtvox/rtvox-billing/internal/api/dto"
	"github.com/rtvox/rtvox-billing/internal/domain/order"
	ierr "github.com/rtvox/rtvox-billing/internal/errors"
	"github.com/rtvox/rtvox-billing/internal/testutil"
	"github.com/rtvox/rtvox-billing/internal/types"
)

type RefundServiceSuite struct {
	testutil.BaseServiceTestSuite
	service RefundService
}

func TestRefundService(t *testing.T) {
	suite.Run(t, new(RefundServiceSuite))
}

func (s *RefundServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewRefundService(ServiceParams{
		Logger:    s.GetLogger(),
		Config:    s.GetConfig(),
		OrderRepo: s.GetStores().OrderRepo,
		Provider:  s.GetProvider(),
	})
}

func (s *RefundServiceSuite) addOrder(ord *order.Order) *order.Order {
	if ord.ID == "" {
		ord.ID = types.GenerateUUIDWithPrefix(types.UUIDPrefixOrder)
	}
	if ord.CreatedAt.IsZero() {
		ord.CreatedAt = time.Now().UTC().AddDate(0, 0, -10)
	}
	s.GetStores().OrderRepo.Add(ord)
	return ord
}

func (s *RefundServiceSuite) membershipOrder(period types.PlanPeriod, metadata types.Metadata) *order.Order {
	md := types.Metadata{types.MetadataKeyPlanPeriod: string(period)}.Merge(metadata)
	return s.addOrder(&order.Order{
		UserID:      "user_1",
		ProductID:   types.ProductIDProfessional,
		ProductType: types.ProductTypeSubscription,
		Amount:      decimal.NewFromInt(20),
		Currency:    "usd",
		Status:      types.OrderStatusPaid,
		Metadata:    md,
	})
}

func (s *RefundServiceSuite) TestEstimateMembershipRefund() {
	ord := s.membershipOrder(types.PlanPeriodMonthly, nil)

	resp, err := s.service.EstimateRefund(s.GetContext(), dto.RefundEstimateRequest{
		OrderID:         ord.ID,
		UserID:          "user_1",
		AvailableTokens: 200_500,
	})

	s.NoError(err)
	s.Equal(ord.ID, resp.OrderID)
	s.Equal(types.RefundKindMembershipMonthly, resp.Kind)
	s.Equal(int64(200_000), resp.Details.TokensPurchased)
	s.Equal(int64(2000), resp.RefundableAmountCents)
	s.Equal(int64(100), resp.FeeCents)
	s.Equal(int64(1900), resp.NetRefundCents)
}

func (s *RefundServiceSuite) TestEstimateYearlyMembershipUsesYearlyGrant() {
	ord := s.membershipOrder(types.PlanPeriodYearly, nil)

	resp, err := s.service.EstimateRefund(s.GetContext(), dto.RefundEstimateRequest{
		OrderID:         ord.ID,
		UserID:          "user_1",
		AvailableTokens: 1_200_500,
	})

	s.NoError(err)
	s.Equal(types.RefundKindMembershipYearly, resp.Kind)
	s.Equal(int64(2_400_000), resp.Details.TokensPurchased)
	s.Equal(int64(1_200_000), resp.Details.RefundableTokens)
}

func (s *RefundServiceSuite) TestEstimateHonorsFulfillmentOverride() {
	ord := s.membershipOrder(types.PlanPeriodMonthly, types.Metadata{
		types.MetadataKeyMembershipTokens: "300000",
	})

	resp, err := s.service.EstimateRefund(s.GetContext(), dto.RefundEstimateRequest{
		OrderID:         ord.ID,
		UserID:          "user_1",
		AvailableTokens: 300_500,
	})

	s.NoError(err)
	s.Equal(int64(300_000), resp.Details.TokensPurchased)
	s.Equal(int64(300_000), resp.Details.RefundableTokens)
}

func (s *RefundServiceSuite) TestEstimatePointsRefund() {
	ord := s.addOrder(&order.Order{
		UserID:      "user_1",
		ProductID:   "points:starter",
		ProductType: types.ProductTypeOneTime,
		Amount:      decimal.NewFromInt(10),
		Currency:    "usd",
		Status:      types.OrderStatusPaid,
		Metadata:    types.Metadata{types.MetadataKeyCredits: "10000"},
	})

	resp, err := s.service.EstimateRefund(s.GetContext(), dto.RefundEstimateRequest{
		OrderID:         ord.ID,
		UserID:          "user_1",
		AvailableTokens: 5_500,
	})

	s.NoError(err)
	s.Equal(types.RefundKindPoints, resp.Kind)
	s.Equal(int64(5_000), resp.Details.RefundableCredits)
	s.Equal(int64(475), resp.NetRefundCents)
}

func (s *RefundServiceSuite) TestEstimateRejectsMissingPlanPeriod() {
	ord := s.addOrder(&order.Order{
		UserID:    "user_1",
		ProductID: types.ProductIDProfessional,
		Amount:    decimal.NewFromInt(20),
		Currency:  "usd",
		Status:    types.OrderStatusPaid,
	})

	_, err := s.service.EstimateRefund(s.GetContext(), dto.RefundEstimateRequest{
		OrderID: ord.ID,
		UserID:  "user_1",
	})

	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *RefundServiceSuite) TestEstimateRejectsPointsWithoutCredits() {
	ord := s.addOrder(&order.Order{
		UserID:    "user_1",
		ProductID: "points:starter",
		Amount:    decimal.NewFromInt(10),
		Currency:  "usd",
		Status:    types.OrderStatusPaid,
	})

	_, err := s.service.EstimateRefund(s.GetContext(), dto.RefundEstimateRequest{
		OrderID: ord.ID,
		UserID:  "user_1",
	})

	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *RefundServiceSuite) TestEstimateRejectsUnknownProduct() {
	ord := s.addOrder(&order.Order{
		UserID:    "user_1",
		ProductID: "merch:tshirt",
		Amount:    decimal.NewFromInt(25),
		Currency:  "usd",
		Status:    types.OrderStatusPaid,
	})

	_, err := s.service.EstimateRefund(s.GetContext(), dto.RefundEstimateRequest{
		OrderID: ord.ID,
		UserID:  "user_1",
	})

	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *RefundServiceSuite) TestEstimateRejectsForeignOrder() {
	ord := s.membershipOrder(types.PlanPeriodMonthly, nil)

	_, err := s.service.EstimateRefund(s.GetContext(), dto.RefundEstimateRequest{
		OrderID:         ord.ID,
		UserID:          "user_2",
		AvailableTokens: 100,
	})

	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))
}

func (s *RefundServiceSuite) TestEstimateRejectsUnpaidOrder() {
	ord := s.addOrder(&order.Order{
		UserID:    "user_1",
		ProductID: types.ProductIDProfessional,
		Amount:    decimal.NewFromInt(20),
		Currency:  "usd",
		Status:    types.OrderStatusPending,
		Metadata:  types.Metadata{types.MetadataKeyPlanPeriod: "monthly"},
	})

	_, err := s.service.EstimateRefund(s.GetContext(), dto.RefundEstimateRequest{
		OrderID: ord.ID,
		UserID:  "user_1",
	})

	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *RefundServiceSuite) TestEstimateRejectsUnknownOrder() {
	_, err := s.service.EstimateRefund(s.GetContext(), dto.RefundEstimateRequest{
		OrderID: "order_missing",
		UserID:  "user_1",
	})

	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *RefundServiceSuite) TestEstimateRejectsNegativeBalance() {
	_, err := s.service.EstimateRefund(s.GetContext(), dto.RefundEstimateRequest{
		OrderID:         "order_x",
		UserID:          "user_1",
		AvailableTokens: -1,
	})

	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *RefundServiceSuite) TestRequestRefundRecordsSnapshot() {
	ord := s.membershipOrder(types.PlanPeriodMonthly, nil)

	resp, err := s.service.RequestRefund(s.GetContext(), dto.RefundRequestRequest{
		OrderID:         ord.ID,
		UserID:          "user_1",
		AvailableTokens: 100_500,
	})

	s.NoError(err)
	s.True(resp.Requested)
	s.False(resp.RequestedAt.IsZero())
	s.Equal(int64(950), resp.NetRefundCents)

	stored, err := s.GetStores().OrderRepo.GetByID(s.GetContext(), ord.ID)
	s.NoError(err)
	s.True(stored.RefundRequested())
	s.Equal("950", stored.Metadata[types.MetadataKeyRefundNetCents])
	s.NotEmpty(stored.Metadata[types.MetadataKeyRefundRequestedAt])
}

func (s *RefundServiceSuite) TestRequestRefundRejectsSecondRequest() {
	ord := s.membershipOrder(types.PlanPeriodMonthly, nil)

	_, err := s.service.RequestRefund(s.GetContext(), dto.RefundRequestRequest{
		OrderID:         ord.ID,
		UserID:          "user_1",
		AvailableTokens: 100_500,
	})
	s.NoError(err)

	_, err = s.service.RequestRefund(s.GetContext(), dto.RefundRequestRequest{
		OrderID:         ord.ID,
		UserID:          "user_1",
		AvailableTokens: 100_500,
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *RefundServiceSuite) TestRequestRefundRejectsPreflaggedOrder() {
	ord := s.membershipOrder(types.PlanPeriodMonthly, types.Metadata{
		types.MetadataKeyRefundRequested: "true",
	})

	_, err := s.service.RequestRefund(s.GetContext(), dto.RefundRequestRequest{
		OrderID:         ord.ID,
		UserID:          "user_1",
		AvailableTokens: 100_500,
	})

	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *RefundServiceSuite) TestNilOrderRepoIsInternalError() {
	svc := NewRefundService(ServiceParams{
		Logger: s.GetLogger(),
		Config: s.GetConfig(),
	})

	_, err := svc.EstimateRefund(s.GetContext(), dto.RefundEstimateRequest{
		OrderID: "order_x",
		UserID:  "user_1",
	})

	s.Error(err)
	s.False(ierr.IsValidation(err))
}
