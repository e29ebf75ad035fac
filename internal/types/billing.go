package types

import (
	"strings"

	ierr "github.com/rtvox/rtvox-billing/internal/errors"
	"github.com/samber/lo"
)

// ProductIDProfessional is the product id of the paid membership plan.
const ProductIDProfessional = "professional"

// ProductIDPointsPrefix prefixes one-time credit pack product ids,
// e.g. "points:starter".
const ProductIDPointsPrefix = "points:"

// IsPointsProductID reports whether a product id names a one-time credit pack.
func IsPointsProductID(productID string) bool {
	return strings.HasPrefix(productID, ProductIDPointsPrefix)
}

// PlanPeriod is the billing period of a membership plan.
type PlanPeriod string

const (
	PlanPeriodMonthly PlanPeriod = "monthly"
	PlanPeriodYearly  PlanPeriod = "yearly"
)

func (p PlanPeriod) Validate() error {
	allowed := []PlanPeriod{PlanPeriodMonthly, PlanPeriodYearly}
	if !lo.Contains(allowed, p) {
		return ierr.NewErrorf("invalid plan period: %s", p).
			WithHint("Plan period must be monthly or yearly").
			WithReportableDetails(map[string]interface{}{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ProductType distinguishes recurring memberships from one-time purchases.
type ProductType string

const (
	ProductTypeSubscription ProductType = "subscription"
	ProductTypeOneTime      ProductType = "one_time"
)

// OrderStatus is the lifecycle state of an order as synced from the
// payment provider.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusPaid     OrderStatus = "paid"
	OrderStatusFailed   OrderStatus = "failed"
	OrderStatusRefunded OrderStatus = "refunded"
)

// RefundKind identifies which proration rule produced a refund estimate.
type RefundKind string

const (
	RefundKindMembershipMonthly RefundKind = "membership_monthly"
	RefundKindMembershipYearly  RefundKind = "membership_yearly"
	RefundKindPoints            RefundKind = "points"
)

// MembershipStatusReason explains a membership status verdict.
type MembershipStatusReason string

const (
	MembershipReasonPaid               MembershipStatusReason = "paid"
	MembershipReasonUnpaid             MembershipStatusReason = "unpaid"
	MembershipReasonExpired            MembershipStatusReason = "expired"
	MembershipReasonDBDisabled         MembershipStatusReason = "db_disabled"
	MembershipReasonOrdersTableMissing MembershipStatusReason = "orders_table_missing"
	MembershipReasonError              MembershipStatusReason = "error"
)

// ProviderSubscriptionStatus is the subscription status as reported by the
// payment provider.
type ProviderSubscriptionStatus string

const (
	ProviderSubscriptionStatusActive   ProviderSubscriptionStatus = "active"
	ProviderSubscriptionStatusTrialing ProviderSubscriptionStatus = "trialing"
	ProviderSubscriptionStatusCanceled ProviderSubscriptionStatus = "canceled"
	ProviderSubscriptionStatusPastDue  ProviderSubscriptionStatus = "past_due"
	ProviderSubscriptionStatusUnpaid   ProviderSubscriptionStatus = "unpaid"
)

// IsReconcilable reports whether a provider status is trusted to extend a
// locally expired membership window, provided the reported period end is
// still in the future. Canceled is included: a subscription canceled at
// period end stays usable until the period actually ends.
func (s ProviderSubscriptionStatus) IsReconcilable() bool {
	return lo.Contains([]ProviderSubscriptionStatus{
		ProviderSubscriptionStatusActive,
		ProviderSubscriptionStatusTrialing,
		ProviderSubscriptionStatusCanceled,
	}, s)
}
