// Package membership resolves whether a user's paid membership is currently
// active, combining the locally stored paid-at + period window with a
// best-effort reconciliation against the payment provider.
package membership

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rtvox/rtvox-billing/internal/domain/order"
	ierr "github.com/rtvox/rtvox-billing/internal/errors"
	"github.com/rtvox/rtvox-billing/internal/logger"
	"github.com/rtvox/rtvox-billing/internal/types"
)

// Access windows: local order timestamps lag the provider by webhook sync,
// so each period gets a sync margin plus a shared grace period.
const (
	monthlyAccessWindow = 31 * 24 * time.Hour
	yearlyAccessWindow  = 366 * 24 * time.Hour
	accessGracePeriod   = 3 * 24 * time.Hour
)

// Status is the computed membership verdict, always "as of now".
type Status struct {
	IsPaid bool                         `json:"is_paid"`
	Reason types.MembershipStatusReason `json:"reason"`
	Period *types.PlanPeriod            `json:"period"`
}

// Resolver computes membership status from the order store and, when the
// local window has expired, the payment provider.
type Resolver struct {
	orders   order.Repository
	provider ProviderClient
	log      *logger.Logger
}

// NewResolver builds a Resolver. orders may be nil (no storage configured);
// provider may be nil (reconciliation disabled).
func NewResolver(orders order.Repository, provider ProviderClient, log *logger.Logger) *Resolver {
	return &Resolver{
		orders:   orders,
		provider: provider,
		log:      log,
	}
}

// Resolve computes the user's membership status at the given instant. It
// never returns an error; failures are encoded in the status reason.
func (r *Resolver) Resolve(ctx context.Context, userID string, now time.Time) Status {
	if r.orders == nil {
		return Status{Reason: types.MembershipReasonDBDisabled}
	}

	ord, err := r.orders.LatestPaidByUserAndProduct(ctx, userID, types.ProductIDProfessional)
	if err != nil {
		if errors.Is(err, order.ErrRelationMissing) {
			return Status{Reason: types.MembershipReasonOrdersTableMissing}
		}
		if ierr.IsNotFound(err) {
			return Status{Reason: types.MembershipReasonUnpaid}
		}
		r.log.Errorw("failed to load latest paid membership order",
			"user_id", userID,
			"error", err)
		return Status{Reason: types.MembershipReasonError}
	}
	if ord == nil {
		return Status{Reason: types.MembershipReasonUnpaid}
	}

	var period *types.PlanPeriod
	window := monthlyAccessWindow
	if p, ok := ord.PlanPeriod(); ok {
		period = &p
		if p == types.PlanPeriodYearly {
			window = yearlyAccessWindow
		}
	}
	window += accessGracePeriod

	if now.Sub(ord.EffectivePaidAt()) <= window {
		return Status{IsPaid: true, Reason: types.MembershipReasonPaid, Period: period}
	}

	// Local window expired. Escalate to provider truth when possible; the
	// local order sync may simply have missed a renewal webhook.
	sub, ok := r.reconcile(ctx, ord)
	if !ok {
		return Status{Reason: types.MembershipReasonExpired, Period: period}
	}

	if sub.Status.IsReconcilable() &&
		!sub.CurrentPeriodEnd.IsZero() && sub.CurrentPeriodEnd.After(now) {
		return Status{IsPaid: true, Reason: types.MembershipReasonPaid, Period: period}
	}
	return Status{Reason: types.MembershipReasonUnpaid, Period: period}
}

// reconcile fetches the live subscription for an order, backfilling the
// subscription id from the checkout session when metadata lacks it. Returns
// false when the provider cannot be consulted; the caller then keeps the
// local verdict.
func (r *Resolver) reconcile(ctx context.Context, ord *order.Order) (*ProviderSubscription, bool) {
	if r.provider == nil {
		return nil, false
	}

	subscriptionID := ord.SubscriptionID()
	if subscriptionID == "" && ord.SessionID != "" {
		session, err := r.provider.RetrieveCheckoutSession(ctx, ord.SessionID)
		if err != nil {
			r.log.Warnw("checkout session lookup failed, keeping local membership verdict",
				"order_id", ord.ID,
				"session_id", ord.SessionID,
				"error", err)
			return nil, false
		}
		subscriptionID = session.SubscriptionID
		if subscriptionID != "" {
			// Best effort: remember the discovered id for the next check.
			if err := r.orders.UpdateMetadata(ctx, ord.ID, map[string]string{
				types.MetadataKeySubscriptionID: subscriptionID,
			}); err != nil {
				r.log.Warnw("failed to backfill subscription id on order",
					"order_id", ord.ID,
					"subscription_id", subscriptionID,
					"error", err)
			}
		}
	}
	if subscriptionID == "" {
		return nil, false
	}

	sub, err := r.provider.RetrieveSubscription(ctx, subscriptionID)
	if err != nil {
		r.log.Warnw("subscription lookup failed, keeping local membership verdict",
			"order_id", ord.ID,
			"subscription_id", subscriptionID,
			"error", err)
		return nil, false
	}
	return sub, true
}
