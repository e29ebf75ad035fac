// Package stripe implements the payment-provider client over the Stripe
// SDK. All lookups are best effort from the resolver's point of view; this
// package only translates SDK results and errors.
package stripe

import (
	"context"
	"net/http"
	"time"

	stripesdk "github.com/stripe/stripe-go/v82"
	stripeclient "github.com/stripe/stripe-go/v82/client"

	"github.com/rtvox/rtvox-billing/internal/config"
	"github.com/rtvox/rtvox-billing/internal/domain/membership"
	ierr "github.com/rtvox/rtvox-billing/internal/errors"
	"github.com/rtvox/rtvox-billing/internal/logger"
	"github.com/rtvox/rtvox-billing/internal/types"
)

// Client wraps the Stripe SDK behind membership.ProviderClient.
type Client struct {
	api    *stripeclient.API
	logger *logger.Logger
}

// NewClient creates a Stripe client, or nil when no secret key is
// configured (reconciliation disabled).
func NewClient(cfg *config.Configuration, log *logger.Logger) membership.ProviderClient {
	if cfg.Stripe.SecretKey == "" {
		log.Infow("stripe secret key not configured, provider reconciliation disabled")
		return nil
	}

	api := &stripeclient.API{}
	api.Init(cfg.Stripe.SecretKey, stripesdk.NewBackends(&http.Client{
		Timeout: 30 * time.Second,
	}))

	return &Client{
		api:    api,
		logger: log,
	}
}

// RetrieveSubscription fetches a subscription's live status and period end.
func (c *Client) RetrieveSubscription(ctx context.Context, id string) (*membership.ProviderSubscription, error) {
	params := &stripesdk.SubscriptionParams{
		Params: stripesdk.Params{Context: ctx},
	}

	sub, err := c.api.Subscriptions.Get(id, params)
	if err != nil {
		c.logger.Warnw("failed to retrieve subscription from Stripe",
			"subscription_id", id,
			"error", err)
		return nil, ierr.WithError(err).
			WithHint("Unable to retrieve subscription from Stripe").
			WithReportableDetails(map[string]interface{}{
				"subscription_id": id,
			}).
			Mark(ierr.ErrHTTPClient)
	}

	result := &membership.ProviderSubscription{
		ID:               sub.ID,
		Status:           types.ProviderSubscriptionStatus(sub.Status),
		CurrentPeriodEnd: subscriptionPeriodEnd(sub),
	}

	c.logger.Debugw("retrieved subscription from Stripe",
		"subscription_id", sub.ID,
		"status", sub.Status,
		"current_period_end", result.CurrentPeriodEnd)

	return result, nil
}

// RetrieveCheckoutSession fetches a checkout session to learn the linked
// subscription id.
func (c *Client) RetrieveCheckoutSession(ctx context.Context, id string) (*membership.ProviderSession, error) {
	params := &stripesdk.CheckoutSessionParams{
		Params: stripesdk.Params{Context: ctx},
	}

	session, err := c.api.CheckoutSessions.Get(id, params)
	if err != nil {
		c.logger.Warnw("failed to retrieve checkout session from Stripe",
			"session_id", id,
			"error", err)
		return nil, ierr.WithError(err).
			WithHint("Unable to retrieve checkout session from Stripe").
			WithReportableDetails(map[string]interface{}{
				"session_id": id,
			}).
			Mark(ierr.ErrHTTPClient)
	}

	result := &membership.ProviderSession{ID: session.ID}
	if session.Subscription != nil {
		result.SubscriptionID = session.Subscription.ID
	}
	return result, nil
}

// subscriptionPeriodEnd extracts the subscription's period end. Since the
// 2025-03-31 API the period lives on subscription items; the latest item
// period end is the subscription's. Zero time means not reported.
func subscriptionPeriodEnd(sub *stripesdk.Subscription) time.Time {
	if sub.Items == nil {
		return time.Time{}
	}
	var latest int64
	for _, item := range sub.Items.Data {
		if item != nil && item.CurrentPeriodEnd > latest {
			latest = item.CurrentPeriodEnd
		}
	}
	if latest == 0 {
		return time.Time{}
	}
	return time.Unix(latest, 0).UTC()
}
