package membership

import (
	"context"
	"time"

	"github.com/rtvox/rtvox-billing/internal/types"
)

// ProviderSubscription is the provider's live view of a subscription.
type ProviderSubscription struct {
	ID     string
	Status types.ProviderSubscriptionStatus
	// CurrentPeriodEnd is the end of the currently paid period. Zero means
	// the provider did not report one.
	CurrentPeriodEnd time.Time
}

// ProviderSession is the provider's view of a checkout session, used to
// backfill the subscription id for orders synced before the subscription
// was known.
type ProviderSession struct {
	ID             string
	SubscriptionID string
}

// ProviderClient is the payment-provider capability the resolver needs.
// Both lookups are best effort; the resolver treats any error as "provider
// unavailable" and falls back to the local time window.
type ProviderClient interface {
	RetrieveSubscription(ctx context.Context, id string) (*ProviderSubscription, error)
	RetrieveCheckoutSession(ctx context.Context, id string) (*ProviderSession, error)
}
