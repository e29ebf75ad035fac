package order

import (
	"context"

	"github.com/cockroachdb/errors"
)

// ErrRelationMissing marks storage errors caused by the orders relation not
// existing yet (tenant not provisioned). Callers distinguish this from a
// plain not-found so the product can surface "not provisioned" instead of
// "not a member".
var ErrRelationMissing = errors.New("orders relation missing")

// Repository is the storage contract for orders.
type Repository interface {
	// GetByID returns the order with the given id.
	GetByID(ctx context.Context, id string) (*Order, error)

	// LatestPaidByUserAndProduct returns the user's most recent paid order
	// for a product, ordered by COALESCE(paid_at, created_at) descending.
	// Returns a not-found error when the user has none.
	LatestPaidByUserAndProduct(ctx context.Context, userID, productID string) (*Order, error)

	// UpdateMetadata merges the given entries into the order's metadata.
	UpdateMetadata(ctx context.Context, id string, metadata map[string]string) error

	// MarkRefundRequested atomically sets the refund-requested flag together
	// with the given metadata entries, only if the flag is not already set.
	// Returns whether this call performed the set.
	MarkRefundRequested(ctx context.Context, id string, metadata map[string]string) (bool, error)
}
