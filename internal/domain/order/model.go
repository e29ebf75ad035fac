// Package order holds the order model and storage contract. Orders are
// written by the web app's payment webhook sync; this service reads them and
// updates metadata only.
package order

import (
	"time"

	"github.com/rtvox/rtvox-billing/internal/types"
	"github.com/shopspring/decimal"
)

// Order is a purchase record synced from the payment provider.
type Order struct {
	ID          string            `json:"id" gorm:"primaryKey"`
	UserID      string            `json:"user_id" gorm:"index"`
	ProductID   string            `json:"product_id"`
	ProductType types.ProductType `json:"product_type"`
	// Amount is the price paid in major currency units, e.g. 58.00.
	Amount   decimal.Decimal   `json:"amount" gorm:"type:numeric(20,8)"`
	Currency string            `json:"currency"`
	Status   types.OrderStatus `json:"status"`
	// SessionID is the provider checkout-session id the order was paid
	// through; used to backfill the subscription id when metadata lacks it.
	SessionID string         `json:"session_id"`
	PaidAt    *time.Time     `json:"paid_at"`
	Metadata  types.Metadata `json:"metadata" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName implements gorm's table naming.
func (Order) TableName() string {
	return "orders"
}

// EffectivePaidAt is the purchase instant: paid_at when present, created_at
// otherwise.
func (o *Order) EffectivePaidAt() time.Time {
	if o.PaidAt != nil && !o.PaidAt.IsZero() {
		return *o.PaidAt
	}
	return o.CreatedAt
}

// IsMembership reports whether the order is a membership purchase.
func (o *Order) IsMembership() bool {
	return o.ProductID == types.ProductIDProfessional
}

// IsPoints reports whether the order is a one-time credit pack purchase.
func (o *Order) IsPoints() bool {
	return types.IsPointsProductID(o.ProductID)
}

// PlanPeriod reads the membership plan period from metadata. The second
// return is false when the period is absent or not a recognized value.
func (o *Order) PlanPeriod() (types.PlanPeriod, bool) {
	period := types.PlanPeriod(o.Metadata[types.MetadataKeyPlanPeriod])
	if period.Validate() != nil {
		return "", false
	}
	return period, true
}

// Credits reads the purchased credit count from metadata for points orders.
// Returns false for absent, malformed, or non-positive values.
func (o *Order) Credits() (int64, bool) {
	raw, ok := o.Metadata[types.MetadataKeyCredits]
	if !ok {
		return 0, false
	}
	credits, err := decimal.NewFromString(raw)
	if err != nil || !credits.IsPositive() {
		return 0, false
	}
	return credits.IntPart(), true
}

// SubscriptionID reads the provider subscription id from metadata, empty
// when unknown.
func (o *Order) SubscriptionID() string {
	return o.Metadata[types.MetadataKeySubscriptionID]
}

// RefundRequested reports whether a refund has already been requested for
// this order.
func (o *Order) RefundRequested() bool {
	return o.Metadata[types.MetadataKeyRefundRequested] == "true"
}
