package types

import (
	"database/sql/driver"
	"encoding/json"

	ierr "github.com/rtvox/rtvox-billing/internal/errors"
)

// Metadata is the open key-value map carried on orders. Keys mirror the
// fields written by the web app's payment webhook sync.
type Metadata map[string]string

// Metadata keys consumed by the billing core.
const (
	MetadataKeyPlanPeriod       = "plan_period"
	MetadataKeyCredits          = "credits"
	MetadataKeyMembershipTokens = "fulfillment.membership_tokens.tokens"
	MetadataKeySubscriptionID   = "subscription_id"

	MetadataKeyRefundRequested   = "refund_requested"
	MetadataKeyRefundRequestedAt = "refund_requested_at"
	MetadataKeyRefundNetCents    = "refund_net_cents"
)

// Merge returns a copy of m with the entries of other applied on top.
func (m Metadata) Merge(other Metadata) Metadata {
	merged := make(Metadata, len(m)+len(other))
	for k, v := range m {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// Value implements driver.Valuer so Metadata persists as a JSONB column.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for reading the JSONB column back.
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return ierr.NewErrorf("unsupported metadata column type %T", value).
			Mark(ierr.ErrDatabase)
	}

	if len(raw) == 0 {
		*m = Metadata{}
		return nil
	}
	return json.Unmarshal(raw, m)
}
