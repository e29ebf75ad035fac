// Package tokens is the single source of truth for how many entitlement
// tokens a membership purchase grants.
package tokens

import (
	"github.com/rtvox/rtvox-billing/internal/types"
	"github.com/shopspring/decimal"
)

// TokensPerMonth is the entitlement grant of one membership month.
const TokensPerMonth int64 = 200_000

// MembershipTokensForPeriod returns the fixed token grant for a plan
// period: 200,000 for monthly, 2,400,000 for yearly. The second return is
// false for any other input.
func MembershipTokensForPeriod(period types.PlanPeriod) (int64, bool) {
	switch period {
	case types.PlanPeriodMonthly:
		return TokensPerMonth, true
	case types.PlanPeriodYearly:
		return TokensPerMonth * 12, true
	default:
		return 0, false
	}
}

// ResolveMembershipTokens determines the grant for a membership order. A
// fulfillment override in order metadata takes precedence when it parses as
// a positive finite number; the grant table is consulted otherwise.
func ResolveMembershipTokens(metadata types.Metadata, period types.PlanPeriod) (int64, bool) {
	if raw, ok := metadata[types.MetadataKeyMembershipTokens]; ok {
		if override, err := decimal.NewFromString(raw); err == nil && override.IsPositive() {
			return override.IntPart(), true
		}
	}
	return MembershipTokensForPeriod(period)
}
