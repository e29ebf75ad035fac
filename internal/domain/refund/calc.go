package refund

import (
	"time"

	"github.com/rtvox/rtvox-billing/internal/types"
	"github.com/shopspring/decimal"
)

// maxQuantity bounds every token/credit quantity before use, defending
// against corrupted balances.
const maxQuantity int64 = 2_000_000_000

// Estimate is the refund breakdown for one order. Invariant:
// 0 <= NetRefundCents <= RefundableAmountCents <= OriginalAmountCents and
// FeeCents = RefundableAmountCents - NetRefundCents.
type Estimate struct {
	Kind                  types.RefundKind `json:"kind"`
	Currency              string           `json:"currency"`
	OriginalAmountCents   int64            `json:"original_amount_cents"`
	RefundableAmountCents int64            `json:"refundable_amount_cents"`
	FeeCents              int64            `json:"fee_cents"`
	NetRefundCents        int64            `json:"net_refund_cents"`
	Details               EstimateDetails  `json:"details"`
}

// EstimateDetails carries kind-specific diagnostics. Informational only;
// nothing downstream computes from these.
type EstimateDetails struct {
	FeeRate       float64 `json:"fee_rate"`
	FeeFixedCents int64   `json:"fee_fixed_cents,omitempty"`

	// Token-based membership valuation.
	TokensPurchased     int64  `json:"tokens_purchased,omitempty"`
	UserAvailableTokens int64  `json:"user_available_tokens,omitempty"`
	NonRefundableTokens int64  `json:"non_refundable_tokens,omitempty"`
	RefundableTokens    int64  `json:"refundable_tokens,omitempty"`
	CentsPerToken       string `json:"cents_per_token,omitempty"`

	// Credit pack valuation.
	CreditsPurchased     int64  `json:"credits_purchased,omitempty"`
	UserAvailableCredits int64  `json:"user_available_credits,omitempty"`
	RefundableCredits    int64  `json:"refundable_credits,omitempty"`
	CentsPerCredit       string `json:"cents_per_credit,omitempty"`

	// Legacy day-prorated monthly valuation.
	UsedDays      int `json:"used_days,omitempty"`
	RemainingDays int `json:"remaining_days,omitempty"`
	CycleDays     int `json:"cycle_days,omitempty"`

	// Legacy month-prorated yearly valuation.
	UsedMonths      int   `json:"used_months,omitempty"`
	RemainingMonths int   `json:"remaining_months,omitempty"`
	CycleMonths     int   `json:"cycle_months,omitempty"`
	MidpointApplied bool  `json:"midpoint_applied,omitempty"`
	ListAmountCents int64 `json:"list_amount_cents,omitempty"`
	UsedValueCents  int64 `json:"used_value_cents,omitempty"`
}

// MembershipTokensParams are the inputs for the token-based membership
// estimator, used for both monthly and yearly plans.
type MembershipTokensParams struct {
	Kind     types.RefundKind
	Amount   decimal.Decimal
	Currency string
	// TokensPurchased is the grant of this order (grant table or metadata
	// override).
	TokensPurchased int64
	// UserAvailableTokens is the user's current entitlement balance, which
	// may include other orders' grants.
	UserAvailableTokens int64
	Now                 time.Time
	Policy              PolicyConfig
}

// EstimateMembershipTokensRefund values a membership refund by unused
// entitlement tokens remaining, not elapsed calendar time. This is the
// valuation wired into the live refund routes; the calendar-based
// estimators below are the legacy valuation kept for external callers.
func EstimateMembershipTokensRefund(p MembershipTokensParams) Estimate {
	cfg := p.Policy.Sanitize()
	originalCents := amountToCents(p.Amount)

	tokensPurchased := clampQuantity(p.TokensPurchased)
	available := clampQuantity(p.UserAvailableTokens)
	floor := clampQuantity(cfg.NonRefundableBaseTokens)

	// The free-tier floor is never refunded, and a single order can never
	// refund more tokens than it granted.
	nonRefundable := minInt64(available, floor)
	refundableTotal := available - nonRefundable
	refundableTokens := minInt64(refundableTotal, tokensPurchased)

	centsPerToken := decimal.Zero
	if tokensPurchased > 0 {
		centsPerToken = decimal.NewFromInt(originalCents).
			Div(decimal.NewFromInt(tokensPurchased))
	}

	refundableCents := clampCents(
		decimal.NewFromInt(refundableTokens).Mul(centsPerToken).Round(0).IntPart(),
		originalCents,
	)
	feeCents, netCents := applyFee(refundableCents, cfg)

	return Estimate{
		Kind:                  p.Kind,
		Currency:              p.Currency,
		OriginalAmountCents:   originalCents,
		RefundableAmountCents: refundableCents,
		FeeCents:              feeCents,
		NetRefundCents:        netCents,
		Details: EstimateDetails{
			FeeRate:             cfg.FeeRate,
			FeeFixedCents:       cfg.FeeFixedCents,
			TokensPurchased:     tokensPurchased,
			UserAvailableTokens: available,
			NonRefundableTokens: nonRefundable,
			RefundableTokens:    refundableTokens,
			CentsPerToken:       centsPerToken.String(),
		},
	}
}

// MembershipMonthlyParams are the inputs for the legacy day-prorated
// monthly estimator.
type MembershipMonthlyParams struct {
	Amount   decimal.Decimal
	Currency string
	PaidAt   time.Time
	Now      time.Time
	Policy   PolicyConfig
}

// EstimateMembershipMonthlyRefund prorates a monthly membership by unused
// days of the billing cycle.
func EstimateMembershipMonthlyRefund(p MembershipMonthlyParams) Estimate {
	cfg := p.Policy.Sanitize()
	originalCents := amountToCents(p.Amount)

	cycleDays := cfg.MonthlyCycleDays
	usedDays := clampInt(daysBetween(p.PaidAt, p.Now), 0, cycleDays)
	remainingDays := cycleDays - usedDays

	refundableCents := clampCents(
		decimal.NewFromInt(originalCents).
			Mul(decimal.NewFromInt(int64(remainingDays))).
			Div(decimal.NewFromInt(int64(cycleDays))).
			Round(0).IntPart(),
		originalCents,
	)
	feeCents, netCents := applyFee(refundableCents, cfg)

	return Estimate{
		Kind:                  types.RefundKindMembershipMonthly,
		Currency:              p.Currency,
		OriginalAmountCents:   originalCents,
		RefundableAmountCents: refundableCents,
		FeeCents:              feeCents,
		NetRefundCents:        netCents,
		Details: EstimateDetails{
			FeeRate:       cfg.FeeRate,
			FeeFixedCents: cfg.FeeFixedCents,
			UsedDays:      usedDays,
			RemainingDays: remainingDays,
			CycleDays:     cycleDays,
		},
	}
}

// MembershipYearlyParams are the inputs for the legacy month-prorated
// yearly estimator.
type MembershipYearlyParams struct {
	// Amount is the price actually paid.
	Amount decimal.Decimal
	// AmountList is the undiscounted list price. When positive, used months
	// are valued against it so cancelling a discounted plan forfeits the
	// discount for the consumed months. Zero means no list price.
	AmountList decimal.Decimal
	Currency   string
	PaidAt     time.Time
	Now        time.Time
	Policy     PolicyConfig
}

// EstimateMembershipYearlyRefund prorates a yearly membership by whole
// calendar months used. The current, incomplete month counts as used once
// now passes the temporal midpoint of its cycle month.
func EstimateMembershipYearlyRefund(p MembershipYearlyParams) Estimate {
	cfg := p.Policy.Sanitize()
	paidCents := amountToCents(p.Amount)
	listCents := amountToCents(p.AmountList)

	cycleMonths := cfg.YearlyCycleMonths
	wholeMonths := wholeMonthsBetween(p.PaidAt, p.Now)

	midpointApplied := false
	if wholeMonths < cycleMonths && pastMonthMidpoint(p.PaidAt, p.Now, wholeMonths) {
		midpointApplied = true
	}

	usedMonths := clampInt(wholeMonths+boolToInt(midpointApplied), 0, cycleMonths)
	remainingMonths := cycleMonths - usedMonths

	var refundableCents int64
	var usedValueCents int64
	if listCents > 0 {
		// Value the consumed months at list price; the refund is whatever
		// of the paid amount that leaves.
		usedValueCents = decimal.NewFromInt(listCents).
			Mul(decimal.NewFromInt(int64(usedMonths))).
			Div(decimal.NewFromInt(int64(cycleMonths))).
			Round(0).IntPart()
		refundableCents = clampCents(paidCents-usedValueCents, paidCents)
	} else {
		refundableCents = clampCents(
			decimal.NewFromInt(paidCents).
				Mul(decimal.NewFromInt(int64(remainingMonths))).
				Div(decimal.NewFromInt(int64(cycleMonths))).
				Round(0).IntPart(),
			paidCents,
		)
	}
	feeCents, netCents := applyFee(refundableCents, cfg)

	return Estimate{
		Kind:                  types.RefundKindMembershipYearly,
		Currency:              p.Currency,
		OriginalAmountCents:   paidCents,
		RefundableAmountCents: refundableCents,
		FeeCents:              feeCents,
		NetRefundCents:        netCents,
		Details: EstimateDetails{
			FeeRate:         cfg.FeeRate,
			FeeFixedCents:   cfg.FeeFixedCents,
			UsedMonths:      usedMonths,
			RemainingMonths: remainingMonths,
			CycleMonths:     cycleMonths,
			MidpointApplied: midpointApplied,
			ListAmountCents: listCents,
			UsedValueCents:  usedValueCents,
		},
	}
}

// PointsParams are the inputs for the one-time credit pack estimator.
type PointsParams struct {
	Amount   decimal.Decimal
	Currency string
	// CreditsPurchased is the credit count of this order.
	CreditsPurchased int64
	// UserAvailableCredits is the user's current credit balance.
	UserAvailableCredits int64
	Policy               PolicyConfig
}

// EstimatePointsRefund values a credit pack refund by unused credits
// remaining, structurally identical to the token-based membership
// valuation.
func EstimatePointsRefund(p PointsParams) Estimate {
	cfg := p.Policy.Sanitize()
	originalCents := amountToCents(p.Amount)

	purchased := clampQuantity(p.CreditsPurchased)
	available := clampQuantity(p.UserAvailableCredits)
	floor := clampQuantity(cfg.NonRefundableBaseTokens)

	nonRefundable := minInt64(available, floor)
	refundableCredits := minInt64(available-nonRefundable, purchased)

	centsPerCredit := decimal.Zero
	if purchased > 0 {
		centsPerCredit = decimal.NewFromInt(originalCents).
			Div(decimal.NewFromInt(purchased))
	}

	refundableCents := clampCents(
		decimal.NewFromInt(refundableCredits).Mul(centsPerCredit).Round(0).IntPart(),
		originalCents,
	)
	feeCents, netCents := applyFee(refundableCents, cfg)

	return Estimate{
		Kind:                  types.RefundKindPoints,
		Currency:              p.Currency,
		OriginalAmountCents:   originalCents,
		RefundableAmountCents: refundableCents,
		FeeCents:              feeCents,
		NetRefundCents:        netCents,
		Details: EstimateDetails{
			FeeRate:              cfg.FeeRate,
			FeeFixedCents:        cfg.FeeFixedCents,
			CreditsPurchased:     purchased,
			UserAvailableCredits: available,
			NonRefundableTokens:  nonRefundable,
			RefundableCredits:    refundableCredits,
			CentsPerCredit:       centsPerCredit.String(),
		},
	}
}

// ParseAmount parses a decimal amount string, normalizing malformed input
// to zero.
func ParseAmount(raw string) decimal.Decimal {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// amountToCents converts a major-unit amount to cents, rounding to the
// nearest cent. Negative amounts normalize to zero.
func amountToCents(amount decimal.Decimal) int64 {
	if amount.IsNegative() {
		return 0
	}
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// applyFee computes the retained fee and net refund. The fee is clamped so
// the net refund can never go negative.
func applyFee(refundableCents int64, cfg PolicyConfig) (feeCents, netCents int64) {
	feeCents = decimal.NewFromInt(refundableCents).
		Mul(decimal.NewFromFloat(cfg.FeeRate)).
		Round(0).IntPart() + cfg.FeeFixedCents
	if feeCents < 0 {
		feeCents = 0
	}
	if feeCents > refundableCents {
		feeCents = refundableCents
	}
	return feeCents, refundableCents - feeCents
}

// daysBetween is the number of whole days from a to b, negative-safe.
func daysBetween(a, b time.Time) int {
	if b.Before(a) {
		return 0
	}
	return int(b.Sub(a) / (24 * time.Hour))
}

// wholeMonthsBetween counts whole calendar months elapsed from paidAt to
// now: year/month difference, minus one when the anniversary day of the
// current month has not yet occurred.
func wholeMonthsBetween(paidAt, now time.Time) int {
	months := (now.Year()-paidAt.Year())*12 + int(now.Month()-paidAt.Month())
	if now.Day() < paidAt.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// pastMonthMidpoint reports whether now has passed the temporal midpoint of
// the current cycle month (paidAt + wholeMonths .. +1 month). This avoids
// charging a month to a cancellation made just after the anniversary while
// still charging for a month mostly consumed.
func pastMonthMidpoint(paidAt, now time.Time, wholeMonths int) bool {
	cycleStart := paidAt.AddDate(0, wholeMonths, 0)
	cycleEnd := cycleStart.AddDate(0, 1, 0)
	midpoint := cycleStart.Add(cycleEnd.Sub(cycleStart) / 2)
	return !now.Before(midpoint)
}

func clampQuantity(v int64) int64 {
	if v < 0 {
		return 0
	}
	if v > maxQuantity {
		return maxQuantity
	}
	return v
}

func clampCents(v, max int64) int64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
