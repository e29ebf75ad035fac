// Package refund implements the refund estimation engine: pure functions
// computing a refund breakdown for memberships and credit packs. Estimators
// never return errors; malformed numeric input normalizes to a zero result.
package refund

import "math"

// PolicyConfig carries the tunable refund policy constants. Build one from
// configuration and pass it through Sanitize before use.
type PolicyConfig struct {
	// MonthlyCycleDays is the billing cycle length used by the legacy
	// day-prorated monthly valuation.
	MonthlyCycleDays int
	// YearlyCycleMonths is the cycle length used by the legacy
	// month-prorated yearly valuation.
	YearlyCycleMonths int
	// FeeRate is the fraction of the refundable amount retained as a fee.
	FeeRate float64
	// FeeFixedCents is a flat fee added on top of the rate fee.
	FeeFixedCents int64
	// NonRefundableBaseTokens is the free-tier floor of entitlement tokens
	// that is never refunded.
	NonRefundableBaseTokens int64
}

// DefaultPolicyConfig returns the documented policy defaults.
func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		MonthlyCycleDays:        30,
		YearlyCycleMonths:       12,
		FeeRate:                 0.05,
		FeeFixedCents:           0,
		NonRefundableBaseTokens: 500,
	}
}

// Sanitize clamps every knob to its valid domain. Absent (zero) or
// non-finite values fall back to the defaults; out-of-range finite values
// clamp to the nearest bound. Never errors.
func (c PolicyConfig) Sanitize() PolicyConfig {
	defaults := DefaultPolicyConfig()

	if c.MonthlyCycleDays < 1 {
		c.MonthlyCycleDays = defaults.MonthlyCycleDays
	}
	if c.YearlyCycleMonths < 1 {
		c.YearlyCycleMonths = defaults.YearlyCycleMonths
	}

	if math.IsNaN(c.FeeRate) || math.IsInf(c.FeeRate, 0) {
		c.FeeRate = defaults.FeeRate
	}
	if c.FeeRate < 0 {
		c.FeeRate = 0
	}
	if c.FeeRate > 1 {
		c.FeeRate = 1
	}

	if c.FeeFixedCents < 0 {
		c.FeeFixedCents = 0
	}
	if c.NonRefundableBaseTokens < 0 {
		c.NonRefundableBaseTokens = 0
	}
	return c
}
