package refund

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicyConfigSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    PolicyConfig
		expected PolicyConfig
	}{
		{
			name:     "zero value falls back to defaults",
			input:    PolicyConfig{},
			expected: PolicyConfig{
				MonthlyCycleDays:        30,
				YearlyCycleMonths:       12,
				FeeRate:                 0,
				FeeFixedCents:           0,
				NonRefundableBaseTokens: 0,
			},
		},
		{
			name:     "defaults pass through unchanged",
			input:    DefaultPolicyConfig(),
			expected: DefaultPolicyConfig(),
		},
		{
			name: "negative knobs clamp to zero",
			input: PolicyConfig{
				MonthlyCycleDays:        -5,
				YearlyCycleMonths:       -1,
				FeeRate:                 -0.5,
				FeeFixedCents:           -100,
				NonRefundableBaseTokens: -500,
			},
			expected: PolicyConfig{
				MonthlyCycleDays:        30,
				YearlyCycleMonths:       12,
				FeeRate:                 0,
				FeeFixedCents:           0,
				NonRefundableBaseTokens: 0,
			},
		},
		{
			name: "fee rate above one clamps to one",
			input: PolicyConfig{
				MonthlyCycleDays:        30,
				YearlyCycleMonths:       12,
				FeeRate:                 1.5,
				NonRefundableBaseTokens: 500,
			},
			expected: PolicyConfig{
				MonthlyCycleDays:        30,
				YearlyCycleMonths:       12,
				FeeRate:                 1,
				NonRefundableBaseTokens: 500,
			},
		},
		{
			name: "NaN fee rate falls back to default",
			input: PolicyConfig{
				MonthlyCycleDays:  30,
				YearlyCycleMonths: 12,
				FeeRate:           math.NaN(),
			},
			expected: PolicyConfig{
				MonthlyCycleDays:  30,
				YearlyCycleMonths: 12,
				FeeRate:           0.05,
			},
		},
		{
			name: "infinite fee rate falls back to default",
			input: PolicyConfig{
				MonthlyCycleDays:  30,
				YearlyCycleMonths: 12,
				FeeRate:           math.Inf(1),
			},
			expected: PolicyConfig{
				MonthlyCycleDays:  30,
				YearlyCycleMonths: 12,
				FeeRate:           0.05,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.input.Sanitize())
		})
	}
}
