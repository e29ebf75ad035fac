package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rtvox/rtvox-billing/internal/types"
)

func TestMembershipTokensForPeriod(t *testing.T) {
	tests := []struct {
		name     string
		period   types.PlanPeriod
		expected int64
		ok       bool
	}{
		{name: "monthly", period: types.PlanPeriodMonthly, expected: 200_000, ok: true},
		{name: "yearly", period: types.PlanPeriodYearly, expected: 2_400_000, ok: true},
		{name: "empty", period: "", expected: 0, ok: false},
		{name: "unknown", period: "weekly", expected: 0, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grant, ok := MembershipTokensForPeriod(tt.period)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, grant)
		})
	}
}

func TestResolveMembershipTokens(t *testing.T) {
	t.Run("grant table when no override", func(t *testing.T) {
		grant, ok := ResolveMembershipTokens(types.Metadata{}, types.PlanPeriodYearly)
		assert.True(t, ok)
		assert.Equal(t, int64(2_400_000), grant)
	})

	t.Run("positive override takes precedence", func(t *testing.T) {
		grant, ok := ResolveMembershipTokens(types.Metadata{
			types.MetadataKeyMembershipTokens: "300000",
		}, types.PlanPeriodMonthly)
		assert.True(t, ok)
		assert.Equal(t, int64(300_000), grant)
	})

	t.Run("fractional override truncates", func(t *testing.T) {
		grant, ok := ResolveMembershipTokens(types.Metadata{
			types.MetadataKeyMembershipTokens: "1500.75",
		}, types.PlanPeriodMonthly)
		assert.True(t, ok)
		assert.Equal(t, int64(1500), grant)
	})

	t.Run("malformed override falls back to the grant table", func(t *testing.T) {
		grant, ok := ResolveMembershipTokens(types.Metadata{
			types.MetadataKeyMembershipTokens: "lots",
		}, types.PlanPeriodMonthly)
		assert.True(t, ok)
		assert.Equal(t, int64(200_000), grant)
	})

	t.Run("non-positive override falls back to the grant table", func(t *testing.T) {
		for _, raw := range []string{"0", "-5"} {
			grant, ok := ResolveMembershipTokens(types.Metadata{
				types.MetadataKeyMembershipTokens: raw,
			}, types.PlanPeriodYearly)
			assert.True(t, ok)
			assert.Equal(t, int64(2_400_000), grant)
		}
	})

	t.Run("override without a recognized period still resolves", func(t *testing.T) {
		grant, ok := ResolveMembershipTokens(types.Metadata{
			types.MetadataKeyMembershipTokens: "42000",
		}, "")
		assert.True(t, ok)
		assert.Equal(t, int64(42_000), grant)
	})

	t.Run("no override and no recognized period fails", func(t *testing.T) {
		_, ok := ResolveMembershipTokens(types.Metadata{}, "")
		assert.False(t, ok)
	})
}
