package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextTier(t *testing.T) {
	tests := []struct {
		name       string
		current    Tier
		percentile float64
		finalWeek  bool
		want       Tier
	}{
		{"bronze promotes at 0.70", TierBronze, 0.70, false, TierSilver},
		{"bronze holds above 0.70", TierBronze, 0.71, false, TierBronze},
		{"bronze holds at the bottom", TierBronze, 1.0, false, TierBronze},
		{"silver promotes at 0.40", TierSilver, 0.40, false, TierGold},
		{"silver holds just above 0.40", TierSilver, 0.4000001, false, TierSilver},
		{"silver holds at 0.80", TierSilver, 0.80, false, TierSilver},
		{"silver demotes above 0.80", TierSilver, 0.81, false, TierBronze},
		{"gold promotes at 0.30", TierGold, 0.30, false, TierPlatinum},
		{"gold holds above 0.30", TierGold, 0.31, false, TierGold},
		{"gold demotes above 0.80", TierGold, 0.9, false, TierSilver},
		{"platinum promotes at 0.30", TierPlatinum, 0.30, false, TierDiamond},
		{"platinum holds at 0.80", TierPlatinum, 0.80, false, TierPlatinum},
		{"platinum demotes above 0.80", TierPlatinum, 0.85, false, TierGold},
		{"diamond holds outside final week", TierDiamond, 0.05, false, TierDiamond},
		{"diamond promotes in final week", TierDiamond, 0.05, true, TierMaster},
		{"diamond promotes at 0.10 in final week", TierDiamond, 0.10, true, TierMaster},
		{"diamond holds above 0.10 in final week", TierDiamond, 0.11, true, TierDiamond},
		{"diamond demotes above 0.80", TierDiamond, 0.81, true, TierPlatinum},
		{"master holds at top", TierMaster, 0.0, true, TierMaster},
		{"master holds at 0.80", TierMaster, 0.80, false, TierMaster},
		{"master demotes above 0.80", TierMaster, 0.81, false, TierDiamond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextTier(tt.current, tt.percentile, tt.finalWeek))
		})
	}
}

func TestNextTierBronzeNeverDemotes(t *testing.T) {
	for i := 0; i <= 100; i++ {
		p := float64(i) / 100
		for _, final := range []bool{false, true} {
			assert.GreaterOrEqual(t, NextTier(TierBronze, p, final), TierBronze)
		}
	}
}

func TestNextTierMonotonicInPercentile(t *testing.T) {
	for _, tier := range []Tier{TierSilver, TierGold, TierPlatinum, TierDiamond} {
		for _, final := range []bool{false, true} {
			prev := NextTier(tier, 0, final)
			for i := 1; i <= 1000; i++ {
				next := NextTier(tier, float64(i)/1000, final)
				require.LessOrEqualf(t, next, prev, "tier %s final=%v p=%.3f", tier, final, float64(i)/1000)
				prev = next
			}
		}
	}
}

func TestMasterOnlyReachableFromDiamondInFinalWeek(t *testing.T) {
	for _, tier := range AllTiers() {
		for i := 0; i <= 100; i++ {
			p := float64(i) / 100
			if NextTier(tier, p, false) == TierMaster {
				assert.Equal(t, TierMaster, tier, "only master holds master outside the final week")
			}
			if tier != TierDiamond && tier != TierMaster {
				assert.NotEqual(t, TierMaster, NextTier(tier, p, true))
			}
		}
	}
}

func TestEveryTierHasSelfLoop(t *testing.T) {
	for _, tier := range AllTiers() {
		assert.Equal(t, tier, NextTier(tier, 0.75, false), tier.String())
	}
}

func TestPromotionReward(t *testing.T) {
	assert.Equal(t, 0, PromotionReward(TierBronze))
	assert.Equal(t, 10, PromotionReward(TierSilver))
	assert.Equal(t, 100, PromotionReward(TierMaster))
}

func TestPercentile(t *testing.T) {
	scores := []int{100, 90, 80, 70, 60, 50, 40, 30, 20, 10}
	assert.Equal(t, 0.0, Percentile(100, scores))
	assert.Equal(t, 0.2, Percentile(80, scores))
	assert.Equal(t, 0.9, Percentile(10, scores))

	tied := []int{50, 50, 10}
	assert.Equal(t, 0.0, Percentile(50, tied))
	assert.InDelta(t, 2.0/3.0, Percentile(10, tied), 1e-9)
}

func TestParseTier(t *testing.T) {
	tier, err := ParseTier("platinum")
	require.NoError(t, err)
	assert.Equal(t, TierPlatinum, tier)

	_, err = ParseTier("iron")
	assert.Error(t, err)
}

func TestRewardCurve(t *testing.T) {
	curve := DefaultRewardTable().Weekly
	assert.Equal(t, 0, curve.Diamonds(59))
	assert.Equal(t, 1, curve.Diamonds(60))
	assert.Equal(t, 5, curve.Diamonds(1199))
	assert.Equal(t, 20, curve.Diamonds(10000))
}
