package domain

import (
	"fmt"
	"strings"
)

// Tier is an ordered competitive rank. The zero value is not a tier.
type Tier int

const (
	TierBronze Tier = iota + 1
	TierSilver
	TierGold
	TierPlatinum
	TierDiamond
	TierMaster
)

var tierNames = map[Tier]string{
	TierBronze:   "BRONZE",
	TierSilver:   "SILVER",
	TierGold:     "GOLD",
	TierPlatinum: "PLATINUM",
	TierDiamond:  "DIAMOND",
	TierMaster:   "MASTER",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

func (t Tier) Valid() bool {
	_, ok := tierNames[t]
	return ok
}

// AllTiers returns the tiers from lowest to highest.
func AllTiers() []Tier {
	return []Tier{TierBronze, TierSilver, TierGold, TierPlatinum, TierDiamond, TierMaster}
}

func ParseTier(s string) (Tier, error) {
	for t, name := range tierNames {
		if strings.EqualFold(name, s) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown tier %q", s)
}

type promotion struct {
	maxPercentile    float64
	to               Tier
	requireFinalWeek bool
}

// transition is one row of the weekly tier table. A percentile at or below
// holdMax keeps the tier; above it the member drops to demoteTo, unless the
// tier has no demotion edge.
type transition struct {
	promote  *promotion
	holdMax  float64
	demoteTo Tier
}

var transitions = map[Tier]transition{
	TierBronze: {
		promote: &promotion{maxPercentile: 0.70, to: TierSilver},
		holdMax: 1.0,
	},
	TierSilver: {
		promote:  &promotion{maxPercentile: 0.40, to: TierGold},
		holdMax:  0.80,
		demoteTo: TierBronze,
	},
	TierGold: {
		promote:  &promotion{maxPercentile: 0.30, to: TierPlatinum},
		holdMax:  0.80,
		demoteTo: TierSilver,
	},
	TierPlatinum: {
		promote:  &promotion{maxPercentile: 0.30, to: TierDiamond},
		holdMax:  0.80,
		demoteTo: TierGold,
	},
	TierDiamond: {
		promote:  &promotion{maxPercentile: 0.10, to: TierMaster, requireFinalWeek: true},
		holdMax:  0.80,
		demoteTo: TierPlatinum,
	},
	TierMaster: {
		holdMax:  0.80,
		demoteTo: TierDiamond,
	},
}

// NextTier maps a member's league percentile (0 = best, 1 = worst) to the tier
// they hold next week. Unknown tiers are returned unchanged.
func NextTier(current Tier, percentile float64, isFinalWeek bool) Tier {
	rule, ok := transitions[current]
	if !ok {
		return current
	}

	if p := rule.promote; p != nil && percentile <= p.maxPercentile && (!p.requireFinalWeek || isFinalWeek) {
		return p.to
	}

	if percentile <= rule.holdMax || rule.demoteTo == 0 {
		return current
	}

	return rule.demoteTo
}

// Outcome describes the result of a tier transition.
type Outcome int

const (
	OutcomeHold Outcome = iota
	OutcomePromoted
	OutcomeDemoted
)

func (o Outcome) String() string {
	switch o {
	case OutcomePromoted:
		return "promoted"
	case OutcomeDemoted:
		return "demoted"
	default:
		return "held"
	}
}

func CompareTiers(from, to Tier) Outcome {
	switch {
	case to > from:
		return OutcomePromoted
	case to < from:
		return OutcomeDemoted
	default:
		return OutcomeHold
	}
}

var promotionRewards = map[Tier]int{
	TierSilver:   10,
	TierGold:     20,
	TierPlatinum: 30,
	TierDiamond:  50,
	TierMaster:   100,
}

// PromotionReward is the diamond reward for reaching tier by promotion.
func PromotionReward(to Tier) int {
	return promotionRewards[to]
}

// Percentile returns the share of members that scored strictly higher than
// score. Tied members share the best position.
func Percentile(score int, scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	above := 0
	for _, s := range scores {
		if s > score {
			above++
		}
	}
	return float64(above) / float64(len(scores))
}
