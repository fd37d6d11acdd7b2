package domain

import (
	"cmp"
	"fmt"
	"slices"
)

type RewardStep struct {
	MinMinutes int `yaml:"min_minutes"`
	Diamonds   int `yaml:"diamonds"`
}

// RewardCurve is a step function from weekly minutes to diamonds.
type RewardCurve []RewardStep

// Diamonds returns the reward of the highest step reached by minutes.
func (c RewardCurve) Diamonds(minutes int) int {
	reward := 0
	for _, step := range c {
		if minutes >= step.MinMinutes && step.Diamonds > reward {
			reward = step.Diamonds
		}
	}
	return reward
}

func (c RewardCurve) Validate() error {
	for i, step := range c {
		if step.MinMinutes < 0 || step.Diamonds < 0 {
			return fmt.Errorf("reward step %d: negative value", i)
		}
	}
	return nil
}

type RewardTable struct {
	Weekly      RewardCurve    `yaml:"weekly"`
	Guild       RewardCurve    `yaml:"guild"`
	SeasonClose map[string]int `yaml:"season_close"`
}

func DefaultRewardTable() RewardTable {
	return RewardTable{
		Weekly: RewardCurve{
			{MinMinutes: 60, Diamonds: 1},
			{MinMinutes: 300, Diamonds: 3},
			{MinMinutes: 600, Diamonds: 5},
			{MinMinutes: 1200, Diamonds: 10},
			{MinMinutes: 2400, Diamonds: 20},
		},
		Guild: RewardCurve{
			{MinMinutes: 120, Diamonds: 1},
			{MinMinutes: 600, Diamonds: 3},
			{MinMinutes: 1200, Diamonds: 5},
		},
		SeasonClose: map[string]int{
			TierBronze.String():   5,
			TierSilver.String():   15,
			TierGold.String():     30,
			TierPlatinum.String(): 50,
			TierDiamond.String():  80,
			TierMaster.String():   150,
		},
	}
}

func (t RewardTable) SeasonCloseReward(tier Tier) int {
	return t.SeasonClose[tier.String()]
}

// Normalize sorts the curves and validates tier keys.
func (t *RewardTable) Normalize() error {
	for _, curve := range []RewardCurve{t.Weekly, t.Guild} {
		if err := curve.Validate(); err != nil {
			return err
		}
		slices.SortFunc(curve, func(a, b RewardStep) int {
			return cmp.Compare(a.MinMinutes, b.MinMinutes)
		})
	}
	for name := range t.SeasonClose {
		if _, err := ParseTier(name); err != nil {
			return fmt.Errorf("season_close: %w", err)
		}
	}
	return nil
}
