package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"league-ladder/internal/config"
	"league-ladder/internal/domain"
	"league-ladder/internal/repository"

	"github.com/rs/zerolog"
)

var ErrLeagueNotFound = errors.New("league not found")

// LeagueStore is the league view of the ranking store. Implementations bound
// to a transaction keep assignment and moves atomic.
type LeagueStore interface {
	ListBucket(ctx context.Context, seasonID string, tier domain.Tier, category string) ([]domain.League, error)
	Get(ctx context.Context, id int64) (domain.League, error)
	Create(ctx context.Context, seasonID string, tier domain.Tier, category string) (domain.League, error)
	LatestMember(ctx context.Context, leagueID int64) (domain.Ranking, error)
	MoveMember(ctx context.Context, memberID, seasonID string, leagueID int64, tier domain.Tier, at time.Time) error
}

type LeagueAssigner struct {
	capacity int
	logger   zerolog.Logger
}

func NewLeagueAssigner(cfg *config.Config, logger zerolog.Logger) *LeagueAssigner {
	return &LeagueAssigner{capacity: cfg.LeagueCapacity, logger: logger}
}

func (a *LeagueAssigner) Capacity() int {
	return a.capacity
}

// Assign picks the league a member entering the bucket joins: the least
// populated league if it has room, otherwise a new one.
func (a *LeagueAssigner) Assign(ctx context.Context, store LeagueStore, seasonID string, tier domain.Tier, category string) (domain.League, error) {
	leagues, err := store.ListBucket(ctx, seasonID, tier, category)
	if err != nil {
		return domain.League{}, err
	}

	if len(leagues) > 0 && leagues[0].Members < a.capacity {
		return leagues[0], nil
	}

	league, err := store.Create(ctx, seasonID, tier, category)
	if err != nil {
		return domain.League{}, err
	}

	a.logger.Info().
		Int64("league_id", league.ID).
		Str("season_id", seasonID).
		Str("tier", tier.String()).
		Str("category", category).
		Int("existing", len(leagues)).
		Msg("created league")

	return league, nil
}

// Locate returns the league a ranking points at. A missing league, or one
// from another season or tier, is reported as ErrLeagueNotFound.
func (a *LeagueAssigner) Locate(ctx context.Context, store LeagueStore, ranking domain.Ranking) (domain.League, error) {
	league, err := store.Get(ctx, ranking.LeagueID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.League{}, fmt.Errorf("league %d of %s: %w", ranking.LeagueID, ranking.MemberID, ErrLeagueNotFound)
	}
	if err != nil {
		return domain.League{}, err
	}
	if league.SeasonID != ranking.SeasonID || league.Tier != ranking.Tier {
		return domain.League{}, fmt.Errorf("league %d does not hold %s %s: %w",
			league.ID, ranking.SeasonID, ranking.Tier, ErrLeagueNotFound)
	}
	return league, nil
}

// Rebalance moves members from the fullest league of a bucket to the
// emptiest until populations differ by at most one. The most recently
// updated member of the fullest league moves first.
func (a *LeagueAssigner) Rebalance(ctx context.Context, store LeagueStore, seasonID string, tier domain.Tier, category string, at time.Time) (int, error) {
	moved := 0
	for {
		leagues, err := store.ListBucket(ctx, seasonID, tier, category)
		if err != nil {
			return moved, err
		}
		if len(leagues) < 2 {
			return moved, nil
		}

		emptiest := leagues[0]
		fullest := leagues[len(leagues)-1]
		if fullest.Members-emptiest.Members <= 1 {
			if moved > 0 {
				a.logger.Debug().
					Str("season_id", seasonID).
					Str("tier", tier.String()).
					Str("category", category).
					Int("moved", moved).
					Msg("rebalanced bucket")
			}
			return moved, nil
		}

		ranking, err := store.LatestMember(ctx, fullest.ID)
		if err != nil {
			return moved, fmt.Errorf("failed to pick member from league %d: %w", fullest.ID, err)
		}
		if err := store.MoveMember(ctx, ranking.MemberID, seasonID, emptiest.ID, tier, at); err != nil {
			return moved, fmt.Errorf("failed to move %s to league %d: %w", ranking.MemberID, emptiest.ID, err)
		}
		moved++
	}
}
