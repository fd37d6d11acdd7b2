package pipeline

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"league-ladder/internal/constants"
	"league-ladder/internal/domain"
	"league-ladder/internal/repository"
	"league-ladder/internal/service"

	"github.com/alitto/pond/v2"
	"github.com/rs/zerolog"
)

var errNoSeason = errors.New("weekly stages need an active season")

// closingWeek returns the seven days before the run date as [from, to) and
// the stats period naming them.
func closingWeek(rc RunContext) (from, to time.Time, period string) {
	from = rc.Date.AddDate(0, 0, -constants.DaysPerWeek)
	return from, rc.Date, domain.WeekPeriod(from)
}

func currentSeason(ctx context.Context, tx *repository.Tx, rc RunContext, logger zerolog.Logger) (domain.Season, error) {
	season, err := service.NewSeasonManager(tx.Seasons, logger).CurrentSeason(ctx, rc.Date)
	if errors.Is(err, service.ErrNoActiveSeason) {
		return domain.Season{}, fmt.Errorf("%s: %w", rc.Day(), errNoSeason)
	}
	return season, err
}

func NewWeekly(d Deps) *Pipeline {
	logger := d.Logger.With().Str("pipeline", Weekly).Logger()
	return New(Weekly,
		&weeklyStatistics{reader: d.Activity, logger: logger},
		&weeklyReward{rewards: d.Config.Rewards, logger: logger},
		&guildReward{rewards: d.Config.Rewards, logger: logger},
		&leaguePlacement{assigner: d.Assigner, workers: d.Config.PlacementWorkers, logger: logger},
		&newEntrants{assigner: d.Assigner, minMinutes: d.Config.MinEligibleMinutes, logger: logger},
		&weeklyReset{logger: logger},
	)
}

type weeklyStatistics struct {
	reader ActivityReader
	logger zerolog.Logger
}

func (s *weeklyStatistics) Name() string { return "weekly-statistics" }

func (s *weeklyStatistics) Run(ctx context.Context, rc RunContext, tx *repository.Tx) (StageResult, error) {
	from, to, period := closingWeek(rc)

	c, err := snapshotStats(ctx, s.reader, tx, period, from, to, rc.Now)
	if err != nil {
		return StageResult{}, err
	}

	season, err := currentSeason(ctx, tx, rc, s.logger)
	if err != nil {
		return StageResult{}, err
	}
	n, err := tx.Rankings.RefreshScores(ctx, season.ID, period)
	if err != nil {
		return StageResult{}, err
	}
	c["scored"] = n

	return c.result(), nil
}

type weeklyReward struct {
	rewards domain.RewardTable
	logger  zerolog.Logger
}

func (s *weeklyReward) Name() string { return "weekly-reward" }

func (s *weeklyReward) Run(ctx context.Context, rc RunContext, tx *repository.Tx) (StageResult, error) {
	_, _, period := closingWeek(rc)
	season, err := currentSeason(ctx, tx, rc, s.logger)
	if err != nil {
		return StageResult{}, err
	}

	rankings, err := tx.Rankings.ListSeason(ctx, season.ID)
	if err != nil {
		return StageResult{}, err
	}
	var members MemberDirectory = tx.Members
	excluded, err := members.Excluded(ctx, rc.Date)
	if err != nil {
		return StageResult{}, err
	}

	var sink RewardSink = tx.Mailbox
	c := counts{}
	for _, r := range rankings {
		if _, ok := excluded[r.MemberID]; ok {
			c["excluded"]++
			continue
		}
		diamonds := s.rewards.Weekly.Diamonds(r.Score)
		if diamonds == 0 {
			c["below-curve"]++
			continue
		}
		grant(ctx, sink, domain.RewardGrant{
			MemberID:  r.MemberID,
			Amount:    diamonds,
			Reason:    fmt.Sprintf("weekly focus reward %s", period),
			DedupeKey: fmt.Sprintf("weekly:%s:%s", period, r.MemberID),
			GrantedAt: rc.Now,
		}, c, s.logger)
	}
	return c.result(), nil
}

type guildReward struct {
	rewards domain.RewardTable
	logger  zerolog.Logger
}

func (s *guildReward) Name() string { return "guild-weekly-reward" }

func (s *guildReward) Run(ctx context.Context, rc RunContext, tx *repository.Tx) (StageResult, error) {
	_, _, period := closingWeek(rc)

	var guilds GuildDirectory = tx.Guilds
	totals, err := guilds.WeeklyTotals(ctx, period)
	if err != nil {
		return StageResult{}, err
	}
	excluded, err := tx.Members.Excluded(ctx, rc.Date)
	if err != nil {
		return StageResult{}, err
	}

	var sink RewardSink = tx.Mailbox
	c := counts{}
	for _, g := range totals {
		if len(g.MemberIDs) == 0 {
			continue
		}
		average := int(g.TotalSeconds/60) / len(g.MemberIDs)
		diamonds := s.rewards.Guild.Diamonds(average)
		if diamonds == 0 {
			c["below-curve"]++
			continue
		}
		diamonds += g.WeeklyBoost
		c["guilds"]++

		for _, memberID := range g.MemberIDs {
			if _, ok := excluded[memberID]; ok {
				c["excluded"]++
				continue
			}
			grant(ctx, sink, domain.RewardGrant{
				MemberID:  memberID,
				Amount:    diamonds,
				Reason:    fmt.Sprintf("guild %s weekly reward %s", g.Name, period),
				DedupeKey: fmt.Sprintf("guild:%s:%s:%s", period, g.GuildID, memberID),
				GrantedAt: rc.Now,
			}, c, s.logger)
		}
	}
	return c.result(), nil
}

type bucket struct {
	tier     domain.Tier
	category string
}

func sortedBuckets(set map[bucket]struct{}) []bucket {
	out := make([]bucket, 0, len(set))
	for b := range set {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b bucket) int {
		if c := cmp.Compare(a.category, b.category); c != 0 {
			return c
		}
		return cmp.Compare(a.tier, b.tier)
	})
	return out
}

func rebalance(ctx context.Context, assigner *service.LeagueAssigner, tx *repository.Tx, seasonID string, touched map[bucket]struct{}, at time.Time) (int, error) {
	moved := 0
	for _, b := range sortedBuckets(touched) {
		n, err := assigner.Rebalance(ctx, tx.Leagues, seasonID, b.tier, b.category, at)
		if err != nil {
			return moved, fmt.Errorf("failed to rebalance %s/%s: %w", b.tier, b.category, err)
		}
		moved += n
	}
	return moved, nil
}

type decision struct {
	ranking domain.Ranking
	next    domain.Tier
}

type leagueSnapshot struct {
	league    domain.League
	rankings  []domain.Ranking
	decisions []decision
}

type leaguePlacement struct {
	assigner *service.LeagueAssigner
	workers  int
	logger   zerolog.Logger
}

func (s *leaguePlacement) Name() string { return "league-placement" }

func (s *leaguePlacement) Run(ctx context.Context, rc RunContext, tx *repository.Tx) (StageResult, error) {
	_, _, period := closingWeek(rc)
	season, err := currentSeason(ctx, tx, rc, s.logger)
	if err != nil {
		return StageResult{}, err
	}
	finalWeek := service.IsFinalWeek(season, rc.Date)

	excluded, err := tx.Members.Excluded(ctx, rc.Date)
	if err != nil {
		return StageResult{}, err
	}

	c := counts{}
	snapshots, err := s.snapshot(ctx, tx, season, c)
	if err != nil {
		return StageResult{}, err
	}

	s.decide(snapshots, excluded, finalWeek)

	var sink RewardSink = tx.Mailbox
	touched := map[bucket]struct{}{}
	for _, snap := range snapshots {
		for _, d := range snap.decisions {
			outcome := domain.CompareTiers(d.ranking.Tier, d.next)
			if outcome == domain.OutcomeHold {
				c["held"]++
				continue
			}

			target, err := s.assigner.Assign(ctx, tx.Leagues, season.ID, d.next, snap.league.Category)
			if err != nil {
				return StageResult{}, fmt.Errorf("failed to assign %s to %s: %w", d.ranking.MemberID, d.next, err)
			}
			if err := tx.Leagues.MoveMember(ctx, d.ranking.MemberID, season.ID, target.ID, d.next, rc.Now); err != nil {
				return StageResult{}, fmt.Errorf("failed to move %s: %w", d.ranking.MemberID, err)
			}
			touched[bucket{d.ranking.Tier, snap.league.Category}] = struct{}{}
			touched[bucket{d.next, snap.league.Category}] = struct{}{}
			c[outcome.String()]++

			s.logger.Debug().
				Str("member_id", d.ranking.MemberID).
				Str("from", d.ranking.Tier.String()).
				Str("to", d.next.String()).
				Int64("league_id", target.ID).
				Msg("tier transition")

			if outcome == domain.OutcomePromoted {
				grant(ctx, sink, domain.RewardGrant{
					MemberID:  d.ranking.MemberID,
					Amount:    domain.PromotionReward(d.next),
					Reason:    fmt.Sprintf("promoted to %s", d.next),
					DedupeKey: fmt.Sprintf("promotion:%s:%s", period, d.ranking.MemberID),
					GrantedAt: rc.Now,
				}, c, s.logger)
			}
		}
	}

	moved, err := rebalance(ctx, s.assigner, tx, season.ID, touched, rc.Now)
	if err != nil {
		return StageResult{}, err
	}
	c["rebalanced"] = moved

	s.logger.Info().
		Str("season_id", season.ID).
		Bool("final_week", finalWeek).
		Int("leagues", len(snapshots)).
		Msg("placement evaluated")

	return c.result(), nil
}

// snapshot reads every league of the season with its rankings. Leagues that
// do not match their rankings are skipped and their members counted failed.
func (s *leaguePlacement) snapshot(ctx context.Context, tx *repository.Tx, season domain.Season, c counts) ([]*leagueSnapshot, error) {
	leagues, err := tx.Leagues.ListSeason(ctx, season.ID)
	if err != nil {
		return nil, err
	}

	snapshots := make([]*leagueSnapshot, 0, len(leagues))
	for _, league := range leagues {
		rankings, err := tx.Rankings.ListLeague(ctx, league.ID)
		if err != nil {
			return nil, err
		}
		if len(rankings) == 0 {
			continue
		}

		kept := rankings[:0]
		for _, r := range rankings {
			if _, err := s.assigner.Locate(ctx, tx.Leagues, r); err != nil {
				if !errors.Is(err, service.ErrLeagueNotFound) {
					return nil, err
				}
				s.logger.Warn().Err(err).Str("member_id", r.MemberID).Msg("skipping ranking with dangling league")
				c["failed"]++
				continue
			}
			kept = append(kept, r)
		}
		snapshots = append(snapshots, &leagueSnapshot{league: league, rankings: kept})
	}
	return snapshots, nil
}

// decide computes every member's next tier, one league per task.
func (s *leaguePlacement) decide(snapshots []*leagueSnapshot, excluded map[string]struct{}, finalWeek bool) {
	workers := max(s.workers, 1)
	pool := pond.NewPool(workers)
	defer pool.StopAndWait()

	group := pool.NewGroup()
	for _, snap := range snapshots {
		group.Submit(func() {
			scores := make([]int, len(snap.rankings))
			for i, r := range snap.rankings {
				scores[i] = r.Score
			}
			snap.decisions = make([]decision, len(snap.rankings))
			for i, r := range snap.rankings {
				next := r.Tier
				if _, ok := excluded[r.MemberID]; !ok {
					next = domain.NextTier(r.Tier, domain.Percentile(r.Score, scores), finalWeek)
				}
				snap.decisions[i] = decision{ranking: r, next: next}
			}
		})
	}
	group.Wait()
}

type newEntrants struct {
	assigner   *service.LeagueAssigner
	minMinutes int
	logger     zerolog.Logger
}

func (s *newEntrants) Name() string { return "new-entrants" }

func (s *newEntrants) Run(ctx context.Context, rc RunContext, tx *repository.Tx) (StageResult, error) {
	_, _, period := closingWeek(rc)
	season, err := currentSeason(ctx, tx, rc, s.logger)
	if err != nil {
		return StageResult{}, err
	}

	var members MemberDirectory = tx.Members
	entrants, err := members.NewEntrants(ctx, season.ID, period, int64(s.minMinutes)*60, rc.Date)
	if err != nil {
		return StageResult{}, err
	}

	c := counts{}
	touched := map[bucket]struct{}{}
	for _, m := range entrants {
		league, err := s.assigner.Assign(ctx, tx.Leagues, season.ID, domain.TierBronze, m.Category)
		if err != nil {
			return StageResult{}, fmt.Errorf("failed to assign entrant %s: %w", m.ID, err)
		}
		err = tx.Rankings.Create(ctx, domain.Ranking{
			MemberID:  m.ID,
			SeasonID:  season.ID,
			LeagueID:  league.ID,
			Tier:      domain.TierBronze,
			UpdatedAt: rc.Now,
		})
		if err != nil {
			return StageResult{}, err
		}
		touched[bucket{domain.TierBronze, m.Category}] = struct{}{}
		c["placed"]++
	}

	moved, err := rebalance(ctx, s.assigner, tx, season.ID, touched, rc.Now)
	if err != nil {
		return StageResult{}, err
	}
	c["rebalanced"] = moved

	return c.result(), nil
}

type weeklyReset struct {
	logger zerolog.Logger
}

func (s *weeklyReset) Name() string { return "weekly-reset" }

func (s *weeklyReset) Run(ctx context.Context, rc RunContext, tx *repository.Tx) (StageResult, error) {
	c := counts{}

	var members MemberDirectory = tx.Members
	n, err := members.ResetLevels(ctx, constants.BaselineLevel)
	if err != nil {
		return StageResult{}, err
	}
	c["levels"] = n

	n, err = tx.Missions.Clear(ctx, repository.MissionScopeWeekly)
	if err != nil {
		return StageResult{}, err
	}
	c["missions"] = n

	var guilds GuildDirectory = tx.Guilds
	n, err = guilds.ClearBoosts(ctx)
	if err != nil {
		return StageResult{}, err
	}
	c["boosts"] = n

	season, err := currentSeason(ctx, tx, rc, s.logger)
	if err != nil {
		return StageResult{}, err
	}
	n, err = tx.Rankings.ResetScores(ctx, season.ID)
	if err != nil {
		return StageResult{}, err
	}
	c["scores"] = n

	return c.result(), nil
}
