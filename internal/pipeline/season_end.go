package pipeline

import (
	"context"
	"errors"
	"fmt"

	"league-ladder/internal/domain"
	"league-ladder/internal/repository"
	"league-ladder/internal/service"

	"github.com/rs/zerolog"
)

func NewSeasonEnd(d Deps) *Pipeline {
	logger := d.Logger.With().Str("pipeline", SeasonEnd).Logger()
	return New(SeasonEnd,
		&seasonCloseReward{rewards: d.Config.Rewards, logger: logger},
		&archiveStandings{logger: logger},
		&openSeason{weeks: d.Config.SeasonLengthWeeks, logger: logger},
		&replaceMembers{assigner: d.Assigner, logger: logger},
	)
}

// previousSeason returns the season that ended before the run date. ok is
// false when the ladder has never had one.
func previousSeason(ctx context.Context, tx *repository.Tx, rc RunContext, logger zerolog.Logger) (domain.Season, bool, error) {
	season, err := service.NewSeasonManager(tx.Seasons, logger).PreviousSeason(ctx, rc.Date)
	if errors.Is(err, service.ErrNoActiveSeason) {
		logger.Info().Str("date", rc.Day()).Msg("no previous season to close")
		return domain.Season{}, false, nil
	}
	if err != nil {
		return domain.Season{}, false, err
	}
	return season, true, nil
}

type seasonCloseReward struct {
	rewards domain.RewardTable
	logger  zerolog.Logger
}

func (s *seasonCloseReward) Name() string { return "season-close-reward" }

func (s *seasonCloseReward) Run(ctx context.Context, rc RunContext, tx *repository.Tx) (StageResult, error) {
	season, ok, err := previousSeason(ctx, tx, rc, s.logger)
	if err != nil || !ok {
		return counts{}.result(), err
	}

	rankings, err := tx.Rankings.ListSeason(ctx, season.ID)
	if err != nil {
		return StageResult{}, err
	}

	var sink RewardSink = tx.Mailbox
	c := counts{}
	for _, r := range rankings {
		grant(ctx, sink, domain.RewardGrant{
			MemberID:  r.MemberID,
			Amount:    s.rewards.SeasonCloseReward(r.Tier),
			Reason:    fmt.Sprintf("%s finished in %s", season.Name, r.Tier),
			DedupeKey: fmt.Sprintf("season-close:%s:%s", season.ID, r.MemberID),
			GrantedAt: rc.Now,
		}, c, s.logger)
	}
	return c.result(), nil
}

type archiveStandings struct {
	logger zerolog.Logger
}

func (s *archiveStandings) Name() string { return "archive-standings" }

func (s *archiveStandings) Run(ctx context.Context, rc RunContext, tx *repository.Tx) (StageResult, error) {
	season, ok, err := previousSeason(ctx, tx, rc, s.logger)
	if err != nil || !ok {
		return counts{}.result(), err
	}

	n, err := tx.Rankings.Archive(ctx, season.ID, rc.Now)
	if err != nil {
		return StageResult{}, err
	}
	return counts{"archived": n}.result(), nil
}

type openSeason struct {
	weeks  int
	logger zerolog.Logger
}

func (s *openSeason) Name() string { return "open-season" }

func (s *openSeason) Run(ctx context.Context, rc RunContext, tx *repository.Tx) (StageResult, error) {
	manager := service.NewSeasonManager(tx.Seasons, s.logger)
	current, err := manager.CurrentSeason(ctx, rc.Date)
	if err == nil {
		s.logger.Info().Str("season_id", current.ID).Msg("season already covers date")
		return counts{"opened": 0}.result(), nil
	}
	if !errors.Is(err, service.ErrNoActiveSeason) {
		return StageResult{}, err
	}

	season := service.NewSeason(rc.Date, s.weeks, rc.Now)
	next, err := tx.Seasons.Next(ctx, rc.Date)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return StageResult{}, err
	}
	if err == nil && !next.StartDate.After(season.EndDate) {
		s.logger.Info().
			Str("season_id", next.ID).
			Time("start", next.StartDate).
			Msg("next season already scheduled")
		return counts{"opened": 0}.result(), nil
	}

	if err := tx.Seasons.Create(ctx, season); err != nil {
		return StageResult{}, err
	}

	s.logger.Info().
		Str("season_id", season.ID).
		Time("start", season.StartDate).
		Time("end", season.EndDate).
		Msg("opened season")
	return counts{"opened": 1}.result(), nil
}

// replaceMembers moves everyone who finished the previous season into
// BRONZE of the next one and drops the old rankings. The next season is the
// one covering the run date or, when it was seeded to start later, the first
// one after it.
type replaceMembers struct {
	assigner *service.LeagueAssigner
	logger   zerolog.Logger
}

func (s *replaceMembers) Name() string { return "replace-members" }

func (s *replaceMembers) Run(ctx context.Context, rc RunContext, tx *repository.Tx) (StageResult, error) {
	previous, ok, err := previousSeason(ctx, tx, rc, s.logger)
	if err != nil || !ok {
		return counts{}.result(), err
	}

	current, err := service.NewSeasonManager(tx.Seasons, s.logger).UpcomingSeason(ctx, rc.Date)
	if err != nil {
		return StageResult{}, fmt.Errorf("failed to resolve new season: %w", err)
	}

	archived, err := tx.Rankings.ListArchived(ctx, previous.ID)
	if err != nil {
		return StageResult{}, err
	}

	c := counts{}
	touched := map[bucket]struct{}{}
	for _, m := range archived {
		_, err := tx.Rankings.Get(ctx, m.MemberID, current.ID)
		if err == nil {
			c["already-placed"]++
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return StageResult{}, err
		}

		league, err := s.assigner.Assign(ctx, tx.Leagues, current.ID, domain.TierBronze, m.Category)
		if err != nil {
			return StageResult{}, fmt.Errorf("failed to assign %s: %w", m.MemberID, err)
		}
		err = tx.Rankings.Create(ctx, domain.Ranking{
			MemberID:  m.MemberID,
			SeasonID:  current.ID,
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

	n, err := tx.Rankings.DeleteSeason(ctx, previous.ID)
	if err != nil {
		return StageResult{}, err
	}
	c["cleared"] = n

	moved, err := rebalance(ctx, s.assigner, tx, current.ID, touched, rc.Now)
	if err != nil {
		return StageResult{}, err
	}
	c["rebalanced"] = moved

	return c.result(), nil
}
