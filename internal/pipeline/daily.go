package pipeline

import (
	"context"
	"fmt"
	"time"

	"league-ladder/internal/domain"
	"league-ladder/internal/repository"

	"github.com/rs/zerolog"
)

const dailyFocusMission = "daily-focus"

func NewDaily(d Deps) *Pipeline {
	logger := d.Logger.With().Str("pipeline", Daily).Logger()
	cfg := d.Config
	return New(Daily,
		&expireMailbox{},
		&restoreWarnings{cooldown: cfg.WarningCooldown},
		&flagLongFocus{threshold: cfg.LongFocusThreshold},
		&restoreExclusions{},
		&dailyMission{
			minMinutes: cfg.DailyMissionMins,
			reward:     cfg.DailyMissionReward,
			logger:     logger,
		},
	)
}

type expireMailbox struct{}

func (s *expireMailbox) Name() string { return "expire-mailbox" }

func (s *expireMailbox) Run(ctx context.Context, rc RunContext, tx *repository.Tx) (StageResult, error) {
	n, err := tx.Mailbox.ExpireUnclaimed(ctx, rc.Now)
	if err != nil {
		return StageResult{}, err
	}
	return counts{"expired": n}.result(), nil
}

type restoreWarnings struct {
	cooldown time.Duration
}

func (s *restoreWarnings) Name() string { return "restore-warnings" }

func (s *restoreWarnings) Run(ctx context.Context, rc RunContext, tx *repository.Tx) (StageResult, error) {
	var members MemberDirectory = tx.Members
	n, err := members.ClearWarnings(ctx, rc.Now.Add(-s.cooldown))
	if err != nil {
		return StageResult{}, err
	}
	return counts{"restored": n}.result(), nil
}

type flagLongFocus struct {
	threshold time.Duration
}

func (s *flagLongFocus) Name() string { return "flag-long-focus" }

func (s *flagLongFocus) Run(ctx context.Context, rc RunContext, tx *repository.Tx) (StageResult, error) {
	var members MemberDirectory = tx.Members
	n, err := members.FlagLongFocus(ctx, rc.Now.Add(-s.threshold), rc.Now)
	if err != nil {
		return StageResult{}, err
	}
	return counts{"flagged": n}.result(), nil
}

type restoreExclusions struct{}

func (s *restoreExclusions) Name() string { return "restore-exclusions" }

func (s *restoreExclusions) Run(ctx context.Context, rc RunContext, tx *repository.Tx) (StageResult, error) {
	var members MemberDirectory = tx.Members
	n, err := members.RestoreExclusions(ctx, rc.Date)
	if err != nil {
		return StageResult{}, err
	}
	return counts{"restored": n}.result(), nil
}

// dailyMission completes the focus mission for yesterday's qualifying
// members and grants its reward.
type dailyMission struct {
	minMinutes int
	reward     int
	logger     zerolog.Logger
}

func (s *dailyMission) Name() string { return "daily-mission" }

func (s *dailyMission) Run(ctx context.Context, rc RunContext, tx *repository.Tx) (StageResult, error) {
	yesterday := rc.Date.AddDate(0, 0, -1)
	period := domain.DayPeriod(yesterday)

	totals, err := tx.Stats.MemberTotals(ctx, yesterday, rc.Date)
	if err != nil {
		return StageResult{}, err
	}

	var sink RewardSink = tx.Mailbox
	c := counts{}
	for _, t := range totals {
		if t.TotalSeconds < int64(s.minMinutes)*60 {
			continue
		}
		added, err := tx.Missions.Complete(ctx, t.MemberID, dailyFocusMission, repository.MissionScopeDaily, period, rc.Now)
		if err != nil {
			s.logger.Warn().Err(err).Str("member_id", t.MemberID).Msg("failed to complete daily mission")
			c["failed"]++
			continue
		}
		if added {
			c["completed"]++
		}
		grant(ctx, sink, domain.RewardGrant{
			MemberID:  t.MemberID,
			Amount:    s.reward,
			Reason:    fmt.Sprintf("daily focus mission %s", yesterday.Format("2006-01-02")),
			DedupeKey: fmt.Sprintf("daily:%s:%s", period, t.MemberID),
			GrantedAt: rc.Now,
		}, c, s.logger)
	}
	return c.result(), nil
}
