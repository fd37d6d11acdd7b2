package pipeline

import (
	"context"
	"time"

	"league-ladder/internal/domain"
	"league-ladder/internal/repository"

	"github.com/rs/zerolog"
)

// RewardSink delivers rewards. Grants carry a dedupe key and delivering the
// same key twice must leave a single reward; the second delivery reports
// inserted false.
type RewardSink interface {
	Grant(ctx context.Context, grant domain.RewardGrant) (inserted bool, err error)
}

// GuildDirectory supplies guild membership and boosts.
type GuildDirectory interface {
	WeeklyTotals(ctx context.Context, period string) ([]domain.GuildWeekly, error)
	ClearBoosts(ctx context.Context) (int, error)
}

// MemberDirectory supplies member eligibility and moderation state.
type MemberDirectory interface {
	Excluded(ctx context.Context, day time.Time) (map[string]struct{}, error)
	NewEntrants(ctx context.Context, seasonID, period string, minSeconds int64, day time.Time) ([]domain.Member, error)
	ResetLevels(ctx context.Context, level int) (int, error)
	ClearWarnings(ctx context.Context, cutoff time.Time) (int, error)
	RestoreExclusions(ctx context.Context, day time.Time) (int, error)
	FlagLongFocus(ctx context.Context, cutoff, at time.Time) (int, error)
}

var (
	_ RewardSink      = (*repository.MailboxRepository)(nil)
	_ GuildDirectory  = (*repository.GuildRepository)(nil)
	_ MemberDirectory = (*repository.MemberRepository)(nil)
)

// grant delivers one reward. A failed grant is logged and counted, never
// returned, so one member cannot abort the stage. Already delivered rewards
// count as duplicates.
func grant(ctx context.Context, sink RewardSink, g domain.RewardGrant, c counts, logger zerolog.Logger) {
	if g.Amount <= 0 {
		return
	}
	if g.Kind == "" {
		g.Kind = domain.RewardDiamond
	}
	inserted, err := sink.Grant(ctx, g)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("member_id", g.MemberID).
			Str("dedupe_key", g.DedupeKey).
			Msg("failed to grant reward")
		c["failed"]++
		return
	}
	if !inserted {
		c["duplicate"]++
		return
	}
	c["granted"]++
}
