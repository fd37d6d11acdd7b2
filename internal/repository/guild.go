package repository

import (
	"context"
	"fmt"

	"league-ladder/internal/db"
	"league-ladder/internal/domain"
)

type GuildRepository struct {
	queries *db.Queries
}

func (r *GuildRepository) Create(ctx context.Context, id, name string, weeklyBoost int) error {
	err := r.queries.CreateGuild(ctx, db.CreateGuildParams{
		ID:          id,
		Name:        name,
		WeeklyBoost: int64(weeklyBoost),
	})
	if err != nil {
		return fmt.Errorf("failed to create guild %s: %w", id, err)
	}
	return nil
}

func (r *GuildRepository) AddMember(ctx context.Context, guildID, memberID string) error {
	err := r.queries.AddGuildMember(ctx, db.AddGuildMemberParams{
		GuildID:  guildID,
		MemberID: memberID,
	})
	if err != nil {
		return fmt.Errorf("failed to add %s to guild %s: %w", memberID, guildID, err)
	}
	return nil
}

// WeeklyTotals groups every guild's members with their focus seconds in the
// stats period.
func (r *GuildRepository) WeeklyTotals(ctx context.Context, period string) ([]domain.GuildWeekly, error) {
	rows, err := r.queries.ListGuildMemberTotals(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list guild totals: %w", err)
	}

	var guilds []domain.GuildWeekly
	for _, row := range rows {
		if len(guilds) == 0 || guilds[len(guilds)-1].GuildID != row.ID {
			guilds = append(guilds, domain.GuildWeekly{
				GuildID:     row.ID,
				Name:        row.Name,
				WeeklyBoost: int(row.WeeklyBoost),
			})
		}
		g := &guilds[len(guilds)-1]
		g.MemberIDs = append(g.MemberIDs, row.MemberID)
		g.TotalSeconds += row.TotalSeconds
	}
	return guilds, nil
}

func (r *GuildRepository) ClearBoosts(ctx context.Context) (int, error) {
	n, err := r.queries.ClearGuildBoosts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear guild boosts: %w", err)
	}
	return int(n), nil
}
