package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"league-ladder/internal/db"
	"league-ladder/internal/domain"
)

type MemberRepository struct {
	queries *db.Queries
	loc     *time.Location
}

func (r *MemberRepository) Get(ctx context.Context, id string) (domain.Member, error) {
	row, err := r.queries.GetMember(ctx, id)
	if err != nil {
		return domain.Member{}, notFound(err)
	}

	member := domain.Member{
		ID:              row.ID,
		Name:            row.Name,
		Category:        row.Category,
		Level:           int(row.Level),
		WarningCount:    int(row.WarningCount),
		WarnedAt:        timePtr(row.WarnedAt),
		ReviewFlaggedAt: timePtr(row.ReviewFlaggedAt),
		CreatedAt:       row.CreatedAt,
	}
	if row.ExcludedUntil.Valid {
		until, err := parseDate(row.ExcludedUntil.String, r.loc)
		if err != nil {
			return domain.Member{}, err
		}
		member.ExcludedUntil = &until
	}
	return member, nil
}

func (r *MemberRepository) Create(ctx context.Context, member domain.Member) error {
	var excludedUntil sql.NullString
	if member.ExcludedUntil != nil {
		excludedUntil = nullDate(*member.ExcludedUntil)
	}
	level := member.Level
	if level == 0 {
		level = 1
	}

	err := r.queries.CreateMember(ctx, db.CreateMemberParams{
		ID:              member.ID,
		Name:            member.Name,
		Category:        member.Category,
		Level:           int64(level),
		WarningCount:    int64(member.WarningCount),
		WarnedAt:        nullTime(member.WarnedAt),
		ExcludedUntil:   excludedUntil,
		ReviewFlaggedAt: nullTime(member.ReviewFlaggedAt),
		CreatedAt:       member.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to create member %s: %w", member.ID, err)
	}
	return nil
}

// Excluded returns the ids of members whose exclusion is still running on day.
func (r *MemberRepository) Excluded(ctx context.Context, day time.Time) (map[string]struct{}, error) {
	ids, err := r.queries.ListExcludedMemberIDs(ctx, nullDate(day))
	if err != nil {
		return nil, fmt.Errorf("failed to list excluded members: %w", err)
	}

	excluded := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		excluded[id] = struct{}{}
	}
	return excluded, nil
}

// NewEntrants lists members with at least minSeconds of focus in period who
// are not excluded on day and hold no ranking in the season yet.
func (r *MemberRepository) NewEntrants(ctx context.Context, seasonID, period string, minSeconds int64, day time.Time) ([]domain.Member, error) {
	rows, err := r.queries.ListNewEntrants(ctx, db.ListNewEntrantsParams{
		Period:        period,
		TotalSeconds:  minSeconds,
		ExcludedUntil: nullDate(day),
		SeasonID:      seasonID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list new entrants: %w", err)
	}

	members := make([]domain.Member, len(rows))
	for i, row := range rows {
		members[i] = domain.Member{ID: row.ID, Category: row.Category}
	}
	return members, nil
}

func (r *MemberRepository) ResetLevels(ctx context.Context, level int) (int, error) {
	n, err := r.queries.ResetMemberLevels(ctx, db.ResetMemberLevelsParams{
		Level:   int64(level),
		Level_2: int64(level),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to reset member levels: %w", err)
	}
	return int(n), nil
}

// ClearWarnings drops warnings issued before cutoff.
func (r *MemberRepository) ClearWarnings(ctx context.Context, cutoff time.Time) (int, error) {
	n, err := r.queries.ClearExpiredWarnings(ctx, nullTime(&cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to clear warnings: %w", err)
	}
	return int(n), nil
}

// RestoreExclusions lifts exclusions that end on or before day.
func (r *MemberRepository) RestoreExclusions(ctx context.Context, day time.Time) (int, error) {
	n, err := r.queries.RestoreExclusions(ctx, nullDate(day))
	if err != nil {
		return 0, fmt.Errorf("failed to restore exclusions: %w", err)
	}
	return int(n), nil
}

// FlagLongFocus flags members with a session still open since before cutoff.
func (r *MemberRepository) FlagLongFocus(ctx context.Context, cutoff, at time.Time) (int, error) {
	n, err := r.queries.FlagLongFocus(ctx, db.FlagLongFocusParams{
		ReviewFlaggedAt: nullTime(&at),
		StartedAt:       cutoff.UTC(),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to flag long focus sessions: %w", err)
	}
	return int(n), nil
}
