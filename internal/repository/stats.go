package repository

import (
	"context"
	"fmt"
	"time"

	"league-ladder/internal/db"
	"league-ladder/internal/domain"
)

type StatsRepository struct {
	queries *db.Queries
}

// FocusSession is a recorded activity block. A nil EndedAt means it is
// still running.
type FocusSession struct {
	MemberID  string
	Subject   string
	StartedAt time.Time
	EndedAt   *time.Time
	Seconds   int64
}

func (r *StatsRepository) RecordSession(ctx context.Context, s FocusSession) error {
	err := r.queries.CreateFocusSession(ctx, db.CreateFocusSessionParams{
		MemberID:  s.MemberID,
		Subject:   s.Subject,
		StartedAt: s.StartedAt.UTC(),
		EndedAt:   nullTime(s.EndedAt),
		Seconds:   s.Seconds,
	})
	if err != nil {
		return fmt.Errorf("failed to record focus session: %w", err)
	}
	return nil
}

// MemberTotals sums finished focus sessions started in [from, to).
func (r *StatsRepository) MemberTotals(ctx context.Context, from, to time.Time) ([]domain.MemberTotal, error) {
	rows, err := r.queries.SumMemberFocus(ctx, db.SumMemberFocusParams{
		StartedAt:   from.UTC(),
		StartedAt_2: to.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sum member focus: %w", err)
	}

	totals := make([]domain.MemberTotal, len(rows))
	for i, row := range rows {
		totals[i] = domain.MemberTotal{MemberID: row.MemberID, TotalSeconds: row.TotalSeconds}
	}
	return totals, nil
}

func (r *StatsRepository) SubjectTotals(ctx context.Context, from, to time.Time) ([]domain.SubjectTotal, error) {
	rows, err := r.queries.SumSubjectFocus(ctx, db.SumSubjectFocusParams{
		StartedAt:   from.UTC(),
		StartedAt_2: to.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sum subject focus: %w", err)
	}

	totals := make([]domain.SubjectTotal, len(rows))
	for i, row := range rows {
		totals[i] = domain.SubjectTotal{
			MemberID:     row.MemberID,
			Subject:      row.Subject,
			TotalSeconds: row.TotalSeconds,
		}
	}
	return totals, nil
}

// ReplaceMemberStats swaps the snapshot of a period for totals.
func (r *StatsRepository) ReplaceMemberStats(ctx context.Context, period string, totals []domain.MemberTotal, at time.Time) (int, error) {
	if _, err := r.queries.DeleteMemberStats(ctx, period); err != nil {
		return 0, fmt.Errorf("failed to clear member stats for %s: %w", period, err)
	}

	for _, total := range totals {
		err := r.queries.CreateMemberStat(ctx, db.CreateMemberStatParams{
			Period:       period,
			MemberID:     total.MemberID,
			TotalSeconds: total.TotalSeconds,
			ComputedAt:   at.UTC(),
		})
		if err != nil {
			return 0, fmt.Errorf("failed to store member stat for %s: %w", total.MemberID, err)
		}
	}
	return len(totals), nil
}

func (r *StatsRepository) ReplaceSubjectStats(ctx context.Context, period string, totals []domain.SubjectTotal, at time.Time) (int, error) {
	if _, err := r.queries.DeleteSubjectStats(ctx, period); err != nil {
		return 0, fmt.Errorf("failed to clear subject stats for %s: %w", period, err)
	}

	for _, total := range totals {
		err := r.queries.CreateSubjectStat(ctx, db.CreateSubjectStatParams{
			Period:       period,
			MemberID:     total.MemberID,
			Subject:      total.Subject,
			TotalSeconds: total.TotalSeconds,
			ComputedAt:   at.UTC(),
		})
		if err != nil {
			return 0, fmt.Errorf("failed to store subject stat for %s/%s: %w", total.MemberID, total.Subject, err)
		}
	}
	return len(totals), nil
}

func (r *StatsRepository) MemberStats(ctx context.Context, period string) ([]domain.MemberTotal, error) {
	rows, err := r.queries.ListMemberStats(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list member stats: %w", err)
	}

	totals := make([]domain.MemberTotal, len(rows))
	for i, row := range rows {
		totals[i] = domain.MemberTotal{MemberID: row.MemberID, TotalSeconds: row.TotalSeconds}
	}
	return totals, nil
}
