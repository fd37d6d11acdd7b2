package pipeline

import (
	"context"
	"fmt"
	"time"

	"league-ladder/internal/domain"
	"league-ladder/internal/repository"

	"golang.org/x/sync/errgroup"
)

// snapshotStats replaces the member and subject snapshots of period with the
// activity in [from, to). Reruns overwrite, they never add.
func snapshotStats(ctx context.Context, reader ActivityReader, tx *repository.Tx, period string, from, to, now time.Time) (counts, error) {
	var (
		members  []domain.MemberTotal
		subjects []domain.SubjectTotal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		members, err = reader.MemberTotals(gctx, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		subjects, err = reader.SubjectTotals(gctx, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to aggregate focus for %s: %w", period, err)
	}

	c := counts{}
	n, err := tx.Stats.ReplaceMemberStats(ctx, period, members, now)
	if err != nil {
		return nil, err
	}
	c["members"] = n

	n, err = tx.Stats.ReplaceSubjectStats(ctx, period, subjects, now)
	if err != nil {
		return nil, err
	}
	c["subjects"] = n

	return c, nil
}
