package pipeline

import (
	"context"
	"time"

	"league-ladder/internal/domain"
	"league-ladder/internal/repository"

	"github.com/rs/zerolog"
)

func NewMonthly(d Deps) *Pipeline {
	logger := d.Logger.With().Str("pipeline", Monthly).Logger()
	return New(Monthly,
		&monthlyStatistics{reader: d.Activity, logger: logger},
	)
}

// closingMonth returns the calendar month before the run date's month.
func closingMonth(rc RunContext) (from, to time.Time, period string) {
	to = time.Date(rc.Date.Year(), rc.Date.Month(), 1, 0, 0, 0, 0, rc.Date.Location())
	from = to.AddDate(0, -1, 0)
	return from, to, domain.MonthPeriod(from)
}

type monthlyStatistics struct {
	reader ActivityReader
	logger zerolog.Logger
}

func (s *monthlyStatistics) Name() string { return "monthly-statistics" }

func (s *monthlyStatistics) Run(ctx context.Context, rc RunContext, tx *repository.Tx) (StageResult, error) {
	from, to, period := closingMonth(rc)

	c, err := snapshotStats(ctx, s.reader, tx, period, from, to, rc.Now)
	if err != nil {
		return StageResult{}, err
	}

	s.logger.Debug().Str("period", period).Int("members", c["members"]).Msg("monthly snapshot stored")
	return c.result(), nil
}
