package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"league-ladder/internal/constants"
	"league-ladder/internal/domain"
	"league-ladder/internal/pipeline"
	"league-ladder/internal/service"
)

type SeasonResolver interface {
	CurrentSeason(ctx context.Context, date time.Time) (domain.Season, error)
}

// Plan lists the pipelines due on date, in execution order. On the week start
// the weekly pipeline runs while a season covers the date, otherwise the
// season-end pipeline closes the old season and opens the next one. A season
// that starts on date counts as just opened, so the branch stays season-end
// for every run of that date.
func Plan(ctx context.Context, seasons SeasonResolver, date time.Time, weekStart time.Weekday) ([]string, error) {
	plan := []string{pipeline.Daily}

	if date.Day() == 1 {
		plan = append(plan, pipeline.Monthly)
	}

	if date.Weekday() != weekStart {
		return plan, nil
	}

	season, err := seasons.CurrentSeason(ctx, date)
	switch {
	case err == nil && sameDay(season.StartDate, date):
		plan = append(plan, pipeline.SeasonEnd)
	case err == nil:
		plan = append(plan, pipeline.Weekly)
	case errors.Is(err, service.ErrNoActiveSeason):
		plan = append(plan, pipeline.SeasonEnd)
	default:
		return nil, fmt.Errorf("failed to resolve season for %s: %w", date.Format(constants.DateLayout), err)
	}
	return plan, nil
}

func sameDay(a, b time.Time) bool {
	return a.Format(constants.DateLayout) == b.Format(constants.DateLayout)
}
