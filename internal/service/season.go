package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"league-ladder/internal/constants"
	"league-ladder/internal/domain"
	"league-ladder/internal/repository"

	"github.com/rs/zerolog"
)

// ErrNoActiveSeason means no season covers the date. The scheduler treats it
// as the season-end window, not as a failure.
var ErrNoActiveSeason = errors.New("no active season")

type SeasonStore interface {
	ForDate(ctx context.Context, date time.Time) (domain.Season, error)
	Previous(ctx context.Context, date time.Time) (domain.Season, error)
	Next(ctx context.Context, date time.Time) (domain.Season, error)
}

type SeasonManager struct {
	store  SeasonStore
	logger zerolog.Logger
}

func NewSeasonManager(store SeasonStore, logger zerolog.Logger) *SeasonManager {
	return &SeasonManager{store: store, logger: logger}
}

func (m *SeasonManager) CurrentSeason(ctx context.Context, date time.Time) (domain.Season, error) {
	season, err := m.store.ForDate(ctx, domain.Day(date))
	if errors.Is(err, repository.ErrNotFound) {
		m.logger.Debug().Str("date", date.Format(constants.DateLayout)).Msg("no season covers date")
		return domain.Season{}, ErrNoActiveSeason
	}
	if err != nil {
		return domain.Season{}, fmt.Errorf("failed to get current season: %w", err)
	}
	return season, nil
}

// PreviousSeason returns the most recent season that ended before date.
func (m *SeasonManager) PreviousSeason(ctx context.Context, date time.Time) (domain.Season, error) {
	season, err := m.store.Previous(ctx, domain.Day(date))
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Season{}, ErrNoActiveSeason
	}
	if err != nil {
		return domain.Season{}, fmt.Errorf("failed to get previous season: %w", err)
	}
	return season, nil
}

// UpcomingSeason returns the season covering date or, failing that, the
// first one starting after it.
func (m *SeasonManager) UpcomingSeason(ctx context.Context, date time.Time) (domain.Season, error) {
	season, err := m.CurrentSeason(ctx, date)
	if !errors.Is(err, ErrNoActiveSeason) {
		return season, err
	}
	season, err = m.store.Next(ctx, domain.Day(date))
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Season{}, ErrNoActiveSeason
	}
	if err != nil {
		return domain.Season{}, fmt.Errorf("failed to get next season: %w", err)
	}
	return season, nil
}

// IsFinalWeek reports whether date falls in the last seven days of the season.
func IsFinalWeek(season domain.Season, date time.Time) bool {
	day := domain.Day(date)
	finalStart := season.EndDate.AddDate(0, 0, -(constants.DaysPerWeek - 1))
	return !day.Before(finalStart) && !day.After(season.EndDate)
}

// WeekOfSeason returns the 1-based week of date within the season, or 0 when
// the date is outside it.
func WeekOfSeason(season domain.Season, date time.Time) int {
	day := domain.Day(date)
	if !season.Contains(day) {
		return 0
	}
	days := 0
	for d := season.StartDate; d.Before(day); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days/constants.DaysPerWeek + 1
}

// NewSeason builds the season that starts on start and runs for weeks weeks.
func NewSeason(start time.Time, weeks int, now time.Time) domain.Season {
	start = domain.Day(start)
	end := start.AddDate(0, 0, weeks*constants.DaysPerWeek-1)
	return domain.Season{
		ID:        "S" + start.Format("20060102"),
		Name:      fmt.Sprintf("Season %s", start.Format(constants.DateLayout)),
		StartDate: start,
		EndDate:   end,
		CreatedAt: now,
	}
}
