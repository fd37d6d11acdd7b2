package repository

import (
	"context"
	"fmt"
	"time"

	"league-ladder/internal/db"
	"league-ladder/internal/domain"
)

type SeasonRepository struct {
	queries *db.Queries
	loc     *time.Location
}

// ForDate returns the season whose inclusive date range contains date.
func (r *SeasonRepository) ForDate(ctx context.Context, date time.Time) (domain.Season, error) {
	day := formatDate(date)
	row, err := r.queries.GetSeasonForDate(ctx, db.GetSeasonForDateParams{
		StartDate: day,
		EndDate:   day,
	})
	if err != nil {
		return domain.Season{}, notFound(err)
	}
	return r.toDomain(row)
}

// Previous returns the latest season that ended before date.
func (r *SeasonRepository) Previous(ctx context.Context, date time.Time) (domain.Season, error) {
	row, err := r.queries.GetPreviousSeason(ctx, formatDate(date))
	if err != nil {
		return domain.Season{}, notFound(err)
	}
	return r.toDomain(row)
}

// Next returns the earliest season starting on or after date.
func (r *SeasonRepository) Next(ctx context.Context, date time.Time) (domain.Season, error) {
	row, err := r.queries.GetNextSeason(ctx, formatDate(date))
	if err != nil {
		return domain.Season{}, notFound(err)
	}
	return r.toDomain(row)
}

func (r *SeasonRepository) Get(ctx context.Context, id string) (domain.Season, error) {
	row, err := r.queries.GetSeason(ctx, id)
	if err != nil {
		return domain.Season{}, notFound(err)
	}
	return r.toDomain(row)
}

// Create stores a season. Seasons may not overlap.
func (r *SeasonRepository) Create(ctx context.Context, season domain.Season) error {
	overlapping, err := r.queries.ListOverlappingSeasons(ctx, db.ListOverlappingSeasonsParams{
		StartDate: formatDate(season.EndDate),
		EndDate:   formatDate(season.StartDate),
	})
	if err != nil {
		return fmt.Errorf("failed to check overlapping seasons: %w", err)
	}
	if len(overlapping) > 0 {
		return fmt.Errorf("season %s overlaps season %s", season.ID, overlapping[0].ID)
	}

	err = r.queries.CreateSeason(ctx, db.CreateSeasonParams{
		ID:        season.ID,
		Name:      season.Name,
		StartDate: formatDate(season.StartDate),
		EndDate:   formatDate(season.EndDate),
		CreatedAt: season.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to create season: %w", err)
	}
	return nil
}

func (r *SeasonRepository) toDomain(row db.Season) (domain.Season, error) {
	start, err := parseDate(row.StartDate, r.loc)
	if err != nil {
		return domain.Season{}, err
	}
	end, err := parseDate(row.EndDate, r.loc)
	if err != nil {
		return domain.Season{}, err
	}
	return domain.Season{
		ID:        row.ID,
		Name:      row.Name,
		StartDate: start,
		EndDate:   end,
		CreatedAt: row.CreatedAt,
	}, nil
}
