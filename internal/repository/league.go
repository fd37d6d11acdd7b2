package repository

import (
	"context"
	"fmt"
	"time"

	"league-ladder/internal/db"
	"league-ladder/internal/domain"
)

type LeagueRepository struct {
	queries *db.Queries
}

// ListBucket returns the leagues of one (season, tier, category) bucket,
// least populated first and oldest first among equals.
func (r *LeagueRepository) ListBucket(ctx context.Context, seasonID string, tier domain.Tier, category string) ([]domain.League, error) {
	rows, err := r.queries.ListBucketLeagues(ctx, db.ListBucketLeaguesParams{
		SeasonID: seasonID,
		Tier:     int64(tier),
		Category: category,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}

	leagues := make([]domain.League, len(rows))
	for i, row := range rows {
		leagues[i] = domain.League{
			ID:        row.ID,
			SeasonID:  row.SeasonID,
			Tier:      domain.Tier(row.Tier),
			Category:  row.Category,
			Members:   int(row.Members),
			CreatedAt: row.CreatedAt,
		}
	}
	return leagues, nil
}

func (r *LeagueRepository) ListSeason(ctx context.Context, seasonID string) ([]domain.League, error) {
	rows, err := r.queries.ListSeasonLeagues(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list season leagues: %w", err)
	}

	leagues := make([]domain.League, len(rows))
	for i, row := range rows {
		leagues[i] = domain.League{
			ID:        row.ID,
			SeasonID:  row.SeasonID,
			Tier:      domain.Tier(row.Tier),
			Category:  row.Category,
			Members:   int(row.Members),
			CreatedAt: row.CreatedAt,
		}
	}
	return leagues, nil
}

func (r *LeagueRepository) Get(ctx context.Context, id int64) (domain.League, error) {
	row, err := r.queries.GetLeague(ctx, id)
	if err != nil {
		return domain.League{}, notFound(err)
	}
	return domain.League{
		ID:        row.ID,
		SeasonID:  row.SeasonID,
		Tier:      domain.Tier(row.Tier),
		Category:  row.Category,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (r *LeagueRepository) Create(ctx context.Context, seasonID string, tier domain.Tier, category string) (domain.League, error) {
	row, err := r.queries.CreateLeague(ctx, db.CreateLeagueParams{
		SeasonID:  seasonID,
		Tier:      int64(tier),
		Category:  category,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return domain.League{}, fmt.Errorf("failed to create league: %w", err)
	}
	return domain.League{
		ID:        row.ID,
		SeasonID:  row.SeasonID,
		Tier:      domain.Tier(row.Tier),
		Category:  row.Category,
		CreatedAt: row.CreatedAt,
	}, nil
}

// LatestMember returns the most recently updated ranking of a league.
func (r *LeagueRepository) LatestMember(ctx context.Context, leagueID int64) (domain.Ranking, error) {
	row, err := r.queries.GetLatestLeagueRanking(ctx, leagueID)
	if err != nil {
		return domain.Ranking{}, notFound(err)
	}
	return rankingToDomain(row), nil
}

// MoveMember changes a member's league and tier in one statement.
func (r *LeagueRepository) MoveMember(ctx context.Context, memberID, seasonID string, leagueID int64, tier domain.Tier, at time.Time) error {
	n, err := r.queries.MoveRanking(ctx, db.MoveRankingParams{
		LeagueID:  leagueID,
		Tier:      int64(tier),
		UpdatedAt: at.UTC(),
		MemberID:  memberID,
		SeasonID:  seasonID,
	})
	if err != nil {
		return fmt.Errorf("failed to move ranking: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
