package repository

import (
	"context"
	"fmt"
	"time"

	"league-ladder/internal/db"
	"league-ladder/internal/domain"
)

type RankingRepository struct {
	queries *db.Queries
}

// ArchivedMember is a member's final standing in a closed season.
type ArchivedMember struct {
	MemberID string
	Tier     domain.Tier
	Category string
}

func (r *RankingRepository) Get(ctx context.Context, memberID, seasonID string) (domain.Ranking, error) {
	row, err := r.queries.GetRanking(ctx, db.GetRankingParams{
		MemberID: memberID,
		SeasonID: seasonID,
	})
	if err != nil {
		return domain.Ranking{}, notFound(err)
	}
	return rankingToDomain(row), nil
}

func (r *RankingRepository) Create(ctx context.Context, ranking domain.Ranking) error {
	err := r.queries.CreateRanking(ctx, db.CreateRankingParams{
		MemberID:  ranking.MemberID,
		SeasonID:  ranking.SeasonID,
		LeagueID:  ranking.LeagueID,
		Tier:      int64(ranking.Tier),
		Score:     int64(ranking.Score),
		UpdatedAt: ranking.UpdatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to create ranking for %s: %w", ranking.MemberID, err)
	}
	return nil
}

// ListLeague returns a league's rankings, best score first.
func (r *RankingRepository) ListLeague(ctx context.Context, leagueID int64) ([]domain.Ranking, error) {
	rows, err := r.queries.ListLeagueRankings(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list league rankings: %w", err)
	}
	return rankingsToDomain(rows), nil
}

func (r *RankingRepository) ListSeason(ctx context.Context, seasonID string) ([]domain.Ranking, error) {
	rows, err := r.queries.ListSeasonRankings(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list season rankings: %w", err)
	}
	return rankingsToDomain(rows), nil
}

// RefreshScores sets every ranking's score to the member's minutes in the
// given stats period. Members without stats score zero.
func (r *RankingRepository) RefreshScores(ctx context.Context, seasonID, period string) (int, error) {
	n, err := r.queries.RefreshRankingScores(ctx, db.RefreshRankingScoresParams{
		Period:   period,
		SeasonID: seasonID,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to refresh ranking scores: %w", err)
	}
	return int(n), nil
}

func (r *RankingRepository) ResetScores(ctx context.Context, seasonID string) (int, error) {
	n, err := r.queries.ResetRankingScores(ctx, seasonID)
	if err != nil {
		return 0, fmt.Errorf("failed to reset ranking scores: %w", err)
	}
	return int(n), nil
}

func (r *RankingRepository) DeleteSeason(ctx context.Context, seasonID string) (int, error) {
	n, err := r.queries.DeleteSeasonRankings(ctx, seasonID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete season rankings: %w", err)
	}
	return int(n), nil
}

// Archive copies a season's standings into the archive. Rows already
// archived are left alone.
func (r *RankingRepository) Archive(ctx context.Context, seasonID string, at time.Time) (int, error) {
	n, err := r.queries.ArchiveSeasonRankings(ctx, db.ArchiveSeasonRankingsParams{
		ArchivedAt: at.UTC(),
		SeasonID:   seasonID,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to archive season rankings: %w", err)
	}
	return int(n), nil
}

func (r *RankingRepository) ListArchived(ctx context.Context, seasonID string) ([]ArchivedMember, error) {
	rows, err := r.queries.ListArchivedMembers(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived members: %w", err)
	}

	members := make([]ArchivedMember, len(rows))
	for i, row := range rows {
		members[i] = ArchivedMember{
			MemberID: row.MemberID,
			Tier:     domain.Tier(row.Tier),
			Category: row.Category,
		}
	}
	return members, nil
}

func rankingToDomain(row db.Ranking) domain.Ranking {
	return domain.Ranking{
		MemberID:  row.MemberID,
		SeasonID:  row.SeasonID,
		LeagueID:  row.LeagueID,
		Tier:      domain.Tier(row.Tier),
		Score:     int(row.Score),
		UpdatedAt: row.UpdatedAt,
	}
}

func rankingsToDomain(rows []db.Ranking) []domain.Ranking {
	rankings := make([]domain.Ranking, len(rows))
	for i, row := range rows {
		rankings[i] = rankingToDomain(row)
	}
	return rankings
}
