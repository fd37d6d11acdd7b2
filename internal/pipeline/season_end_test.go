package pipeline

import (
	"context"
	"testing"

	"league-ladder/internal/domain"
	"league-ladder/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeasonEndRollsOverSeason(t *testing.T) {
	env := newTestEnv(t, testConfig(t))
	ctx := context.Background()
	old := env.season(t, date(2025, 3, 3))

	gold := env.league(t, old.ID, domain.TierGold, "math")
	silver := env.league(t, old.ID, domain.TierSilver, "math")
	diamond := env.league(t, old.ID, domain.TierDiamond, "science")
	env.member(t, "a", "math")
	env.member(t, "b", "math")
	env.member(t, "c", "science")
	env.rank(t, "a", gold, old.StartDate)
	env.rank(t, "b", silver, old.StartDate)
	env.rank(t, "c", diamond, old.StartDate)

	runDate := date(2025, 4, 28)
	result := env.runner.Run(ctx, env.pipelines.SeasonEnd, runContext(runDate))
	require.Equal(t, StatusCompleted, result.Status, result.Error)
	assert.Equal(t, []string{"season-close-reward", "archive-standings", "open-season", "replace-members"},
		env.pipelines.SeasonEnd.Stages())

	assert.Equal(t, 30, env.mail(t, "a")["season-close:S20250303:a"])
	assert.Equal(t, 15, env.mail(t, "b")["season-close:S20250303:b"])
	assert.Equal(t, 80, env.mail(t, "c")["season-close:S20250303:c"])

	var archived int
	require.NoError(t, env.db.QueryRow("SELECT COUNT(*) FROM ranking_archive WHERE season_id = ?", old.ID).Scan(&archived))
	assert.Equal(t, 3, archived)

	next, err := env.store.Seasons.ForDate(ctx, runDate)
	require.NoError(t, err)
	assert.Equal(t, "S20250428", next.ID)
	assert.Equal(t, date(2025, 6, 22), next.EndDate)

	a := env.ranking(t, "a", next.ID)
	b := env.ranking(t, "b", next.ID)
	c := env.ranking(t, "c", next.ID)
	assert.Equal(t, domain.TierBronze, a.Tier)
	assert.Equal(t, domain.TierBronze, c.Tier)
	assert.Equal(t, a.LeagueID, b.LeagueID)
	assert.NotEqual(t, a.LeagueID, c.LeagueID)

	_, err = env.store.Rankings.Get(ctx, "a", old.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	again := env.runner.Run(ctx, env.pipelines.SeasonEnd, runContext(runDate))
	assert.Equal(t, StatusSkipped, again.Status)
	assert.Len(t, env.mail(t, "a"), 1)
}

func TestSeasonEndBootstrapsFirstSeason(t *testing.T) {
	env := newTestEnv(t, testConfig(t))
	ctx := context.Background()

	result := env.runner.Run(ctx, env.pipelines.SeasonEnd, runContext(date(2025, 3, 3)))
	require.Equal(t, StatusCompleted, result.Status, result.Error)
	assert.Equal(t, 1, result.Stages[2].Counts["opened"])

	season, err := env.store.Seasons.ForDate(ctx, date(2025, 3, 3))
	require.NoError(t, err)
	assert.Equal(t, date(2025, 4, 27), season.EndDate)
}

func TestOpenSeasonKeepsExistingSeason(t *testing.T) {
	env := newTestEnv(t, testConfig(t))
	ctx := context.Background()
	existing := env.season(t, date(2025, 3, 3))

	result := env.runner.Run(ctx, env.pipelines.SeasonEnd, runContext(date(2025, 3, 10)))
	require.Equal(t, StatusCompleted, result.Status, result.Error)
	assert.Equal(t, 0, result.Stages[2].Counts["opened"])

	season, err := env.store.Seasons.ForDate(ctx, date(2025, 3, 10))
	require.NoError(t, err)
	assert.Equal(t, existing.ID, season.ID)
}

func TestSeasonEndPlacesMembersInSeededSeason(t *testing.T) {
	env := newTestEnv(t, testConfig(t))
	ctx := context.Background()
	old := env.season(t, date(2025, 7, 7))
	seeded := env.season(t, date(2025, 9, 3))

	silver := env.league(t, old.ID, domain.TierSilver, "math")
	env.member(t, "m1", "math")
	env.rank(t, "m1", silver, old.StartDate)

	result := env.runner.Run(ctx, env.pipelines.SeasonEnd, runContext(date(2025, 9, 1)))
	require.Equal(t, StatusCompleted, result.Status, result.Error)
	assert.Equal(t, 0, result.Stages[2].Counts["opened"])
	assert.Equal(t, 1, result.Stages[3].Counts["placed"])

	_, err := env.store.Seasons.ForDate(ctx, date(2025, 9, 1))
	assert.ErrorIs(t, err, repository.ErrNotFound)

	r := env.ranking(t, "m1", seeded.ID)
	assert.Equal(t, domain.TierBronze, r.Tier)

	_, err = env.store.Rankings.Get(ctx, "m1", old.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
