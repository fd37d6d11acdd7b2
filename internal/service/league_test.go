package service

import (
	"cmp"
	"context"
	"slices"
	"testing"
	"time"

	"league-ladder/internal/config"
	"league-ladder/internal/domain"
	"league-ladder/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeagueStore struct {
	leagues  []domain.League
	rankings map[string]domain.Ranking
}

func newFakeLeagueStore() *fakeLeagueStore {
	return &fakeLeagueStore{rankings: map[string]domain.Ranking{}}
}

func (f *fakeLeagueStore) count(leagueID int64) int {
	n := 0
	for _, r := range f.rankings {
		if r.LeagueID == leagueID {
			n++
		}
	}
	return n
}

func (f *fakeLeagueStore) ListBucket(_ context.Context, seasonID string, tier domain.Tier, category string) ([]domain.League, error) {
	var out []domain.League
	for _, l := range f.leagues {
		if l.SeasonID == seasonID && l.Tier == tier && l.Category == category {
			l.Members = f.count(l.ID)
			out = append(out, l)
		}
	}
	slices.SortFunc(out, func(a, b domain.League) int {
		if c := cmp.Compare(a.Members, b.Members); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (f *fakeLeagueStore) Get(_ context.Context, id int64) (domain.League, error) {
	for _, l := range f.leagues {
		if l.ID == id {
			return l, nil
		}
	}
	return domain.League{}, repository.ErrNotFound
}

func (f *fakeLeagueStore) Create(_ context.Context, seasonID string, tier domain.Tier, category string) (domain.League, error) {
	l := domain.League{ID: int64(len(f.leagues) + 1), SeasonID: seasonID, Tier: tier, Category: category}
	f.leagues = append(f.leagues, l)
	return l, nil
}

func (f *fakeLeagueStore) LatestMember(_ context.Context, leagueID int64) (domain.Ranking, error) {
	var latest *domain.Ranking
	for _, r := range f.rankings {
		if r.LeagueID != leagueID {
			continue
		}
		if latest == nil || r.UpdatedAt.After(latest.UpdatedAt) ||
			(r.UpdatedAt.Equal(latest.UpdatedAt) && r.MemberID > latest.MemberID) {
			latest = &r
		}
	}
	if latest == nil {
		return domain.Ranking{}, repository.ErrNotFound
	}
	return *latest, nil
}

func (f *fakeLeagueStore) MoveMember(_ context.Context, memberID, seasonID string, leagueID int64, tier domain.Tier, at time.Time) error {
	r, ok := f.rankings[memberID]
	if !ok || r.SeasonID != seasonID {
		return repository.ErrNotFound
	}
	r.LeagueID, r.Tier, r.UpdatedAt = leagueID, tier, at
	f.rankings[memberID] = r
	return nil
}

func (f *fakeLeagueStore) join(memberID string, league domain.League, at time.Time) {
	f.rankings[memberID] = domain.Ranking{
		MemberID:  memberID,
		SeasonID:  league.SeasonID,
		LeagueID:  league.ID,
		Tier:      league.Tier,
		UpdatedAt: at,
	}
}

func newAssigner(capacity int) *LeagueAssigner {
	return NewLeagueAssigner(&config.Config{LeagueCapacity: capacity}, zerolog.Nop())
}

func TestAssignFillsBeforeCreating(t *testing.T) {
	ctx := context.Background()
	store := newFakeLeagueStore()
	assigner := newAssigner(3)
	at := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		league, err := assigner.Assign(ctx, store, "S1", domain.TierBronze, "math")
		require.NoError(t, err)

		buckets, err := store.ListBucket(ctx, "S1", domain.TierBronze, "math")
		require.NoError(t, err)
		for _, l := range buckets {
			if l.ID != league.ID {
				continue
			}
			assert.Less(t, l.Members, 3, "assigned league must have room")
		}
		store.join(string(rune('a'+i)), league, at)
	}

	buckets, err := store.ListBucket(ctx, "S1", domain.TierBronze, "math")
	require.NoError(t, err)
	require.Len(t, buckets, 4)
	for _, l := range buckets {
		assert.LessOrEqual(t, l.Members, 3)
	}
}

func TestAssignPrefersLeastPopulatedThenOldest(t *testing.T) {
	ctx := context.Background()
	store := newFakeLeagueStore()
	assigner := newAssigner(20)
	at := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	first, _ := store.Create(ctx, "S1", domain.TierSilver, "math")
	second, _ := store.Create(ctx, "S1", domain.TierSilver, "math")
	third, _ := store.Create(ctx, "S1", domain.TierSilver, "math")
	store.join("a", first, at)
	store.join("b", first, at)
	store.join("c", second, at)
	store.join("d", third, at)

	league, err := assigner.Assign(ctx, store, "S1", domain.TierSilver, "math")
	require.NoError(t, err)
	assert.Equal(t, second.ID, league.ID)
}

func TestAssignKeepsBucketsApart(t *testing.T) {
	ctx := context.Background()
	store := newFakeLeagueStore()
	assigner := newAssigner(20)

	science, _ := store.Create(ctx, "S1", domain.TierGold, "science")

	league, err := assigner.Assign(ctx, store, "S1", domain.TierGold, "math")
	require.NoError(t, err)
	assert.NotEqual(t, science.ID, league.ID)
	assert.Equal(t, "math", league.Category)
	assert.Equal(t, domain.TierGold, league.Tier)
}

func TestRebalanceEvensOutBucket(t *testing.T) {
	ctx := context.Background()
	store := newFakeLeagueStore()
	assigner := newAssigner(20)
	base := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	full, _ := store.Create(ctx, "S1", domain.TierSilver, "math")
	empty, _ := store.Create(ctx, "S1", domain.TierSilver, "math")
	for i := 0; i < 9; i++ {
		store.join(string(rune('a'+i)), full, base.Add(time.Duration(i)*time.Minute))
	}
	store.join("z", empty, base)

	moved, err := assigner.Rebalance(ctx, store, "S1", domain.TierSilver, "math", base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 4, moved)

	buckets, err := store.ListBucket(ctx, "S1", domain.TierSilver, "math")
	require.NoError(t, err)
	assert.Equal(t, 5, buckets[0].Members)
	assert.Equal(t, 5, buckets[1].Members)

	// the latest arrivals move first
	assert.Equal(t, empty.ID, store.rankings["i"].LeagueID)
	assert.Equal(t, full.ID, store.rankings["a"].LeagueID)
}

func TestRebalanceSpreadProperty(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	for _, sizes := range [][]int{{0, 7}, {1, 1, 12}, {20, 0, 0, 3}, {5, 6}, {2}} {
		store := newFakeLeagueStore()
		assigner := newAssigner(20)
		n := 0
		for _, size := range sizes {
			league, _ := store.Create(ctx, "S1", domain.TierGold, "math")
			for i := 0; i < size; i++ {
				store.join(string(rune(0x4e00+n)), league, at)
				n++
			}
		}

		_, err := assigner.Rebalance(ctx, store, "S1", domain.TierGold, "math", at.Add(time.Minute))
		require.NoError(t, err)

		buckets, err := store.ListBucket(ctx, "S1", domain.TierGold, "math")
		require.NoError(t, err)
		assert.LessOrEqual(t, buckets[len(buckets)-1].Members-buckets[0].Members, 1, "sizes %v", sizes)
		assert.Len(t, store.rankings, n)
	}
}

func TestLocate(t *testing.T) {
	ctx := context.Background()
	store := newFakeLeagueStore()
	assigner := newAssigner(20)
	league, _ := store.Create(ctx, "S1", domain.TierGold, "math")

	got, err := assigner.Locate(ctx, store, domain.Ranking{MemberID: "a", SeasonID: "S1", LeagueID: league.ID, Tier: domain.TierGold})
	require.NoError(t, err)
	assert.Equal(t, league.ID, got.ID)

	_, err = assigner.Locate(ctx, store, domain.Ranking{MemberID: "a", SeasonID: "S1", LeagueID: 99, Tier: domain.TierGold})
	assert.ErrorIs(t, err, ErrLeagueNotFound)

	_, err = assigner.Locate(ctx, store, domain.Ranking{MemberID: "a", SeasonID: "S1", LeagueID: league.ID, Tier: domain.TierSilver})
	assert.ErrorIs(t, err, ErrLeagueNotFound)
}
