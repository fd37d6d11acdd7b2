package pipeline

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"league-ladder/internal/config"
	"league-ladder/internal/database"
	"league-ladder/internal/domain"
	"league-ladder/internal/lock"
	"league-ladder/internal/metrics"
	"league-ladder/internal/repository"
	"league-ladder/internal/service"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type testEnv struct {
	cfg       *config.Config
	db        *sql.DB
	store     *repository.Store
	assigner  *service.LeagueAssigner
	pipelines *Pipelines
	runner    *Runner
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		DBPath:             filepath.Join(t.TempDir(), "ladder.db"),
		Location:           time.UTC,
		Weekday:            time.Monday,
		LeagueCapacity:     20,
		SeasonLengthWeeks:  8,
		MinEligibleMinutes: 60,
		WarningCooldown:    7 * 24 * time.Hour,
		LongFocusThreshold: 12 * time.Hour,
		DailyMissionMins:   30,
		DailyMissionReward: 1,
		MailboxTTL:         14 * 24 * time.Hour,
		PlacementWorkers:   4,
		Rewards:            domain.DefaultRewardTable(),
	}
}

func newTestEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()
	logger := zerolog.Nop()

	sqlDB, err := database.New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	store := repository.NewStore(sqlDB, cfg, logger)
	assigner := service.NewLeagueAssigner(cfg, logger)
	return &testEnv{
		cfg:      cfg,
		db:       sqlDB,
		store:    store,
		assigner: assigner,
		pipelines: NewPipelines(Deps{
			Config:   cfg,
			Assigner: assigner,
			Activity: store.Stats,
			Logger:   logger,
		}),
		runner: NewRunner(store, lock.NewLocalGuard(), metrics.New(), noop.NewTracerProvider().Tracer("test"), logger),
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func runContext(day time.Time) RunContext {
	return RunContext{RunID: "test-" + day.Format("20060102"), Date: day, Now: day.Add(5 * time.Minute)}
}

func (e *testEnv) season(t *testing.T, start time.Time) domain.Season {
	t.Helper()
	season := service.NewSeason(start, e.cfg.SeasonLengthWeeks, start)
	require.NoError(t, e.store.Seasons.Create(context.Background(), season))
	return season
}

func (e *testEnv) league(t *testing.T, seasonID string, tier domain.Tier, category string) domain.League {
	t.Helper()
	league, err := e.store.Leagues.Create(context.Background(), seasonID, tier, category)
	require.NoError(t, err)
	return league
}

type memberOpt func(*domain.Member)

func excludedUntil(day time.Time) memberOpt {
	return func(m *domain.Member) { m.ExcludedUntil = &day }
}

func (e *testEnv) member(t *testing.T, id, category string, opts ...memberOpt) domain.Member {
	t.Helper()
	m := domain.Member{
		ID:        id,
		Name:      gofakeit.Name(),
		Category:  category,
		Level:     1,
		CreatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	require.NoError(t, e.store.Members.Create(context.Background(), m))
	return m
}

func (e *testEnv) rank(t *testing.T, memberID string, league domain.League, at time.Time) {
	t.Helper()
	require.NoError(t, e.store.Rankings.Create(context.Background(), domain.Ranking{
		MemberID:  memberID,
		SeasonID:  league.SeasonID,
		LeagueID:  league.ID,
		Tier:      league.Tier,
		UpdatedAt: at,
	}))
}

func (e *testEnv) focus(t *testing.T, memberID string, startedAt time.Time, minutes int) {
	t.Helper()
	ended := startedAt.Add(time.Duration(minutes) * time.Minute)
	require.NoError(t, e.store.Stats.RecordSession(context.Background(), repository.FocusSession{
		MemberID:  memberID,
		Subject:   gofakeit.RandomString([]string{"math", "reading", "coding"}),
		StartedAt: startedAt,
		EndedAt:   &ended,
		Seconds:   int64(minutes) * 60,
	}))
}

func (e *testEnv) ranking(t *testing.T, memberID, seasonID string) domain.Ranking {
	t.Helper()
	r, err := e.store.Rankings.Get(context.Background(), memberID, seasonID)
	require.NoError(t, err)
	return r
}

func (e *testEnv) mail(t *testing.T, memberID string) map[string]int {
	t.Helper()
	mail, err := e.store.Mailbox.ListMember(context.Background(), memberID)
	require.NoError(t, err)
	out := make(map[string]int, len(mail))
	for _, m := range mail {
		out[m.DedupeKey] = m.Amount
	}
	return out
}

func (e *testEnv) mailCount(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow("SELECT COUNT(*) FROM mailbox").Scan(&n))
	return n
}
