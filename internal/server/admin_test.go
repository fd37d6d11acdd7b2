package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"league-ladder/internal/config"
	"league-ladder/internal/database"
	"league-ladder/internal/domain"
	"league-ladder/internal/lock"
	"league-ladder/internal/metrics"
	"league-ladder/internal/pipeline"
	"league-ladder/internal/repository"
	"league-ladder/internal/scheduler"
	"league-ladder/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type adminEnv struct {
	store   *repository.Store
	handler http.Handler
}

func newAdminEnv(t *testing.T) *adminEnv {
	t.Helper()
	logger := zerolog.Nop()
	cfg := &config.Config{
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
		PlacementWorkers:   2,
		Rewards:            domain.DefaultRewardTable(),
	}

	sqlDB, err := database.New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	store := repository.NewStore(sqlDB, cfg, logger)
	m := metrics.New()
	seasons := service.NewSeasonManager(store.Seasons, logger)
	pipelines := pipeline.NewPipelines(pipeline.Deps{
		Config:   cfg,
		Assigner: service.NewLeagueAssigner(cfg, logger),
		Activity: store.Stats,
		Logger:   logger,
	})
	runner := pipeline.NewRunner(store, lock.NewLocalGuard(), m, noop.NewTracerProvider().Tracer("test"), logger)
	orchestrator := scheduler.NewOrchestrator(pipelines, runner, seasons, nil, scheduler.SystemClock(), cfg, logger)

	admin := NewAdmin(orchestrator, store.Runs, seasons, m, sqlDB, cfg, logger)
	return &adminEnv{store: store, handler: admin.Handler()}
}

func (e *adminEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	env := newAdminEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestManualRunAndMarkers(t *testing.T) {
	env := newAdminEnv(t)

	rec := env.do(t, http.MethodPost, "/runs", `{"date":"2025-03-11","pipelines":["daily"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report scheduler.RunReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "2025-03-11", report.Date)
	assert.Equal(t, []string{pipeline.Daily}, report.Planned)
	require.Len(t, report.Results, 1)
	assert.Equal(t, pipeline.StatusCompleted, report.Results[0].Status)

	rec = env.do(t, http.MethodGet, "/runs/2025-03-11", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var runs []batchRunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	assert.Len(t, runs, 6)
	for _, run := range runs {
		assert.Equal(t, pipeline.Daily, run.Pipeline)
		assert.Equal(t, report.RunID, run.RunID)
	}

	rec = env.do(t, http.MethodPost, "/runs", `{"date":"2025-03-11","pipelines":["daily"]}`)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, pipeline.StatusSkipped, report.Results[0].Status)
}

func TestManualRunRejectsBadInput(t *testing.T) {
	env := newAdminEnv(t)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/runs", `{"date":"11/03/2025"}`).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/runs", `not json`).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/runs/yesterday", "").Code)
}

func TestManualRunRejectsUnknownPipeline(t *testing.T) {
	env := newAdminEnv(t)

	rec := env.do(t, http.MethodPost, "/runs", `{"date":"2025-03-11","pipelines":["daily","weekley"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "weekley")

	runs, err := env.store.Runs.ListByDate(context.Background(), "2025-03-11")
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestCurrentSeason(t *testing.T) {
	env := newAdminEnv(t)

	rec := env.do(t, http.MethodGet, "/seasons/current?date=2025-03-24", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	season := service.NewSeason(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), 8, time.Now())
	require.NoError(t, env.store.Seasons.Create(context.Background(), season))

	rec = env.do(t, http.MethodGet, "/seasons/current?date=2025-04-22", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got seasonResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "S20250303", got.ID)
	assert.Equal(t, "2025-04-27", got.EndDate)
	assert.Equal(t, 8, got.Week)
	assert.True(t, got.FinalWeek)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newAdminEnv(t)
	env.do(t, http.MethodPost, "/runs", `{"date":"2025-03-11","pipelines":["daily"]}`)

	rec := env.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ladder_")
}
