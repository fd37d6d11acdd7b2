package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"league-ladder/internal/config"
	"league-ladder/internal/domain"
	"league-ladder/internal/pipeline"
	"league-ladder/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSeasons struct {
	season domain.Season
	err    error
}

func (f fakeSeasons) CurrentSeason(_ context.Context, date time.Time) (domain.Season, error) {
	if f.err != nil {
		return domain.Season{}, f.err
	}
	if !f.season.Contains(date) {
		return domain.Season{}, service.ErrNoActiveSeason
	}
	return f.season, nil
}

type fakeRunner struct {
	mu     sync.Mutex
	calls  []string
	dates  []time.Time
	runIDs []string
	panics map[string]bool
	fails  map[string]bool
}

func (f *fakeRunner) Run(_ context.Context, p *pipeline.Pipeline, rc pipeline.RunContext) pipeline.Result {
	f.mu.Lock()
	f.calls = append(f.calls, p.Name())
	f.dates = append(f.dates, rc.Date)
	f.runIDs = append(f.runIDs, rc.RunID)
	f.mu.Unlock()

	if f.panics[p.Name()] {
		panic("stage exploded")
	}
	if f.fails[p.Name()] {
		return pipeline.Result{Pipeline: p.Name(), Status: pipeline.StatusFailed, Error: "boom"}
	}
	return pipeline.Result{Pipeline: p.Name(), Status: pipeline.StatusCompleted}
}

type fakeReporter struct {
	reports []RunReport
	err     error
}

func (f *fakeReporter) Send(_ context.Context, report RunReport) error {
	f.reports = append(f.reports, report)
	return f.err
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func activeSeason() fakeSeasons {
	return fakeSeasons{season: service.NewSeason(date(2025, 8, 18), 8, date(2025, 8, 18))}
}

func testPipelines() *pipeline.Pipelines {
	return &pipeline.Pipelines{
		Daily:     pipeline.New(pipeline.Daily),
		Monthly:   pipeline.New(pipeline.Monthly),
		Weekly:    pipeline.New(pipeline.Weekly),
		SeasonEnd: pipeline.New(pipeline.SeasonEnd),
	}
}

func testConfig() *config.Config {
	return &config.Config{Location: time.UTC, Weekday: time.Monday, CronSpec: "0 0 * * *"}
}

func newOrchestrator(seasons SeasonResolver, runner PipelineRunner, reporter Reporter, clock Clock, cfg *config.Config) *Orchestrator {
	return NewOrchestrator(testPipelines(), runner, seasons, reporter, clock, cfg, zerolog.Nop())
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name      string
		seasons   fakeSeasons
		date      time.Time
		weekStart time.Weekday
		want      []string
	}{
		{"plain weekday", activeSeason(), date(2025, 9, 2), time.Monday, []string{pipeline.Daily}},
		{"first of month", activeSeason(), date(2025, 10, 1), time.Monday, []string{pipeline.Daily, pipeline.Monthly}},
		{"week start in season", activeSeason(), date(2025, 9, 8), time.Monday, []string{pipeline.Daily, pipeline.Weekly}},
		{"monday the first", activeSeason(), date(2025, 9, 1), time.Monday,
			[]string{pipeline.Daily, pipeline.Monthly, pipeline.Weekly}},
		{"week start without season", fakeSeasons{}, date(2025, 9, 8), time.Monday,
			[]string{pipeline.Daily, pipeline.SeasonEnd}},
		{"season opened today", fakeSeasons{season: service.NewSeason(date(2025, 9, 8), 8, date(2025, 9, 8))},
			date(2025, 9, 8), time.Monday, []string{pipeline.Daily, pipeline.SeasonEnd}},
		{"sunday week start", activeSeason(), date(2025, 9, 7), time.Sunday, []string{pipeline.Daily, pipeline.Weekly}},
		{"monday with sunday week start", activeSeason(), date(2025, 9, 8), time.Sunday, []string{pipeline.Daily}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Plan(context.Background(), tt.seasons, tt.date, tt.weekStart)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanPropagatesSeasonErrors(t *testing.T) {
	_, err := Plan(context.Background(), fakeSeasons{err: errors.New("db down")}, date(2025, 9, 8), time.Monday)
	assert.ErrorContains(t, err, "db down")
}

func TestOrchestratorRunsEachPlannedPipelineOnceInOrder(t *testing.T) {
	runner := &fakeRunner{}
	reporter := &fakeReporter{}
	o := newOrchestrator(activeSeason(), runner, reporter, FixedClock{At: date(2025, 9, 1)}, testConfig())

	report := o.Run(context.Background(), date(2025, 9, 1), Options{})

	assert.Equal(t, []string{pipeline.Daily, pipeline.Monthly, pipeline.Weekly}, runner.calls)
	assert.Equal(t, pipeline.StatusCompleted, report.Status)
	assert.Equal(t, "2025-09-01", report.Date)
	require.Len(t, report.Results, 3)
	for i, d := range runner.dates {
		assert.Equal(t, date(2025, 9, 1), d)
		assert.Equal(t, report.RunID, runner.runIDs[i])
	}
	require.Len(t, reporter.reports, 1)
	assert.Equal(t, report.RunID, reporter.reports[0].RunID)
}

func TestOrchestratorIsolatesFailures(t *testing.T) {
	runner := &fakeRunner{
		panics: map[string]bool{pipeline.Daily: true},
		fails:  map[string]bool{pipeline.Monthly: true},
	}
	o := newOrchestrator(activeSeason(), runner, nil, FixedClock{At: date(2025, 9, 1)}, testConfig())

	var report RunReport
	require.NotPanics(t, func() {
		report = o.Run(context.Background(), date(2025, 9, 1), Options{})
	})

	assert.Equal(t, pipeline.StatusFailed, report.Status)
	require.Len(t, report.Results, 3)
	assert.Contains(t, report.Results[0].Error, "panic")
	assert.True(t, report.Results[1].Failed())
	assert.Equal(t, pipeline.StatusCompleted, report.Results[2].Status)
}

func TestOrchestratorSeasonEndBranch(t *testing.T) {
	runner := &fakeRunner{}
	o := newOrchestrator(fakeSeasons{}, runner, nil, FixedClock{At: date(2025, 9, 8)}, testConfig())

	o.Run(context.Background(), date(2025, 9, 8), Options{})
	assert.Equal(t, []string{pipeline.Daily, pipeline.SeasonEnd}, runner.calls)
}

func TestOrchestratorEnabledSet(t *testing.T) {
	runner := &fakeRunner{}
	o := newOrchestrator(activeSeason(), runner, nil, FixedClock{At: date(2025, 9, 1)}, testConfig())

	report := o.Run(context.Background(), date(2025, 9, 1), Options{Enabled: map[string]bool{pipeline.Weekly: true}})
	assert.Equal(t, []string{pipeline.Weekly}, runner.calls)
	assert.Equal(t, []string{pipeline.Daily, pipeline.Monthly, pipeline.Weekly}, report.Planned)
}

func TestOrchestratorPlanFailure(t *testing.T) {
	runner := &fakeRunner{}
	reporter := &fakeReporter{}
	o := newOrchestrator(fakeSeasons{err: errors.New("db down")}, runner, reporter, FixedClock{At: date(2025, 9, 8)}, testConfig())

	report := o.Run(context.Background(), date(2025, 9, 8), Options{})
	assert.Equal(t, pipeline.StatusFailed, report.Status)
	assert.Contains(t, report.Error, "db down")
	assert.Empty(t, runner.calls)
	assert.Len(t, reporter.reports, 1)
}

func TestOrchestratorReporterErrorIsNotFatal(t *testing.T) {
	reporter := &fakeReporter{err: errors.New("webhook down")}
	o := newOrchestrator(activeSeason(), &fakeRunner{}, reporter, FixedClock{At: date(2025, 9, 2)}, testConfig())

	report := o.Run(context.Background(), date(2025, 9, 2), Options{})
	assert.Equal(t, pipeline.StatusCompleted, report.Status)
}

func TestTickUsesLocalCalendarDay(t *testing.T) {
	cfg := testConfig()
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	cfg.Location = seoul

	runner := &fakeRunner{}
	// 2025-08-31 20:00 UTC is already 2025-09-01 in Seoul.
	o := newOrchestrator(fakeSeasons{}, runner, nil, FixedClock{At: time.Date(2025, 8, 31, 20, 0, 0, 0, time.UTC)}, cfg)

	report := o.Tick(context.Background())
	assert.Equal(t, "2025-09-01", report.Date)
	assert.Equal(t, []string{pipeline.Daily, pipeline.Monthly, pipeline.SeasonEnd}, runner.calls)
	assert.Equal(t, seoul, runner.dates[0].Location())
}

func TestNewCronTrigger(t *testing.T) {
	o := newOrchestrator(activeSeason(), &fakeRunner{}, nil, SystemClock(), testConfig())

	trigger, err := NewCronTrigger(testConfig(), o, zerolog.Nop())
	require.NoError(t, err)
	trigger.Start()
	assert.Len(t, trigger.cron.Entries(), 1)
	require.NoError(t, trigger.Stop(context.Background()))

	bad := testConfig()
	bad.CronSpec = "every day"
	_, err = NewCronTrigger(bad, o, zerolog.Nop())
	assert.Error(t, err)
}
