package scheduler

import (
	"context"
	"fmt"
	"time"

	"league-ladder/internal/config"
	"league-ladder/internal/constants"
	"league-ladder/internal/domain"
	"league-ladder/internal/pipeline"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type PipelineRunner interface {
	Run(ctx context.Context, p *pipeline.Pipeline, rc pipeline.RunContext) pipeline.Result
}

type Reporter interface {
	Send(ctx context.Context, report RunReport) error
}

// Options narrows a run. An empty Enabled set runs every planned pipeline.
type Options struct {
	Enabled map[string]bool
}

func (o Options) enabled(name string) bool {
	return len(o.Enabled) == 0 || o.Enabled[name]
}

type RunReport struct {
	RunID      string            `json:"run_id"`
	Date       string            `json:"date"`
	Planned    []string          `json:"planned"`
	Status     string            `json:"status"`
	Error      string            `json:"error,omitempty"`
	Results    []pipeline.Result `json:"results"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
}

type Orchestrator struct {
	pipelines *pipeline.Pipelines
	runner    PipelineRunner
	seasons   SeasonResolver
	reporter  Reporter
	clock     Clock
	loc       *time.Location
	weekStart time.Weekday
	logger    zerolog.Logger
}

func NewOrchestrator(
	pipelines *pipeline.Pipelines,
	runner PipelineRunner,
	seasons SeasonResolver,
	reporter Reporter,
	clock Clock,
	cfg *config.Config,
	logger zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		pipelines: pipelines,
		runner:    runner,
		seasons:   seasons,
		reporter:  reporter,
		clock:     clock,
		loc:       cfg.Location,
		weekStart: cfg.Weekday,
		logger:    logger.With().Str("component", "orchestrator").Logger(),
	}
}

// Tick runs everything due today according to the clock.
func (o *Orchestrator) Tick(ctx context.Context) RunReport {
	return o.Run(ctx, o.clock.Now(), Options{})
}

// Run executes the plan for the calendar day of date in the ladder's time
// zone. A failing or panicking pipeline is reported and the next one still
// runs.
func (o *Orchestrator) Run(ctx context.Context, date time.Time, opts Options) RunReport {
	day := domain.Day(date.In(o.loc))
	report := RunReport{
		RunID:     uuid.NewString(),
		Date:      day.Format(constants.DateLayout),
		Status:    pipeline.StatusCompleted,
		StartedAt: o.clock.Now(),
	}
	logger := o.logger.With().Str("run_id", report.RunID).Str("date", report.Date).Logger()

	planned, err := Plan(ctx, o.seasons, day, o.weekStart)
	if err != nil {
		logger.Error().Err(err).Msg("failed to plan run")
		report.Status = pipeline.StatusFailed
		report.Error = err.Error()
		return o.finish(ctx, report, logger)
	}
	report.Planned = planned
	logger.Info().Strs("planned", planned).Msg("run planned")

	for _, name := range planned {
		if !opts.enabled(name) {
			logger.Debug().Str("pipeline", name).Msg("pipeline not enabled for this run")
			continue
		}
		p, ok := o.pipelines.ByName(name)
		if !ok {
			logger.Error().Str("pipeline", name).Msg("unknown pipeline")
			continue
		}

		rc := pipeline.RunContext{RunID: report.RunID, Date: day, Now: o.clock.Now()}
		result := o.runIsolated(ctx, p, rc)
		report.Results = append(report.Results, result)
		if result.Failed() {
			report.Status = pipeline.StatusFailed
		}
	}

	return o.finish(ctx, report, logger)
}

func (o *Orchestrator) runIsolated(ctx context.Context, p *pipeline.Pipeline, rc pipeline.RunContext) (result pipeline.Result) {
	ctx, cancel := context.WithTimeout(ctx, constants.PipelineTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error().
				Str("pipeline", p.Name()).
				Interface("panic", r).
				Msg("pipeline panicked")
			result = pipeline.Result{
				Pipeline: p.Name(),
				Status:   pipeline.StatusFailed,
				Error:    fmt.Sprintf("panic: %v", r),
			}
		}
	}()

	return o.runner.Run(ctx, p, rc)
}

func (o *Orchestrator) finish(ctx context.Context, report RunReport, logger zerolog.Logger) RunReport {
	report.FinishedAt = o.clock.Now()

	event := logger.Info()
	if report.Status == pipeline.StatusFailed {
		event = logger.Warn()
	}
	event.Str("status", report.Status).Int("pipelines", len(report.Results)).Msg("run finished")

	if o.reporter != nil {
		sendCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
		defer cancel()
		if err := o.reporter.Send(sendCtx, report); err != nil {
			logger.Warn().Err(err).Msg("failed to send run report")
		}
	}
	return report
}
