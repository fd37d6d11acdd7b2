package pipeline

import (
	"context"
	"fmt"
	"time"

	"league-ladder/internal/constants"
	"league-ladder/internal/domain"
	"league-ladder/internal/lock"
	"league-ladder/internal/metrics"
	"league-ladder/internal/repository"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	Daily     = "daily"
	Monthly   = "monthly"
	Weekly    = "weekly"
	SeasonEnd = "season-end"
)

const (
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusSkipped    = "skipped"
	StatusInProgress = "in-progress"
)

// RunContext carries the logical date a run works on. Date is midnight in
// the ladder's time zone and drives every period calculation.
type RunContext struct {
	RunID string
	Date  time.Time
	Now   time.Time
}

func (rc RunContext) Day() string {
	return rc.Date.Format(constants.DateLayout)
}

type StageResult struct {
	Counts map[string]int
}

// Affected sums the counts that changed something.
func (r StageResult) Affected() int {
	total := 0
	for name, n := range r.Counts {
		if affecting(name) {
			total += n
		}
	}
	return total
}

func affecting(count string) bool {
	return count != "failed" && count != "duplicate"
}

type counts map[string]int

func (c counts) result() StageResult {
	return StageResult{Counts: c}
}

type Stage interface {
	Name() string
	Run(ctx context.Context, rc RunContext, tx *repository.Tx) (StageResult, error)
}

// Pipeline is a fixed, ordered list of stages.
type Pipeline struct {
	name   string
	stages []Stage
}

func New(name string, stages ...Stage) *Pipeline {
	return &Pipeline{name: name, stages: stages}
}

func (p *Pipeline) Name() string {
	return p.name
}

func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Store is the transactional ranking store plus the batch run markers.
type Store interface {
	InTx(ctx context.Context, fn func(tx *repository.Tx) error) error
	Completed(ctx context.Context, runDate, pipeline, stage string) (bool, error)
}

type StageReport struct {
	Name     string         `json:"name"`
	Status   string         `json:"status"`
	Counts   map[string]int `json:"counts,omitempty"`
	Error    string         `json:"error,omitempty"`
	Duration time.Duration  `json:"duration"`
}

type Result struct {
	Pipeline string        `json:"pipeline"`
	Status   string        `json:"status"`
	Stages   []StageReport `json:"stages"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

func (r Result) Failed() bool {
	return r.Status == StatusFailed
}

type Runner struct {
	store   Store
	guard   lock.Guard
	metrics *metrics.Metrics
	tracer  trace.Tracer
	logger  zerolog.Logger
}

func NewRunner(store Store, guard lock.Guard, m *metrics.Metrics, tracer trace.Tracer, logger zerolog.Logger) *Runner {
	return &Runner{
		store:   store,
		guard:   guard,
		metrics: m,
		tracer:  tracer,
		logger:  logger,
	}
}

// Run executes the pipeline for rc.Date. A pipeline already completed for
// the date, or currently running for it, is a no-op. Each stage commits
// together with its marker, so a retry resumes after the last committed
// stage.
func (r *Runner) Run(ctx context.Context, p *Pipeline, rc RunContext) Result {
	start := time.Now()
	result := Result{Pipeline: p.name}
	logger := r.logger.With().
		Str("run_id", rc.RunID).
		Str("pipeline", p.name).
		Str("date", rc.Day()).
		Logger()

	ctx, span := r.tracer.Start(ctx, "pipeline."+p.name, trace.WithAttributes(
		attribute.String("ladder.run_id", rc.RunID),
		attribute.String("ladder.date", rc.Day()),
	))
	defer span.End()

	finish := func(status string, err error) Result {
		result.Status = status
		result.Duration = time.Since(start)
		if err != nil {
			result.Error = err.Error()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		r.metrics.ObservePipeline(p.name, status)
		return result
	}

	release, ok, err := r.guard.Acquire(ctx, rc.Day()+"/"+p.name, constants.RunLockTTL)
	if err != nil {
		logger.Error().Err(err).Msg("failed to acquire run guard")
		return finish(StatusFailed, fmt.Errorf("failed to acquire run guard: %w", err))
	}
	if !ok {
		logger.Info().Msg("pipeline already running for date, skipping")
		return finish(StatusInProgress, nil)
	}
	defer release()

	done, err := r.store.Completed(ctx, rc.Day(), p.name, constants.PipelineMarker)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read pipeline marker")
		return finish(StatusFailed, fmt.Errorf("failed to read pipeline marker: %w", err))
	}
	if done {
		logger.Info().Msg("pipeline already completed for date, skipping")
		return finish(StatusSkipped, nil)
	}

	logger.Info().Strs("stages", p.Stages()).Msg("pipeline started")

	for _, stage := range p.stages {
		report, err := r.runStage(ctx, p.name, stage, rc, logger)
		result.Stages = append(result.Stages, report)
		if err != nil {
			logger.Error().
				Err(err).
				Str("stage", stage.Name()).
				Msg("pipeline failed, remaining stages skipped")
			return finish(StatusFailed, fmt.Errorf("stage %s: %w", stage.Name(), err))
		}
	}

	err = r.store.InTx(ctx, func(tx *repository.Tx) error {
		return tx.Runs.Mark(ctx, domain.BatchRun{
			RunDate:    rc.Day(),
			Pipeline:   p.name,
			Stage:      constants.PipelineMarker,
			RunID:      rc.RunID,
			Status:     repository.RunCompleted,
			Affected:   affected(result.Stages),
			StartedAt:  start,
			FinishedAt: time.Now(),
		})
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to mark pipeline completed")
		return finish(StatusFailed, err)
	}

	logger.Info().Dur("took", time.Since(start)).Msg("pipeline completed")
	return finish(StatusCompleted, nil)
}

func (r *Runner) runStage(ctx context.Context, pipeline string, stage Stage, rc RunContext, logger zerolog.Logger) (StageReport, error) {
	name := stage.Name()
	report := StageReport{Name: name}
	logger = logger.With().Str("stage", name).Logger()

	done, err := r.store.Completed(ctx, rc.Day(), pipeline, name)
	if err != nil {
		report.Status = StatusFailed
		report.Error = err.Error()
		return report, fmt.Errorf("failed to read stage marker: %w", err)
	}
	if done {
		logger.Info().Msg("stage already completed, skipping")
		report.Status = StatusSkipped
		r.metrics.ObserveStage(pipeline, name, StatusSkipped, 0, nil)
		return report, nil
	}

	ctx, span := r.tracer.Start(ctx, "stage."+name)
	defer span.End()

	logger.Info().Msg("stage started")
	start := time.Now()

	var res StageResult
	err = r.store.InTx(ctx, func(tx *repository.Tx) error {
		var err error
		res, err = stage.Run(ctx, rc, tx)
		if err != nil {
			return err
		}
		return tx.Runs.Mark(ctx, domain.BatchRun{
			RunDate:    rc.Day(),
			Pipeline:   pipeline,
			Stage:      name,
			RunID:      rc.RunID,
			Status:     repository.RunCompleted,
			Affected:   res.Affected(),
			StartedAt:  start,
			FinishedAt: time.Now(),
		})
	})
	report.Duration = time.Since(start)

	if err != nil {
		report.Status = StatusFailed
		report.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.metrics.ObserveStage(pipeline, name, StatusFailed, report.Duration, nil)
		logger.Error().Err(err).Dur("took", report.Duration).Msg("stage failed")
		return report, err
	}

	report.Status = StatusCompleted
	report.Counts = res.Counts
	r.metrics.ObserveStage(pipeline, name, StatusCompleted, report.Duration, res.Counts)

	event := logger.Info().Dur("took", report.Duration)
	for k, v := range res.Counts {
		event = event.Int(k, v)
	}
	event.Msg("stage completed")

	return report, nil
}

func affected(stages []StageReport) int {
	total := 0
	for _, s := range stages {
		total += StageResult{Counts: s.Counts}.Affected()
	}
	return total
}
