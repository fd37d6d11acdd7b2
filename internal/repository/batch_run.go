package repository

import (
	"context"
	"fmt"

	"league-ladder/internal/db"
	"league-ladder/internal/domain"
)

const RunCompleted = "completed"

type BatchRunRepository struct {
	queries *db.Queries
}

func (r *BatchRunRepository) Get(ctx context.Context, runDate, pipeline, stage string) (domain.BatchRun, error) {
	row, err := r.queries.GetBatchRun(ctx, db.GetBatchRunParams{
		RunDate:  runDate,
		Pipeline: pipeline,
		Stage:    stage,
	})
	if err != nil {
		return domain.BatchRun{}, notFound(err)
	}
	return batchRunToDomain(row), nil
}

// Mark records a finished stage, or a finished pipeline when stage is the
// pipeline marker.
func (r *BatchRunRepository) Mark(ctx context.Context, run domain.BatchRun) error {
	err := r.queries.UpsertBatchRun(ctx, db.UpsertBatchRunParams{
		RunDate:    run.RunDate,
		Pipeline:   run.Pipeline,
		Stage:      run.Stage,
		RunID:      run.RunID,
		Status:     run.Status,
		Affected:   int64(run.Affected),
		StartedAt:  run.StartedAt.UTC(),
		FinishedAt: run.FinishedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to mark %s/%s/%s: %w", run.RunDate, run.Pipeline, run.Stage, err)
	}
	return nil
}

func (r *BatchRunRepository) ListByDate(ctx context.Context, runDate string) ([]domain.BatchRun, error) {
	rows, err := r.queries.ListBatchRunsByDate(ctx, runDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list batch runs: %w", err)
	}

	runs := make([]domain.BatchRun, len(rows))
	for i, row := range rows {
		runs[i] = batchRunToDomain(row)
	}
	return runs, nil
}

func batchRunToDomain(row db.BatchRun) domain.BatchRun {
	return domain.BatchRun{
		RunDate:    row.RunDate,
		Pipeline:   row.Pipeline,
		Stage:      row.Stage,
		RunID:      row.RunID,
		Status:     row.Status,
		Affected:   int(row.Affected),
		StartedAt:  row.StartedAt,
		FinishedAt: row.FinishedAt,
	}
}
