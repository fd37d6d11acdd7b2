package repository

import (
	"context"
	"fmt"
	"time"

	"league-ladder/internal/db"
)

const (
	MissionScopeDaily  = "daily"
	MissionScopeWeekly = "weekly"
)

type MissionRepository struct {
	queries *db.Queries
}

// Complete records a mission completion. It reports false when the member
// already completed the mission for the period.
func (r *MissionRepository) Complete(ctx context.Context, memberID, mission, scope, period string, at time.Time) (bool, error) {
	n, err := r.queries.CompleteMission(ctx, db.CompleteMissionParams{
		MemberID:    memberID,
		Mission:     mission,
		Scope:       scope,
		Period:      period,
		CompletedAt: at.UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("failed to complete mission %s for %s: %w", mission, memberID, err)
	}
	return n > 0, nil
}

func (r *MissionRepository) Clear(ctx context.Context, scope string) (int, error) {
	n, err := r.queries.ClearMissionCompletions(ctx, scope)
	if err != nil {
		return 0, fmt.Errorf("failed to clear %s missions: %w", scope, err)
	}
	return int(n), nil
}

func (r *MissionRepository) Count(ctx context.Context, scope string) (int, error) {
	n, err := r.queries.CountMissionCompletions(ctx, scope)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s missions: %w", scope, err)
	}
	return int(n), nil
}
