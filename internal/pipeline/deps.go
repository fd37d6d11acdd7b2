package pipeline

import (
	"context"
	"time"

	"league-ladder/internal/config"
	"league-ladder/internal/domain"
	"league-ladder/internal/service"

	"github.com/rs/zerolog"
)

// ActivityReader reads raw focus activity. Stats stages read it outside the
// stage transaction.
type ActivityReader interface {
	MemberTotals(ctx context.Context, from, to time.Time) ([]domain.MemberTotal, error)
	SubjectTotals(ctx context.Context, from, to time.Time) ([]domain.SubjectTotal, error)
}

type Deps struct {
	Config   *config.Config
	Assigner *service.LeagueAssigner
	Activity ActivityReader
	Logger   zerolog.Logger
}

// Names lists every pipeline in the order a day runs them.
var Names = []string{Daily, Monthly, Weekly, SeasonEnd}

// Pipelines holds the statically composed pipelines.
type Pipelines struct {
	Daily     *Pipeline
	Monthly   *Pipeline
	Weekly    *Pipeline
	SeasonEnd *Pipeline
}

func NewPipelines(d Deps) *Pipelines {
	return &Pipelines{
		Daily:     NewDaily(d),
		Monthly:   NewMonthly(d),
		Weekly:    NewWeekly(d),
		SeasonEnd: NewSeasonEnd(d),
	}
}

func (p *Pipelines) ByName(name string) (*Pipeline, bool) {
	switch name {
	case Daily:
		return p.Daily, true
	case Monthly:
		return p.Monthly, true
	case Weekly:
		return p.Weekly, true
	case SeasonEnd:
		return p.SeasonEnd, true
	}
	return nil, false
}
