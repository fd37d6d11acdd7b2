package fx

import (
	"database/sql"

	"league-ladder/internal/api"
	"league-ladder/internal/config"
	"league-ladder/internal/database"
	"league-ladder/internal/lock"
	"league-ladder/internal/logger"
	"league-ladder/internal/metrics"
	"league-ladder/internal/pipeline"
	"league-ladder/internal/repository"
	"league-ladder/internal/scheduler"
	"league-ladder/internal/server"
	"league-ladder/internal/service"
	"league-ladder/internal/telemetry"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

func ProvideSeasonManager(store *repository.Store, logger zerolog.Logger) *service.SeasonManager {
	return service.NewSeasonManager(store.Seasons, logger)
}

func ProvidePipelines(cfg *config.Config, assigner *service.LeagueAssigner, store *repository.Store, logger zerolog.Logger) *pipeline.Pipelines {
	return pipeline.NewPipelines(pipeline.Deps{
		Config:   cfg,
		Assigner: assigner,
		Activity: store.Stats,
		Logger:   logger,
	})
}

func ProvideRunner(store *repository.Store, guard lock.Guard, m *metrics.Metrics, tracer trace.Tracer, logger zerolog.Logger) *pipeline.Runner {
	return pipeline.NewRunner(store, guard, m, tracer, logger)
}

func ProvideOrchestrator(
	pipelines *pipeline.Pipelines,
	runner *pipeline.Runner,
	seasons *service.SeasonManager,
	reporter *api.ReportClient,
	cfg *config.Config,
	logger zerolog.Logger,
) *scheduler.Orchestrator {
	return scheduler.NewOrchestrator(pipelines, runner, seasons, reporter, scheduler.SystemClock(), cfg, logger)
}

func ProvideAdmin(
	orchestrator *scheduler.Orchestrator,
	store *repository.Store,
	seasons *service.SeasonManager,
	m *metrics.Metrics,
	sqlDB *sql.DB,
	cfg *config.Config,
	logger zerolog.Logger,
) *server.Admin {
	return server.NewAdmin(orchestrator, store.Runs, seasons, m, sqlDB, cfg, logger)
}

func applyLogLevel(cfg *config.Config, log zerolog.Logger) {
	logger.ApplyLevel(cfg.LogLevel, log)
}

// Core wires everything a ladder run needs. cmd/ladderctl uses it on its own.
var Core = fx.Options(
	logger.Module,
	config.Module,
	fx.Invoke(applyLogLevel),
	fx.Provide(database.New),
	fx.Provide(repository.NewStore),
	metrics.Module,
	lock.Module,
	telemetry.Module,
	// svc
	fx.Provide(service.NewLeagueAssigner),
	fx.Provide(ProvideSeasonManager),
	// pipelines
	fx.Provide(ProvidePipelines),
	fx.Provide(ProvideRunner),
	fx.Provide(api.NewReportClient),
	fx.Provide(ProvideOrchestrator),
)

var Module = fx.Options(
	Core,
	fx.Provide(scheduler.NewCronTrigger),
	fx.Provide(ProvideAdmin),
)
