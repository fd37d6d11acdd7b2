package scheduler

import (
	"context"
	"fmt"

	"league-ladder/internal/config"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type Trigger interface {
	Start()
	Stop(ctx context.Context) error
}

// CronTrigger ticks the orchestrator on CRON_SPEC in the ladder's time zone.
type CronTrigger struct {
	cron   *cron.Cron
	logger zerolog.Logger
}

func NewCronTrigger(cfg *config.Config, orchestrator *Orchestrator, logger zerolog.Logger) (*CronTrigger, error) {
	logger = logger.With().Str("component", "cron").Logger()
	c := cron.New(
		cron.WithLocation(cfg.Location),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger}), cron.Recover(cronLogger{logger})),
	)

	_, err := c.AddFunc(cfg.CronSpec, func() {
		orchestrator.Tick(context.Background())
	})
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_SPEC %q: %w", cfg.CronSpec, err)
	}
	return &CronTrigger{cron: c, logger: logger}, nil
}

func (t *CronTrigger) Start() {
	t.cron.Start()
	for _, e := range t.cron.Entries() {
		t.logger.Info().Time("next", e.Next).Msg("cron trigger started")
	}
}

// Stop waits for a running tick or ctx, whichever ends first.
func (t *CronTrigger) Stop(ctx context.Context) error {
	done := t.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
