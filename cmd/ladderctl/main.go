package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"slices"
	"time"

	"league-ladder/internal/config"
	"league-ladder/internal/constants"
	fxmodules "league-ladder/internal/fx"
	"league-ladder/internal/pipeline"
	"league-ladder/internal/repository"
	"league-ladder/internal/scheduler"
	"league-ladder/internal/service"

	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
)

// deps is what the commands pull out of the fx graph.
type deps struct {
	cfg          *config.Config
	orchestrator *scheduler.Orchestrator
	seasons      *service.SeasonManager
	store        *repository.Store
}

func main() {
	app := &cli.App{
		Name:  "ladderctl",
		Usage: "operate the ranking ladder batch",
		Commands: []*cli.Command{
			runCommand(),
			seasonCommand(),
			markersCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "run the pipelines due on a date",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Usage: "logical date (YYYY-MM-DD), defaults to today"},
			&cli.StringSliceFlag{Name: "pipeline", Usage: "restrict to these pipelines (daily, monthly, weekly, season-end)"},
		},
		Action: func(c *cli.Context) error {
			enabled := map[string]bool{}
			for _, name := range c.StringSlice("pipeline") {
				if !slices.Contains(pipeline.Names, name) {
					return fmt.Errorf("unknown pipeline: %s", name)
				}
				enabled[name] = true
			}

			return withDeps(c.Context, func(ctx context.Context, d deps) error {
				date, err := parseDate(c.String("date"), d.cfg)
				if err != nil {
					return err
				}

				ctx, cancel := context.WithTimeout(ctx, constants.ManualRunTimeout)
				defer cancel()

				report := d.orchestrator.Run(ctx, date, scheduler.Options{Enabled: enabled})
				if err := printJSON(report); err != nil {
					return err
				}
				if report.Status == pipeline.StatusFailed {
					return cli.Exit("run failed", 1)
				}
				return nil
			})
		},
	}
}

func seasonCommand() *cli.Command {
	return &cli.Command{
		Name:  "season",
		Usage: "show the season covering a date",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Usage: "date (YYYY-MM-DD), defaults to today"},
		},
		Action: func(c *cli.Context) error {
			return withDeps(c.Context, func(ctx context.Context, d deps) error {
				date, err := parseDate(c.String("date"), d.cfg)
				if err != nil {
					return err
				}

				season, err := d.seasons.CurrentSeason(ctx, date)
				if err != nil {
					return err
				}
				fmt.Printf("%s  %s .. %s  week %d  final week: %v\n",
					season.ID,
					season.StartDate.Format(constants.DateLayout),
					season.EndDate.Format(constants.DateLayout),
					service.WeekOfSeason(season, date),
					service.IsFinalWeek(season, date),
				)
				return nil
			})
		},
	}
}

func markersCommand() *cli.Command {
	return &cli.Command{
		Name:  "markers",
		Usage: "list batch run markers for a date",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Required: true, Usage: "run date (YYYY-MM-DD)"},
		},
		Action: func(c *cli.Context) error {
			return withDeps(c.Context, func(ctx context.Context, d deps) error {
				date, err := parseDate(c.String("date"), d.cfg)
				if err != nil {
					return err
				}

				runs, err := d.store.Runs.ListByDate(ctx, date.Format(constants.DateLayout))
				if err != nil {
					return err
				}
				for _, r := range runs {
					fmt.Printf("%-10s %-22s %-10s affected=%d run=%s\n", r.Pipeline, r.Stage, r.Status, r.Affected, r.RunID)
				}
				return nil
			})
		},
	}
}

// withDeps starts the core graph without the HTTP server or cron trigger.
func withDeps(ctx context.Context, fn func(ctx context.Context, d deps) error) error {
	var d deps
	app := fx.New(
		fxmodules.Core,
		fx.NopLogger,
		fx.Populate(&d.cfg, &d.orchestrator, &d.seasons, &d.store),
	)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, fx.DefaultTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		_ = app.Stop(stopCtx)
	}()

	return fn(ctx, d)
}

func parseDate(s string, cfg *config.Config) (time.Time, error) {
	if s == "" {
		return time.Now().In(cfg.Location), nil
	}
	date, err := time.ParseInLocation(constants.DateLayout, s, cfg.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return date, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
