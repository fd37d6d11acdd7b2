package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"league-ladder/internal/domain"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DBPath     string `env:"DB_PATH" envDefault:"ladder.db"`
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	Timezone  string `env:"TIMEZONE" envDefault:"UTC"`
	CronSpec  string `env:"CRON_SPEC" envDefault:"0 0 * * *"`
	WeekStart string `env:"WEEK_START" envDefault:"monday"`

	LeagueCapacity     int           `env:"LEAGUE_CAPACITY" envDefault:"20"`
	SeasonLengthWeeks  int           `env:"SEASON_LENGTH_WEEKS" envDefault:"8"`
	MinEligibleMinutes int           `env:"MIN_ELIGIBLE_MINUTES" envDefault:"60"`
	WarningCooldown    time.Duration `env:"WARNING_COOLDOWN" envDefault:"168h"`
	LongFocusThreshold time.Duration `env:"LONG_FOCUS_THRESHOLD" envDefault:"12h"`
	DailyMissionMins   int           `env:"DAILY_MISSION_MINUTES" envDefault:"30"`
	DailyMissionReward int           `env:"DAILY_MISSION_REWARD" envDefault:"1"`
	MailboxTTL         time.Duration `env:"MAILBOX_TTL" envDefault:"336h"`
	PlacementWorkers   int           `env:"PLACEMENT_WORKERS" envDefault:"4"`

	RedisAddr        string `env:"REDIS_ADDR"`
	ReportWebhookURL string `env:"REPORT_WEBHOOK_URL"`
	RewardTablePath  string `env:"REWARD_TABLE_PATH"`

	TraceExporter string `env:"OTEL_EXPORTER" envDefault:"none"`
	TraceEndpoint string `env:"OTEL_ENDPOINT"`

	Location *time.Location     `env:"-"`
	Weekday  time.Weekday       `env:"-"`
	Rewards  domain.RewardTable `env:"-"`
}

const (
	TraceExporterNone = "none"
	TraceExporterOTLP = "otlp"
)

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.resolve(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("timezone", cfg.Timezone).
		Str("cron_spec", cfg.CronSpec).
		Str("week_start", cfg.Weekday.String()).
		Int("league_capacity", cfg.LeagueCapacity).
		Bool("redis_lock", cfg.RedisAddr != "").
		Str("trace_exporter", cfg.TraceExporter).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) resolve() error {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	c.Location = loc

	weekday, err := ParseWeekday(c.WeekStart)
	if err != nil {
		return err
	}
	c.Weekday = weekday

	if c.LeagueCapacity < 2 {
		return fmt.Errorf("LEAGUE_CAPACITY must be at least 2, got %d", c.LeagueCapacity)
	}
	if c.SeasonLengthWeeks < 1 {
		return fmt.Errorf("SEASON_LENGTH_WEEKS must be positive, got %d", c.SeasonLengthWeeks)
	}
	if c.PlacementWorkers < 1 {
		c.PlacementWorkers = 1
	}

	switch c.TraceExporter {
	case TraceExporterNone:
	case TraceExporterOTLP:
		if c.TraceEndpoint == "" {
			return fmt.Errorf("OTEL_ENDPOINT is required when OTEL_EXPORTER is %q", TraceExporterOTLP)
		}
	default:
		return fmt.Errorf("invalid OTEL_EXPORTER %q: want %q or %q", c.TraceExporter, TraceExporterNone, TraceExporterOTLP)
	}

	c.Rewards = domain.DefaultRewardTable()
	if c.RewardTablePath != "" {
		table, err := LoadRewardTable(c.RewardTablePath)
		if err != nil {
			return err
		}
		c.Rewards = table
	}

	return nil
}

// LoadRewardTable reads a YAML reward table. Sections missing from the file
// keep their defaults.
func LoadRewardTable(path string) (domain.RewardTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.RewardTable{}, fmt.Errorf("failed to read reward table: %w", err)
	}

	var table domain.RewardTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return domain.RewardTable{}, fmt.Errorf("failed to parse reward table: %w", err)
	}

	defaults := domain.DefaultRewardTable()
	if len(table.Weekly) == 0 {
		table.Weekly = defaults.Weekly
	}
	if len(table.Guild) == 0 {
		table.Guild = defaults.Guild
	}
	if len(table.SeasonClose) == 0 {
		table.SeasonClose = defaults.SeasonClose
	}

	if err := table.Normalize(); err != nil {
		return domain.RewardTable{}, fmt.Errorf("invalid reward table: %w", err)
	}
	return table, nil
}

func ParseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), s) || strings.EqualFold(d.String()[:3], s) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid WEEK_START %q", s)
}

var Module = fx.Provide(Load)
