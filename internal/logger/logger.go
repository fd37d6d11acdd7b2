package logger

import (
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func New() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()

	logger = logger.Level(zerolog.DebugLevel)

	return logger
}

// ApplyLevel sets the process-wide level from a LOG_LEVEL style string.
// Unknown values keep the current level.
func ApplyLevel(level string, logger zerolog.Logger) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logger.Warn().Str("log_level", level).Msg("unknown log level, keeping default")
		return
	}
	zerolog.SetGlobalLevel(lvl)
}

// Component returns a child logger tagged with the component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

var Module = fx.Provide(New)
