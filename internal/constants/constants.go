package constants

import "time"

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

const (
	PipelineTimeout    = 30 * time.Minute
	ManualRunTimeout   = 30 * time.Minute
	DatabaseTimeout    = 5 * time.Second
	ExternalAPITimeout = 10 * time.Second
	RunLockTTL         = 2 * time.Hour
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// BaselineLevel is the transient member level restored every week.
	BaselineLevel = 1

	DaysPerWeek = 7

	PipelineMarker = "*"
)
