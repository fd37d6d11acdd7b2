package domain

import (
	"time"
)

type Season struct {
	ID        string
	Name      string
	StartDate time.Time // inclusive, local midnight
	EndDate   time.Time // inclusive, local midnight
	CreatedAt time.Time
}

// Contains reports whether date falls in [StartDate, EndDate].
func (s Season) Contains(date time.Time) bool {
	return !date.Before(s.StartDate) && !date.After(s.EndDate)
}

type League struct {
	ID        int64 // creation order
	SeasonID  string
	Tier      Tier
	Category  string
	Members   int
	CreatedAt time.Time
}

type Ranking struct {
	MemberID  string
	SeasonID  string
	LeagueID  int64
	Tier      Tier
	Score     int // weekly focus minutes
	UpdatedAt time.Time
}

type Member struct {
	ID              string
	Name            string
	Category        string
	Level           int
	WarningCount    int
	WarnedAt        *time.Time
	ExcludedUntil   *time.Time
	ReviewFlaggedAt *time.Time
	CreatedAt       time.Time
}

type RewardKind string

const (
	RewardDiamond RewardKind = "diamond"
)

// RewardGrant is one reward delivery. GrantedAt is the logical time of the
// run that produced it; zero means now.
type RewardGrant struct {
	MemberID  string
	Kind      RewardKind
	Amount    int
	Reason    string
	DedupeKey string
	GrantedAt time.Time
}

type GuildWeekly struct {
	GuildID      string
	Name         string
	WeeklyBoost  int
	MemberIDs    []string
	TotalSeconds int64
}

type MemberTotal struct {
	MemberID     string
	TotalSeconds int64
}

type SubjectTotal struct {
	MemberID     string
	Subject      string
	TotalSeconds int64
}

type BatchRun struct {
	RunDate    string
	Pipeline   string
	Stage      string
	RunID      string
	Status     string
	Affected   int
	StartedAt  time.Time
	FinishedAt time.Time
}
