package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"league-ladder/internal/config"
	"league-ladder/internal/constants"
	"league-ladder/internal/db"

	"github.com/rs/zerolog"
)

var ErrNotFound = errors.New("not found")

// Tx bundles repositories bound to one database handle. Inside InTx every
// repository shares the same transaction.
type Tx struct {
	Seasons  *SeasonRepository
	Leagues  *LeagueRepository
	Rankings *RankingRepository
	Members  *MemberRepository
	Stats    *StatsRepository
	Guilds   *GuildRepository
	Missions *MissionRepository
	Mailbox  *MailboxRepository
	Runs     *BatchRunRepository
}

type Store struct {
	Tx

	db      *sql.DB
	queries *db.Queries
	cfg     *config.Config
	logger  zerolog.Logger
}

func NewStore(sqlDB *sql.DB, cfg *config.Config, logger zerolog.Logger) *Store {
	queries := db.New(sqlDB)
	s := &Store{
		db:      sqlDB,
		queries: queries,
		cfg:     cfg,
		logger:  logger,
	}
	s.Tx = s.bind(queries)
	return s
}

func (s *Store) bind(q *db.Queries) Tx {
	loc := s.cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return Tx{
		Seasons:  &SeasonRepository{queries: q, loc: loc},
		Leagues:  &LeagueRepository{queries: q},
		Rankings: &RankingRepository{queries: q},
		Members:  &MemberRepository{queries: q, loc: loc},
		Stats:    &StatsRepository{queries: q},
		Guilds:   &GuildRepository{queries: q},
		Missions: &MissionRepository{queries: q},
		Mailbox:  &MailboxRepository{queries: q, ttl: s.cfg.MailboxTTL, logger: s.logger},
		Runs:     &BatchRunRepository{queries: q},
	}
}

// InTx runs fn inside a single transaction. fn's error rolls everything back.
func (s *Store) InTx(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	bound := s.bind(s.queries.WithTx(tx))
	if err := fn(&bound); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Completed reports whether a batch marker exists.
func (s *Store) Completed(ctx context.Context, runDate, pipeline, stage string) (bool, error) {
	_, err := s.Runs.Get(ctx, runDate, pipeline, stage)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func formatDate(t time.Time) string {
	return t.Format(constants.DateLayout)
}

func nullDate(t time.Time) sql.NullString {
	return sql.NullString{String: formatDate(t), Valid: true}
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(constants.DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", s, err)
	}
	return t, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
