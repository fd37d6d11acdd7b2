package repository

import (
	"context"
	"fmt"
	"time"

	"league-ladder/internal/db"
	"league-ladder/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

const (
	MailUnclaimed = "unclaimed"
	MailExpired   = "expired"
)

// MailboxRepository is the reward inbox. Every grant carries a dedupe key, so
// delivering the same grant twice leaves one entry.
type MailboxRepository struct {
	queries *db.Queries
	ttl     time.Duration
	logger  zerolog.Logger
}

type Mail struct {
	ID        string
	MemberID  string
	Kind      domain.RewardKind
	Amount    int
	Reason    string
	DedupeKey string
	Status    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Grant stores the reward unless its dedupe key was already delivered.
// inserted is false for a duplicate.
func (r *MailboxRepository) Grant(ctx context.Context, grant domain.RewardGrant) (inserted bool, err error) {
	if grant.Amount <= 0 {
		return false, fmt.Errorf("grant %s: amount must be positive, got %d", grant.DedupeKey, grant.Amount)
	}
	if grant.DedupeKey == "" {
		return false, fmt.Errorf("grant for %s: missing dedupe key", grant.MemberID)
	}

	id, err := gonanoid.New()
	if err != nil {
		return false, fmt.Errorf("failed to generate nanoid: %w", err)
	}

	now := grant.GrantedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	n, err := r.queries.InsertMail(ctx, db.InsertMailParams{
		ID:        id,
		MemberID:  grant.MemberID,
		Kind:      string(grant.Kind),
		Amount:    int64(grant.Amount),
		Reason:    grant.Reason,
		DedupeKey: grant.DedupeKey,
		CreatedAt: now,
		ExpiresAt: now.Add(r.ttl),
	})
	if err != nil {
		return false, fmt.Errorf("failed to insert mail for %s: %w", grant.MemberID, err)
	}
	if n == 0 {
		r.logger.Debug().Str("dedupe_key", grant.DedupeKey).Msg("reward already granted")
		return false, nil
	}
	return true, nil
}

// ExpireUnclaimed marks unclaimed mail past its expiry as expired.
func (r *MailboxRepository) ExpireUnclaimed(ctx context.Context, now time.Time) (int, error) {
	n, err := r.queries.ExpireMail(ctx, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to expire mail: %w", err)
	}
	return int(n), nil
}

func (r *MailboxRepository) ListMember(ctx context.Context, memberID string) ([]Mail, error) {
	rows, err := r.queries.ListMemberMail(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mail for %s: %w", memberID, err)
	}

	mail := make([]Mail, len(rows))
	for i, row := range rows {
		mail[i] = Mail{
			ID:        row.ID,
			MemberID:  row.MemberID,
			Kind:      domain.RewardKind(row.Kind),
			Amount:    int(row.Amount),
			Reason:    row.Reason,
			DedupeKey: row.DedupeKey,
			Status:    row.Status,
			CreatedAt: row.CreatedAt,
			ExpiresAt: row.ExpiresAt,
		}
	}
	return mail, nil
}
