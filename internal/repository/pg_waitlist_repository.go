package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kavacham/backend/internal/model"
)

// PgWaitlistRepository は WaitlistRepository の PostgreSQL 実装
type PgWaitlistRepository struct {
	pool *pgxpool.Pool
}

// NewPgWaitlistRepository は PgWaitlistRepository を生成する
func NewPgWaitlistRepository(pool *pgxpool.Pool) *PgWaitlistRepository {
	return &PgWaitlistRepository{pool: pool}
}

var _ WaitlistRepository = (*PgWaitlistRepository)(nil)

// FindByEmail returns the entry whose email matches exactly.
func (r *PgWaitlistRepository) FindByEmail(ctx context.Context, email string) (*model.WaitlistEntry, error) {
	var e model.WaitlistEntry
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, status, notified, joined_at FROM waitlist WHERE email = $1`,
		email,
	).Scan(&e.ID, &e.Email, &e.Status, &e.Notified, &e.JoinedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts the entry. The UNIQUE(email) constraint makes a concurrent
// duplicate insert a no-op, which is reported as ErrDuplicate.
func (r *PgWaitlistRepository) Create(ctx context.Context, entry *model.WaitlistEntry) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO waitlist (email, status, notified)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (email) DO NOTHING
		 RETURNING id, joined_at`,
		entry.Email, entry.Status, entry.Notified,
	).Scan(&entry.ID, &entry.JoinedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDuplicate
	}
	return err
}
