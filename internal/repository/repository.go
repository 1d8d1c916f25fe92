package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool は PostgreSQL 接続プールを生成する
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Open connects to the backend named by driver ("mongo" or "postgres") and
// returns the repositories bound to it. Postgres tables are created by
// cmd/migrate.
func Open(ctx context.Context, driver, mongoURI, mongoDatabase, databaseURL string) (*Store, error) {
	switch driver {
	case "mongo", "":
		m, err := NewMongo(ctx, mongoURI, mongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		// Idempotent; the waitlist dedup depends on the unique email index.
		if err := m.EnsureIndexes(ctx); err != nil {
			_ = m.Close(ctx)
			return nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		return &Store{
			DB:          m,
			Contacts:    NewMongoContactRepository(m),
			Astrologers: NewMongoAstrologerRepository(m),
			Waitlist:    NewMongoWaitlistRepository(m),
			Close:       m.Close,
		}, nil
	case "postgres":
		pool, err := NewPool(ctx, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return &Store{
			DB:          pool,
			Contacts:    NewPgContactRepository(pool),
			Astrologers: NewPgAstrologerRepository(pool),
			Waitlist:    NewPgWaitlistRepository(pool),
			Close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
