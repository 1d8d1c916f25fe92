package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kavacham/backend/internal/model"
)

// PgContactRepository is the PostgreSQL implementation of ContactRepository.
type PgContactRepository struct {
	pool *pgxpool.Pool
}

// NewPgContactRepository creates a PgContactRepository backed by the given pool.
func NewPgContactRepository(pool *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{pool: pool}
}

// Ensure PgContactRepository implements ContactRepository at compile time.
var _ ContactRepository = (*PgContactRepository)(nil)

// Create inserts a new contacts row and populates msg.ID and CreatedAt
// from the database RETURNING clause.
func (r *PgContactRepository) Create(ctx context.Context, msg *model.ContactMessage) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO contacts (recipient, customer_name, email, phone, message, status)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
		 RETURNING id, created_at`,
		msg.To, msg.CustomerName, msg.Email, msg.Phone, msg.Message, msg.Status,
	).Scan(&msg.ID, &msg.CreatedAt)
}
