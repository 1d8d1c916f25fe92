package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kavacham/backend/internal/model"
)

// PgAstrologerRepository は AstrologerRepository の PostgreSQL 実装
type PgAstrologerRepository struct {
	pool *pgxpool.Pool
}

// NewPgAstrologerRepository は PgAstrologerRepository を生成する
func NewPgAstrologerRepository(pool *pgxpool.Pool) *PgAstrologerRepository {
	return &PgAstrologerRepository{pool: pool}
}

var _ AstrologerRepository = (*PgAstrologerRepository)(nil)

// Create inserts an application. languages and services are stored as text[]
// and are never NULL.
func (r *PgAstrologerRepository) Create(ctx context.Context, app *model.AstrologerApplication) error {
	languages := nonNil(app.Languages)
	services := nonNil(app.Services)
	return r.pool.QueryRow(ctx,
		`INSERT INTO astrologers
		   (name, email, phone, dob, gender, experience, specialization,
		    languages, services, about, status, is_active)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, NULLIF($7, ''),
		         $8, $9, NULLIF($10, ''), $11, $12)
		 RETURNING id, submitted_at`,
		app.Name, app.Email, app.Phone, app.DateOfBirth, app.Gender, app.Experience, app.Specialization,
		languages, services, app.About, app.Status, app.IsActive,
	).Scan(&app.ID, &app.SubmittedAt)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
