package admin

import (
	"context"
	"database/sql"

	"github.com/AJ1732/ts-server/internal/apperror"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL admin repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

// EnsureSchema creates the admins table if it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS admins (
			id            UUID PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

const adminColumns = `id, name, email, password_hash, created_at, updated_at`

func scanAdmin(row *sql.Row) (*Admin, error) {
	a := &Admin{}
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, apperror.Normalize(err, "Admin")
	}
	return a, nil
}

func (r *postgresRepository) Create(ctx context.Context, a *Admin) error {
	query := `INSERT INTO admins (id, name, email, password_hash) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.Name, a.Email, a.PasswordHash)
	return apperror.Normalize(err, "Admin")
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE email = $1`
	return scanAdmin(r.db.QueryRowContext(ctx, query, email))
}

func (r *postgresRepository) FindByID(ctx context.Context, id string) (*Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`
	return scanAdmin(r.db.QueryRowContext(ctx, query, id))
}
