package user

import (
	"context"
	"database/sql"

	"github.com/AJ1732/ts-server/internal/apperror"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

// EnsureSchema creates the users table if it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY,
			tenant_id     TEXT NOT NULL,
			warehouse_id  TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

const userColumns = `id, tenant_id, warehouse_id, email, password_hash, role, created_at, updated_at`

func scanUser(row *sql.Row) (*User, error) {
	u := &User{}
	err := row.Scan(
		&u.ID,
		&u.TenantID,
		&u.WarehouseID,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, normalize(err)
	}
	return u, nil
}

func (r *postgresRepository) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (id, tenant_id, warehouse_id, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query, u.ID, u.TenantID, u.WarehouseID, u.Email, u.PasswordHash, u.Role)
	return normalize(err)
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *postgresRepository) FindByID(ctx context.Context, tenantID, userID string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND tenant_id = $2`
	return scanUser(r.db.QueryRowContext(ctx, query, userID, tenantID))
}

func (r *postgresRepository) FindByIDInWarehouse(ctx context.Context, tenantID, warehouseID, userID string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND tenant_id = $2 AND warehouse_id = $3`
	return scanUser(r.db.QueryRowContext(ctx, query, userID, tenantID, warehouseID))
}

func (r *postgresRepository) ListByTenant(ctx context.Context, tenantID string) ([]*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE tenant_id = $1 ORDER BY created_at`
	return r.list(ctx, query, tenantID)
}

func (r *postgresRepository) ListByWarehouse(ctx context.Context, tenantID, warehouseID string) ([]*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE tenant_id = $1 AND warehouse_id = $2 ORDER BY created_at`
	return r.list(ctx, query, tenantID, warehouseID)
}

func (r *postgresRepository) list(ctx context.Context, query string, args ...interface{}) ([]*User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, normalize(err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u := &User{}
		err := rows.Scan(
			&u.ID,
			&u.TenantID,
			&u.WarehouseID,
			&u.Email,
			&u.PasswordHash,
			&u.Role,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
		if err != nil {
			return nil, normalize(err)
		}
		users = append(users, u)
	}
	return users, normalize(rows.Err())
}

func (r *postgresRepository) Update(ctx context.Context, tenantID, userID string, u *User) (*User, error) {
	query := `
		UPDATE users
		SET warehouse_id = $3, email = $4, password_hash = $5, role = $6, updated_at = now()
		WHERE id = $1 AND tenant_id = $2
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, query, userID, tenantID, u.WarehouseID, u.Email, u.PasswordHash, u.Role))
}

func (r *postgresRepository) Delete(ctx context.Context, tenantID, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1 AND tenant_id = $2`, userID, tenantID)
	if err != nil {
		return normalize(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return normalize(err)
	}
	if affected == 0 {
		return apperror.NotFound("User")
	}
	return nil
}

func normalize(err error) error {
	return apperror.Normalize(err, "User")
}
