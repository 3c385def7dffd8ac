package tenant

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/AJ1732/ts-server/internal/apperror"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL tenant repository. Tenant
// records are stored as JSONB documents with unique indexes on the columns
// extracted alongside.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

// EnsureSchema creates the tenants table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS tenants (
			tenant_id TEXT PRIMARY KEY,
			business_email TEXT NOT NULL UNIQUE,
			corporate_registration_number TEXT UNIQUE,
			doc JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

func (r *postgresRepository) Create(ctx context.Context, t *Tenant) error {
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	doc, err := json.Marshal(t)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO tenants (tenant_id, business_email, corporate_registration_number, doc, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
	`, t.TenantID, t.BusinessEmail, t.CorporateRegistrationNumber, doc, t.CreatedAt, t.UpdatedAt)
	return normalize(err)
}

func (r *postgresRepository) findOne(ctx context.Context, where, arg string) (*Tenant, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT doc FROM tenants WHERE `+where+` = $1
	`, arg).Scan(&doc)
	if err != nil {
		return nil, normalize(err)
	}
	t := &Tenant{}
	if err := json.Unmarshal(doc, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *postgresRepository) FindByTenantID(ctx context.Context, tenantID string) (*Tenant, error) {
	return r.findOne(ctx, "tenant_id", tenantID)
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*Tenant, error) {
	return r.findOne(ctx, "business_email", email)
}

func (r *postgresRepository) List(ctx context.Context) ([]*Tenant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT doc FROM tenants ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []*Tenant
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		t := &Tenant{}
		if err := json.Unmarshal(doc, t); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, tenantID string, t *Tenant) (*Tenant, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	t.UpdatedAt = time.Now().UTC()
	doc, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	var updated []byte
	err = r.db.QueryRowContext(ctx, `
		UPDATE tenants
		SET business_email = $2,
		    corporate_registration_number = NULLIF($3, ''),
		    doc = $4,
		    updated_at = $5
		WHERE tenant_id = $1
		RETURNING doc
	`, tenantID, t.BusinessEmail, t.CorporateRegistrationNumber, doc, t.UpdatedAt).Scan(&updated)
	if err != nil {
		return nil, normalize(err)
	}
	result := &Tenant{}
	if err := json.Unmarshal(updated, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepository) Delete(ctx context.Context, tenantID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tenants WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NotFound("Tenant")
	}
	return nil
}

func normalize(err error) error {
	return apperror.Normalize(err, "Tenant")
}
