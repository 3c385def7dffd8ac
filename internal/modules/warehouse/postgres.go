package warehouse

import (
	"context"
	"database/sql"
	"time"

	"github.com/AJ1732/ts-server/internal/apperror"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL warehouse repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

// EnsureSchema creates the warehouses table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS warehouses (
			warehouse_id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			name TEXT NOT NULL,
			location TEXT NOT NULL,
			alias TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (tenant_id, alias)
		)
	`)
	return err
}

func (r *postgresRepository) Create(ctx context.Context, w *Warehouse) error {
	w.CreatedAt = time.Now().UTC()
	w.UpdatedAt = w.CreatedAt
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO warehouses (warehouse_id, tenant_id, name, location, alias, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, w.WarehouseID, w.TenantID, w.Name, w.Location, w.Alias, w.CreatedAt, w.UpdatedAt)
	return apperror.Normalize(err, "Warehouse")
}

func (r *postgresRepository) FindByID(ctx context.Context, tenantID, warehouseID string) (*Warehouse, error) {
	w := &Warehouse{}
	err := r.db.QueryRowContext(ctx, `
		SELECT warehouse_id, tenant_id, name, location, alias, created_at, updated_at
		FROM warehouses WHERE tenant_id = $1 AND warehouse_id = $2
	`, tenantID, warehouseID).Scan(
		&w.WarehouseID, &w.TenantID, &w.Name, &w.Location, &w.Alias, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, apperror.Normalize(err, "Warehouse")
	}
	return w, nil
}

func (r *postgresRepository) ListByTenant(ctx context.Context, tenantID string) ([]*Warehouse, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT warehouse_id, tenant_id, name, location, alias, created_at, updated_at
		FROM warehouses WHERE tenant_id = $1 ORDER BY created_at DESC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var warehouses []*Warehouse
	for rows.Next() {
		w := &Warehouse{}
		if err := rows.Scan(&w.WarehouseID, &w.TenantID, &w.Name, &w.Location, &w.Alias, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, tenantID, warehouseID string, w *Warehouse) (*Warehouse, error) {
	w.UpdatedAt = time.Now().UTC()
	updated := &Warehouse{}
	err := r.db.QueryRowContext(ctx, `
		UPDATE warehouses SET name = $3, location = $4, alias = $5, updated_at = $6
		WHERE tenant_id = $1 AND warehouse_id = $2
		RETURNING warehouse_id, tenant_id, name, location, alias, created_at, updated_at
	`, tenantID, warehouseID, w.Name, w.Location, w.Alias, w.UpdatedAt).Scan(
		&updated.WarehouseID, &updated.TenantID, &updated.Name, &updated.Location, &updated.Alias,
		&updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		return nil, apperror.Normalize(err, "Warehouse")
	}
	return updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, tenantID, warehouseID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM warehouses WHERE tenant_id = $1 AND warehouse_id = $2
	`, tenantID, warehouseID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NotFound("Warehouse")
	}
	return nil
}
