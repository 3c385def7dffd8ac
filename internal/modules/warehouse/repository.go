package warehouse

import "context"

// Repository defines warehouse storage. All lookups are tenant-qualified;
// (tenantId, alias) and (tenantId, warehouseId) are unique.
type Repository interface {
	Create(ctx context.Context, w *Warehouse) error
	FindByID(ctx context.Context, tenantID, warehouseID string) (*Warehouse, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*Warehouse, error)
	Update(ctx context.Context, tenantID, warehouseID string, w *Warehouse) (*Warehouse, error)
	Delete(ctx context.Context, tenantID, warehouseID string) error
}
