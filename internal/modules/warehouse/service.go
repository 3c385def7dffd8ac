package warehouse

import "context"

// Service defines warehouse business logic.
type Service interface {
	Create(ctx context.Context, tenantID string, req CreateRequest) (*Warehouse, error)
	Get(ctx context.Context, tenantID, warehouseID string) (*Warehouse, error)
	List(ctx context.Context, tenantID string) ([]*Warehouse, error)
	Update(ctx context.Context, tenantID, warehouseID string, req UpdateRequest) (*Warehouse, error)
	Delete(ctx context.Context, tenantID, warehouseID string) error
}

// CreateRequest holds data for creating a warehouse.
type CreateRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Alias    string `json:"alias"`
}

// UpdateRequest holds data for editing a warehouse; empty fields are left
// unchanged.
type UpdateRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Alias    string `json:"alias"`
}
