package user

import "context"

// CreateRequest holds data for creating a warehouse user. All fields are
// required.
type CreateRequest struct {
	WarehouseID string `json:"warehouseId"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}

// UpdateRequest holds data for editing a user; empty fields are left
// unchanged. A non-empty Password is re-hashed before storage.
type UpdateRequest struct {
	WarehouseID string `json:"warehouseId"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}

// Service defines user business logic. Tenant-scoped callers see every user
// of their tenant; warehouse-scoped callers only see users of their own
// warehouse.
type Service interface {
	Create(ctx context.Context, tenantID string, req CreateRequest) (*User, error)
	// Signin verifies credentials and returns the user with a fresh token.
	Signin(ctx context.Context, email, password string) (*User, string, error)
	Get(ctx context.Context, tenantID, userID string) (*User, error)
	GetInWarehouse(ctx context.Context, tenantID, warehouseID, userID string) (*User, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*User, error)
	ListByWarehouse(ctx context.Context, tenantID, warehouseID string) ([]*User, error)
	Update(ctx context.Context, tenantID, userID string, req UpdateRequest) (*User, error)
	Delete(ctx context.Context, tenantID, userID string) error
}
