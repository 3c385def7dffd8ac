package user

import "context"

// Repository defines user storage. Email is globally unique; every other
// lookup is tenant-qualified, and the warehouse-scoped variants additionally
// restrict to a single warehouse.
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, tenantID, userID string) (*User, error)
	FindByIDInWarehouse(ctx context.Context, tenantID, warehouseID, userID string) (*User, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*User, error)
	ListByWarehouse(ctx context.Context, tenantID, warehouseID string) ([]*User, error)
	// Update writes u back in a single call and returns the stored row, or
	// NotFound if the user vanished in between.
	Update(ctx context.Context, tenantID, userID string, u *User) (*User, error)
	Delete(ctx context.Context, tenantID, userID string) error
}
