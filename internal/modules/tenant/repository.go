package tenant

import "context"

// Repository defines tenant record storage. Implementations enforce unique
// indexes on tenantId, businessEmail, and corporateRegistrationNumber, and
// surface violations as Conflict errors.
type Repository interface {
	Create(ctx context.Context, t *Tenant) error
	FindByTenantID(ctx context.Context, tenantID string) (*Tenant, error)
	FindByEmail(ctx context.Context, email string) (*Tenant, error)
	List(ctx context.Context) ([]*Tenant, error)
	// Update replaces the record identified by tenantID in one call, with
	// validation enabled, returning the updated record. It fails with
	// NotFound when the record vanished between read and write.
	Update(ctx context.Context, tenantID string, t *Tenant) (*Tenant, error)
	Delete(ctx context.Context, tenantID string) error
}
