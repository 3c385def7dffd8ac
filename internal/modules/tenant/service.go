package tenant

import (
	"context"
	"time"
)

// File is an uploaded document payload as received from the request.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Content     []byte
}

// SignupRequest holds data for registering a tenant.
type SignupRequest struct {
	BusinessEmail     string `json:"businessEmail"`
	LegalBusinessName string `json:"legalBusinessName"`
}

// UpdateFields carries the non-document form fields of an onboarding or
// update request. InventoryTypes and NatureOfBusiness arrive as JSON-encoded
// strings and are decoded by the service.
type UpdateFields struct {
	TradingBrandName            string
	CorporateAddress            string
	CorporateRegistrationNumber string
	PrimaryContactName          string
	PrimaryContactRole          string
	PrimaryContactPhone         string
	PrimaryContactEmail         string
	InventoryTypes              string
	NatureOfBusiness            string
	Timezone                    string
	Currency                    string
	Language                    string
}

// Service defines tenant business logic, including the onboarding and
// document-update workflows.
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*Tenant, error)
	Signin(ctx context.Context, email, password string) (*Tenant, string, error)
	Get(ctx context.Context, tenantID string) (*Tenant, error)
	List(ctx context.Context) ([]*Tenant, error)

	// Onboard validates that every required document slot is present,
	// uploads each file, and commits the merged record with
	// onboardingComplete set. On any failure after a successful upload,
	// the uploaded blobs are removed again and the original error is
	// returned.
	Onboard(ctx context.Context, tenantID string, fields UpdateFields, files map[string]*File) (*Tenant, error)

	// Update replaces an arbitrary subset of document slots and applies
	// field edits, with the same rollback discipline as Onboard.
	Update(ctx context.Context, tenantID string, fields UpdateFields, files map[string]*File) (*Tenant, error)

	// Delete removes every blob referenced by the tenant's documents, then
	// the record itself.
	Delete(ctx context.Context, tenantID string) error

	// DocumentURL returns a time-limited retrieval URL for a stored
	// document.
	DocumentURL(ctx context.Context, tenantID, slot string, expireIn time.Duration) (string, error)
}
