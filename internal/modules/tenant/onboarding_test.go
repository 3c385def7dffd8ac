package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AJ1732/ts-server/internal/apperror"
	"github.com/AJ1732/ts-server/internal/blob"
	"github.com/AJ1732/ts-server/internal/modules/auth"
)

// memoryRepository is an in-memory Repository with the same find-then-update
// semantics as the Postgres implementation.
type memoryRepository struct {
	mu         sync.Mutex
	tenants    map[string]*Tenant
	failUpdate error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{tenants: make(map[string]*Tenant)}
}

func cloneTenant(t *Tenant) *Tenant {
	raw, _ := json.Marshal(t)
	c := &Tenant{}
	_ = json.Unmarshal(raw, c)
	c.PasswordHash = t.PasswordHash
	return c
}

func (r *memoryRepository) Create(ctx context.Context, t *Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tenants[t.TenantID]; ok {
		return apperror.Conflict("Tenant already exists")
	}
	for _, existing := range r.tenants {
		if existing.BusinessEmail == t.BusinessEmail {
			return apperror.Conflict("Tenant already exists")
		}
	}
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	r.tenants[t.TenantID] = cloneTenant(t)
	return nil
}

func (r *memoryRepository) FindByTenantID(ctx context.Context, tenantID string) (*Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tenants[tenantID]
	if !ok {
		return nil, apperror.NotFound("Tenant")
	}
	return cloneTenant(t), nil
}

func (r *memoryRepository) FindByEmail(ctx context.Context, email string) (*Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tenants {
		if t.BusinessEmail == email {
			return cloneTenant(t), nil
		}
	}
	return nil, apperror.NotFound("Tenant")
}

func (r *memoryRepository) List(ctx context.Context) ([]*Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*Tenant
	for _, t := range r.tenants {
		all = append(all, cloneTenant(t))
	}
	return all, nil
}

func (r *memoryRepository) Update(ctx context.Context, tenantID string, t *Tenant) (*Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdate != nil {
		return nil, r.failUpdate
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if _, ok := r.tenants[tenantID]; !ok {
		return nil, apperror.NotFound("Tenant")
	}
	t.UpdatedAt = time.Now().UTC()
	r.tenants[tenantID] = cloneTenant(t)
	return cloneTenant(t), nil
}

func (r *memoryRepository) Delete(ctx context.Context, tenantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tenants[tenantID]; !ok {
		return apperror.NotFound("Tenant")
	}
	delete(r.tenants, tenantID)
	return nil
}

// countingStore counts blob-store calls.
type countingStore struct {
	blob.Store
	calls int
}

func (c *countingStore) Upload(ctx context.Context, folder, name, contentType string, content []byte) (*blob.UploadResult, error) {
	c.calls++
	return c.Store.Upload(ctx, folder, name, contentType, content)
}

func (c *countingStore) Delete(ctx context.Context, key string) error {
	c.calls++
	return c.Store.Delete(ctx, key)
}

func (c *countingStore) Exists(ctx context.Context, key string) (bool, error) {
	c.calls++
	return c.Store.Exists(ctx, key)
}

// failingStore fails the n-th upload (1-based).
type failingStore struct {
	blob.Store
	failOn  int
	uploads int
}

func (f *failingStore) Upload(ctx context.Context, folder, name, contentType string, content []byte) (*blob.UploadResult, error) {
	f.uploads++
	if f.uploads == f.failOn {
		return nil, errors.New("connection reset by peer")
	}
	return f.Store.Upload(ctx, folder, name, contentType, content)
}

func newTestBlobStore(t *testing.T) *blob.Local {
	t.Helper()
	store, err := blob.NewLocal(t.TempDir(), "")
	require.NoError(t, err)
	return store
}

func seedTenant(t *testing.T, repo Repository, tenantID string) *Tenant {
	t.Helper()
	tn := &Tenant{
		TenantID:          tenantID,
		BusinessEmail:     tenantID + "@example.com",
		LegalBusinessName: "Acme Warehousing Ltd",
		IsActive:          true,
		SubscriptionPlan:  "basic",
		Settings:          Settings{Timezone: "UTC", Currency: "USD", Language: "en"},
	}
	require.NoError(t, repo.Create(context.Background(), tn))
	return tn
}

func validFields() UpdateFields {
	return UpdateFields{
		CorporateAddress:            "12 Marina Road, Lagos",
		CorporateRegistrationNumber: "RC-123456",
		PrimaryContactName:          "Ada Obi",
		PrimaryContactRole:          "Operations Lead",
		PrimaryContactPhone:         "+2348000000000",
		PrimaryContactEmail:         "ada@example.com",
		InventoryTypes:              `["FMCG","Pharmaceuticals"]`,
		NatureOfBusiness:            `["Logistics"]`,
	}
}

func allSlotFiles() map[string]*File {
	return map[string]*File{
		SlotCACCertificate: {Name: "cac.pdf", ContentType: "application/pdf", Size: 4, Content: []byte("cac1")},
		SlotValidID:        {Name: "id.png", ContentType: "image/png", Size: 3, Content: []byte("id1")},
		SlotUtilityBill:    {Name: "bill.pdf", ContentType: "application/pdf", Size: 5, Content: []byte("bill1")},
	}
}

func newTenantService(repo Repository, blobs blob.Store) Service {
	return NewService(repo, blobs, auth.NewTokenService("test-secret"), nil)
}

func TestOnboardAllSlots(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	blobs := newTestBlobStore(t)
	seedTenant(t, repo, "ACM1234567")

	svc := newTenantService(repo, blobs)
	result, err := svc.Onboard(ctx, "ACM1234567", validFields(), allSlotFiles())
	require.NoError(t, err)

	assert.True(t, result.OnboardingComplete)
	require.Len(t, result.Documents, 3)

	seen := map[string]bool{}
	for _, slot := range RequiredSlots {
		doc, ok := result.Documents[slot]
		require.True(t, ok, slot)
		require.NotEmpty(t, doc.StorageKey, slot)
		assert.False(t, seen[doc.StorageKey], "storage keys must be distinct")
		seen[doc.StorageKey] = true

		exists, err := blobs.Exists(ctx, doc.StorageKey)
		require.NoError(t, err)
		assert.True(t, exists, "blob for %s must exist", slot)
	}

	stored, err := repo.FindByTenantID(ctx, "ACM1234567")
	require.NoError(t, err)
	assert.True(t, stored.OnboardingComplete)
	assert.Equal(t, []string{"FMCG", "Pharmaceuticals"}, stored.InventoryTypes)
}

func TestOnboardMissingSlotFailsFast(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	counting := &countingStore{Store: newTestBlobStore(t)}
	seedTenant(t, repo, "ACM1234567")

	files := allSlotFiles()
	delete(files, SlotUtilityBill)

	svc := newTenantService(repo, counting)
	_, err := svc.Onboard(ctx, "ACM1234567", validFields(), files)
	require.Error(t, err)
	assert.Equal(t, 400, apperror.Status(err))
	assert.Contains(t, err.Error(), SlotUtilityBill)
	assert.Zero(t, counting.calls, "no blob-store calls before validation passes")

	stored, err := repo.FindByTenantID(ctx, "ACM1234567")
	require.NoError(t, err)
	assert.False(t, stored.OnboardingComplete)
}

func TestOnboardRollsBackOnUploadFailure(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	local := newTestBlobStore(t)
	failing := &failingStore{Store: local, failOn: 2}
	seedTenant(t, repo, "ACM1234567")

	svc := newTenantService(repo, failing)
	_, err := svc.Onboard(ctx, "ACM1234567", validFields(), allSlotFiles())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload")

	// record unchanged
	stored, err := repo.FindByTenantID(ctx, "ACM1234567")
	require.NoError(t, err)
	assert.False(t, stored.OnboardingComplete)
	assert.Empty(t, stored.Documents)

	// the blob uploaded before the failure was removed again
	keys, err := local.List(ctx, "tenant-documents/ACM1234567/")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestOnboardRollsBackOnCommitFailure(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	local := newTestBlobStore(t)
	seedTenant(t, repo, "ACM1234567")
	repo.failUpdate = errors.New("server closed the connection unexpectedly")

	svc := newTenantService(repo, local)
	_, err := svc.Onboard(ctx, "ACM1234567", validFields(), allSlotFiles())
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.failUpdate)

	stored, err := repo.FindByTenantID(ctx, "ACM1234567")
	require.NoError(t, err)
	assert.False(t, stored.OnboardingComplete)
	assert.Empty(t, stored.Documents)

	keys, err := local.List(ctx, "tenant-documents/ACM1234567/")
	require.NoError(t, err)
	assert.Empty(t, keys, "all uploads must be compensated after a failed commit")
}

func TestOnboardTenantNotFound(t *testing.T) {
	svc := newTenantService(newMemoryRepository(), newTestBlobStore(t))
	_, err := svc.Onboard(context.Background(), "MISSING", validFields(), allSlotFiles())
	assert.Equal(t, 404, apperror.Status(err))
}

func TestOnboardRejectsMalformedListField(t *testing.T) {
	repo := newMemoryRepository()
	counting := &countingStore{Store: newTestBlobStore(t)}
	seedTenant(t, repo, "ACM1234567")

	fields := validFields()
	fields.InventoryTypes = `not-json`

	svc := newTenantService(repo, counting)
	_, err := svc.Onboard(context.Background(), "ACM1234567", fields, allSlotFiles())
	require.Error(t, err)
	assert.Equal(t, 400, apperror.Status(err))
	assert.Zero(t, counting.calls)
}

func TestUpdateReplacesSlot(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	blobs := newTestBlobStore(t)
	seedTenant(t, repo, "ACM1234567")

	svc := newTenantService(repo, blobs)
	onboarded, err := svc.Onboard(ctx, "ACM1234567", validFields(), allSlotFiles())
	require.NoError(t, err)
	oldKey := onboarded.Documents[SlotCACCertificate].StorageKey

	updated, err := svc.Update(ctx, "ACM1234567", UpdateFields{}, map[string]*File{
		SlotCACCertificate: {Name: "cac-v2.pdf", ContentType: "application/pdf", Size: 4, Content: []byte("cac2")},
	})
	require.NoError(t, err)

	newKey := updated.Documents[SlotCACCertificate].StorageKey
	require.NotEmpty(t, newKey)
	assert.NotEqual(t, oldKey, newKey)

	oldExists, err := blobs.Exists(ctx, oldKey)
	require.NoError(t, err)
	assert.False(t, oldExists, "superseded blob must be gone")

	newExists, err := blobs.Exists(ctx, newKey)
	require.NoError(t, err)
	assert.True(t, newExists)
}

func TestUpdatePreservesUntouchedSlots(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	blobs := newTestBlobStore(t)
	seedTenant(t, repo, "ACM1234567")

	svc := newTenantService(repo, blobs)
	onboarded, err := svc.Onboard(ctx, "ACM1234567", validFields(), allSlotFiles())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "ACM1234567", UpdateFields{}, map[string]*File{
		SlotValidID: {Name: "id-v2.png", ContentType: "image/png", Size: 3, Content: []byte("id2")},
	})
	require.NoError(t, err)

	assert.Equal(t, onboarded.Documents[SlotCACCertificate], updated.Documents[SlotCACCertificate])
	assert.Equal(t, onboarded.Documents[SlotUtilityBill], updated.Documents[SlotUtilityBill])
	assert.NotEqual(t, onboarded.Documents[SlotValidID].StorageKey, updated.Documents[SlotValidID].StorageKey)
}

func TestUpdateWithoutFilesEditsFieldsOnly(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	counting := &countingStore{Store: newTestBlobStore(t)}
	seedTenant(t, repo, "ACM1234567")

	svc := newTenantService(repo, counting)
	_, err := svc.Onboard(ctx, "ACM1234567", validFields(), allSlotFiles())
	require.NoError(t, err)
	callsAfterOnboard := counting.calls

	updated, err := svc.Update(ctx, "ACM1234567", UpdateFields{TradingBrandName: "Acme Express"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Acme Express", updated.TradingBrandName)
	assert.Len(t, updated.Documents, 3)
	assert.Equal(t, callsAfterOnboard, counting.calls, "field-only update must not touch the blob store")
}

func TestUpdateRollsBackItsOwnUploads(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	local := newTestBlobStore(t)
	seedTenant(t, repo, "ACM1234567")

	svc := newTenantService(repo, local)
	_, err := svc.Onboard(ctx, "ACM1234567", validFields(), allSlotFiles())
	require.NoError(t, err)

	repo.failUpdate = errors.New("deadlock detected")
	svcFailing := newTenantService(repo, local)
	_, err = svcFailing.Update(ctx, "ACM1234567", UpdateFields{}, map[string]*File{
		SlotValidID: {Name: "id-v2.png", ContentType: "image/png", Size: 3, Content: []byte("id2")},
	})
	require.Error(t, err)

	// the failed request's own upload was compensated; the untouched slots
	// keep their blobs
	stored, findErr := repo.FindByTenantID(ctx, "ACM1234567")
	require.NoError(t, findErr)
	keys, listErr := local.List(ctx, "tenant-documents/ACM1234567/")
	require.NoError(t, listErr)
	assert.Len(t, keys, 2)
	assert.Contains(t, keys, stored.Documents[SlotCACCertificate].StorageKey)
	assert.Contains(t, keys, stored.Documents[SlotUtilityBill].StorageKey)
}
