package user

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AJ1732/ts-server/internal/apperror"
	"github.com/AJ1732/ts-server/internal/modules/auth"
)

type memoryRepository struct {
	mu    sync.Mutex
	items map[string]*User
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{items: map[string]*User{}}
}

func (r *memoryRepository) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Email == u.Email {
			return apperror.Conflict("User already exists")
		}
	}
	clone := *u
	r.items[u.ID] = &clone
	return nil
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperror.NotFound("User")
}

func (r *memoryRepository) FindByID(_ context.Context, tenantID, userID string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[userID]
	if !ok || u.TenantID != tenantID {
		return nil, apperror.NotFound("User")
	}
	clone := *u
	return &clone, nil
}

func (r *memoryRepository) FindByIDInWarehouse(_ context.Context, tenantID, warehouseID, userID string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[userID]
	if !ok || u.TenantID != tenantID || u.WarehouseID != warehouseID {
		return nil, apperror.NotFound("User")
	}
	clone := *u
	return &clone, nil
}

func (r *memoryRepository) ListByTenant(_ context.Context, tenantID string) ([]*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*User
	for _, u := range r.items {
		if u.TenantID == tenantID {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memoryRepository) ListByWarehouse(_ context.Context, tenantID, warehouseID string) ([]*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*User
	for _, u := range r.items {
		if u.TenantID == tenantID && u.WarehouseID == warehouseID {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memoryRepository) Update(_ context.Context, tenantID, userID string, u *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[userID]
	if !ok || existing.TenantID != tenantID {
		return nil, apperror.NotFound("User")
	}
	for id, other := range r.items {
		if id != userID && other.Email == u.Email {
			return nil, apperror.Conflict("User already exists")
		}
	}
	clone := *u
	clone.ID = userID
	clone.TenantID = tenantID
	r.items[userID] = &clone
	result := clone
	return &result, nil
}

func (r *memoryRepository) Delete(_ context.Context, tenantID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[userID]
	if !ok || existing.TenantID != tenantID {
		return apperror.NotFound("User")
	}
	delete(r.items, userID)
	return nil
}

func newTestService() Service {
	return NewService(newMemoryRepository(), auth.NewTokenService("test-secret"))
}

func validCreateRequest() CreateRequest {
	return CreateRequest{
		WarehouseID: "WH-1234567",
		Email:       "ops@acme.example",
		Password:    "s3cret-pass",
		Role:        RoleManager,
	}
}

func TestCreateUser(t *testing.T) {
	svc := newTestService()

	u, err := svc.Create(context.Background(), "ACM1234567", validCreateRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "ACM1234567", u.TenantID)
	assert.Equal(t, "WH-1234567", u.WarehouseID)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
}

func TestCreateUserValidation(t *testing.T) {
	svc := newTestService()

	req := validCreateRequest()
	req.Password = ""
	_, err := svc.Create(context.Background(), "ACM1234567", req)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.Status(err))

	req = validCreateRequest()
	req.Role = "owner"
	_, err = svc.Create(context.Background(), "ACM1234567", req)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.Status(err))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc := newTestService()

	_, err := svc.Create(context.Background(), "ACM1234567", validCreateRequest())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "ACM1234567", validCreateRequest())
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.Status(err))
}

func TestSigninIssuesUserToken(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	svc := NewService(newMemoryRepository(), tokens)

	created, err := svc.Create(context.Background(), "ACM1234567", validCreateRequest())
	require.NoError(t, err)

	u, token, err := svc.Signin(context.Background(), "ops@acme.example", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.Subject)
	assert.Equal(t, auth.ScopeUser, claims.Scope)
	assert.Equal(t, "ACM1234567", claims.TenantID)
	assert.Equal(t, "WH-1234567", claims.WarehouseID)
	assert.Equal(t, RoleManager, claims.Role)
}

func TestSigninRejectsBadCredentials(t *testing.T) {
	svc := newTestService()

	_, err := svc.Create(context.Background(), "ACM1234567", validCreateRequest())
	require.NoError(t, err)

	_, _, err = svc.Signin(context.Background(), "ops@acme.example", "wrong")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperror.Status(err))

	_, _, err = svc.Signin(context.Background(), "nobody@acme.example", "s3cret-pass")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperror.Status(err))
}

func TestUpdateUserRehashesPassword(t *testing.T) {
	svc := newTestService()

	created, err := svc.Create(context.Background(), "ACM1234567", validCreateRequest())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), "ACM1234567", created.ID, UpdateRequest{
		Password: "new-pass",
	})
	require.NoError(t, err)
	assert.NotEqual(t, created.PasswordHash, updated.PasswordHash)
	assert.Equal(t, created.Email, updated.Email)
	assert.Equal(t, created.Role, updated.Role)

	_, _, err = svc.Signin(context.Background(), "ops@acme.example", "new-pass")
	assert.NoError(t, err)
}

func TestListByWarehouseScoping(t *testing.T) {
	svc := newTestService()

	reqA := validCreateRequest()
	_, err := svc.Create(context.Background(), "ACM1234567", reqA)
	require.NoError(t, err)

	reqB := validCreateRequest()
	reqB.Email = "picker@acme.example"
	reqB.WarehouseID = "WH-7654321"
	reqB.Role = RoleStaff
	_, err = svc.Create(context.Background(), "ACM1234567", reqB)
	require.NoError(t, err)

	all, err := svc.ListByTenant(context.Background(), "ACM1234567")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := svc.ListByWarehouse(context.Background(), "ACM1234567", "WH-1234567")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "ops@acme.example", scoped[0].Email)
}

func TestDeleteUserTenantIsolation(t *testing.T) {
	svc := newTestService()

	created, err := svc.Create(context.Background(), "ACM1234567", validCreateRequest())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "ZEN7654321", created.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.Status(err))

	require.NoError(t, svc.Delete(context.Background(), "ACM1234567", created.ID))
}
