package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AJ1732/ts-server/internal/modules/auth"
)

// recordingService counts calls so tests can assert a request was rejected
// before reaching business logic.
type recordingService struct {
	calls int
}

func (s *recordingService) Create(context.Context, string, CreateRequest) (*User, error) {
	s.calls++
	return &User{}, nil
}

func (s *recordingService) Signin(context.Context, string, string) (*User, string, error) {
	s.calls++
	return nil, "", nil
}

func (s *recordingService) Get(context.Context, string, string) (*User, error) {
	s.calls++
	return &User{}, nil
}

func (s *recordingService) GetInWarehouse(context.Context, string, string, string) (*User, error) {
	s.calls++
	return &User{}, nil
}

func (s *recordingService) ListByTenant(context.Context, string) ([]*User, error) {
	s.calls++
	return nil, nil
}

func (s *recordingService) ListByWarehouse(context.Context, string, string) ([]*User, error) {
	s.calls++
	return nil, nil
}

func (s *recordingService) Update(context.Context, string, string, UpdateRequest) (*User, error) {
	s.calls++
	return &User{}, nil
}

func (s *recordingService) Delete(context.Context, string, string) error {
	s.calls++
	return nil
}

func newTestRouter(service Service) (*chi.Mux, *auth.TokenService) {
	tokens := auth.NewTokenService("test-secret")
	router := chi.NewRouter()
	NewHandler(service, auth.NewMiddleware(tokens)).RegisterRoutes(router)
	return router, tokens
}

func TestUserManagementWrongTenantContextForbidden(t *testing.T) {
	service := &recordingService{}
	router, tokens := newTestRouter(service)

	token, err := tokens.Sign(auth.Claims{
		Subject:  "AAA1234567",
		Scope:    auth.ScopeTenant,
		TenantID: "AAA1234567",
	}, auth.TenantTokenTTL)
	require.NoError(t, err)

	for _, target := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/tenants/BBB7654321/users"},
		{http.MethodGet, "/api/v1/tenants/BBB7654321/users"},
		{http.MethodGet, "/api/v1/tenants/BBB7654321/users/some-user"},
		{http.MethodPut, "/api/v1/tenants/BBB7654321/users/some-user"},
		{http.MethodDelete, "/api/v1/tenants/BBB7654321/users/some-user"},
	} {
		req := httptest.NewRequest(target.method, target.path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code, target.path)

		var body struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "Forbidden: wrong tenant context", body.Message)
	}
	assert.Zero(t, service.calls)
}

func TestUserManagementMatchingTenantContextPasses(t *testing.T) {
	service := &recordingService{}
	router, tokens := newTestRouter(service)

	token, err := tokens.Sign(auth.Claims{
		Subject:  "AAA1234567",
		Scope:    auth.ScopeTenant,
		TenantID: "AAA1234567",
	}, auth.TenantTokenTTL)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/AAA1234567/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, service.calls)
}

func TestStaffRoleCannotListWarehouseUsers(t *testing.T) {
	service := &recordingService{}
	router, tokens := newTestRouter(service)

	token, err := tokens.Sign(auth.Claims{
		Subject:     "user-1",
		Scope:       auth.ScopeUser,
		TenantID:    "AAA1234567",
		WarehouseID: "WH-1234567",
		Role:        RoleStaff,
	}, auth.UserTokenTTL)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, service.calls)
}
