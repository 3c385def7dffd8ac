package user

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/AJ1732/ts-server/internal/apperror"
	"github.com/AJ1732/ts-server/internal/modules/auth"
)

type service struct {
	repo   Repository
	tokens *auth.TokenService
}

// NewService creates a new user service.
func NewService(repo Repository, tokens *auth.TokenService) Service {
	return &service{repo: repo, tokens: tokens}
}

func (s *service) Create(ctx context.Context, tenantID string, req CreateRequest) (*User, error) {
	if req.WarehouseID == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return nil, apperror.Validation("warehouseId, email, password, and role are required")
	}
	if !ValidRole(req.Role) {
		return nil, apperror.Validation("Role must be %q or %q", RoleManager, RoleStaff)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           uuid.NewString(),
		TenantID:     tenantID,
		WarehouseID:  req.WarehouseID,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Role:         req.Role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Signin(ctx context.Context, email, password string) (*User, string, error) {
	if email == "" || password == "" {
		return nil, "", apperror.Validation("Email and password are required")
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, "", apperror.Auth("Invalid credentials")
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", apperror.Auth("Invalid credentials")
	}

	token, err := s.tokens.Sign(auth.Claims{
		Subject:     u.ID,
		Scope:       auth.ScopeUser,
		TenantID:    u.TenantID,
		WarehouseID: u.WarehouseID,
		Role:        u.Role,
	}, auth.UserTokenTTL)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Get(ctx context.Context, tenantID, userID string) (*User, error) {
	return s.repo.FindByID(ctx, tenantID, userID)
}

func (s *service) GetInWarehouse(ctx context.Context, tenantID, warehouseID, userID string) (*User, error) {
	return s.repo.FindByIDInWarehouse(ctx, tenantID, warehouseID, userID)
}

func (s *service) ListByTenant(ctx context.Context, tenantID string) ([]*User, error) {
	return s.repo.ListByTenant(ctx, tenantID)
}

func (s *service) ListByWarehouse(ctx context.Context, tenantID, warehouseID string) ([]*User, error) {
	return s.repo.ListByWarehouse(ctx, tenantID, warehouseID)
}

func (s *service) Update(ctx context.Context, tenantID, userID string, req UpdateRequest) (*User, error) {
	existing, err := s.repo.FindByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if req.WarehouseID != "" {
		existing.WarehouseID = req.WarehouseID
	}
	if req.Email != "" {
		existing.Email = req.Email
	}
	if req.Role != "" {
		if !ValidRole(req.Role) {
			return nil, apperror.Validation("Role must be %q or %q", RoleManager, RoleStaff)
		}
		existing.Role = req.Role
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		existing.PasswordHash = string(hashed)
	}
	return s.repo.Update(ctx, tenantID, userID, existing)
}

func (s *service) Delete(ctx context.Context, tenantID, userID string) error {
	return s.repo.Delete(ctx, tenantID, userID)
}
