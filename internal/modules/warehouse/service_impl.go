package warehouse

import (
	"context"

	"github.com/AJ1732/ts-server/internal/apperror"
)

type service struct {
	repo Repository
}

// NewService creates a new warehouse service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Warehouse, error) {
	if req.Alias == "" {
		return nil, apperror.Validation("Alias is required")
	}
	if req.Name == "" || req.Location == "" {
		return nil, apperror.Validation("Name and location are required")
	}
	w := &Warehouse{
		WarehouseID: NewWarehouseID(),
		TenantID:    tenantID,
		Name:        req.Name,
		Location:    req.Location,
		Alias:       req.Alias,
	}
	if err := s.repo.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *service) Get(ctx context.Context, tenantID, warehouseID string) (*Warehouse, error) {
	return s.repo.FindByID(ctx, tenantID, warehouseID)
}

func (s *service) List(ctx context.Context, tenantID string) ([]*Warehouse, error) {
	return s.repo.ListByTenant(ctx, tenantID)
}

func (s *service) Update(ctx context.Context, tenantID, warehouseID string, req UpdateRequest) (*Warehouse, error) {
	existing, err := s.repo.FindByID(ctx, tenantID, warehouseID)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		existing.Name = req.Name
	}
	if req.Location != "" {
		existing.Location = req.Location
	}
	if req.Alias != "" {
		existing.Alias = req.Alias
	}
	return s.repo.Update(ctx, tenantID, warehouseID, existing)
}

func (s *service) Delete(ctx context.Context, tenantID, warehouseID string) error {
	return s.repo.Delete(ctx, tenantID, warehouseID)
}
