package admin

import "context"

// Repository defines admin account storage. Email is unique.
type Repository interface {
	Create(ctx context.Context, a *Admin) error
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	FindByID(ctx context.Context, id string) (*Admin, error)
}
