package user

import "time"

// Roles a warehouse user can hold. Any warehouse user can read individual
// records within their own warehouse; only managers may list them.
const (
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// User is an operator account bound to a single warehouse of a tenant.
type User struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenantId"`
	WarehouseID  string    `json:"warehouseId"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ValidRole reports whether role is one of the supported user roles.
func ValidRole(role string) bool {
	return role == RoleManager || role == RoleStaff
}
