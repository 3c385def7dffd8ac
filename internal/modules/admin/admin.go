package admin

import "time"

// Admin is a platform operator account. Admins are not bound to any tenant;
// they manage the platform surface (tenant listing and removal).
type Admin struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
