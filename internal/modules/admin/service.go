package admin

import "context"

// SignupRequest holds data for registering a platform admin.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Service defines platform-admin business logic.
type Service interface {
	// Signup registers an admin and returns it with a fresh token.
	Signup(ctx context.Context, req SignupRequest) (*Admin, string, error)
	// Signin verifies credentials and returns the admin with a fresh token.
	Signin(ctx context.Context, email, password string) (*Admin, string, error)
}
