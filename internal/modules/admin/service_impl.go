package admin

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

// NewService creates a new admin service.
func NewService(repo Repository, tokens *auth.TokenService) Service {
	return &service{repo: repo, tokens: tokens}
}

func (s *service) Signup(ctx context.Context, req SignupRequest) (*Admin, string, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, "", apperror.Validation("Name, Email and password are required")
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, "", apperror.Conflict("Admin already exists")
	} else if !apperror.IsNotFound(err) {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	a := &Admin{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashed),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Sign(auth.Claims{Subject: a.ID, Scope: auth.ScopeAdmin}, auth.AdminTokenTTL)
	if err != nil {
		return nil, "", err
	}
	return a, token, nil
}

func (s *service) Signin(ctx context.Context, email, password string) (*Admin, string, error) {
	if email == "" || password == "" {
		return nil, "", apperror.Validation("Email and password are required")
	}

	a, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, "", apperror.Auth("Invalid credentials")
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return nil, "", apperror.Auth("Invalid credentials")
	}

	token, err := s.tokens.Sign(auth.Claims{Subject: a.ID, Scope: auth.ScopeAdmin}, auth.AdminTokenTTL)
	if err != nil {
		return nil, "", err
	}
	return a, token, nil
}
