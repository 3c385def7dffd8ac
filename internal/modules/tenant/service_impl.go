package tenant

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/AJ1732/ts-server/internal/apperror"
	"github.com/AJ1732/ts-server/internal/blob"
	"github.com/AJ1732/ts-server/internal/logger"
	"github.com/AJ1732/ts-server/internal/modules/auth"
)

type service struct {
	repo   Repository
	blobs  blob.Store
	tokens *auth.TokenService
	cache  *redis.Client
}

// NewService creates a new tenant service. cache may be nil, in which case
// signed URLs are generated on every request.
func NewService(repo Repository, blobs blob.Store, tokens *auth.TokenService, cache *redis.Client) Service {
	return &service{repo: repo, blobs: blobs, tokens: tokens, cache: cache}
}

func (s *service) Signup(ctx context.Context, req SignupRequest) (*Tenant, error) {
	if req.BusinessEmail == "" || req.LegalBusinessName == "" {
		return nil, apperror.Validation("businessEmail and legalBusinessName are required")
	}

	if _, err := s.repo.FindByEmail(ctx, req.BusinessEmail); err == nil {
		return nil, apperror.Conflict("Tenant already exists")
	} else if !apperror.IsNotFound(err) {
		return nil, err
	}

	tenantID := NewTenantID(req.LegalBusinessName)
	// the tenant id doubles as the initial password until it is changed
	hashed, err := bcrypt.GenerateFromPassword([]byte(tenantID), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	t := &Tenant{
		TenantID:          tenantID,
		BusinessEmail:     req.BusinessEmail,
		LegalBusinessName: req.LegalBusinessName,
		PasswordHash:      string(hashed),
		IsActive:          true,
		SubscriptionPlan:  "basic",
		Settings:          Settings{Timezone: "UTC", Currency: "USD", Language: "en"},
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) Signin(ctx context.Context, email, password string) (*Tenant, string, error) {
	if email == "" || password == "" {
		return nil, "", apperror.Validation("Email and password are required")
	}
	t, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(t.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperror.Auth("Invalid credentials")
	}
	token, err := s.tokens.Sign(auth.Claims{
		Subject:  t.TenantID,
		Scope:    auth.ScopeTenant,
		TenantID: t.TenantID,
	}, auth.TenantTokenTTL)
	if err != nil {
		return nil, "", err
	}
	return t, token, nil
}

func (s *service) Get(ctx context.Context, tenantID string) (*Tenant, error) {
	return s.repo.FindByTenantID(ctx, tenantID)
}

func (s *service) List(ctx context.Context) ([]*Tenant, error) {
	return s.repo.List(ctx)
}

func (s *service) Delete(ctx context.Context, tenantID string) error {
	t, err := s.repo.FindByTenantID(ctx, tenantID)
	if err != nil {
		return err
	}
	for _, doc := range t.Documents {
		if doc.StorageKey == "" {
			continue
		}
		if err := s.blobs.Delete(ctx, doc.StorageKey); err != nil {
			return err
		}
	}
	return s.repo.Delete(ctx, tenantID)
}

const signedURLCachePrefix = "signed-url:"

func (s *service) DocumentURL(ctx context.Context, tenantID, slot string, expireIn time.Duration) (string, error) {
	t, err := s.repo.FindByTenantID(ctx, tenantID)
	if err != nil {
		return "", err
	}
	doc, ok := t.Documents[slot]
	if !ok || doc.StorageKey == "" {
		return "", apperror.NotFound("Document")
	}

	cacheKey := signedURLCachePrefix + doc.StorageKey
	if s.cache != nil {
		if url, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			return url, nil
		} else if !errors.Is(err, redis.Nil) {
			logger.FromContext(ctx).WithError(err).Warn("signed URL cache read failed")
		}
	}

	url, err := s.blobs.SignedURL(ctx, doc.StorageKey, expireIn)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		// cache for a bit less than the URL stays valid
		ttl := expireIn - time.Minute
		if ttl > 0 {
			if err := s.cache.Set(ctx, cacheKey, url, ttl).Err(); err != nil {
				logger.FromContext(ctx).WithError(err).Warn("signed URL cache write failed")
			}
		}
	}
	return url, nil
}
