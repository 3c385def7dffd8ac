package auth

import (
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/AJ1732/ts-server/internal/apperror"
)

// Scope identifies which kind of principal a token belongs to.
const (
	ScopeAdmin  = "admin"
	ScopeTenant = "tenant"
	ScopeUser   = "user"
)

// Token lifetimes per scope.
const (
	AdminTokenTTL  = 24 * time.Hour
	TenantTokenTTL = 24 * time.Hour
	UserTokenTTL   = 7 * 24 * time.Hour
)

// Claims is the verified identity attached to a request. TenantID,
// WarehouseID, and Role are only set for the scopes that have them.
type Claims struct {
	Subject     string
	Scope       string
	TenantID    string
	WarehouseID string
	Role        string
}

type tokenClaims struct {
	Scope       string `json:"scope"`
	TenantID    string `json:"tenantId,omitempty"`
	WarehouseID string `json:"warehouseId,omitempty"`
	Role        string `json:"role,omitempty"`
	jwt.StandardClaims
}

// TokenService signs and verifies access tokens.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a token service with the given signing secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Sign issues an HS256 token carrying the given claims.
func (s *TokenService) Sign(claims Claims, ttl time.Duration) (string, error) {
	tc := &tokenClaims{
		Scope:       claims.Scope,
		TenantID:    claims.TenantID,
		WarehouseID: claims.WarehouseID,
		Role:        claims.Role,
		StandardClaims: jwt.StandardClaims{
			Subject:   claims.Subject,
			ExpiresAt: time.Now().Add(ttl).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tc)
	return token.SignedString(s.secret)
}

// Verify parses and validates a token, returning its claims.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperror.Auth("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperror.Auth("Invalid or expired token")
	}
	if claims.Subject == "" {
		return nil, apperror.Auth("Invalid token payload")
	}
	return &Claims{
		Subject:     claims.Subject,
		Scope:       claims.Scope,
		TenantID:    claims.TenantID,
		WarehouseID: claims.WarehouseID,
		Role:        claims.Role,
	}, nil
}
