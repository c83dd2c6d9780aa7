package auth

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/config"
)

// Scope grants access to a group of /api routes
type Scope string

const (
	ScopeProductsRead  Scope = "products:read"
	ScopeProductsWrite Scope = "products:write"
	ScopeViewsWrite    Scope = "views:write"
)

// DefaultScopes is what cmd/token grants when no scope is given
var DefaultScopes = []Scope{ScopeProductsRead, ScopeProductsWrite, ScopeViewsWrite}

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingStaff     = errors.New("missing staff in claims")
	ErrShopMismatch     = errors.New("token was issued for another shop")
	ErrTokenRevoked     = errors.New("token has been revoked")
	ErrUnknownScope     = errors.New("unknown scope")
)

// ParseScopes parses a comma separated scope list. Empty input yields DefaultScopes.
func ParseScopes(s string) ([]Scope, error) {
	if strings.TrimSpace(s) == "" {
		return slices.Clone(DefaultScopes), nil
	}
	var scopes []Scope
	for _, part := range strings.Split(s, ",") {
		scope := Scope(strings.TrimSpace(part))
		if scope == "" {
			continue
		}
		if !slices.Contains(DefaultScopes, scope) {
			return nil, ErrUnknownScope
		}
		if !slices.Contains(scopes, scope) {
			scopes = append(scopes, scope)
		}
	}
	return scopes, nil
}

// Claims represents the staff bearer token claims
type Claims struct {
	jwt.RegisteredClaims
	Shop   string  `json:"shop"`
	Staff  string  `json:"staff"`
	Scopes []Scope `json:"scopes,omitempty"`
}

// HasScope checks if the claims grant a scope
func (c *Claims) HasScope(scope Scope) bool {
	return slices.Contains(c.Scopes, scope)
}

// RemainingTTL returns the time until the token expires
func (c *Claims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(time.Until(c.ExpiresAt.Time), 0)
}

// Token is a signed access token
type Token struct {
	ID          string    `json:"id"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenType   string    `json:"token_type"` // Bearer
}

// TokenInput contains input for token generation
type TokenInput struct {
	Staff  string
	Scopes []Scope
	// TTL overrides the configured expiration when positive
	TTL time.Duration
}

// JWTService signs and validates staff tokens for a single shop
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	shop       string
	now        func() time.Time
}

// NewJWTService creates a new JWT service bound to shop
func NewJWTService(cfg config.AuthConfig, shop string) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.JWTSecret),
		expiration: cfg.AccessTokenExpiration,
		issuer:     cfg.Issuer,
		shop:       shop,
		now:        time.Now,
	}
}

// GenerateToken signs a new access token
func (s *JWTService) GenerateToken(input TokenInput) (*Token, error) {
	if strings.TrimSpace(input.Staff) == "" {
		return nil, ErrMissingStaff
	}
	ttl := s.expiration
	if input.TTL > 0 {
		ttl = input.TTL
	}
	scopes := input.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	now := s.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   input.Staff,
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Shop:   s.shop,
		Staff:  input.Staff,
		Scopes: scopes,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &Token{
		ID:          claims.ID,
		AccessToken: signed,
		ExpiresAt:   claims.ExpiresAt.Time,
		TokenType:   "Bearer",
	}, nil
}

// ValidateToken validates an access token and returns its claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.Staff == "" {
		return nil, ErrMissingStaff
	}
	if claims.Shop != s.shop {
		return nil, ErrShopMismatch
	}
	return claims, nil
}

// Expiration returns the default token lifetime
func (s *JWTService) Expiration() time.Duration {
	return s.expiration
}
