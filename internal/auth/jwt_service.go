package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"carwash/internal/errors"
	"carwash/internal/model"
)

const (
	// DefaultAccessTokenExpiry is the duration for which access tokens are valid.
	DefaultAccessTokenExpiry = 7 * 24 * time.Hour
	// DefaultRefreshTokenExpiry is the duration for which refresh tokens are valid.
	DefaultRefreshTokenExpiry = 30 * 24 * time.Hour
)

// Identity is the identity and role carried by every token.
type Identity struct {
	UserID uuid.UUID  `json:"userId"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
}

// IdentityOf builds the token identity for a user.
func IdentityOf(u *model.User) Identity {
	return Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}

// IsAdmin reports whether the identity holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == model.RoleAdmin
}

// Claims represents JWT claims.
type Claims struct {
	Identity
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed access and refresh tokens.
// Access and refresh tokens use distinct secrets, so one can never stand in for the other.
// There is no revocation: a token stays valid until it expires.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenService creates a token service. Zero TTLs fall back to the defaults.
func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenExpiry
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenExpiry
	}
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// IssueAccessToken generates a new access token for the identity.
func (s *TokenService) IssueAccessToken(id Identity) (string, error) {
	return s.issue(id, s.accessSecret, s.accessTTL)
}

// IssueRefreshToken generates a new refresh token for the identity.
func (s *TokenService) IssueRefreshToken(id Identity) (string, error) {
	return s.issue(id, s.refreshSecret, s.refreshTTL)
}

// VerifyAccessToken validates an access token and returns its claims.
func (s *TokenService) VerifyAccessToken(token string) (*Claims, error) {
	return s.Verify(token, s.accessSecret)
}

// VerifyRefreshToken validates a refresh token and returns its claims.
func (s *TokenService) VerifyRefreshToken(token string) (*Claims, error) {
	return s.Verify(token, s.refreshSecret)
}

// Verify validates a JWT token against secret. Any failure is reported as errors.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		return nil, errors.ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenService) issue(id Identity, secret []byte, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &Claims{
		Identity: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
