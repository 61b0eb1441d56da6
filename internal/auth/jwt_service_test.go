package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carwash/internal/errors"
	"carwash/internal/model"
)

func testIdentity() Identity {
	return Identity{UserID: uuid.New(), Email: "jane@example.com", Role: model.RoleUser}
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("access", "refresh", time.Hour, 2*time.Hour)
	id := testIdentity()

	access, err := svc.IssueAccessToken(id)
	require.NoError(t, err)
	claims, err := svc.VerifyAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Identity)
	assert.Equal(t, id.UserID.String(), claims.Subject)

	refresh, err := svc.IssueRefreshToken(id)
	require.NoError(t, err)
	claims, err = svc.VerifyRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Identity)
}

func TestTokenService_SecretsAreNotInterchangeable(t *testing.T) {
	svc := NewTokenService("access", "refresh", time.Hour, time.Hour)
	id := testIdentity()

	refresh, err := svc.IssueRefreshToken(id)
	require.NoError(t, err)
	_, err = svc.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, errors.ErrInvalidToken)

	access, err := svc.IssueAccessToken(id)
	require.NoError(t, err)
	_, err = svc.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, errors.ErrInvalidToken)
}

func TestTokenService_Expiry(t *testing.T) {
	svc := NewTokenService("access", "refresh", time.Minute, time.Minute)
	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.IssueAccessToken(testIdentity())
	require.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(30 * time.Second) }
	_, err = svc.VerifyAccessToken(token)
	assert.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	_, err = svc.VerifyAccessToken(token)
	assert.ErrorIs(t, err, errors.ErrInvalidToken)
}

func TestTokenService_Rejects(t *testing.T) {
	svc := NewTokenService("access", "refresh", time.Hour, time.Hour)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		Identity: testIdentity(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("access"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Identity: testIdentity()}).SignedString([]byte("access"))
	require.NoError(t, err)

	other := NewTokenService("other", "other", time.Hour, time.Hour)
	foreign, err := other.IssueAccessToken(testIdentity())
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"empty", ""},
		{"alg none", noneToken},
		{"missing user", noSubject},
		{"missing expiry", noExpiry},
		{"wrong secret", foreign},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.VerifyAccessToken(tt.token)
			assert.ErrorIs(t, err, errors.ErrInvalidToken)
		})
	}
}

func TestNewTokenService_DefaultTTLs(t *testing.T) {
	svc := NewTokenService("a", "r", 0, 0)
	assert.Equal(t, DefaultAccessTokenExpiry, svc.accessTTL)
	assert.Equal(t, DefaultRefreshTokenExpiry, svc.refreshTTL)
}
