package auth

import (
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"carwash/internal/errors"
)

// claimsContextKey is where the gate stores verified *Claims on the echo context.
const claimsContextKey = "claims"

// Gate resolves bearer tokens to identities and enforces roles.
type Gate struct {
	tokens *TokenService
}

// NewGate creates a gate backed by the token service.
func NewGate(tokens *TokenService) *Gate {
	return &Gate{tokens: tokens}
}

// RequireAuth verifies the access token and attaches its claims to the context.
// A missing token and an invalid token both respond 401 with distinct messages.
func (g *Gate) RequireAuth() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  claimsContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return g.tokens.VerifyAccessToken(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if bearerToken(c.Request().Header.Get(echo.HeaderAuthorization)) == "" {
				return deny(http.StatusUnauthorized, errors.ErrMissingToken, "MISSING_TOKEN")
			}
			return deny(http.StatusUnauthorized, errors.ErrInvalidToken, "INVALID_TOKEN")
		},
	})
}

// RequireAdmin rejects requests whose identity is not an admin. It must run after RequireAuth.
func (g *Gate) RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok || !claims.IsAdmin() {
				return deny(http.StatusForbidden, errors.ErrAdminOnly, "ADMIN_ONLY")
			}
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims attached by RequireAuth.
func ClaimsFrom(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func deny(status int, err error, code string) error {
	return echo.NewHTTPError(status, errors.ErrorResponse{
		Message: err.Error(),
		Code:    code,
	})
}
