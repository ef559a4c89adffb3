package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/madinti/madinti-api/internal/core/domain"
	"github.com/madinti/madinti-api/internal/core/ports"
)

// Context keys set by Auth and OptionalAuth.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// Auth requires a valid access token and injects its claims into context.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "no token provided")
			}

			claims, valid := verifier.Verify(token, domain.TokenAccess)
			if !valid {
				return domain.ErrInvalidToken
			}

			setClaims(c, claims)
			return next(c)
		}
	}
}

// OptionalAuth injects claims when a valid access token is present and never
// rejects the request.
func OptionalAuth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token, ok := bearerToken(c); ok {
				if claims, valid := verifier.Verify(token, domain.TokenAccess); valid {
					setClaims(c, claims)
				}
			}
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims injected by Auth or OptionalAuth.
func ClaimsFrom(c echo.Context) (domain.Claims, bool) {
	userID, _ := c.Get(ContextUserID).(string)
	role, _ := c.Get(ContextRole).(domain.Role)
	if userID == "" || role == "" {
		return domain.Claims{}, false
	}
	return domain.Claims{UserID: userID, Role: role}, true
}

func setClaims(c echo.Context, claims domain.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextRole, claims.Role)
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
