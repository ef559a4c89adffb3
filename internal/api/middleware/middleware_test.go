package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/madinti/madinti-api/internal/core/domain"
	"github.com/madinti/madinti-api/internal/core/ports"
)

// stubVerifier accepts "<kind>:<userID>:<role>".
type stubVerifier struct{}

func (stubVerifier) Verify(token string, kind domain.TokenKind) (domain.Claims, bool) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] != string(kind) {
		return domain.Claims{}, false
	}
	return domain.Claims{UserID: parts[1], Role: domain.Role(parts[2])}, true
}

func newContext(authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(called *bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		*called = true
		return c.NoContent(http.StatusOK)
	}
}

func TestAuth_ValidToken(t *testing.T) {
	c, rec := newContext("Bearer access:user-1:CITIZEN")

	called := false
	h := Auth(stubVerifier{})(func(c echo.Context) error {
		called = true
		claims, ok := ClaimsFrom(c)
		if !ok || claims.UserID != "user-1" || claims.Role != domain.RoleCitizen {
			t.Fatalf("claims not injected: %+v", claims)
		}
		if c.Get(ContextUserID) != "user-1" {
			t.Fatalf("user_id not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected next called with 200, got %d", rec.Code)
	}
}

func TestAuth_MissingOrMalformedHeader(t *testing.T) {
	for _, header := range []string{"", "Basic abc", "Bearer", "Bearer   "} {
		c, _ := newContext(header)
		called := false

		err := Auth(stubVerifier{})(okHandler(&called))(c)

		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %v", header, err)
		}
		if called {
			t.Fatalf("header %q: next must not be called", header)
		}
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	for _, header := range []string{"Bearer garbage", "Bearer refresh:user-1:CITIZEN"} {
		c, _ := newContext(header)
		called := false

		err := Auth(stubVerifier{})(okHandler(&called))(c)
		if !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("header %q: expected ErrInvalidToken, got %v", header, err)
		}
		if called {
			t.Fatalf("next must not be called")
		}
	}
}

func TestOptionalAuth(t *testing.T) {
	cases := map[string]bool{
		"":                             false,
		"Bearer garbage":               false,
		"Bearer access:admin-1:ADMIN":  true,
		"bearer access:admin-1:ADMIN":  true,
		"Bearer refresh:admin-1:ADMIN": false,
	}

	for header, wantClaims := range cases {
		c, _ := newContext(header)
		called := false

		err := OptionalAuth(stubVerifier{})(func(c echo.Context) error {
			called = true
			if _, ok := ClaimsFrom(c); ok != wantClaims {
				t.Fatalf("header %q: claims present=%v, want %v", header, ok, wantClaims)
			}
			return nil
		})(c)

		if err != nil || !called {
			t.Fatalf("header %q: optional auth must never reject (err=%v)", header, err)
		}
	}
}

func TestRBAC(t *testing.T) {
	mw := RBAC(domain.RoleAdmin, domain.RoleSuperAdmin)

	c, _ := newContext("")
	c.Set(ContextUserID, "a1")
	c.Set(ContextRole, domain.RoleSuperAdmin)
	called := false
	if err := mw(okHandler(&called))(c); err != nil || !called {
		t.Fatalf("expected super admin allowed, err=%v", err)
	}

	c, _ = newContext("")
	c.Set(ContextUserID, "u1")
	c.Set(ContextRole, domain.RoleCitizen)
	called = false
	if err := mw(okHandler(&called))(c); !errors.Is(err, domain.ErrForbidden) || called {
		t.Fatalf("expected ErrForbidden for citizen, got %v", err)
	}

	c, _ = newContext("")
	if err := mw(okHandler(&called))(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken without claims, got %v", err)
	}
}

type stubLimiter struct {
	decision ports.RateLimitDecision
	err      error
	keys     []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (ports.RateLimitDecision, error) {
	s.keys = append(s.keys, key)
	return s.decision, s.err
}

func TestRateLimit_Allowed(t *testing.T) {
	limiter := &stubLimiter{decision: ports.RateLimitDecision{Allowed: true, Limit: 100, Remaining: 99}}
	c, rec := newContext("")
	called := false

	if err := RateLimit(limiter, zerolog.Nop())(okHandler(&called))(c); err != nil || !called {
		t.Fatalf("expected request allowed, err=%v", err)
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "99" || rec.Header().Get("X-RateLimit-Limit") != "100" {
		t.Fatalf("missing rate limit headers: %v", rec.Header())
	}
	if len(limiter.keys) != 1 || !strings.HasPrefix(limiter.keys[0], "ip:") {
		t.Fatalf("unexpected limiter key %v", limiter.keys)
	}
}

func TestRateLimit_Rejected(t *testing.T) {
	limiter := &stubLimiter{decision: ports.RateLimitDecision{Allowed: false, Limit: 100, ResetIn: 90 * time.Second}}
	c, rec := newContext("")
	called := false

	err := RateLimit(limiter, zerolog.Nop())(okHandler(&called))(c)
	if !errors.Is(err, domain.ErrRateLimited) || called {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if rec.Header().Get("Retry-After") != "90" {
		t.Fatalf("expected Retry-After 90, got %q", rec.Header().Get("Retry-After"))
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	limiter := &stubLimiter{err: errors.New("redis down")}
	c, _ := newContext("")
	called := false

	if err := RateLimit(limiter, zerolog.Nop())(okHandler(&called))(c); err != nil || !called {
		t.Fatalf("expected request allowed on limiter error, err=%v", err)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(zerolog.New(&buf)))
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	out := buf.String()
	if !strings.Contains(out, `"uri":"/ping"`) || !strings.Contains(out, `"status":200`) {
		t.Fatalf("unexpected log output: %s", out)
	}
}
