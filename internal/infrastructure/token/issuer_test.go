package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/madinti/madinti-api/internal/core/domain"
)

const testSecret = "test-secret"

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestIssuer(t *testing.T, secret string, clock *fakeClock) *Issuer {
	t.Helper()
	cfg := Config{Secret: secret}
	if clock != nil {
		cfg.Now = clock.now
	}
	iss, err := NewIssuer(cfg)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	return iss
}

var citizen = domain.Claims{UserID: "user-1", Role: domain.RoleCitizen}

func TestIssuer_RoundTrip(t *testing.T) {
	iss := newTestIssuer(t, testSecret, nil)

	access, err := iss.IssueAccess(citizen)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	refresh, err := iss.IssueRefresh(citizen)
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if access == refresh {
		t.Fatalf("access and refresh tokens must differ")
	}

	got, ok := iss.Verify(access, domain.TokenAccess)
	if !ok || got != citizen {
		t.Fatalf("access verify: ok=%v claims=%+v", ok, got)
	}
	got, ok = iss.Verify(refresh, domain.TokenRefresh)
	if !ok || got != citizen {
		t.Fatalf("refresh verify: ok=%v claims=%+v", ok, got)
	}
}

func TestIssuer_TokensAreUnique(t *testing.T) {
	iss := newTestIssuer(t, testSecret, &fakeClock{t: time.Now()})

	a, _ := iss.IssueAccess(citizen)
	b, _ := iss.IssueAccess(citizen)
	if a == b {
		t.Fatalf("expected distinct tokens thanks to jti")
	}
}

func TestIssuer_KindMismatch(t *testing.T) {
	iss := newTestIssuer(t, testSecret, nil)
	access, _ := iss.IssueAccess(citizen)
	refresh, _ := iss.IssueRefresh(citizen)

	if _, ok := iss.Verify(access, domain.TokenRefresh); ok {
		t.Fatalf("access token must not pass as refresh")
	}
	if _, ok := iss.Verify(refresh, domain.TokenAccess); ok {
		t.Fatalf("refresh token must not pass as access")
	}
}

func TestIssuer_WrongKey(t *testing.T) {
	a := newTestIssuer(t, "secret-a", nil)
	b := newTestIssuer(t, "secret-b", nil)

	tok, _ := a.IssueAccess(citizen)
	if _, ok := b.Verify(tok, domain.TokenAccess); ok {
		t.Fatalf("token signed with another key must be rejected")
	}
}

func TestIssuer_Expired(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	iss := newTestIssuer(t, testSecret, clock)

	access, _ := iss.IssueAccess(citizen)
	refresh, _ := iss.IssueRefresh(citizen)

	clock.t = clock.t.Add(14 * time.Minute)
	if _, ok := iss.Verify(access, domain.TokenAccess); !ok {
		t.Fatalf("access token should be valid before 15m")
	}

	clock.t = clock.t.Add(2 * time.Minute)
	if _, ok := iss.Verify(access, domain.TokenAccess); ok {
		t.Fatalf("access token should be expired after 15m")
	}
	if _, ok := iss.Verify(refresh, domain.TokenRefresh); !ok {
		t.Fatalf("refresh token should still be valid")
	}

	clock.t = clock.t.Add(7 * 24 * time.Hour)
	if _, ok := iss.Verify(refresh, domain.TokenRefresh); ok {
		t.Fatalf("refresh token should be expired after 7d")
	}
}

func TestIssuer_Malformed(t *testing.T) {
	iss := newTestIssuer(t, testSecret, nil)

	for _, raw := range []string{"", "garbage", "a.b.c", strings.Repeat("x", 500)} {
		if _, ok := iss.Verify(raw, domain.TokenAccess); ok {
			t.Fatalf("malformed token %q accepted", raw)
		}
	}
}

func TestIssuer_RejectsOtherAlgorithms(t *testing.T) {
	iss := newTestIssuer(t, testSecret, nil)
	claims := tokenClaims{
		UserID: "user-1",
		Role:   domain.RoleAdmin,
		Kind:   domain.TokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    DefaultIssuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, ok := iss.Verify(none, domain.TokenAccess); ok {
		t.Fatalf("alg=none token accepted")
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign hs512: %v", err)
	}
	if _, ok := iss.Verify(hs512, domain.TokenAccess); ok {
		t.Fatalf("HS512 token accepted")
	}
}

func TestIssuer_WrongIssuer(t *testing.T) {
	other, err := NewIssuer(Config{Secret: testSecret, Issuer: "someone-else"})
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	tok, _ := other.IssueAccess(citizen)

	if _, ok := newTestIssuer(t, testSecret, nil).Verify(tok, domain.TokenAccess); ok {
		t.Fatalf("token from another issuer accepted")
	}
}

func TestNewIssuer_RequiresSecret(t *testing.T) {
	if _, err := NewIssuer(Config{}); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
