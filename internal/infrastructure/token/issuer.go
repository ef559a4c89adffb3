// Package token issues and verifies the HS256 access and refresh tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/madinti/madinti-api/internal/core/domain"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
	DefaultIssuer     = "madinti-api"
)

// Config holds the signing parameters. Secret is required.
type Config struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// Now overrides the clock, mainly for tests.
	Now func() time.Time
}

type tokenClaims struct {
	UserID string           `json:"userId"`
	Role   domain.Role      `json:"role"`
	Kind   domain.TokenKind `json:"typ"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies tokens with a process-wide secret.
type Issuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

func NewIssuer(cfg Config) (*Issuer, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token: signing secret is empty")
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Issuer{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        cfg.Now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
			jwt.WithTimeFunc(cfg.Now),
		),
	}, nil
}

func (i *Issuer) IssueAccess(c domain.Claims) (string, error) {
	return i.sign(c, domain.TokenAccess, i.accessTTL)
}

func (i *Issuer) IssueRefresh(c domain.Claims) (string, error) {
	return i.sign(c, domain.TokenRefresh, i.refreshTTL)
}

// Verify returns the claims of a valid token of the given kind. Any failure
// yields false; the reason is not exposed.
func (i *Issuer) Verify(raw string, kind domain.TokenKind) (domain.Claims, bool) {
	if raw == "" {
		return domain.Claims{}, false
	}

	var tc tokenClaims
	tok, err := i.parser.ParseWithClaims(raw, &tc, func(*jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil || !tok.Valid {
		return domain.Claims{}, false
	}
	if tc.Kind != kind || tc.UserID == "" || !tc.Role.Valid() {
		return domain.Claims{}, false
	}
	return domain.Claims{UserID: tc.UserID, Role: tc.Role}, true
}

func (i *Issuer) sign(c domain.Claims, kind domain.TokenKind, ttl time.Duration) (string, error) {
	now := i.now()
	tc := tokenClaims{
		UserID: c.UserID,
		Role:   c.Role,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Subject:   c.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}
