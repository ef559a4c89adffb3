// Package otp generates one-time verification codes.
package otp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"time"
)

const (
	DefaultTTL = 5 * time.Minute

	minCode = 100000
	span    = 900000 // codes are uniform over [100000, 999999]
)

// Option configures a Generator.
type Option func(*Generator)

// WithClock replaces time.Now, used by tests.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithRandom replaces crypto/rand.Reader.
func WithRandom(r io.Reader) Option {
	return func(g *Generator) { g.rand = r }
}

// Generator issues 6-digit numeric codes and tracks their validity window.
type Generator struct {
	ttl  time.Duration
	now  func() time.Time
	rand io.Reader
}

// NewGenerator returns a Generator with the given validity window, or
// DefaultTTL when ttl is not positive.
func NewGenerator(ttl time.Duration, opts ...Option) *Generator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	g := &Generator{ttl: ttl, now: time.Now, rand: rand.Reader}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a code with no leading zero.
func (g *Generator) Generate() (string, error) {
	n, err := rand.Int(g.rand, big.NewInt(span))
	if err != nil {
		return "", fmt.Errorf("otp: read random: %w", err)
	}
	return strconv.FormatInt(n.Int64()+minCode, 10), nil
}

func (g *Generator) ExpiryFromNow() time.Time { return g.now().UTC().Add(g.ttl) }

// IsExpired is strict: a code is still valid at exactly expiresAt.
func (g *Generator) IsExpired(expiresAt time.Time) bool { return g.now().After(expiresAt) }

func (g *Generator) TTL() time.Duration { return g.ttl }

func (g *Generator) Now() time.Time { return g.now() }
