// Package security implements the credential hashers: keyed digests for
// lookup identifiers and bcrypt for staff passwords.
package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/hkdf"

	"github.com/madinti/madinti-api/internal/core/domain"
)

const hkdfSalt = "madinti-identifier-v1"

var kinds = []domain.IdentifierKind{
	domain.IdentifierCIN,
	domain.IdentifierPhone,
	domain.IdentifierOTP,
}

// IdentifierHasher produces deterministic HMAC-SHA256 digests. Each identifier
// kind gets its own key, derived from the master secret with HKDF, so a CIN
// digest can never collide with a phone digest.
type IdentifierHasher struct {
	secret []byte
	keys   map[domain.IdentifierKind][]byte
}

func NewIdentifierHasher(secret string) (*IdentifierHasher, error) {
	if secret == "" {
		return nil, errors.New("identifier hash key is empty")
	}

	h := &IdentifierHasher{
		secret: []byte(secret),
		keys:   make(map[domain.IdentifierKind][]byte, len(kinds)),
	}
	for _, kind := range kinds {
		key, err := h.derive(kind)
		if err != nil {
			return nil, err
		}
		h.keys[kind] = key
	}
	return h, nil
}

func (h *IdentifierHasher) derive(kind domain.IdentifierKind) ([]byte, error) {
	key := make([]byte, sha256.Size)
	r := hkdf.New(sha256.New, h.secret, []byte(hkdfSalt), []byte(kind))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", kind, err)
	}
	return key, nil
}

// Hash returns the hex digest of value under the key for kind. Callers
// normalize value first.
func (h *IdentifierHasher) Hash(kind domain.IdentifierKind, value string) string {
	return hex.EncodeToString(h.sum(kind, value))
}

// Compare reports whether value hashes to digest, in constant time.
func (h *IdentifierHasher) Compare(kind domain.IdentifierKind, value, digest string) bool {
	want, err := hex.DecodeString(digest)
	if err != nil {
		return false
	}
	return hmac.Equal(h.sum(kind, value), want)
}

func (h *IdentifierHasher) sum(kind domain.IdentifierKind, value string) []byte {
	key, ok := h.keys[kind]
	if !ok {
		// HKDF over a fixed-length output cannot fail
		key, _ = h.derive(kind)
	}
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(value))
	return mac.Sum(nil)
}

// PasswordHasher wraps bcrypt with a configurable cost.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher falls back to bcrypt.DefaultCost when cost is out of range.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

func (p *PasswordHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

func (p *PasswordHasher) Compare(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
