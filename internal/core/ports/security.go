package ports

import (
	"time"

	"github.com/madinti/madinti-api/internal/core/domain"
)

// IdentifierHasher produces deterministic keyed digests so that quasi
// identifiers can be looked up by equality without storing them in clear.
type IdentifierHasher interface {
	Hash(kind domain.IdentifierKind, value string) string
	Compare(kind domain.IdentifierKind, value, digest string) bool
}

// PasswordHasher is salted, slow hashing for staff passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) bool
}

// OTPGenerator issues numeric codes and owns the clock of the OTP window.
type OTPGenerator interface {
	Generate() (string, error)
	ExpiryFromNow() time.Time
	IsExpired(expiresAt time.Time) bool
	TTL() time.Duration
	Now() time.Time
}

// TokenVerifier is the read side of the token issuer, used by middleware.
type TokenVerifier interface {
	Verify(token string, kind domain.TokenKind) (domain.Claims, bool)
}

// TokenIssuer signs access and refresh tokens.
type TokenIssuer interface {
	TokenVerifier
	IssueAccess(claims domain.Claims) (string, error)
	IssueRefresh(claims domain.Claims) (string, error)
}
