package domain

// TokenKind distinguishes access tokens from refresh tokens.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

// Claims is the identity carried by a signed token.
type Claims struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}

// IdentifierKind selects the derived key used for a keyed digest.
type IdentifierKind string

const (
	IdentifierCIN   IdentifierKind = "cin"
	IdentifierPhone IdentifierKind = "phone"
	IdentifierOTP   IdentifierKind = "otp"
)
