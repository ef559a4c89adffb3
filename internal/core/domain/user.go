package domain

import (
	"strings"
	"time"
)

// Role is the authorization tier carried in token claims.
type Role string

const (
	RoleCitizen     Role = "CITIZEN"
	RoleFieldWorker Role = "FIELD_WORKER"
	RoleAdmin       Role = "ADMIN"
	RoleSuperAdmin  Role = "SUPER_ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleFieldWorker, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether r may use the dashboard password login.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Outranks reports whether r sits in a strictly higher tier than other.
// Unknown roles rank below every known role.
func (r Role) Outranks(other Role) bool {
	return r.rank() > other.rank()
}

func (r Role) rank() int {
	switch r {
	case RoleCitizen:
		return 1
	case RoleFieldWorker:
		return 2
	case RoleAdmin:
		return 3
	case RoleSuperAdmin:
		return 4
	}
	return 0
}

// User models one identity: citizen, field worker or staff member.
//
// CINHash and PhoneHash are keyed digests used for equality lookups.
// CINNumber is only populated when plaintext retention is enabled.
// OTPHash holds the digest of the outstanding OTP code; empty means none.
type User struct {
	ID            string     `json:"id"`
	CINHash       string     `json:"-"`
	CINNumber     *string    `json:"-"`
	PhoneHash     string     `json:"-"`
	PhoneNumber   string     `json:"phoneNumber,omitempty"`
	Email         string     `json:"email,omitempty"`
	PasswordHash  string     `json:"-"`
	FullName      string     `json:"fullName,omitempty"`
	Role          Role       `json:"role"`
	PhoneVerified bool       `json:"phoneVerified"`
	IsActive      bool       `json:"isActive"`
	OTPHash       string     `json:"-"`
	OTPExpiresAt  *time.Time `json:"-"`
	OTPAttempts   int        `json:"-"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// VerificationState is derived from the user record, it is not stored.
type VerificationState string

const (
	StatePendingVerification VerificationState = "PENDING_VERIFICATION"
	StateVerified            VerificationState = "VERIFIED"
)

// State returns the verification state of the user.
func (u *User) State() VerificationState {
	if u.PhoneVerified {
		return StateVerified
	}
	return StatePendingVerification
}

// HasPendingOTP reports whether an OTP challenge is outstanding.
func (u *User) HasPendingOTP() bool {
	return u.OTPHash != "" && u.OTPExpiresAt != nil
}

// UserView is the public projection returned to clients. It never carries
// hashes, OTP state or passwords.
type UserView struct {
	ID          string `json:"id"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Email       string `json:"email,omitempty"`
	FullName    string `json:"fullName,omitempty"`
	Role        Role   `json:"role"`
}

// View returns the public projection of u.
func (u *User) View() UserView {
	return UserView{
		ID:          u.ID,
		PhoneNumber: u.PhoneNumber,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        u.Role,
	}
}

// NormalizeCIN canonicalises a national ID number before hashing.
func NormalizeCIN(cin string) string {
	return strings.ToUpper(strings.TrimSpace(cin))
}

// NormalizePhone strips common separators from a phone number.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')', '\t':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MaskPhone keeps the last three digits of a phone number for logging.
func MaskPhone(phone string) string {
	if len(phone) <= 3 {
		return "***"
	}
	return strings.Repeat("*", len(phone)-3) + phone[len(phone)-3:]
}
