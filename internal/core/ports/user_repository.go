package ports

import (
	"context"
	"time"

	"github.com/madinti/madinti-api/internal/core/domain"
)

// UserRepository is the identity store. Every method is a single atomic
// operation against the backing store; callers never rely on cross-call
// transactions.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIdentity returns the first user whose CIN hash OR phone hash matches.
	FindByIdentity(ctx context.Context, cinHash, phoneHash string) (*domain.User, error)
	FindByCINHash(ctx context.Context, cinHash string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// Create inserts a new user. It returns domain.ErrUserExists when a unique
	// identifier (CIN hash, phone hash, email) is already taken.
	Create(ctx context.Context, user *domain.User) error

	// SetOTP overwrites the outstanding OTP and resets the attempt counter.
	SetOTP(ctx context.Context, id, otpHash string, expiresAt time.Time) error
	// RecordFailedOTP increments the attempt counter, but only while the stored
	// OTP digest is still otpHash. A superseded challenge is left untouched.
	RecordFailedOTP(ctx context.Context, id, otpHash string) error
	// ConsumeOTP marks the phone verified, clears the OTP, resets attempts and
	// stamps the last login, provided the stored digest equals otpHash, the
	// attempt counter is below maxAttempts and the OTP expires after now.
	// Otherwise it returns domain.ErrOTPExpired.
	ConsumeOTP(ctx context.Context, id, otpHash string, maxAttempts int, now time.Time) (*domain.User, error)

	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)
}
