package domain

import "errors"

var (
	// ErrValidation is wrapped with a human readable detail, e.g.
	// fmt.Errorf("%w: cin number is required", ErrValidation).
	ErrValidation = errors.New("validation failed")

	ErrUserExists         = errors.New("user with this CIN or phone number already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountDisabled    = errors.New("account is deactivated")
	ErrForbidden          = errors.New("access forbidden")
	ErrTooManyAttempts    = errors.New("too many failed attempts, please request a new OTP")
	ErrOTPExpired         = errors.New("OTP has expired, please request a new one")
	ErrInvalidOTP         = errors.New("invalid OTP code")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("too many requests")
)
