package ports

import (
	"context"

	"github.com/madinti/madinti-api/internal/core/domain"
)

// RegisterInput carries the citizen registration form.
type RegisterInput struct {
	CINNumber   string
	PhoneNumber string
	FullName    string
}

// OTPChallenge is returned whenever a new OTP has been issued.
type OTPChallenge struct {
	UserID    string
	ExpiresIn int // seconds
}

// AuthResult is the single success exit of OTP verification and admin login.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

// AuthService is the authentication flow controller.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*OTPChallenge, error)
	Login(ctx context.Context, cinNumber string) (*OTPChallenge, error)
	VerifyOTP(ctx context.Context, userID, code string) (*AuthResult, error)
	ResendOTP(ctx context.Context, userID string) (*OTPChallenge, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
	AdminLogin(ctx context.Context, email, password string) (*AuthResult, error)
}

// UserService exposes account administration to staff.
type UserService interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)
}
