package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/madinti/madinti-api/internal/core/domain"
	"github.com/madinti/madinti-api/internal/core/ports"
	"github.com/madinti/madinti-api/pkg/metrics"
)

const defaultMaxOTPAttempts = 3

// AuthDeps groups the collaborators of AuthService.
type AuthDeps struct {
	Users     ports.UserRepository
	IDs       ports.IdentifierHasher
	Passwords ports.PasswordHasher
	OTPs      ports.OTPGenerator
	Tokens    ports.TokenIssuer
	Notifier  ports.Notifier
	Log       zerolog.Logger
}

// AuthSettings tunes the flow controller.
type AuthSettings struct {
	MaxOTPAttempts int
	// RetainPlaintextCIN stores the CIN in clear next to its digest.
	RetainPlaintextCIN bool
}

// AuthService implements the registration, OTP and token flows.
type AuthService struct {
	users       ports.UserRepository
	ids         ports.IdentifierHasher
	passwords   ports.PasswordHasher
	otps        ports.OTPGenerator
	tokens      ports.TokenIssuer
	notifier    ports.Notifier
	log         zerolog.Logger
	maxAttempts int
	retainCIN   bool

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(deps AuthDeps, settings AuthSettings) *AuthService {
	if settings.MaxOTPAttempts <= 0 {
		settings.MaxOTPAttempts = defaultMaxOTPAttempts
	}
	return &AuthService{
		users:       deps.Users,
		ids:         deps.IDs,
		passwords:   deps.Passwords,
		otps:        deps.OTPs,
		tokens:      deps.Tokens,
		notifier:    deps.Notifier,
		log:         deps.Log.With().Str("component", "auth").Logger(),
		maxAttempts: settings.MaxOTPAttempts,
		retainCIN:   settings.RetainPlaintextCIN,
	}
}

// Register creates a citizen pending phone verification and sends the first OTP.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.OTPChallenge, error) {
	cin := domain.NormalizeCIN(in.CINNumber)
	phone := domain.NormalizePhone(in.PhoneNumber)
	if cin == "" || phone == "" {
		return nil, fmt.Errorf("%w: CIN and phone number are required", domain.ErrValidation)
	}

	cinHash := s.ids.Hash(domain.IdentifierCIN, cin)
	phoneHash := s.ids.Hash(domain.IdentifierPhone, phone)

	_, err := s.users.FindByIdentity(ctx, cinHash, phoneHash)
	switch {
	case err == nil:
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("register: lookup identity: %w", err)
	}

	code, err := s.otps.Generate()
	if err != nil {
		return nil, fmt.Errorf("register: generate otp: %w", err)
	}
	expiresAt := s.otps.ExpiryFromNow()
	now := s.otps.Now().UTC()

	user := &domain.User{
		ID:           uuid.NewString(),
		CINHash:      cinHash,
		PhoneHash:    phoneHash,
		PhoneNumber:  phone,
		FullName:     strings.TrimSpace(in.FullName),
		Role:         domain.RoleCitizen,
		IsActive:     true,
		OTPHash:      s.ids.Hash(domain.IdentifierOTP, code),
		OTPExpiresAt: &expiresAt,
		OTPAttempts:  0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if s.retainCIN {
		user.CINNumber = &cin
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("register: create user: %w", err)
	}

	metrics.OTPIssuedTotal.WithLabelValues("register").Inc()
	s.dispatchOTP(ctx, user, code)

	s.log.Info().Str("user_id", user.ID).Msg("citizen registered, verification pending")
	return s.challenge(user.ID), nil
}

// Login starts a passwordless login by issuing a fresh OTP to the phone on file.
func (s *AuthService) Login(ctx context.Context, cinNumber string) (*ports.OTPChallenge, error) {
	cin := domain.NormalizeCIN(cinNumber)
	if cin == "" {
		return nil, fmt.Errorf("%w: CIN number is required", domain.ErrValidation)
	}

	user, err := s.users.FindByCINHash(ctx, s.ids.Hash(domain.IdentifierCIN, cin))
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrAccountDisabled
	}

	if err := s.issueOTP(ctx, user, "login"); err != nil {
		return nil, err
	}
	return s.challenge(user.ID), nil
}

// VerifyOTP checks a code against the outstanding challenge. Deactivated
// accounts are refused before the challenge is touched. The attempt ceiling
// is checked first, then expiry, then equality.
func (s *AuthService) VerifyOTP(ctx context.Context, userID, code string) (*ports.AuthResult, error) {
	userID = strings.TrimSpace(userID)
	code = strings.TrimSpace(code)
	if userID == "" || code == "" {
		return nil, fmt.Errorf("%w: user ID and OTP code are required", domain.ErrValidation)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrAccountDisabled
	}

	if user.OTPAttempts >= s.maxAttempts {
		metrics.OTPVerificationsTotal.WithLabelValues("too_many_attempts").Inc()
		return nil, domain.ErrTooManyAttempts
	}
	if !user.HasPendingOTP() || s.otps.IsExpired(*user.OTPExpiresAt) {
		metrics.OTPVerificationsTotal.WithLabelValues("expired").Inc()
		return nil, domain.ErrOTPExpired
	}

	if !s.ids.Compare(domain.IdentifierOTP, code, user.OTPHash) {
		if err := s.users.RecordFailedOTP(ctx, user.ID, user.OTPHash); err != nil {
			return nil, fmt.Errorf("verify otp: record attempt: %w", err)
		}
		metrics.OTPVerificationsTotal.WithLabelValues("invalid_code").Inc()
		s.log.Warn().Str("user_id", user.ID).Int("attempts", user.OTPAttempts+1).Msg("invalid OTP code")
		return nil, domain.ErrInvalidOTP
	}

	verified, err := s.users.ConsumeOTP(ctx, user.ID, user.OTPHash, s.maxAttempts, s.otps.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrOTPExpired) {
			metrics.OTPVerificationsTotal.WithLabelValues("expired").Inc()
			return nil, err
		}
		return nil, fmt.Errorf("verify otp: consume: %w", err)
	}

	result, err := s.issueSession(verified)
	if err != nil {
		return nil, fmt.Errorf("verify otp: %w", err)
	}

	metrics.OTPVerificationsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", verified.ID).Str("role", string(verified.Role)).Msg("phone verified")
	return result, nil
}

// ResendOTP replaces the outstanding challenge unconditionally.
func (s *AuthService) ResendOTP(ctx context.Context, userID string) (*ports.OTPChallenge, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", domain.ErrValidation)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.issueOTP(ctx, user, "resend"); err != nil {
		return nil, err
	}
	return s.challenge(user.ID), nil
}

// RefreshAccessToken mints a new access token. The refresh token is not rotated.
func (s *AuthService) RefreshAccessToken(_ context.Context, refreshToken string) (string, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return "", fmt.Errorf("%w: refresh token is required", domain.ErrValidation)
	}

	claims, ok := s.tokens.Verify(refreshToken, domain.TokenRefresh)
	if !ok {
		metrics.TokenRefreshesTotal.WithLabelValues("invalid").Inc()
		return "", domain.ErrInvalidToken
	}

	access, err := s.tokens.IssueAccess(claims)
	if err != nil {
		return "", fmt.Errorf("refresh: issue access token: %w", err)
	}
	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	return access, nil
}

// AdminLogin authenticates staff by email and password. Every rejection
// returns domain.ErrInvalidCredentials; the reason is only logged.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.compareDummy(password)
			return nil, s.rejectAdmin("unknown email", "")
		}
		return nil, fmt.Errorf("admin login: lookup: %w", err)
	}

	switch {
	case !user.Role.IsAdmin():
		s.compareDummy(password)
		return nil, s.rejectAdmin("role not allowed", user.ID)
	case user.PasswordHash == "":
		s.compareDummy(password)
		return nil, s.rejectAdmin("no password configured", user.ID)
	case !s.passwords.Compare(password, user.PasswordHash):
		return nil, s.rejectAdmin("password mismatch", user.ID)
	case !user.IsActive:
		return nil, s.rejectAdmin("account deactivated", user.ID)
	}

	result, err := s.issueSession(user)
	if err != nil {
		return nil, fmt.Errorf("admin login: %w", err)
	}

	metrics.AdminLoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("admin logged in")
	return result, nil
}

// compareDummy spends one password comparison so that rejections which never
// reach a stored hash take as long as a wrong password.
func (s *AuthService) compareDummy(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.passwords.Hash("madinti-timing-equalizer")
	})
	if s.dummyHash != "" {
		s.passwords.Compare(password, s.dummyHash)
	}
}

func (s *AuthService) rejectAdmin(reason, userID string) error {
	metrics.AdminLoginsTotal.WithLabelValues("rejected").Inc()
	s.log.Debug().Str("reason", reason).Str("user_id", userID).Msg("admin login rejected")
	return domain.ErrInvalidCredentials
}

// issueOTP writes a fresh challenge and hands the code to the notifier.
func (s *AuthService) issueOTP(ctx context.Context, user *domain.User, flow string) error {
	code, err := s.otps.Generate()
	if err != nil {
		return fmt.Errorf("%s: generate otp: %w", flow, err)
	}

	if err := s.users.SetOTP(ctx, user.ID, s.ids.Hash(domain.IdentifierOTP, code), s.otps.ExpiryFromNow()); err != nil {
		return fmt.Errorf("%s: store otp: %w", flow, err)
	}

	metrics.OTPIssuedTotal.WithLabelValues(flow).Inc()
	s.dispatchOTP(ctx, user, code)
	return nil
}

// dispatchOTP is fire-and-forget: the OTP is already committed, so a delivery
// failure is logged and counted but never returned.
func (s *AuthService) dispatchOTP(ctx context.Context, user *domain.User, code string) {
	msg := fmt.Sprintf("Madinti: your verification code is %s. It expires in %d minutes.",
		code, int(s.otps.TTL().Minutes()))

	if err := s.notifier.Send(ctx, user.PhoneNumber, msg); err != nil {
		s.log.Error().Err(err).
			Str("user_id", user.ID).
			Str("phone", domain.MaskPhone(user.PhoneNumber)).
			Msg("OTP dispatch failed")
	}
}

func (s *AuthService) issueSession(user *domain.User) (*ports.AuthResult, error) {
	claims := domain.Claims{UserID: user.ID, Role: user.Role}

	access, err := s.tokens.IssueAccess(claims)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefresh(claims)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &ports.AuthResult{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

func (s *AuthService) challenge(userID string) *ports.OTPChallenge {
	return &ports.OTPChallenge{UserID: userID, ExpiresIn: int(s.otps.TTL().Seconds())}
}
