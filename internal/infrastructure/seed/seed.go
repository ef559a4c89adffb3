// Package seed provisions the initial staff account at startup.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/madinti/madinti-api/internal/core/domain"
	"github.com/madinti/madinti-api/internal/core/ports"
)

// Admin describes the staff account to provision.
type Admin struct {
	Email    string
	Password string
	Phone    string
	FullName string
	Role     domain.Role
}

// EnsureAdmin creates a verified staff account unless one with the same
// email already exists. Existing accounts are left untouched.
func EnsureAdmin(
	ctx context.Context,
	users ports.UserRepository,
	ids ports.IdentifierHasher,
	passwords ports.PasswordHasher,
	admin Admin,
	log zerolog.Logger,
) (*domain.User, error) {
	email := domain.NormalizeEmail(admin.Email)
	phone := domain.NormalizePhone(admin.Phone)
	password := strings.TrimSpace(admin.Password)
	if email == "" || password == "" || phone == "" {
		return nil, fmt.Errorf("%w: seed admin needs email, password and phone", domain.ErrValidation)
	}
	role := admin.Role
	if role == "" {
		role = domain.RoleSuperAdmin
	}
	if !role.IsAdmin() {
		return nil, fmt.Errorf("%w: seed role %q is not a staff role", domain.ErrValidation, role)
	}

	existing, err := users.FindByEmail(ctx, email)
	if err == nil {
		log.Info().Str("user_id", existing.ID).Msg("seed admin already present")
		return existing, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("seed: lookup admin: %w", err)
	}

	hash, err := passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("seed: hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:            uuid.NewString(),
		PhoneHash:     ids.Hash(domain.IdentifierPhone, phone),
		PhoneNumber:   phone,
		Email:         email,
		PasswordHash:  hash,
		FullName:      strings.TrimSpace(admin.FullName),
		Role:          role,
		PhoneVerified: true,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("seed: create admin: %w", err)
	}

	log.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("seed admin created")
	return user, nil
}
