package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/madinti/madinti-api/internal/core/domain"
	"github.com/madinti/madinti-api/internal/core/ports"
)

// UserService lets staff inspect accounts and toggle their active flag.
type UserService struct {
	users ports.UserRepository
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, log: log.With().Str("component", "users").Logger()}
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: user ID is required", domain.ErrValidation)
	}
	return s.users.FindByID(ctx, id)
}

// SetActive activates or deactivates an account. A deactivated account can
// neither start a login nor complete an OTP verification.
func (s *UserService) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: user ID is required", domain.ErrValidation)
	}

	user, err := s.users.SetActive(ctx, id, active)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", id).Bool("active", active).Msg("account status changed")
	return user, nil
}
