// Package memory provides an in-process identity store for development and
// tests. It enforces the same uniqueness and conditional-update rules as the
// MongoDB adapter.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/madinti/madinti-api/internal/core/domain"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
	now   func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*domain.User), now: time.Now}
}

func clone(u *domain.User) *domain.User {
	c := *u
	if u.CINNumber != nil {
		v := *u.CINNumber
		c.CINNumber = &v
	}
	if u.OTPExpiresAt != nil {
		v := *u.OTPExpiresAt
		c.OTPExpiresAt = &v
	}
	if u.LastLogin != nil {
		v := *u.LastLogin
		c.LastLogin = &v
	}
	return &c
}

func (r *UserRepository) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			return clone(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return clone(u), nil
}

func (r *UserRepository) FindByIdentity(_ context.Context, cinHash, phoneHash string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool {
		return (cinHash != "" && u.CINHash == cinHash) || (phoneHash != "" && u.PhoneHash == phoneHash)
	})
}

func (r *UserRepository) FindByCINHash(_ context.Context, cinHash string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool {
		return cinHash != "" && u.CINHash == cinHash
	})
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool {
		return email != "" && u.Email == email
	})
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; ok {
		return domain.ErrUserExists
	}
	for _, u := range r.users {
		switch {
		case user.CINHash != "" && u.CINHash == user.CINHash,
			user.PhoneHash != "" && u.PhoneHash == user.PhoneHash,
			user.Email != "" && u.Email == user.Email:
			return domain.ErrUserExists
		}
	}
	r.users[user.ID] = clone(user)
	return nil
}

func (r *UserRepository) SetOTP(_ context.Context, id, otpHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	exp := expiresAt.UTC()
	u.OTPHash = otpHash
	u.OTPExpiresAt = &exp
	u.OTPAttempts = 0
	u.UpdatedAt = r.now().UTC()
	return nil
}

func (r *UserRepository) RecordFailedOTP(_ context.Context, id, otpHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok && u.OTPHash == otpHash {
		u.OTPAttempts++
		u.UpdatedAt = r.now().UTC()
	}
	return nil
}

func (r *UserRepository) ConsumeOTP(_ context.Context, id, otpHash string, maxAttempts int, now time.Time) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok || u.OTPHash == "" || u.OTPHash != otpHash || u.OTPAttempts >= maxAttempts ||
		u.OTPExpiresAt == nil || now.After(*u.OTPExpiresAt) {
		return nil, domain.ErrOTPExpired
	}

	now = now.UTC()
	u.PhoneVerified = true
	u.OTPHash = ""
	u.OTPExpiresAt = nil
	u.OTPAttempts = 0
	u.LastLogin = &now
	u.UpdatedAt = now
	return clone(u), nil
}

func (r *UserRepository) SetActive(_ context.Context, id string, active bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.IsActive = active
	u.UpdatedAt = r.now().UTC()
	return clone(u), nil
}
