package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/madinti/madinti-api/internal/core/domain"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func seedCitizen(t *testing.T, r *UserRepository) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:        "u1",
		CINHash:   "cin-1",
		PhoneHash: "phone-1",
		Role:      domain.RoleCitizen,
		IsActive:  true,
	}
	if err := r.Create(context.Background(), u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return u
}

func TestUserRepository_CreateUniqueness(t *testing.T) {
	r := NewUserRepository()
	seedCitizen(t, r)
	ctx := context.Background()

	cases := map[string]*domain.User{
		"same id":    {ID: "u1", PhoneHash: "other"},
		"same cin":   {ID: "u2", CINHash: "cin-1", PhoneHash: "phone-2"},
		"same phone": {ID: "u3", CINHash: "cin-3", PhoneHash: "phone-1"},
	}
	for name, u := range cases {
		if err := r.Create(ctx, u); !errors.Is(err, domain.ErrUserExists) {
			t.Fatalf("%s: expected ErrUserExists, got %v", name, err)
		}
	}

	if err := r.Create(ctx, &domain.User{ID: "a1", Email: "a@madinti.ma", PhoneHash: "p-a1"}); err != nil {
		t.Fatalf("create staff: %v", err)
	}
	if err := r.Create(ctx, &domain.User{ID: "a2", Email: "a@madinti.ma", PhoneHash: "p-a2"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected duplicate email rejected, got %v", err)
	}
	// staff without CIN do not collide on the empty CIN hash
	if err := r.Create(ctx, &domain.User{ID: "a3", Email: "b@madinti.ma", PhoneHash: "p-a3"}); err != nil {
		t.Fatalf("create second staff: %v", err)
	}
}

func TestUserRepository_Finders(t *testing.T) {
	r := NewUserRepository()
	seedCitizen(t, r)
	ctx := context.Background()

	if u, err := r.FindByIdentity(ctx, "nope", "phone-1"); err != nil || u.ID != "u1" {
		t.Fatalf("FindByIdentity by phone: %v %v", u, err)
	}
	if u, err := r.FindByIdentity(ctx, "cin-1", ""); err != nil || u.ID != "u1" {
		t.Fatalf("FindByIdentity by cin: %v %v", u, err)
	}
	if _, err := r.FindByIdentity(ctx, "", ""); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected not found for empty identity, got %v", err)
	}
	if _, err := r.FindByCINHash(ctx, ""); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected not found for empty cin hash, got %v", err)
	}
	if _, err := r.FindByEmail(ctx, ""); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected not found for empty email, got %v", err)
	}
	if _, err := r.FindByID(ctx, "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	r := NewUserRepository()
	seedCitizen(t, r)

	u, _ := r.FindByID(context.Background(), "u1")
	u.IsActive = false

	again, _ := r.FindByID(context.Background(), "u1")
	if !again.IsActive {
		t.Fatalf("mutating a returned user must not affect the store")
	}
}

func TestUserRepository_OTPLifecycle(t *testing.T) {
	r := NewUserRepository()
	seedCitizen(t, r)
	ctx := context.Background()

	if err := r.SetOTP(ctx, "u1", "otp-a", t0.Add(5*time.Minute)); err != nil {
		t.Fatalf("SetOTP: %v", err)
	}
	_ = r.RecordFailedOTP(ctx, "u1", "otp-a")
	_ = r.RecordFailedOTP(ctx, "u1", "stale")

	u, _ := r.FindByID(ctx, "u1")
	if u.OTPAttempts != 1 {
		t.Fatalf("expected 1 attempt (stale digest ignored), got %d", u.OTPAttempts)
	}

	if _, err := r.ConsumeOTP(ctx, "u1", "otp-b", 3, t0); !errors.Is(err, domain.ErrOTPExpired) {
		t.Fatalf("expected wrong digest refused, got %v", err)
	}
	if _, err := r.ConsumeOTP(ctx, "u1", "otp-a", 3, t0.Add(6*time.Minute)); !errors.Is(err, domain.ErrOTPExpired) {
		t.Fatalf("expected expired refused, got %v", err)
	}

	got, err := r.ConsumeOTP(ctx, "u1", "otp-a", 3, t0.Add(time.Minute))
	if err != nil {
		t.Fatalf("ConsumeOTP: %v", err)
	}
	if !got.PhoneVerified || got.OTPHash != "" || got.OTPExpiresAt != nil || got.OTPAttempts != 0 || got.LastLogin == nil {
		t.Fatalf("unexpected state after consume: %+v", got)
	}

	if _, err := r.ConsumeOTP(ctx, "u1", "otp-a", 3, t0.Add(time.Minute)); !errors.Is(err, domain.ErrOTPExpired) {
		t.Fatalf("expected second consume refused, got %v", err)
	}
}

func TestUserRepository_ConsumeAtExpiryInstant(t *testing.T) {
	r := NewUserRepository()
	seedCitizen(t, r)
	ctx := context.Background()
	expiresAt := t0.Add(5 * time.Minute)

	_ = r.SetOTP(ctx, "u1", "otp-a", expiresAt)
	if _, err := r.ConsumeOTP(ctx, "u1", "otp-a", 3, expiresAt.Add(time.Nanosecond)); !errors.Is(err, domain.ErrOTPExpired) {
		t.Fatalf("expected challenge refused past expiry, got %v", err)
	}
	if _, err := r.ConsumeOTP(ctx, "u1", "otp-a", 3, expiresAt); err != nil {
		t.Fatalf("expected challenge consumable at expiry instant, got %v", err)
	}
}

func TestUserRepository_ConsumeRespectsCeiling(t *testing.T) {
	r := NewUserRepository()
	seedCitizen(t, r)
	ctx := context.Background()

	_ = r.SetOTP(ctx, "u1", "otp-a", t0.Add(5*time.Minute))
	for i := 0; i < 3; i++ {
		_ = r.RecordFailedOTP(ctx, "u1", "otp-a")
	}
	if _, err := r.ConsumeOTP(ctx, "u1", "otp-a", 3, t0); !errors.Is(err, domain.ErrOTPExpired) {
		t.Fatalf("expected exhausted challenge refused, got %v", err)
	}

	_ = r.SetOTP(ctx, "u1", "otp-b", t0.Add(5*time.Minute))
	if u, _ := r.FindByID(ctx, "u1"); u.OTPAttempts != 0 {
		t.Fatalf("expected attempts reset by SetOTP, got %d", u.OTPAttempts)
	}
}

func TestUserRepository_ConcurrentConsumeSingleWinner(t *testing.T) {
	r := NewUserRepository()
	seedCitizen(t, r)
	ctx := context.Background()
	_ = r.SetOTP(ctx, "u1", "otp-a", t0.Add(5*time.Minute))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.ConsumeOTP(ctx, "u1", "otp-a", 3, t0); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one successful consume, got %d", wins)
	}
}

func TestUserRepository_SetActive(t *testing.T) {
	r := NewUserRepository()
	seedCitizen(t, r)
	ctx := context.Background()

	u, err := r.SetActive(ctx, "u1", false)
	if err != nil || u.IsActive {
		t.Fatalf("SetActive: %v %+v", err, u)
	}
	if _, err := r.SetActive(ctx, "ghost", true); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := r.SetOTP(ctx, "ghost", "x", t0); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
