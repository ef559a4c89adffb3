package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/madinti/madinti-api/internal/core/domain"
)

const collectionUsers = "users"

// UserRepository is the MongoDB identity store. OTP mutations are single
// conditional updates so concurrent verifications cannot both succeed.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type mongoUser struct {
	ID            string     `bson:"_id"`
	CINHash       string     `bson:"cin_hash,omitempty"`
	CINNumber     *string    `bson:"cin_number,omitempty"`
	PhoneHash     string     `bson:"phone_hash"`
	PhoneNumber   string     `bson:"phone_number"`
	Email         string     `bson:"email,omitempty"`
	PasswordHash  string     `bson:"password_hash,omitempty"`
	FullName      string     `bson:"full_name,omitempty"`
	Role          string     `bson:"role"`
	PhoneVerified bool       `bson:"phone_verified"`
	IsActive      bool       `bson:"is_active"`
	OTPHash       string     `bson:"otp_hash,omitempty"`
	OTPExpiresAt  *time.Time `bson:"otp_expires_at,omitempty"`
	OTPAttempts   int        `bson:"otp_attempts"`
	LastLogin     *time.Time `bson:"last_login,omitempty"`
	CreatedAt     time.Time  `bson:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at"`
}

func toMongoUser(u *domain.User) mongoUser {
	return mongoUser{
		ID:            u.ID,
		CINHash:       u.CINHash,
		CINNumber:     u.CINNumber,
		PhoneHash:     u.PhoneHash,
		PhoneNumber:   u.PhoneNumber,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		FullName:      u.FullName,
		Role:          string(u.Role),
		PhoneVerified: u.PhoneVerified,
		IsActive:      u.IsActive,
		OTPHash:       u.OTPHash,
		OTPExpiresAt:  u.OTPExpiresAt,
		OTPAttempts:   u.OTPAttempts,
		LastLogin:     u.LastLogin,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (m *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:            m.ID,
		CINHash:       m.CINHash,
		CINNumber:     m.CINNumber,
		PhoneHash:     m.PhoneHash,
		PhoneNumber:   m.PhoneNumber,
		Email:         m.Email,
		PasswordHash:  m.PasswordHash,
		FullName:      m.FullName,
		Role:          domain.Role(m.Role),
		PhoneVerified: m.PhoneVerified,
		IsActive:      m.IsActive,
		OTPHash:       m.OTPHash,
		OTPExpiresAt:  utcPtr(m.OTPExpiresAt),
		OTPAttempts:   m.OTPAttempts,
		LastLogin:     utcPtr(m.LastLogin),
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.col.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByIdentity matches a user holding either digest.
func (r *UserRepository) FindByIdentity(ctx context.Context, cinHash, phoneHash string) (*domain.User, error) {
	var or bson.A
	if cinHash != "" {
		or = append(or, bson.M{"cin_hash": cinHash})
	}
	if phoneHash != "" {
		or = append(or, bson.M{"phone_hash": phoneHash})
	}
	if len(or) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"$or": or})
}

func (r *UserRepository) FindByCINHash(ctx context.Context, cinHash string) (*domain.User, error) {
	if cinHash == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"cin_hash": cinHash})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"email": email})
}

// Create inserts the user. Unique index violations map to domain.ErrUserExists.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toMongoUser(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// SetOTP overwrites the outstanding challenge and resets the attempt counter.
func (r *UserRepository) SetOTP(ctx context.Context, id, otpHash string, expiresAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"otp_hash":       otpHash,
			"otp_expires_at": expiresAt.UTC(),
			"otp_attempts":   0,
			"updated_at":     time.Now().UTC(),
		},
	})
	if err != nil {
		return fmt.Errorf("set otp: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// RecordFailedOTP increments the counter only while otpHash is still the
// outstanding challenge. A concurrent resend makes this a no-op.
func (r *UserRepository) RecordFailedOTP(ctx context.Context, id, otpHash string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "otp_hash": otpHash},
		bson.M{
			"$inc": bson.M{"otp_attempts": 1},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("record failed otp: %w", err)
	}
	return nil
}

// ConsumeOTP marks the phone verified and clears the challenge in one
// operation. It returns domain.ErrOTPExpired when the challenge is no longer
// consumable: already used, replaced, exhausted or past its expiry.
func (r *UserRepository) ConsumeOTP(ctx context.Context, id, otpHash string, maxAttempts int, now time.Time) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now = now.UTC()
	filter := bson.M{
		"_id":            id,
		"otp_hash":       otpHash,
		"otp_attempts":   bson.M{"$lt": maxAttempts},
		"otp_expires_at": bson.M{"$gte": now},
	}
	update := bson.M{
		"$set": bson.M{
			"phone_verified": true,
			"otp_attempts":   0,
			"last_login":     now,
			"updated_at":     now,
		},
		"$unset": bson.M{"otp_hash": "", "otp_expires_at": ""},
	}

	var mu mongoUser
	err := r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOTPExpired
		}
		return nil, fmt.Errorf("consume otp: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("set active: %w", err)
	}
	return mu.toDomain(), nil
}

// EnsureIndexes creates the unique lookup indexes. CIN and email are optional
// for staff and citizens respectively, so their uniqueness is partial.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	exists := func(field string) bson.M {
		return bson.M{field: bson.M{"$exists": true}}
	}

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "cin_hash", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(exists("cin_hash")),
		},
		{
			Keys:    bson.D{{Key: "phone_hash", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(exists("email")),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
