package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"

	NotifierLog   = "log"
	NotifierKafka = "kafka"
)

type Config struct {
	Port       string `env:"PORT,        default=8080"`
	Env        string `env:"ENV,         default=development"`
	LogLevel   string `env:"LOG_LEVEL,   default=info"`
	CORSOrigin string `env:"CORS_ORIGIN, default=*"`
	// StoreDriver selects the identity store: memory or mongo.
	StoreDriver string `env:"STORE_DRIVER, default=memory"`

	Auth      AuthConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Notifier  NotifierConfig
	Seed      SeedConfig
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET, required"`
	JWTIssuer  string        `env:"JWT_ISSUER,         default=madinti-api"`
	AccessTTL  time.Duration `env:"JWT_ACCESS_TTL,     default=15m"`
	RefreshTTL time.Duration `env:"JWT_REFRESH_TTL,    default=168h"`
	// IdentifierHashKey keys the CIN, phone and OTP digests. Rotating it
	// invalidates every stored lookup digest.
	IdentifierHashKey  string        `env:"IDENTIFIER_HASH_KEY, required"`
	OTPTTL             time.Duration `env:"OTP_TTL,              default=5m"`
	OTPMaxAttempts     int           `env:"OTP_MAX_ATTEMPTS,     default=3"`
	BcryptCost         int           `env:"BCRYPT_COST,          default=10"`
	RetainPlaintextCIN bool          `env:"RETAIN_PLAINTEXT_CIN, default=true"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=madinti"`
}

// RedisConfig is optional: an empty address disables the rate limiter.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type RateLimitConfig struct {
	Requests int           `env:"RATE_LIMIT_REQUESTS, default=100"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW,   default=15m"`
}

type NotifierConfig struct {
	Driver       string   `env:"NOTIFIER_DRIVER,  default=log"`
	Workers      int      `env:"NOTIFIER_WORKERS, default=4"`
	Buffer       int      `env:"NOTIFIER_BUFFER,  default=256"`
	KafkaBrokers []string `env:"KAFKA_BROKERS"`
	KafkaTopic   string   `env:"KAFKA_SMS_TOPIC,  default=sms.outbound"`
}

// SeedConfig provisions a staff account at startup when Email is set.
type SeedConfig struct {
	Email    string `env:"SEED_ADMIN_EMAIL"`
	Password string `env:"SEED_ADMIN_PASSWORD"`
	Phone    string `env:"SEED_ADMIN_PHONE, default=+212600000002"`
	FullName string `env:"SEED_ADMIN_NAME"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from an arbitrary lookuper, used by tests.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment reports whether pretty logging and dev defaults apply.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreMemory, StoreMongo:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.Notifier.Driver {
	case NotifierLog:
	case NotifierKafka:
		if len(c.Notifier.KafkaBrokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required when NOTIFIER_DRIVER=kafka")
		}
	default:
		return fmt.Errorf("unknown NOTIFIER_DRIVER %q", c.Notifier.Driver)
	}
	if c.Auth.OTPMaxAttempts <= 0 {
		return fmt.Errorf("OTP_MAX_ATTEMPTS must be positive")
	}
	if c.Seed.Email != "" && c.Seed.Password == "" {
		return fmt.Errorf("SEED_ADMIN_PASSWORD is required when SEED_ADMIN_EMAIL is set")
	}
	return nil
}
